package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/camp-registration-api/internal/models"
)

type Notifier interface {
	NotifyRegistration(ctx context.Context, camp models.Camp, registration models.Registration) error
}

// MessageSender is the slice of *discordgo.Session the notifier needs.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordSession opens a bot session for token.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.New("discord bot token is empty")
	}
	return discordgo.New("Bot " + token)
}

func (n *DiscordNotifier) NotifyRegistration(ctx context.Context, camp models.Camp, registration models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, registrationMessage(camp, registration), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending discord message: %w", err)
	}
	return nil
}

func registrationMessage(camp models.Camp, registration models.Registration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏕️ **New Registration** for **%s**\n", camp.Name)
	fmt.Fprintf(&b, "**Camper:** %s (%s)\n", registration.FullName(), registration.CamperCode)
	fmt.Fprintf(&b, "**Age:** %d\n", registration.Age)
	fmt.Fprintf(&b, "**Amount due:** %s", registration.TotalAmount.StringFixed(2))
	if registration.RegistrationLinkID != nil {
		b.WriteString("\n**Via:** registration link")
	}
	return b.String()
}
