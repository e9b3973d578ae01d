package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/wneessen/go-mail"
)

// Confirmer tells a registrant their registration went through.
type Confirmer interface {
	ConfirmRegistration(ctx context.Context, camp models.Camp, registration models.Registration) error
}

// MailSender is the slice of *mail.Client the confirmer needs.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type EmailConfirmer struct {
	client MailSender
	from   string
}

func NewEmailConfirmer(client MailSender, from string) *EmailConfirmer {
	return &EmailConfirmer{client: client, from: from}
}

// NewSMTPClient builds a client for host:port. Authentication is only
// negotiated when a username is given.
func NewSMTPClient(host string, port int, username, password string) (*mail.Client, error) {
	if host == "" {
		return nil, errors.New("smtp host is empty")
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	return mail.NewClient(host, opts...)
}

func (c *EmailConfirmer) ConfirmRegistration(ctx context.Context, camp models.Camp, registration models.Registration) error {
	if c.client == nil {
		return fmt.Errorf("smtp client is nil")
	}
	if registration.Email == "" {
		return fmt.Errorf("registration %s has no email address", registration.ID)
	}

	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(registration.Email); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject("Registration Successful")
	msg.SetBodyString(mail.TypeTextPlain, confirmationText(camp, registration))

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending confirmation email: %w", err)
	}
	return nil
}

func confirmationText(camp models.Camp, registration models.Registration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", registration.FullName())
	fmt.Fprintf(&b, "Your registration for %s is successful! Your camp code is %s.\n\n", camp.Name, registration.CamperCode)
	fmt.Fprintf(&b, "Amount due: %s\n", registration.TotalAmount.StringFixed(2))
	if registration.HasPaid {
		b.WriteString("Payment status: Paid\n")
	} else {
		b.WriteString("Payment status: Payment Pending\n")
	}
	fmt.Fprintf(&b, "Camp dates: %s to %s\n", camp.StartDate.Format("2 Jan 2006"), camp.EndDate.Format("2 Jan 2006"))
	if camp.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", camp.Location)
	}
	return b.String()
}
