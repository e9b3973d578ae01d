package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeMailer struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeMailer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func TestEmailConfirmer_ConfirmRegistration(t *testing.T) {
	mailer := &fakeMailer{}
	c := NewEmailConfirmer(mailer, "camp@example.com")
	camp, registration := testRegistration()
	registration.Email = "ama@example.com"

	require.NoError(t, c.ConfirmRegistration(context.Background(), camp, registration))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"<ama@example.com>"}, mailer.sent[0].GetToString())
	assert.Equal(t, []string{"Registration Successful"}, mailer.sent[0].GetGenHeader(mail.HeaderSubject))
}

func TestEmailConfirmer_Errors(t *testing.T) {
	camp, registration := testRegistration()

	err := NewEmailConfirmer(&fakeMailer{}, "camp@example.com").ConfirmRegistration(context.Background(), camp, registration)
	assert.ErrorContains(t, err, "no email address")

	registration.Email = "ama@example.com"
	assert.Error(t, NewEmailConfirmer(nil, "camp@example.com").ConfirmRegistration(context.Background(), camp, registration))

	failing := &fakeMailer{err: errors.New("connection refused")}
	err = NewEmailConfirmer(failing, "camp@example.com").ConfirmRegistration(context.Background(), camp, registration)
	assert.ErrorContains(t, err, "connection refused")
}

func TestConfirmationText(t *testing.T) {
	camp, registration := testRegistration()
	camp.Location = "Lakeside"
	camp.StartDate = time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	camp.EndDate = time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)

	text := confirmationText(camp, registration)
	assert.Contains(t, text, "Hi Ama Serwaa Mensah")
	assert.Contains(t, text, "Your registration for Summer Youth Camp is successful! Your camp code is ABC123.")
	assert.Contains(t, text, "Amount due: 212.50")
	assert.Contains(t, text, "Payment Pending")
	assert.Contains(t, text, "3 Aug 2026 to 8 Aug 2026")
	assert.Contains(t, text, "Location: Lakeside")
}

func TestNewSMTPClient(t *testing.T) {
	_, err := NewSMTPClient("", 587, "", "")
	assert.Error(t, err)

	client, err := NewSMTPClient("smtp.example.com", 587, "user", "secret")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
