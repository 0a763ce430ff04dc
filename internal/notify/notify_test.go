package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	n := NewNotification("office@example.org", "subject", "body")

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "office@example.org", n.Destination)
	assert.Equal(t, "subject", n.Subject)
	assert.Equal(t, "body", n.Body)

	other := NewNotification("office@example.org", "subject", "body")
	assert.NotEqual(t, n.ID, other.ID)
}

func TestSMTPConfig_Configured(t *testing.T) {
	assert.False(t, (&SMTPConfig{}).Configured())
	assert.False(t, (&SMTPConfig{Host: "smtp.example.org", User: "u"}).Configured())
	assert.True(t, (&SMTPConfig{Host: "smtp.example.org", User: "u", Pass: "p"}).Configured())
}

func TestSMTPConfig_Sender(t *testing.T) {
	cfg := &SMTPConfig{User: "bot@example.org"}
	assert.Equal(t, "bot@example.org", cfg.Sender())

	cfg.From = "noreply@example.org"
	assert.Equal(t, "noreply@example.org", cfg.Sender())
}

func TestNewSMTPMailer_InvalidTimeout(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Timeout: "soon"})
	assert.Error(t, err)
}

func TestDispatch_SkipsWhenTransportNotConfigured(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Timeout: "1s"})
	require.NoError(t, err)

	outcome := m.Dispatch(context.Background(), NewNotification("office@example.org", "s", "b"))
	assert.Equal(t, OutcomeSkipped, outcome)
}

func TestDispatch_SkipsWhenDestinationEmpty(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{
		Host:    "smtp.example.org",
		User:    "u",
		Pass:    "p",
		Timeout: "1s",
	})
	require.NoError(t, err)

	outcome := m.Dispatch(context.Background(), NewNotification("", "s", "b"))
	assert.Equal(t, OutcomeSkipped, outcome)
}

func TestDispatch_FailsOnBadAddresses(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{
		Host:    "smtp.example.org",
		User:    "u",
		Pass:    "p",
		From:    "not an address",
		Timeout: "1s",
	})
	require.NoError(t, err)

	outcome := m.Dispatch(context.Background(), NewNotification("office@example.org", "s", "b"))
	assert.Equal(t, OutcomeFailed, outcome)
}
