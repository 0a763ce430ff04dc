package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	logx "github.com/steeplechat/server/pkg/logger"
)

// SMTPConfig holds the mail transport settings sourced from the environment.
// Host, User, and Pass must all be present for the transport to be usable.
type SMTPConfig struct {
	Host    string `envconfig:"SMTP_HOST"`
	Port    int    `envconfig:"SMTP_PORT" default:"587"`
	User    string `envconfig:"SMTP_USER"`
	Pass    string `envconfig:"SMTP_PASS"`
	From    string `envconfig:"SMTP_FROM"`
	Timeout string `envconfig:"SMTP_TIMEOUT" default:"15s"`
}

// Configured reports whether the transport has everything it needs to send.
func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

// Sender returns the from-address, defaulting to the SMTP user.
func (c *SMTPConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.User
}

// SMTPMailer delivers notifications over SMTP. A missing destination or an
// unconfigured transport is a logged no-op, and a transport error is logged
// but never propagated: the caller's response is unaffected either way.
type SMTPMailer struct {
	cfg     SMTPConfig
	timeout time.Duration
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_TIMEOUT %q: %w", cfg.Timeout, err)
	}
	return &SMTPMailer{cfg: cfg, timeout: timeout}, nil
}

func (m *SMTPMailer) Dispatch(ctx context.Context, n Notification) Outcome {
	if n.Destination == "" || !m.cfg.Configured() {
		logx.Warn().Str("notificationID", n.ID).Msg("notification not sent - SMTP or target not configured")
		record(OutcomeSkipped)
		return OutcomeSkipped
	}

	outcome := m.send(ctx, n)
	record(outcome)
	return outcome
}

func (m *SMTPMailer) send(ctx context.Context, n Notification) Outcome {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender()); err != nil {
		logx.Error().Err(err).Str("notificationID", n.ID).Msg("invalid from address")
		return OutcomeFailed
	}
	if err := msg.To(n.Destination); err != nil {
		logx.Error().Err(err).Str("notificationID", n.ID).Str("destination", n.Destination).Msg("invalid destination address")
		return OutcomeFailed
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Pass),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.timeout),
	)
	if err != nil {
		logx.Error().Err(err).Str("notificationID", n.ID).Msg("failed to create mail client")
		return OutcomeFailed
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		logx.Error().Err(err).Str("notificationID", n.ID).Str("destination", n.Destination).Msg("notification delivery failed")
		return OutcomeFailed
	}

	logx.Info().Str("notificationID", n.ID).Str("destination", n.Destination).Msg("notification delivered")
	return OutcomeDelivered
}

var _ Dispatcher = (*SMTPMailer)(nil)
