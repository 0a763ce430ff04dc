package notify

import (
	"context"

	"github.com/google/uuid"
)

// Outcome classifies a dispatch attempt. The end user never sees it; it is
// logged and metered so operators can spot silent delivery failures.
type Outcome string

const (
	// OutcomeDelivered means the transport accepted the message.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSkipped means no attempt was made (no destination or no transport).
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the single delivery attempt errored.
	OutcomeFailed Outcome = "failed"
)

// Notification is one fire-once, best-effort message to staff. It is not
// queued, not retried, and not persisted.
type Notification struct {
	ID          string
	Destination string
	Subject     string
	Body        string
}

// NewNotification builds a Notification with a fresh ID for log correlation.
func NewNotification(destination, subject, body string) Notification {
	return Notification{
		ID:          uuid.NewString(),
		Destination: destination,
		Subject:     subject,
		Body:        body,
	}
}

// Dispatcher attempts delivery of a notification. Implementations absorb all
// failures: the returned Outcome is informational and never aborts the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) Outcome
}
