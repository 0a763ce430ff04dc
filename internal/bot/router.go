package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/steeplechat/server/internal/notify"
	"github.com/steeplechat/server/internal/rewrite"
	"github.com/steeplechat/server/internal/tenant"
	logx "github.com/steeplechat/server/pkg/logger"
)

// IntentPrayerRequest is the special action name the widget sends for the
// prayer form. It is handled by routing, not by the Q&A table.
const IntentPrayerRequest = "prayer-request"

// Fixed acknowledgement strings. Returned unconditionally on their paths,
// independent of dispatch outcome.
const (
	AckPrayer  = "Thank you. Your prayer request has been sent to our prayer team."
	AckGeneric = "Thank you for your message. Someone from the church will follow up with you."
)

// Request is the POST /bot payload. Name, Email, and Phone are contact fields
// captured by the prayer form.
type Request struct {
	ChurchID string `json:"churchId,omitempty"`
	Intent   string `json:"intent,omitempty"`
	Message  string `json:"message,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Response is the POST /bot reply payload.
type Response struct {
	Response string `json:"response"`
}

// Config holds router settings sourced from the environment.
type Config struct {
	// FallbackEmail is the process-wide destination used when a tenant has
	// no routing address for a message category.
	FallbackEmail string `envconfig:"TARGET_EMAIL"`
}

// Router drives one request through config resolution, intent lookup,
// optional rewriting, and notification routing. Stateless across requests.
type Router struct {
	store         *tenant.Store
	rewriter      rewrite.Rewriter
	dispatcher    notify.Dispatcher
	fallbackEmail string
}

func NewRouter(store *tenant.Store, rewriter rewrite.Rewriter, dispatcher notify.Dispatcher, cfg Config) *Router {
	return &Router{
		store:         store,
		rewriter:      rewriter,
		dispatcher:    dispatcher,
		fallbackEmail: cfg.FallbackEmail,
	}
}

// Handle resolves the request to exactly one response string. At most one
// notification is dispatched per request. The only error path is a missing
// default tenant configuration.
func (r *Router) Handle(ctx context.Context, req Request) (Response, error) {
	cfg, err := r.store.Resolve(ctx, req.ChurchID)
	if err != nil {
		return Response{}, err
	}

	// 1) Known intents from the tenant's Q&A. An intent match wins outright,
	// even when a message is also present. No notification on this path.
	if req.Intent != "" {
		if answer, ok := cfg.Answer(req.Intent); ok {
			return Response{Response: r.rewriter.Rewrite(ctx, answer)}, nil
		}
	}

	// 2) Prayer request with a captured message. Prefer the prayer address,
	// then the office address, then the process-wide fallback.
	if req.Intent == IntentPrayerRequest && req.Message != "" {
		to := firstNonEmpty(cfg.Routing.PrayerEmail, cfg.Routing.OfficeEmail, r.fallbackEmail)
		n := notify.NewNotification(to, "New prayer request", prayerBody(req))
		outcome := r.dispatcher.Dispatch(ctx, n)
		logx.Info().
			Str("tenantID", req.ChurchID).
			Str("notificationID", n.ID).
			Str("outcome", string(outcome)).
			Msg("prayer request routed")
		return Response{Response: AckPrayer}, nil
	}

	// 3) Generic message fallback to the office.
	if req.Message != "" {
		to := firstNonEmpty(cfg.Routing.OfficeEmail, r.fallbackEmail)
		subject := fmt.Sprintf("New message via assistant from %s", valueOr(req.Email, "unknown"))
		n := notify.NewNotification(to, subject, req.Message)
		outcome := r.dispatcher.Dispatch(ctx, n)
		logx.Info().
			Str("tenantID", req.ChurchID).
			Str("notificationID", n.ID).
			Str("outcome", string(outcome)).
			Msg("office message routed")
		return Response{Response: AckGeneric}, nil
	}

	// 4) Nothing matched and nothing to route.
	return Response{Response: AckGeneric}, nil
}

func prayerBody(req Request) string {
	var b strings.Builder
	b.WriteString("From: " + valueOr(req.Name, "Unknown") + "\n")
	b.WriteString("Email: " + valueOr(req.Email, "N/A") + "\n")
	b.WriteString("Phone: " + valueOr(req.Phone, "N/A") + "\n")
	b.WriteString("\nRequest:\n")
	b.WriteString(req.Message)
	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
