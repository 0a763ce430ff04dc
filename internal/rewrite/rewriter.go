package rewrite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	logx "github.com/steeplechat/server/pkg/logger"
)

// Config holds the rewriting settings sourced from the environment. An empty
// APIKey disables rewriting entirely.
type Config struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY"`
	BaseURL     string  `envconfig:"GEMINI_BASE_URL"`
	Model       string  `envconfig:"REWRITE_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"REWRITE_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"REWRITE_TEMPERATURE" default:"0"`
	Timeout     string  `envconfig:"REWRITE_TIMEOUT" default:"10s"`
}

// Rewriter adjusts an answer's phrasing before it is returned to the user.
// Implementations never fail outward: on any problem the original text comes
// back unchanged.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) string
}

// Noop is the identity rewriter used when no rewriting capability is
// configured.
type Noop struct{}

func (Noop) Rewrite(_ context.Context, text string) string { return text }

// The system instruction constrains the model to clarity-only edits.
const systemPrompt = "You rewrite short informational answers for clarity only. " +
	"Do NOT add theology, claims about God, advice, promises, or anything beyond what is given."

const userPromptPrefix = "Rewrite this answer for clarity only. Do not add or change the meaning:\n\n"

// ModelRewriter rewrites answers through a chat model. Every call is bounded
// by a timeout and degrades to the original text on error, expiry, or an
// empty completion.
type ModelRewriter struct {
	chat    model.BaseChatModel
	timeout time.Duration
}

// NewModelRewriter wraps an already-built chat model. Exposed for tests and
// alternative model wiring.
func NewModelRewriter(chat model.BaseChatModel, timeout time.Duration) *ModelRewriter {
	return &ModelRewriter{chat: chat, timeout: timeout}
}

// New builds a Rewriter from the configuration: Noop when no API key is set,
// a Gemini-backed ModelRewriter otherwise.
func New(ctx context.Context, cfg Config) (Rewriter, error) {
	if cfg.APIKey == "" {
		logx.Info().Msg("rewriting disabled, answers returned verbatim")
		return Noop{}, nil
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid REWRITE_TIMEOUT %q: %w", cfg.Timeout, err)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating rewrite model")
		return nil, fmt.Errorf("error creating rewrite model: %w", err)
	}

	return NewModelRewriter(chatModel, timeout), nil
}

func (r *ModelRewriter) Rewrite(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	msg, err := r.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPromptPrefix + text),
	})
	if err != nil {
		logx.Warn().Err(err).Msg("rewrite failed, returning original answer")
		return text
	}
	if msg == nil {
		logx.Warn().Msg("rewrite returned no message, returning original answer")
		return text
	}

	out := strings.TrimSpace(msg.Content)
	if out == "" {
		logx.Warn().Msg("rewrite returned empty content, returning original answer")
		return text
	}
	return out
}

var (
	_ Rewriter = Noop{}
	_ Rewriter = (*ModelRewriter)(nil)
)
