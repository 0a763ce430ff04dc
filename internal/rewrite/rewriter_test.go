package rewrite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	msg   *schema.Message
	err   error
	calls int
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	return f.msg, f.err
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestNoop_IsIdentity(t *testing.T) {
	r := Noop{}
	ctx := context.Background()

	for _, input := range []string{"", "  ", "Sundays at 10am.", "multi\nline\ntext"} {
		assert.Equal(t, input, r.Rewrite(ctx, input))
	}
}

func TestNew_NoAPIKeyReturnsNoop(t *testing.T) {
	r, err := New(context.Background(), Config{Timeout: "10s"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, r)
}

func TestModelRewriter_ReturnsCompletion(t *testing.T) {
	fake := &fakeChatModel{msg: schema.AssistantMessage("  Services are Sundays at 10am.  ", nil)}
	r := NewModelRewriter(fake, time.Second)

	got := r.Rewrite(context.Background(), "svc @ 10")
	assert.Equal(t, "Services are Sundays at 10am.", got)
	assert.Equal(t, 1, fake.calls)
}

func TestModelRewriter_ErrorDegradesToOriginal(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("upstream unavailable")}
	r := NewModelRewriter(fake, time.Second)

	assert.Equal(t, "original", r.Rewrite(context.Background(), "original"))
}

func TestModelRewriter_EmptyCompletionDegradesToOriginal(t *testing.T) {
	for _, msg := range []*schema.Message{
		nil,
		schema.AssistantMessage("", nil),
		schema.AssistantMessage("   \n ", nil),
	} {
		fake := &fakeChatModel{msg: msg}
		r := NewModelRewriter(fake, time.Second)
		assert.Equal(t, "original", r.Rewrite(context.Background(), "original"))
	}
}

func TestModelRewriter_BlankInputSkipsModel(t *testing.T) {
	fake := &fakeChatModel{msg: schema.AssistantMessage("should not be used", nil)}
	r := NewModelRewriter(fake, time.Second)

	assert.Equal(t, "", r.Rewrite(context.Background(), ""))
	assert.Equal(t, "   ", r.Rewrite(context.Background(), "   "))
	assert.Equal(t, 0, fake.calls)
}
