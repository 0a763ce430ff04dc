package tenant

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, tenantID, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tenantID+".json"), []byte(content), 0o644))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, "default", `{"qna":{"service-times":"Sundays at 10am."},"routing":{}}`)
	return NewStore(dir, NewMemoryCache(0)), dir
}

func TestResolve_TenantFile(t *testing.T) {
	store, dir := newTestStore(t)
	writeConfig(t, dir, "gracechapel", `{
		"qna": {"service-times": "Sundays at 9am and 11am."},
		"routing": {"officeEmail": "office@gracechapel.org"}
	}`)

	cfg, err := store.Resolve(context.Background(), "gracechapel")
	require.NoError(t, err)

	answer, ok := cfg.Answer("service-times")
	require.True(t, ok)
	assert.Equal(t, "Sundays at 9am and 11am.", answer)
	assert.Equal(t, "office@gracechapel.org", cfg.Routing.OfficeEmail)
}

func TestResolve_UnknownTenantFallsBackToDefault(t *testing.T) {
	store, _ := newTestStore(t)

	cfg, err := store.Resolve(context.Background(), "unknown-church")
	require.NoError(t, err)

	defaultCfg, err := store.Resolve(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, defaultCfg, cfg)
}

func TestResolve_EmptyTenantIDUsesDefault(t *testing.T) {
	store, _ := newTestStore(t)

	cfg, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)

	answer, ok := cfg.Answer("service-times")
	require.True(t, ok)
	assert.Equal(t, "Sundays at 10am.", answer)
}

func TestResolve_MalformedTenantFileFallsBackToDefault(t *testing.T) {
	store, dir := newTestStore(t)
	writeConfig(t, dir, "broken", `{not json`)

	cfg, err := store.Resolve(context.Background(), "broken")
	require.NoError(t, err)

	_, ok := cfg.Answer("service-times")
	assert.True(t, ok, "fallback should carry the default qna")
}

func TestResolve_FallbackStickyUntilInvalidated(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	cfg, err := store.Resolve(ctx, "latecomer")
	require.NoError(t, err)
	_, hasLate := cfg.Answer("late-intent")
	assert.False(t, hasLate)

	// The tenant file appears after the first resolution. The cached
	// fallback keeps winning until the entry is dropped.
	writeConfig(t, dir, "latecomer", `{"qna":{"late-intent":"now available"},"routing":{}}`)

	cfg, err = store.Resolve(ctx, "latecomer")
	require.NoError(t, err)
	_, hasLate = cfg.Answer("late-intent")
	assert.False(t, hasLate, "cached fallback should still be served")

	require.NoError(t, store.Invalidate(ctx, "latecomer"))

	cfg, err = store.Resolve(ctx, "latecomer")
	require.NoError(t, err)
	answer, hasLate := cfg.Answer("late-intent")
	require.True(t, hasLate)
	assert.Equal(t, "now available", answer)
}

func TestResolve_UnsafeTenantIDFallsBackToDefault(t *testing.T) {
	store, _ := newTestStore(t)

	for _, id := range []string{"../default", "a/b", "x..y!", "with space"} {
		cfg, err := store.Resolve(context.Background(), id)
		require.NoError(t, err, "id %q", id)
		_, ok := cfg.Answer("service-times")
		assert.True(t, ok, "id %q should resolve to default", id)
	}
}

func TestResolve_MissingDefaultIsAnError(t *testing.T) {
	store := NewStore(t.TempDir(), NewMemoryCache(0))

	_, err := store.Resolve(context.Background(), "anyone")
	assert.Error(t, err)
}

func TestProbeDefault(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.ProbeDefault())

	empty := NewStore(t.TempDir(), NewMemoryCache(0))
	assert.Error(t, empty.ProbeDefault())
}

func TestAnswer_ExactMatchOnly(t *testing.T) {
	cfg := &Config{QnA: map[string]string{"service-times": "Sundays at 10am."}}

	_, ok := cfg.Answer("Service-Times")
	assert.False(t, ok, "lookup is case-sensitive")

	_, ok = cfg.Answer(" service-times ")
	assert.False(t, ok, "lookup does not trim")

	var nilCfg *Config
	_, ok = nilCfg.Answer("service-times")
	assert.False(t, ok)
}
