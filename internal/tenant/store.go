package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	errx "github.com/steeplechat/server/internal/core/error"
	logx "github.com/steeplechat/server/pkg/logger"
)

// DefaultTenantID names the system-wide fallback configuration. Its file
// must exist; a missing default is a fatal condition.
const DefaultTenantID = "default"

// StoreConfig holds the tenant store settings sourced from the environment.
type StoreConfig struct {
	Dir      string `envconfig:"TENANT_CONFIG_DIR" default:"configs"`
	CacheTTL string `envconfig:"TENANT_CACHE_TTL" default:"5m"`
	Backend  string `envconfig:"TENANT_CACHE_BACKEND" default:"memory"`
}

// Store resolves tenant identifiers to configurations. Resolution order:
// cache, tenant-specific file, default file. Whatever resolves is written
// back to the cache under the requested identifier, so a fallback stays in
// effect until the cache entry expires or is invalidated.
type Store struct {
	dir   string
	cache Cache
}

func NewStore(dir string, cache Cache) *Store {
	return &Store{dir: dir, cache: cache}
}

// Resolve returns the configuration for the tenant, falling back to the
// default configuration when the tenant has none. It only fails when the
// default configuration itself cannot be loaded.
func (s *Store) Resolve(ctx context.Context, tenantID string) (*Config, error) {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}

	if cfg, ok, err := s.cache.Get(ctx, tenantID); err != nil {
		logx.Warn().Err(err).Str("tenantID", tenantID).Msg("tenant cache read failed, reloading from disk")
	} else if ok {
		return cfg, nil
	}

	cfg, err := s.loadFile(tenantID)
	if err != nil {
		if tenantID == DefaultTenantID {
			return nil, errx.WrapTenantConfig(err)
		}
		logx.Warn().Err(err).Str("tenantID", tenantID).Msg("tenant config unavailable, falling back to default")
		cfg, err = s.loadFile(DefaultTenantID)
		if err != nil {
			return nil, errx.WrapTenantConfig(err)
		}
	}

	if err := s.cache.Set(ctx, tenantID, cfg); err != nil {
		logx.Warn().Err(err).Str("tenantID", tenantID).Msg("tenant cache write failed")
	}
	return cfg, nil
}

// Invalidate drops the cached entry for the tenant so the next Resolve hits
// durable storage again.
func (s *Store) Invalidate(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return s.cache.Delete(ctx, tenantID)
}

// ProbeDefault verifies the default configuration loads. Run at startup so a
// broken deployment fails before serving.
func (s *Store) ProbeDefault() error {
	if _, err := s.loadFile(DefaultTenantID); err != nil {
		return fmt.Errorf("default tenant config: %w", err)
	}
	return nil
}

func (s *Store) loadFile(tenantID string) (*Config, error) {
	if !validTenantID(tenantID) {
		return nil, fmt.Errorf("invalid tenant id %q", tenantID)
	}
	path := filepath.Join(s.dir, tenantID+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// validTenantID restricts identifiers to a filename-safe charset. Anything
// else is treated as a tenant with no configuration file.
func validTenantID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_') {
			return false
		}
	}
	return true
}
