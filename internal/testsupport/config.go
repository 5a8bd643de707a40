package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"submerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp directory per test.
// The run store lives under it, file logging is off and console logging only
// reports errors.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLookahead overrides alignment.lookahead_range.
func WithLookahead(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.LookaheadRange = n
	}
}

// WithStoreDisabled turns run persistence off.
func WithStoreDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Enabled = false
	}
}

// WithLogDir enables file logging inside the temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "logs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir log dir: %v", err)
		}
		b.cfg.Paths.LogDir = dir
	}
}

// WithOpenAIBackend points the semantic oracle at an OpenAI-compatible
// endpoint, typically an httptest server.
func WithOpenAIBackend(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Semantic.Backend = config.BackendOpenAI
		b.cfg.Semantic.Model = "text-embedding-3-small"
		b.cfg.Semantic.BaseURL = baseURL
		b.cfg.Semantic.APIKey = apiKey
		b.cfg.Semantic.Dimensions = 0
		b.cfg.Semantic.MaxRetries = 0
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WriteConfigFile encodes cfg as TOML next to its state directory and returns
// the file path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
