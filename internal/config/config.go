package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Alignment contains the knobs of the alignment walk.
type Alignment struct {
	// LookaheadRange bounds how many consecutive lines a split or merge
	// candidate may span.
	LookaheadRange int `toml:"lookahead_range"`
	// EvaluateFinalLine lets the walk reach the last original line instead of
	// stopping one short of it.
	EvaluateFinalLine bool `toml:"evaluate_final_line"`
	// MaxParallelScores caps concurrent similarity calls within one step.
	MaxParallelScores int `toml:"max_parallel_scores"`
}

// Input controls which subtitle events are fed to the aligner.
type Input struct {
	Styles       []string `toml:"styles"`
	KeepComments bool     `toml:"keep_comments"`
}

// Semantic configures the embedding backend behind the semantic oracle.
type Semantic struct {
	Backend        string `toml:"backend"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Dimensions     int    `toml:"dimensions"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	CacheSize      int    `toml:"cache_size"`
}

// Store configures run persistence.
type Store struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	ComponentLevels map[string]string `toml:"component_levels"`
}

// Config encapsulates all configuration values for submerge.
//
// Configuration sections by subsystem:
//   - Paths: run store and log directories
//   - Alignment: lookahead window, final-line policy, per-step parallelism
//   - Input: style and comment filters applied to loaded subtitles
//   - Semantic: embedding backend (local hashing or OpenAI-compatible API)
//   - Store: run persistence toggle
//   - Logging: log format, level, and per-component levels
type Config struct {
	Paths     Paths     `toml:"paths"`
	Alignment Alignment `toml:"alignment"`
	Input     Input     `toml:"input"`
	Semantic  Semantic  `toml:"semantic"`
	Store     Store     `toml:"store"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("submerge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the sqlite run database.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.StateDir, "runs.db")
}

// SemanticTimeout returns the per-call deadline for the semantic oracle.
func (c *Config) SemanticTimeout() time.Duration {
	if c.Semantic.TimeoutSeconds <= 0 {
		return time.Duration(defaultSemanticTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Semantic.TimeoutSeconds) * time.Second
}

// UseBackend switches the semantic backend, re-applying that backend's
// defaults before validating the result.
func (c *Config) UseBackend(name string) error {
	c.Semantic.Backend = name
	c.normalizeSemantic()
	return c.validateSemantic()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "submerge")
	}
	return "~/.local/state/submerge"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
