package config

import (
	"errors"
	"fmt"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateSemantic(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if c.Alignment.LookaheadRange < 1 {
		return errors.New("alignment.lookahead_range must be >= 1")
	}
	if c.Alignment.MaxParallelScores < 1 {
		return errors.New("alignment.max_parallel_scores must be >= 1")
	}
	return nil
}

func (c *Config) validateSemantic() error {
	switch c.Semantic.Backend {
	case BackendLocal:
		if c.Semantic.Dimensions <= 0 {
			return errors.New("semantic.dimensions must be positive for the local backend")
		}
	case BackendOpenAI:
		if c.Semantic.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = defaultConfigPath
			}
			return fmt.Errorf("semantic.api_key is required for the openai backend. Set OPENAI_API_KEY env var or edit %s (create with 'submerge config init')", defaultPath)
		}
		if c.Semantic.Dimensions < 0 {
			return errors.New("semantic.dimensions must not be negative")
		}
	default:
		return fmt.Errorf("semantic.backend: unsupported value %q (want %q or %q)", c.Semantic.Backend, BackendLocal, BackendOpenAI)
	}
	if err := ensurePositiveMap(map[string]int{
		"semantic.timeout_seconds": c.Semantic.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Semantic.MaxRetries < 0 {
		return errors.New("semantic.max_retries must not be negative")
	}
	if c.Semantic.CacheSize < 0 {
		return errors.New("semantic.cache_size must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	components := make([]string, 0, len(c.Logging.ComponentLevels))
	for component := range c.Logging.ComponentLevels {
		components = append(components, component)
	}
	sort.Strings(components)
	for _, component := range components {
		if level := c.Logging.ComponentLevels[component]; !validLevel(level) {
			return fmt.Errorf("logging.component_levels.%s: unsupported value %q", component, level)
		}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
