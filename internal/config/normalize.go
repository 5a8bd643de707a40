package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeInput()
	c.normalizeSemantic()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeInput() {
	styles := make([]string, 0, len(c.Input.Styles))
	for _, style := range c.Input.Styles {
		style = strings.TrimSpace(style)
		if style == "" || slices.Contains(styles, style) {
			continue
		}
		styles = append(styles, style)
	}
	if len(styles) == 0 {
		styles = append(styles, DefaultStyles...)
	}
	c.Input.Styles = styles
}

func (c *Config) normalizeSemantic() {
	c.Semantic.Backend = strings.ToLower(strings.TrimSpace(c.Semantic.Backend))
	if c.Semantic.Backend == "" {
		c.Semantic.Backend = defaultSemanticBackend
	}
	c.Semantic.Model = strings.TrimSpace(c.Semantic.Model)
	c.Semantic.BaseURL = strings.TrimSpace(c.Semantic.BaseURL)
	c.Semantic.APIKey = strings.TrimSpace(c.Semantic.APIKey)

	switch c.Semantic.Backend {
	case BackendOpenAI:
		if c.Semantic.Model == "" || c.Semantic.Model == defaultLocalModel {
			c.Semantic.Model = defaultOpenAIModel
		}
		if c.Semantic.BaseURL == "" {
			c.Semantic.BaseURL = defaultOpenAIBaseURL
		}
		if c.Semantic.APIKey == "" {
			if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.Semantic.APIKey = strings.TrimSpace(value)
			}
		}
		// Remote models pick their own width unless told otherwise.
		if c.Semantic.Dimensions == defaultLocalDimensions {
			c.Semantic.Dimensions = 0
		}
	case BackendLocal:
		if c.Semantic.Model == "" {
			c.Semantic.Model = defaultLocalModel
		}
		if c.Semantic.Dimensions == 0 {
			c.Semantic.Dimensions = defaultLocalDimensions
		}
	}
	if c.Semantic.TimeoutSeconds == 0 {
		c.Semantic.TimeoutSeconds = defaultSemanticTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if len(c.Logging.ComponentLevels) > 0 {
		levels := make(map[string]string, len(c.Logging.ComponentLevels))
		for component, level := range c.Logging.ComponentLevels {
			component = strings.ToLower(strings.TrimSpace(component))
			if component == "" {
				continue
			}
			levels[component] = strings.ToLower(strings.TrimSpace(level))
		}
		c.Logging.ComponentLevels = levels
	}
}
