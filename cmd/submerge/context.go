package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"submerge/internal/align"
	"submerge/internal/config"
	"submerge/internal/logging"
	"submerge/internal/services"
	"submerge/internal/services/embeddings"
	"submerge/internal/similarity"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verboseFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verboseFlag:  verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.levelOverride(); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = fmt.Errorf("--log-level: %w", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) levelOverride() string {
	if c.verboseFlag != nil && *c.verboseFlag {
		return "debug"
	}
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

func (c *commandContext) logger() (*config.Config, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func newEmbedder(cfg *config.Config) (similarity.Embedder, error) {
	switch cfg.Semantic.Backend {
	case config.BackendLocal:
		return similarity.NewHashedEmbedder(cfg.Semantic.Dimensions), nil
	case config.BackendOpenAI:
		return embeddings.NewClient(embeddings.Config{
			APIKey:         cfg.Semantic.APIKey,
			BaseURL:        cfg.Semantic.BaseURL,
			Model:          cfg.Semantic.Model,
			Dimensions:     cfg.Semantic.Dimensions,
			TimeoutSeconds: cfg.Semantic.TimeoutSeconds,
			MaxRetries:     cfg.Semantic.MaxRetries,
		}), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "semantic", "backend", fmt.Sprintf("unsupported backend %q", cfg.Semantic.Backend), nil)
	}
}

// semanticScorer builds the embedding-backed oracle selected by
// cfg.Semantic.Backend, memoizing vectors for the lifetime of the command.
func semanticScorer(cfg *config.Config, logger *slog.Logger) (*similarity.Semantic, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	return similarity.NewSemantic(
		embedder,
		similarity.WithCache(similarity.NewVectorCache(cfg.Semantic.CacheSize)),
		similarity.WithLogger(logger),
	), nil
}

func newEngine(cfg *config.Config, semantic align.Scorer, logger *slog.Logger) (*align.Engine, error) {
	engine, err := align.NewEngine(similarity.NewLexical(logger), semantic, align.Config{
		Lookahead:         cfg.Alignment.LookaheadRange,
		EvaluateFinalLine: cfg.Alignment.EvaluateFinalLine,
		MaxParallel:       cfg.Alignment.MaxParallelScores,
		OracleTimeout:     cfg.SemanticTimeout(),
	}, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "align", "build engine", "", err)
	}
	return engine, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
