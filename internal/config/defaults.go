package config

const (
	defaultConfigPath             = "~/.config/submerge/config.toml"
	defaultLogDir                 = "~/.local/share/submerge/logs"
	defaultLookaheadRange         = 4
	defaultMaxParallelScores      = 6
	defaultSemanticBackend        = BackendLocal
	defaultLocalModel             = "hashed-porter2"
	defaultOpenAIModel            = "text-embedding-3-small"
	defaultOpenAIBaseURL          = "https://api.openai.com/v1"
	defaultLocalDimensions        = 512
	defaultSemanticTimeoutSeconds = 30
	defaultSemanticMaxRetries     = 2
	defaultSemanticCacheSize      = 4096
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Semantic backends.
const (
	BackendLocal  = "local"
	BackendOpenAI = "openai"
)

// DefaultStyles lists the dialogue styles kept when no filter is configured.
var DefaultStyles = []string{"Default", "Alternate", "DefaultAlt"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
			LogDir:   defaultLogDir,
		},
		Alignment: Alignment{
			LookaheadRange:    defaultLookaheadRange,
			MaxParallelScores: defaultMaxParallelScores,
		},
		Input: Input{
			Styles: append([]string(nil), DefaultStyles...),
		},
		Semantic: Semantic{
			Backend:        defaultSemanticBackend,
			Model:          defaultLocalModel,
			Dimensions:     defaultLocalDimensions,
			TimeoutSeconds: defaultSemanticTimeoutSeconds,
			MaxRetries:     defaultSemanticMaxRetries,
			CacheSize:      defaultSemanticCacheSize,
		},
		Store: Store{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
