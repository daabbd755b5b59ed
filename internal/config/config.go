// Package config provides configuration management for the imagery search service.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the complete application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Search   SearchConfig   `envPrefix:"SEARCH_"`
	UP42     UP42Config     `envPrefix:"UP42_"`
	EOS      EOSConfig      `envPrefix:"EOS_"`
	HEAD     HEADConfig     `envPrefix:"HEAD_"`
	Maxar    MaxarConfig    `envPrefix:"MAXAR_"`
	OAM      OAMConfig      `envPrefix:"OAM_"`
	SkyFi    SkyFiConfig    `envPrefix:"SKYFI_"`
	SkyWatch SkyWatchConfig `envPrefix:"SKYWATCH_"`
	Arlula   ArlulaConfig   `envPrefix:"ARLULA_"`
	STAC     STACConfig     `envPrefix:"STAC_"`
	Logging  LoggingConfig  `envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"300s"` // blocking searches may poll for minutes
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// SearchConfig contains orchestrator settings.
type SearchConfig struct {
	// StatusExpiry is how long a finished provider status stays visible.
	StatusExpiry time.Duration `env:"STATUS_EXPIRY" envDefault:"5s"`

	// RunTTL is how long finished runs stay retrievable over HTTP.
	RunTTL time.Duration `env:"RUN_TTL" envDefault:"15m"`

	// DefaultLookback is the start date offset used when a request has none.
	DefaultLookback time.Duration `env:"DEFAULT_LOOKBACK" envDefault:"8760h"`
}

// ProviderConfig is shared by every provider section.
// Credentials here are defaults; callers may supply their own per search.
type ProviderConfig struct {
	Enabled    bool   `env:"ENABLED" envDefault:"true"`
	MaxPages   int    `env:"MAX_PAGES" envDefault:"20"`
	APIKey     string `env:"API_KEY" envDefault:""`
	Secret     string `env:"SECRET" envDefault:""`
	ProjectID  string `env:"PROJECT_ID" envDefault:""`
	ProjectKey string `env:"PROJECT_KEY" envDefault:""`
	Token      string `env:"TOKEN" envDefault:""`
}

// UP42Config contains UP42 client configuration.
type UP42Config struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.up42.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ProviderConfig

	// TokenCacheSize bounds the number of cached project tokens.
	TokenCacheSize int `env:"TOKEN_CACHE_SIZE" envDefault:"128"`
}

// EOSConfig contains EOS client configuration.
type EOSConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.eos.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"20s"`
	ProviderConfig
}

// HEADConfig contains HEAD Aerospace client configuration.
type HEADConfig struct {
	BaseURL  string        `env:"BASE_URL" envDefault:"https://catalog.head-aerospace.eu"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"60s"`
	Category string        `env:"CATEGORY" envDefault:"scenesearch"`
	ProviderConfig
}

// MaxarConfig contains Maxar client configuration.
type MaxarConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.maxar.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ProviderConfig
}

// OAMConfig contains OpenAerialMap client configuration.
type OAMConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.openaerialmap.org"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Limit   int           `env:"LIMIT" envDefault:"100"`
	ProviderConfig
}

// SkyFiConfig contains SkyFi client configuration.
type SkyFiConfig struct {
	BaseURL  string        `env:"BASE_URL" envDefault:"https://app.skyfi.com/platform-api"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"60s"`
	PageSize int           `env:"PAGE_SIZE" envDefault:"25"`
	ProviderConfig
}

// SkyWatchConfig contains SkyWatch client configuration.
type SkyWatchConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.skywatch.co/earthcache"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// Polling of asynchronous search jobs.
	PollAttempts     int           `env:"POLL_ATTEMPTS" envDefault:"8"`
	PollInitialDelay time.Duration `env:"POLL_INITIAL_DELAY" envDefault:"1s"`
	PollMultiplier   float64       `env:"POLL_MULTIPLIER" envDefault:"2"`
	ProviderConfig
}

// ArlulaConfig contains Arlula client configuration.
type ArlulaConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.arlula.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ProviderConfig
}

// STACConfig contains generic STAC API client configuration.
type STACConfig struct {
	BaseURL     string        `env:"BASE_URL" envDefault:"https://earth-search.aws.element84.com/v1"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Collections []string      `env:"COLLECTIONS" envDefault:"sentinel-2-l2a" envSeparator:","`
	Limit       int           `env:"LIMIT" envDefault:"100"`
	SortBy      string        `env:"SORTBY" envDefault:"-properties.datetime"`
	ProviderConfig
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load reads an optional .env file, then parses configuration from
// environment variables. Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses configuration from environment variables only.
func Parse() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		RequiredIfNoDef: true,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	if c.Search.StatusExpiry <= 0 {
		return fmt.Errorf("status expiry must be positive, got %s", c.Search.StatusExpiry)
	}

	if c.Search.RunTTL <= 0 {
		return fmt.Errorf("run TTL must be positive, got %s", c.Search.RunTTL)
	}

	endpoints := []struct {
		name     string
		baseURL  string
		timeout  time.Duration
		maxPages int
	}{
		{"UP42", c.UP42.BaseURL, c.UP42.Timeout, c.UP42.MaxPages},
		{"EOS", c.EOS.BaseURL, c.EOS.Timeout, c.EOS.MaxPages},
		{"HEAD", c.HEAD.BaseURL, c.HEAD.Timeout, c.HEAD.MaxPages},
		{"Maxar", c.Maxar.BaseURL, c.Maxar.Timeout, c.Maxar.MaxPages},
		{"OAM", c.OAM.BaseURL, c.OAM.Timeout, c.OAM.MaxPages},
		{"SkyFi", c.SkyFi.BaseURL, c.SkyFi.Timeout, c.SkyFi.MaxPages},
		{"SkyWatch", c.SkyWatch.BaseURL, c.SkyWatch.Timeout, c.SkyWatch.MaxPages},
		{"Arlula", c.Arlula.BaseURL, c.Arlula.Timeout, c.Arlula.MaxPages},
		{"STAC", c.STAC.BaseURL, c.STAC.Timeout, c.STAC.MaxPages},
	}
	for _, e := range endpoints {
		if e.baseURL == "" {
			return fmt.Errorf("%s base URL is required", e.name)
		}
		if e.timeout <= 0 {
			return fmt.Errorf("%s timeout must be positive, got %s", e.name, e.timeout)
		}
		if e.maxPages < 1 {
			return fmt.Errorf("%s max pages must be at least 1, got %d", e.name, e.maxPages)
		}
	}

	if c.SkyFi.PageSize < 1 {
		return fmt.Errorf("SkyFi page size must be at least 1, got %d", c.SkyFi.PageSize)
	}

	if c.SkyWatch.PollAttempts < 1 {
		return fmt.Errorf("SkyWatch poll attempts must be at least 1, got %d", c.SkyWatch.PollAttempts)
	}

	if c.SkyWatch.PollInitialDelay <= 0 {
		return fmt.Errorf("SkyWatch poll initial delay must be positive, got %s", c.SkyWatch.PollInitialDelay)
	}

	if c.SkyWatch.PollMultiplier < 1 {
		return fmt.Errorf("SkyWatch poll multiplier must be at least 1, got %g", c.SkyWatch.PollMultiplier)
	}

	if c.UP42.TokenCacheSize < 1 {
		return fmt.Errorf("UP42 token cache size must be at least 1, got %d", c.UP42.TokenCacheSize)
	}

	if c.HEAD.Category == "" {
		return fmt.Errorf("HEAD category is required")
	}

	if c.OAM.Limit < 1 || c.STAC.Limit < 1 {
		return fmt.Errorf("OAM and STAC limits must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
