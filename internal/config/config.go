package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds every runtime parameter of the crawler. Values are set
// through the With* builder methods or layered in from a JSON file and
// the environment, then frozen by Build().
type Config struct {
	//===============
	// Frontier store / recipe store
	//===============
	redisLinksURL   string
	redisRecipesURL string

	//===============
	// Downloader
	//===============
	proxyURL  string
	certFile  string
	timeout   time.Duration
	userAgent string

	//===============
	// Domain gate (C3)
	//===============
	domainGateBaseDelay time.Duration
	domainGateJitter    time.Duration

	//===============
	// Scheduler (C8)
	//===============
	globalConcurrency int
	tickInterval      time.Duration
	randomSeed        int64

	//===============
	// Retry / backoff (pkg/retry)
	//===============
	maxAttempt             int
	backoffInitialDuration time.Duration
	backoffMultiplier      float64
	backoffMaxDuration     time.Duration

	//===============
	// Blacklist (C1)
	//===============
	blacklistFile string

	//===============
	// Observability / ops
	//===============
	port     int
	logLevel string

	//===============
	// Stats writer
	//===============
	statsDBURL string
}

// configDTO mirrors Config for JSON decoding and environment overlay.
// Struct tags name both the JSON key and the env var (via caarlos0/env).
type configDTO struct {
	RedisLinksURL   string `json:"redisLinksUrl,omitempty" env:"REDIS_LINKS_URL"`
	RedisRecipesURL string `json:"redisRecipesUrl,omitempty" env:"REDIS_RECIPES_URL"`

	ProxyURL  string        `json:"proxyUrl,omitempty" env:"PROXY_URL"`
	CertFile  string        `json:"certFile,omitempty" env:"CRT_FILE"`
	Timeout   time.Duration `json:"timeout,omitempty" env:"FETCH_TIMEOUT"`
	UserAgent string        `json:"userAgent,omitempty" env:"USER_AGENT"`

	DomainGateBaseDelay time.Duration `json:"domainGateBaseDelay,omitempty" env:"DOMAIN_GATE_BASE_DELAY"`
	DomainGateJitter    time.Duration `json:"domainGateJitter,omitempty" env:"DOMAIN_GATE_JITTER"`

	GlobalConcurrency int           `json:"globalConcurrency,omitempty" env:"GLOBAL_CONCURRENCY"`
	TickInterval      time.Duration `json:"tickInterval,omitempty" env:"TICK_INTERVAL"`
	RandomSeed        int64         `json:"randomSeed,omitempty" env:"RANDOM_SEED"`

	MaxAttempt             int           `json:"maxAttempt,omitempty" env:"MAX_ATTEMPT"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty" env:"BACKOFF_INITIAL_DURATION"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty" env:"BACKOFF_MULTIPLIER"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty" env:"BACKOFF_MAX_DURATION"`

	BlacklistFile string `json:"blacklistFile,omitempty" env:"BLACKLIST_FILE"`

	Port     int    `json:"port,omitempty" env:"PORT"`
	LogLevel string `json:"logLevel,omitempty" env:"LOG_LEVEL"`

	StatsDBURL string `json:"statsDbUrl,omitempty" env:"STATS_DB_URL"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	if dto.RedisLinksURL != "" {
		cfg.redisLinksURL = dto.RedisLinksURL
	}
	if dto.RedisRecipesURL != "" {
		cfg.redisRecipesURL = dto.RedisRecipesURL
	}
	if dto.ProxyURL != "" {
		cfg.proxyURL = dto.ProxyURL
	}
	if dto.CertFile != "" {
		cfg.certFile = dto.CertFile
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.DomainGateBaseDelay != 0 {
		cfg.domainGateBaseDelay = dto.DomainGateBaseDelay
	}
	if dto.DomainGateJitter != 0 {
		cfg.domainGateJitter = dto.DomainGateJitter
	}
	if dto.GlobalConcurrency != 0 {
		cfg.globalConcurrency = dto.GlobalConcurrency
	}
	if dto.TickInterval != 0 {
		cfg.tickInterval = dto.TickInterval
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.BlacklistFile != "" {
		cfg.blacklistFile = dto.BlacklistFile
	}
	if dto.Port != 0 {
		cfg.port = dto.Port
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.StatsDBURL != "" {
		cfg.statsDBURL = dto.StatsDBURL
	}

	return cfg.Build()
}

// WithConfigFile loads a JSON config file and layers it over the
// defaults. Unset fields keep their default value.
func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	dto := configDTO{}
	if err := json.Unmarshal(content, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(dto)
}

// WithDefault returns a Config builder seeded with sane defaults
// matching the politeness and concurrency figures fixed by the crawler's
// scheduling contract (4096 global permits, 500ms tick, 4s base delay
// plus up to 4s of jitter per domain).
func WithDefault() *Config {
	return &Config{
		redisLinksURL:   "redis://localhost:6379/0",
		redisRecipesURL: "redis://localhost:6379/1",

		timeout:   60 * time.Second,
		userAgent: "Prototype recipe search engine indexer",

		domainGateBaseDelay: 4000 * time.Millisecond,
		domainGateJitter:    4000 * time.Millisecond,

		globalConcurrency: 4096,
		tickInterval:      500 * time.Millisecond,
		randomSeed:        time.Now().UnixNano(),

		maxAttempt:             5,
		backoffInitialDuration: 500 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     30 * time.Second,

		port:     8080,
		logLevel: "info",
	}
}

func (c *Config) WithRedisLinksURL(u string) *Config {
	c.redisLinksURL = u
	return c
}

func (c *Config) WithRedisRecipesURL(u string) *Config {
	c.redisRecipesURL = u
	return c
}

func (c *Config) WithProxyURL(u string) *Config {
	c.proxyURL = u
	return c
}

func (c *Config) WithCertFile(path string) *Config {
	c.certFile = path
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.timeout = d
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithDomainGateBaseDelay(d time.Duration) *Config {
	c.domainGateBaseDelay = d
	return c
}

func (c *Config) WithDomainGateJitter(d time.Duration) *Config {
	c.domainGateJitter = d
	return c
}

func (c *Config) WithGlobalConcurrency(n int) *Config {
	c.globalConcurrency = n
	return c
}

func (c *Config) WithTickInterval(d time.Duration) *Config {
	c.tickInterval = d
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(n int) *Config {
	c.maxAttempt = n
	return c
}

func (c *Config) WithBackoffInitialDuration(d time.Duration) *Config {
	c.backoffInitialDuration = d
	return c
}

func (c *Config) WithBackoffMultiplier(m float64) *Config {
	c.backoffMultiplier = m
	return c
}

func (c *Config) WithBackoffMaxDuration(d time.Duration) *Config {
	c.backoffMaxDuration = d
	return c
}

func (c *Config) WithBlacklistFile(path string) *Config {
	c.blacklistFile = path
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.port = port
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

// WithStatsDBURL sets the Postgres connection string for the crawl's
// terminal-summary writer. Left empty, the crawler still runs: the
// stats writer is an optional ops sink, never load-bearing for the
// pipeline itself.
func (c *Config) WithStatsDBURL(u string) *Config {
	c.statsDBURL = u
	return c
}

// Build validates and freezes the config. Redis URLs are mandatory;
// everything else has a usable default.
func (c *Config) Build() (Config, error) {
	if c.redisLinksURL == "" {
		return Config{}, fmt.Errorf("%w: redisLinksUrl cannot be empty", ErrInvalidConfig)
	}
	if c.redisRecipesURL == "" {
		return Config{}, fmt.Errorf("%w: redisRecipesUrl cannot be empty", ErrInvalidConfig)
	}
	if c.globalConcurrency <= 0 {
		return Config{}, fmt.Errorf("%w: globalConcurrency must be positive", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) RedisLinksURL() string   { return c.redisLinksURL }
func (c Config) RedisRecipesURL() string { return c.redisRecipesURL }
func (c Config) ProxyURL() string        { return c.proxyURL }
func (c Config) CertFile() string        { return c.certFile }
func (c Config) Timeout() time.Duration  { return c.timeout }
func (c Config) UserAgent() string       { return c.userAgent }

func (c Config) DomainGateBaseDelay() time.Duration { return c.domainGateBaseDelay }
func (c Config) DomainGateJitter() time.Duration    { return c.domainGateJitter }

func (c Config) GlobalConcurrency() int      { return c.globalConcurrency }
func (c Config) TickInterval() time.Duration { return c.tickInterval }
func (c Config) RandomSeed() int64           { return c.randomSeed }

func (c Config) MaxAttempt() int                       { return c.maxAttempt }
func (c Config) BackoffInitialDuration() time.Duration { return c.backoffInitialDuration }
func (c Config) BackoffMultiplier() float64            { return c.backoffMultiplier }
func (c Config) BackoffMaxDuration() time.Duration     { return c.backoffMaxDuration }

func (c Config) BlacklistFile() string { return c.blacklistFile }

func (c Config) Port() int        { return c.port }
func (c Config) LogLevel() string { return c.logLevel }

func (c Config) StatsDBURL() string { return c.statsDBURL }
