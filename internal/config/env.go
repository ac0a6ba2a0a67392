package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// WithEnvOverlay applies environment variables (per the `env` struct
// tags on configDTO) on top of cfg and returns the resulting Config.
// internal/cli.BuildConfig applies it to the Config already built from
// flags or a JSON file, so the environment always wins; the overlaid
// values go through the same validation as Build().
func WithEnvOverlay(cfg Config) (Config, error) {
	dto := configDTO{
		RedisLinksURL:          cfg.redisLinksURL,
		RedisRecipesURL:        cfg.redisRecipesURL,
		ProxyURL:               cfg.proxyURL,
		CertFile:               cfg.certFile,
		Timeout:                cfg.timeout,
		UserAgent:              cfg.userAgent,
		DomainGateBaseDelay:    cfg.domainGateBaseDelay,
		DomainGateJitter:       cfg.domainGateJitter,
		GlobalConcurrency:      cfg.globalConcurrency,
		TickInterval:           cfg.tickInterval,
		RandomSeed:             cfg.randomSeed,
		MaxAttempt:             cfg.maxAttempt,
		BackoffInitialDuration: cfg.backoffInitialDuration,
		BackoffMultiplier:      cfg.backoffMultiplier,
		BackoffMaxDuration:     cfg.backoffMaxDuration,
		BlacklistFile:          cfg.blacklistFile,
		Port:                   cfg.port,
		LogLevel:               cfg.logLevel,
		StatsDBURL:             cfg.statsDBURL,
	}

	if err := env.Parse(&dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	return newConfigFromDTO(dto)
}
