package cli

/*
Root command (spec.md §6 CLI surface). Flags cover config.Config's
fields except the retry/backoff ones (max attempt and the backoff
initial duration, multiplier and max duration), which have no flag;
`--config-file` short-circuits flag parsing the
same way the teacher's CLI lets a JSON file override flags.
*/

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/recipe-crawler/internal/config"
)

var (
	cfgFile             string
	redisLinksURL       string
	redisRecipesURL     string
	proxyURL            string
	certFile            string
	blacklistFile       string
	logLevel            string
	port                int
	timeout             time.Duration
	userAgent           string
	domainGateBaseDelay time.Duration
	domainGateJitter    time.Duration
	globalConcurrency   int
	tickInterval        time.Duration
	randomSeed          int64
	statsDBURL          string
)

var rootCmd = &cobra.Command{
	Use:   "recipe-crawler",
	Short: "A distributed recipe-indexing crawler.",
	Long: `recipe-crawler polls a Redis-backed frontier of URLs, downloads each
one with per-domain politeness, extracts schema.org/Recipe JSON-LD,
parses it into a searchable record, and follows outbound links —
recording every recipe it finds into an external recipe store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := BuildConfig()
		return err
	},
}

// Execute runs the root command, exiting the process on error — the
// same contract as the teacher's cmd/.../main.go entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&redisLinksURL, "redis-links-url", "", "Redis connection URL for the frontier store")
	rootCmd.PersistentFlags().StringVar(&redisRecipesURL, "redis-recipes-url", "", "Redis connection URL for the recipe store")
	rootCmd.PersistentFlags().StringVar(&proxyURL, "proxy", "", "HTTP(S) proxy URL every download is routed through")
	rootCmd.PersistentFlags().StringVar(&certFile, "crt-file", "", "PEM root CA bundle installed as an additional trust anchor")
	rootCmd.PersistentFlags().StringVar(&blacklistFile, "blacklist-file", "", "newline-delimited substrings seeded into the blacklist at startup")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "structured logger level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "port the health/metrics server listens on")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request downloader timeout")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "User-Agent value stored in the config (the downloader always sends its own fixed User-Agent)")
	rootCmd.PersistentFlags().DurationVar(&domainGateBaseDelay, "domain-gate-base-delay", 0, "base politeness delay held per domain after each download")
	rootCmd.PersistentFlags().DurationVar(&domainGateJitter, "domain-gate-jitter", 0, "random jitter added on top of the base politeness delay")
	rootCmd.PersistentFlags().IntVar(&globalConcurrency, "global-concurrency", 0, "size of the scheduler's global permit pool")
	rootCmd.PersistentFlags().DurationVar(&tickInterval, "tick-interval", 0, "scheduler poll interval")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for the domain gate's jitter RNG (0 for current time)")
	rootCmd.PersistentFlags().StringVar(&statsDBURL, "stats-db-url", "", "Postgres connection string for the terminal crawl-stats writer (optional)")
}

// BuildConfig layers CLI flags (or a --config-file) over config
// defaults, then applies the environment overlay, mirroring the
// teacher's InitConfigWithError but without a mandatory seed-URL
// argument — this crawler's frontier is seeded independently via
// Frontier.Add, not a CLI flag.
func BuildConfig() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("cli: config file: %w", err)
		}
		return config.WithEnvOverlay(cfg)
	}

	builder := config.WithDefault()

	if redisLinksURL != "" {
		builder = builder.WithRedisLinksURL(redisLinksURL)
	}
	if redisRecipesURL != "" {
		builder = builder.WithRedisRecipesURL(redisRecipesURL)
	}
	if proxyURL != "" {
		builder = builder.WithProxyURL(proxyURL)
	}
	if certFile != "" {
		builder = builder.WithCertFile(certFile)
	}
	if blacklistFile != "" {
		builder = builder.WithBlacklistFile(blacklistFile)
	}
	if logLevel != "" {
		builder = builder.WithLogLevel(logLevel)
	}
	if port != 0 {
		builder = builder.WithPort(port)
	}
	if timeout > 0 {
		builder = builder.WithTimeout(timeout)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if domainGateBaseDelay > 0 {
		builder = builder.WithDomainGateBaseDelay(domainGateBaseDelay)
	}
	if domainGateJitter > 0 {
		builder = builder.WithDomainGateJitter(domainGateJitter)
	}
	if globalConcurrency > 0 {
		builder = builder.WithGlobalConcurrency(globalConcurrency)
	}
	if tickInterval > 0 {
		builder = builder.WithTickInterval(tickInterval)
	}
	if randomSeed != 0 {
		builder = builder.WithRandomSeed(randomSeed)
	}
	if statsDBURL != "" {
		builder = builder.WithStatsDBURL(statsDBURL)
	}

	cfg, err := builder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return config.WithEnvOverlay(cfg)
}

// ResetFlags restores every package-level flag variable to its zero
// value. Test-only: cobra's flag vars are package globals, so tests
// that set them must reset state between runs.
func ResetFlags() {
	cfgFile = ""
	redisLinksURL = ""
	redisRecipesURL = ""
	proxyURL = ""
	certFile = ""
	blacklistFile = ""
	logLevel = ""
	port = 0
	timeout = 0
	userAgent = ""
	domainGateBaseDelay = 0
	domainGateJitter = 0
	globalConcurrency = 0
	tickInterval = 0
	randomSeed = 0
	statsDBURL = ""
}

// Test helper functions to set flag values directly from tests,
// bypassing cobra flag parsing.
func SetConfigFileForTest(path string)             { cfgFile = path }
func SetRedisLinksURLForTest(u string)             { redisLinksURL = u }
func SetRedisRecipesURLForTest(u string)           { redisRecipesURL = u }
func SetProxyURLForTest(u string)                  { proxyURL = u }
func SetCertFileForTest(path string)               { certFile = path }
func SetBlacklistFileForTest(path string)          { blacklistFile = path }
func SetLogLevelForTest(level string)              { logLevel = level }
func SetPortForTest(p int)                         { port = p }
func SetTimeoutForTest(d time.Duration)            { timeout = d }
func SetUserAgentForTest(agent string)             { userAgent = agent }
func SetDomainGateBaseDelayForTest(d time.Duration) { domainGateBaseDelay = d }
func SetDomainGateJitterForTest(d time.Duration)   { domainGateJitter = d }
func SetGlobalConcurrencyForTest(n int)            { globalConcurrency = n }
func SetTickIntervalForTest(d time.Duration)       { tickInterval = d }
func SetRandomSeedForTest(seed int64)              { randomSeed = seed }
func SetStatsDBURLForTest(u string)                { statsDBURL = u }
