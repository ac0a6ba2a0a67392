// Command recipe-crawler runs the distributed recipe-indexing
// crawler: it wires the Frontier, Blacklist, domain gate, downloader,
// extractor/parser/follower pipeline, and Scheduler together behind
// the CLI's flags, then serves health/metrics until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rohmanhakim/recipe-crawler/internal/blacklist"
	"github.com/rohmanhakim/recipe-crawler/internal/build"
	"github.com/rohmanhakim/recipe-crawler/internal/cli"
	"github.com/rohmanhakim/recipe-crawler/internal/config"
	"github.com/rohmanhakim/recipe-crawler/internal/domaingate"
	"github.com/rohmanhakim/recipe-crawler/internal/downloader"
	"github.com/rohmanhakim/recipe-crawler/internal/frontier"
	"github.com/rohmanhakim/recipe-crawler/internal/httpapi"
	"github.com/rohmanhakim/recipe-crawler/internal/metadata"
	"github.com/rohmanhakim/recipe-crawler/internal/recipestore"
	"github.com/rohmanhakim/recipe-crawler/internal/scheduler"
	"github.com/rohmanhakim/recipe-crawler/internal/statswriter"
	"github.com/rohmanhakim/recipe-crawler/pkg/failure"
	"github.com/rohmanhakim/recipe-crawler/pkg/retry"
	"github.com/rohmanhakim/recipe-crawler/pkg/timeutil"
)

func main() {
	// A missing .env is not an error: flags/environment/config-file
	// still work without one, matching the teacher pack's own
	// fire-and-forget godotenv.Load() convention.
	_ = godotenv.Load()

	cli.Execute()
	cfg, err := cli.BuildConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "recipe-crawler:", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel())
	if err != nil {
		fmt.Fprintln(os.Stderr, "recipe-crawler:", err)
		os.Exit(1)
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	log.Info("starting recipe-crawler", zap.String("version", build.FullVersion()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, runID); err != nil {
		log.Error("recipe-crawler exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger, runID string) error {
	linksClient, err := newRedisClient(ctx, cfg, cfg.RedisLinksURL())
	if err != nil {
		return fmt.Errorf("links redis: %w", err)
	}
	defer linksClient.Close()

	recipesClient, err := newRedisClient(ctx, cfg, cfg.RedisRecipesURL())
	if err != nil {
		return fmt.Errorf("recipes redis: %w", err)
	}
	defer recipesClient.Close()

	bl := blacklist.New(linksClient)
	if path := cfg.BlacklistFile(); path != "" {
		n, err := bl.LoadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("seed blacklist: %w", err)
		}
		log.Info("seeded blacklist", zap.Int("entries", n))
	}

	frontierStore := frontier.NewStore(linksClient, bl)
	recipeStore := recipestore.NewStore(recipesClient)

	gate := domaingate.New(cfg.DomainGateBaseDelay(), cfg.DomainGateJitter(), cfg.RandomSeed())
	dl, err := downloader.New(downloader.Options{
		ProxyURL: cfg.ProxyURL(),
		CertFile: cfg.CertFile(),
		Timeout:  cfg.Timeout(),
	}, gate)
	if err != nil {
		return fmt.Errorf("build downloader: %w", err)
	}

	registry := prometheus.NewRegistry()
	sink := metadata.NewRecorder(log, registry, runID)

	sched := scheduler.New(frontierStore, dl, recipeStore, sink, cfg)

	if connString := cfg.StatsDBURL(); connString != "" {
		writer, pool, err := statswriter.Connect(ctx, connString)
		if err != nil {
			return fmt.Errorf("stats db: %w", err)
		}
		defer pool.Close()
		sched = sched.WithStatsWriter(writer)
	}

	server := httpapi.New(frontierStore, registry, cfg.Port(), log)

	errCh := make(chan error, 2)
	go func() { errCh <- server.Run(ctx) }()
	go func() { errCh <- sched.Run(ctx) }()

	select {
	case <-ctx.Done():
		<-errCh
		<-errCh
		return nil
	case err := <-errCh:
		stop := ctx.Err()
		if err != nil && stop == nil {
			return err
		}
		return nil
	}
}

// newRedisClient connects and retries the initial ping with exponential
// backoff, per cfg's MaxAttempt/Backoff* knobs — this is process-startup
// resilience against a Redis that hasn't finished booting yet, distinct
// from (and not a substitute for) the pipeline's "no URL is retried"
// rule, which governs fetches, not infrastructure connectivity.
func newRedisClient(ctx context.Context, cfg config.Config, connURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(connURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url %q: %w", connURL, err)
	}
	client := redis.NewClient(opts)

	backoff := timeutil.NewBackoffParam(cfg.BackoffInitialDuration(), cfg.BackoffMultiplier(), cfg.BackoffMaxDuration())
	retryParam := retry.NewRetryParam(cfg.BackoffInitialDuration(), 0, cfg.RandomSeed(), cfg.MaxAttempt(), backoff)

	result := retry.Retry(retryParam, func() (struct{}, failure.ClassifiedError) {
		if err := client.Ping(ctx).Err(); err != nil {
			return struct{}{}, connectError{cause: err}
		}
		return struct{}{}, nil
	})
	if result.IsFailure() {
		client.Close()
		return nil, fmt.Errorf("ping %q after %d attempts: %w", connURL, result.Attempts(), result.Err())
	}
	return client, nil
}

// connectError classifies every connection failure as Recoverable so
// retry.Retry keeps retrying until MaxAttempts is exhausted.
type connectError struct{ cause error }

func (e connectError) Error() string             { return e.cause.Error() }
func (e connectError) Severity() failure.Severity { return failure.SeverityRecoverable }
func (e connectError) Unwrap() error              { return e.cause }

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if level == "" {
		zapLevel = zapcore.InfoLevel
	} else if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return zapCfg.Build()
}
