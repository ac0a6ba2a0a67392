package statswriter

/*
Statistics writer (external, stub). Spec.md's data model never
persists a crawl's aggregate counters anywhere durable — otherwise they
are only logged by the metadata Recorder — so this package gives the
DOMAIN STACK's pgx entry a concrete sink: a thin wrapper around a
connection pool that appends one row per CrawlStats snapshot (the
Scheduler writes one when its run ends), grounded on the teacher pack's
`lueurxax-TelegramDigestBot/internal/storage`'s pgxpool usage.
*/

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rohmanhakim/recipe-crawler/internal/metadata"
)

// Writer persists a crawl's terminal aggregate counters.
type Writer interface {
	WriteStats(ctx context.Context, stats metadata.CrawlStats) error
}

type pgxWriter struct {
	pool *pgxpool.Pool
}

// New builds a Writer over an already-connected pool. The caller owns
// the pool's lifecycle.
func New(pool *pgxpool.Pool) Writer {
	return &pgxWriter{pool: pool}
}

// Connect opens a pgx pool for connString and wraps it in a Writer,
// mirroring the teacher pack's `storage.New` connect-then-wrap shape.
func Connect(ctx context.Context, connString string) (Writer, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("statswriter: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("statswriter: ping: %w", err)
	}
	return New(pool), pool, nil
}

const insertStatsSQL = `
INSERT INTO crawl_stats (total_urls, total_recipes, total_errors, total_domains, total_duration_seconds)
VALUES ($1, $2, $3, $4, $5)
`

func (w *pgxWriter) WriteStats(ctx context.Context, stats metadata.CrawlStats) error {
	_, err := w.pool.Exec(ctx, insertStatsSQL, statsArgs(stats)...)
	if err != nil {
		return fmt.Errorf("statswriter: write stats: %w", err)
	}
	return nil
}

// statsArgs builds the positional argument list for insertStatsSQL,
// split out from WriteStats so the value-ordering can be unit tested
// without a live Postgres connection.
func statsArgs(stats metadata.CrawlStats) []any {
	return []any{
		stats.TotalURLs,
		stats.TotalRecipes,
		stats.TotalErrors,
		stats.TotalDomains,
		stats.TotalDurationS,
	}
}
