package scheduler

/*
Responsibilities (C8)

- Drive a tick loop (spec.md §4.8): each tick, ask the Frontier for as
  many URLs as there are free global permits, then run one goroutine
  per URL through download -> extract -> parse -> follow.
- Derive recipe_exists / recipe_complete / priority / remaining_follows
  for every followed candidate exactly per spec.md's step 4.
- Run Recovery (C9) once before the first tick.
*/

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rohmanhakim/recipe-crawler/internal/config"
	"github.com/rohmanhakim/recipe-crawler/internal/downloader"
	"github.com/rohmanhakim/recipe-crawler/internal/extractor"
	"github.com/rohmanhakim/recipe-crawler/internal/follower"
	"github.com/rohmanhakim/recipe-crawler/internal/frontier"
	"github.com/rohmanhakim/recipe-crawler/internal/metadata"
	"github.com/rohmanhakim/recipe-crawler/internal/parser"
	"github.com/rohmanhakim/recipe-crawler/internal/recipe"
	"github.com/rohmanhakim/recipe-crawler/internal/recipestore"
	"github.com/rohmanhakim/recipe-crawler/internal/statswriter"
	"github.com/rohmanhakim/recipe-crawler/pkg/hashutil"
	"github.com/rohmanhakim/recipe-crawler/pkg/urlutil"
)

const (
	priorityComplete  = 0.0
	priorityExists    = -1.0
	priorityNoRecipe  = -2.0
	firstFollowBudget = 1
)

// Scheduler owns the crawl's control loop and every pipeline stage's
// dependencies.
type Scheduler struct {
	frontier    *frontier.Store
	downloader  *downloader.Downloader
	recipeStore *recipestore.Store
	metadata    metadata.Sink

	tickInterval time.Duration
	permits      chan struct{}
	errorCount   atomic.Int64
	statsWriter  statswriter.Writer
}

// New wires a Scheduler from its already-constructed dependencies and
// sizes the global permit pool from cfg.GlobalConcurrency(), per
// spec.md §5's "global permit pool (size 4096)".
func New(
	store *frontier.Store,
	dl *downloader.Downloader,
	recipes *recipestore.Store,
	sink metadata.Sink,
	cfg config.Config,
) *Scheduler {
	permits := make(chan struct{}, cfg.GlobalConcurrency())
	for i := 0; i < cfg.GlobalConcurrency(); i++ {
		permits <- struct{}{}
	}

	return &Scheduler{
		frontier:     store,
		downloader:   dl,
		recipeStore:  recipes,
		metadata:     sink,
		tickInterval: cfg.TickInterval(),
		permits:      permits,
	}
}

// WithStatsWriter attaches an optional durable sink for the crawl's
// terminal CrawlStats snapshot, in addition to the metadata.Sink's own
// logging/metrics. A nil or never-called WithStatsWriter leaves the
// crawl fully functional — the writer is an ops convenience, never a
// dependency of the pipeline itself.
func (s *Scheduler) WithStatsWriter(w statswriter.Writer) *Scheduler {
	s.statsWriter = w
	return s
}

// Run executes Recovery (C9) and then ticks until ctx is cancelled.
// Every in-flight URL task is abandoned, not awaited, on cancellation;
// spec.md §5 states process shutdown is non-graceful with respect to
// in-flight tasks. On exit it assembles metadata.CrawlStats from the
// Frontier's and Recipe Store's terminal state and records it exactly
// once, per CrawlStats's own doc comment.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.frontier.ResetProcessingToWaiting(ctx); err != nil {
		return err
	}

	started := time.Now()
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.recordCrawlStats(context.Background(), started)
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// recordCrawlStats computes the terminal summary from already-persisted
// state — never from in-memory counters that could drift from what the
// Frontier and Recipe Store actually hold — and records it once. It
// takes a background context since ctx is already cancelled by the time
// this runs.
func (s *Scheduler) recordCrawlStats(ctx context.Context, started time.Time) {
	stats, err := s.frontier.Stats(ctx)
	if err != nil {
		s.recordError("scheduler", "crawl_stats", metadata.CauseStorageFailure, err)
		return
	}

	recipeCount, err := s.recipeStore.Count(ctx)
	if err != nil {
		s.recordError("scheduler", "crawl_stats", metadata.CauseStorageFailure, err)
		return
	}

	var totalURLs int64
	for _, n := range stats.LinksWithStatus {
		totalURLs += n
	}

	crawlStats := metadata.CrawlStats{
		TotalURLs:      int(totalURLs),
		TotalRecipes:   int(recipeCount),
		TotalErrors:    int(s.errorCount.Load()),
		TotalDomains:   int(stats.DomainsInSystem),
		TotalDurationS: int64(time.Since(started).Seconds()),
	}
	s.metadata.RecordCrawlStats(crawlStats)

	if s.statsWriter != nil {
		if err := s.statsWriter.WriteStats(ctx, crawlStats); err != nil {
			s.recordError("statswriter", "write_stats", metadata.CauseStorageFailure, err)
		}
	}
}

// tick pops as many URLs as there are free permits and spawns one
// goroutine per URL. The permit count read here is a snapshot; tick
// receives one permit per polled URL before spawning its goroutine,
// blocking if none is free rather than losing the URL. The pool is a
// buffered channel, unlike the Domain Gate's (C3) semaphore.Weighted,
// because len(s.permits) exposes the free count.
func (s *Scheduler) tick(ctx context.Context) {
	available := len(s.permits)
	if available == 0 {
		return
	}

	urls, err := s.frontier.PollNext(ctx, available)
	if err != nil {
		s.recordError("scheduler", "poll_next", metadata.CauseStorageFailure, err)
		return
	}

	for _, url := range urls {
		<-s.permits
		go func(url string) {
			defer func() { s.permits <- struct{}{} }()
			s.processURL(ctx, url)
		}(url)
	}
}

// processURL runs the strict download -> extract -> parse -> follow
// chain for one URL, per spec.md §4.8 and §5's ordering guarantee.
func (s *Scheduler) processURL(ctx context.Context, url string) {
	domain, err := s.frontier.GetDomain(ctx, url)
	if err != nil {
		s.recordError("scheduler", "get_domain", metadata.CauseInvariantViolation, err)
		return
	}

	started := time.Now()
	result, dlErr := s.downloader.Fetch(ctx, url, domain)
	if dlErr != nil {
		s.updateStatus(ctx, url, frontier.StatusDownloadFailed)
		s.recordError("downloader", "fetch", metadata.CauseNetworkFailure, dlErr)
		return
	}
	contentHash, hashErr := hashutil.HashBytes(result.Body(), hashutil.HashAlgoBLAKE3)
	if hashErr != nil {
		s.recordError("scheduler", "hash_content", metadata.CauseInvariantViolation, hashErr)
	}
	s.metadata.RecordFetch(metadata.FetchEvent{
		URL:         url,
		HTTPStatus:  result.StatusCode(),
		Duration:    time.Since(started),
		ContentType: result.ContentType(),
		ContentHash: contentHash,
	})

	parsed := s.extractAndParse(ctx, url, domain, result)

	s.follow(ctx, url, result, parsed)
}

// extractAndParse runs C5 and, on a schema match, C6. It returns nil
// whenever no recipe was produced — by extraction error, an absent
// schema block, or a parse that lacked ingredients/instructions — in
// which case recipe_exists is false for the follow step.
func (s *Scheduler) extractAndParse(ctx context.Context, url, domain string, result downloader.Result) *recipe.RawRecipe {
	schema, err := s.extract(ctx, url, result)
	if err != nil || schema == nil {
		return nil
	}

	rawRecipe, ok := parser.Parse(url, schema)
	if !ok {
		s.updateStatus(ctx, url, frontier.StatusParsingFailed)
		return nil
	}

	if added, err := s.recipeStore.Add(ctx, *rawRecipe); err != nil {
		s.recordError("recipestore", "add", metadata.CauseStorageFailure, err)
	} else if added {
		s.metadata.RecordRecipe(url, domain)
	}

	s.updateStatus(ctx, url, frontier.StatusProcessed)
	return rawRecipe
}

// extract runs C5 alone. A nil, nil return means no JSON-LD recipe
// block was found — not an error, but still terminal per spec.md §4.8
// step 2 ("If None: same terminal state").
func (s *Scheduler) extract(ctx context.Context, url string, result downloader.Result) (map[string]any, error) {
	schema, exErr := extractor.Extract(result.Body())
	if exErr != nil {
		s.updateStatus(ctx, url, frontier.StatusExtractionFailed)
		_ = s.frontier.SetContentSize(ctx, url, result.SizeByte())
		s.recordError("extractor", "extract", extractor.MapErrorToMetadataCause(exErr), exErr)
		return nil, exErr
	}
	if schema == nil {
		s.updateStatus(ctx, url, frontier.StatusExtractionFailed)
		_ = s.frontier.SetContentSize(ctx, url, result.SizeByte())
		return nil, nil
	}
	return schema, nil
}

// follow computes recipe_exists, recipe_complete, the children's
// priority and remaining_follows, and submits every followed candidate
// to the Frontier, per spec.md §4.8 step 4. It always runs once the
// download has succeeded, independent of the extract/parse outcome. A
// urlutil.ErrNoDomain candidate is swallowed and skipped; any other
// frontier.Add error aborts the rest of the follow step, matching
// process_follow in the original implementation.
func (s *Scheduler) follow(ctx context.Context, url string, result downloader.Result, parsed *recipe.RawRecipe) {
	recipeExists := parsed != nil && len(parsed.Ingredients) > 0
	recipeComplete := recipeExists && parsed.IsComplete()

	remainingFollows, err := s.frontier.GetRemainingFollows(ctx, url)
	if err != nil {
		s.recordError("scheduler", "get_remaining_follows", metadata.CauseStorageFailure, err)
		return
	}

	if remainingFollows <= 0 && !recipeComplete {
		return
	}

	childRemainingFollows := remainingFollows - 1
	if recipeExists {
		childRemainingFollows = firstFollowBudget
	}

	priority := priorityNoRecipe
	switch {
	case recipeComplete:
		priority = priorityComplete
	case recipeExists:
		priority = priorityExists
	}

	parentURL := url
	for _, candidate := range follower.Follow(result.Body(), url) {
		if _, err := s.frontier.Add(ctx, candidate, &parentURL, priority, childRemainingFollows); err != nil {
			if errors.Is(err, urlutil.ErrNoDomain) {
				continue
			}
			s.recordError("frontier", "add", metadata.CauseStorageFailure, err)
			return
		}
	}
}

func (s *Scheduler) updateStatus(ctx context.Context, url string, status frontier.Status) {
	// All status updates are fire-and-forget with respect to the
	// task's own success, per spec.md §4.8: a failure to record the
	// transition is logged but never aborts the task.
	if err := s.frontier.UpdateStatus(ctx, url, status); err != nil {
		s.recordError("frontier", "update_status", metadata.CauseStorageFailure, err)
	}
}

func (s *Scheduler) recordError(pkg, action string, cause metadata.ErrorCause, err error) {
	s.errorCount.Add(1)
	s.metadata.RecordError(metadata.ErrorRecord{
		PackageName: pkg,
		Action:      action,
		Cause:       cause,
		ErrorString: err.Error(),
		ObservedAt:  time.Now(),
	})
}
