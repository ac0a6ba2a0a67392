package metadata

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, run ID)
*/

// Sink is the single entry point every pipeline package routes
// observability through. No package calls a logger or a metric directly;
// it calls Sink.
type Sink interface {
	RecordFetch(event FetchEvent)
	RecordError(record ErrorRecord)
	RecordRecipe(url string, domain string)
	RecordCrawlStats(stats CrawlStats)
}

// Finalizer is implemented by anything that needs to flush or close
// resources when the crawl terminates.
type Finalizer interface {
	Finalize() error
}

// Recorder is the default Sink, backed by a structured zap logger and a
// small set of Prometheus counters and a histogram. Metrics are observational only
// per the ErrorCause contract above; nothing here feeds back into
// scheduling.
type Recorder struct {
	log    *zap.Logger
	runID  string
	fetchCounter   prometheus.Counter
	errorCounter   *prometheus.CounterVec
	recipeCounter  prometheus.Counter
	fetchDuration  prometheus.Histogram
}

// NewRecorder builds a Recorder that logs through log and registers its
// metrics against reg. runID is attached to every log line for
// correlation across a single process run.
func NewRecorder(log *zap.Logger, reg prometheus.Registerer, runID string) *Recorder {
	r := &Recorder{
		log:   log.With(zap.String(string(AttrRunID), runID)),
		runID: runID,
		fetchCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipe_crawler_fetches_total",
			Help: "Total number of downloader fetch attempts.",
		}),
		errorCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_crawler_errors_total",
			Help: "Total number of errors recorded, labeled by cause.",
		}, []string{"cause", "package"}),
		recipeCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipe_crawler_recipes_total",
			Help: "Total number of recipes successfully parsed and stored.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recipe_crawler_fetch_duration_seconds",
			Help:    "Downloader fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(r.fetchCounter, r.errorCounter, r.recipeCounter, r.fetchDuration)
	}

	return r
}

func (r *Recorder) RecordFetch(event FetchEvent) {
	r.fetchCounter.Inc()
	r.fetchDuration.Observe(event.Duration.Seconds())

	r.log.Info("fetch",
		zap.String(string(AttrURL), event.URL),
		zap.Int(string(AttrHTTPStatus), event.HTTPStatus),
		zap.Duration("duration", event.Duration),
		zap.String("content_type", event.ContentType),
		zap.String("content_hash", event.ContentHash),
		zap.Int("retry_count", event.RetryCount),
		zap.Int(string(AttrDepth), event.CrawlDepth),
	)
}

func (r *Recorder) RecordError(record ErrorRecord) {
	r.errorCounter.WithLabelValues(record.Cause.String(), record.PackageName).Inc()

	fields := make([]zap.Field, 0, len(record.Attrs)+3)
	fields = append(fields,
		zap.String("package", record.PackageName),
		zap.String("action", record.Action),
		zap.String("cause", record.Cause.String()),
	)
	for _, a := range record.Attrs {
		fields = append(fields, zap.String(string(a.Key), a.Value))
	}

	observedAt := record.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	fields = append(fields, zap.Time("observed_at", observedAt))

	r.log.Error(record.ErrorString, fields...)
}

func (r *Recorder) RecordRecipe(url string, domain string) {
	r.recipeCounter.Inc()
	r.log.Info("recipe_stored",
		zap.String(string(AttrURL), url),
		zap.String(string(AttrDomain), domain),
	)
}

func (r *Recorder) RecordCrawlStats(stats CrawlStats) {
	r.log.Info("crawl_stats",
		zap.Int("total_urls", stats.TotalURLs),
		zap.Int("total_recipes", stats.TotalRecipes),
		zap.Int("total_errors", stats.TotalErrors),
		zap.Int("total_domains", stats.TotalDomains),
		zap.Int64("total_duration_s", stats.TotalDurationS),
	)
}

func (r *Recorder) Finalize() error {
	return r.log.Sync()
}
