package metadata_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/recipe-crawler/internal/metadata"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecorder_ImplementsSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metadata.NewRecorder(zap.NewNop(), reg, "run-1")

	var sink metadata.Sink = r
	require.NotNil(t, sink)

	var finalizer metadata.Finalizer = r
	require.NotNil(t, finalizer)
}

func TestRecorder_RecordFetchDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metadata.NewRecorder(zap.NewNop(), reg, "run-1")

	require.NotPanics(t, func() {
		r.RecordFetch(metadata.FetchEvent{
			URL:         "https://example.com/recipe",
			HTTPStatus:  200,
			Duration:    150 * time.Millisecond,
			ContentType: "text/html",
			RetryCount:  0,
			CrawlDepth:  1,
		})
	})
}

func TestRecorder_RecordErrorIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metadata.NewRecorder(zap.NewNop(), reg, "run-1")

	r.RecordError(metadata.ErrorRecord{
		PackageName: "downloader",
		Action:      "fetch",
		Cause:       metadata.CauseNetworkFailure,
		ErrorString: "connection reset",
		ObservedAt:  time.Now(),
		Attrs: []metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, "https://example.com"),
		},
	})

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range metricFamilies {
		if mf.GetName() == "recipe_crawler_errors_total" {
			found = true
		}
	}
	require.True(t, found, "expected recipe_crawler_errors_total to be registered")
}

func TestErrorCause_String(t *testing.T) {
	require.Equal(t, "network_failure", metadata.CauseNetworkFailure.String())
	require.Equal(t, "policy_disallow", metadata.CausePolicyDisallow.String())
	require.Equal(t, "content_invalid", metadata.CauseContentInvalid.String())
	require.Equal(t, "storage_failure", metadata.CauseStorageFailure.String())
	require.Equal(t, "invariant_violation", metadata.CauseInvariantViolation.String())
	require.Equal(t, "unknown", metadata.CauseUnknown.String())
}
