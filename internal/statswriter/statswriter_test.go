package statswriter

import (
	"reflect"
	"testing"

	"github.com/rohmanhakim/recipe-crawler/internal/metadata"
)

// WriteStats itself requires a live Postgres connection to exercise
// end to end — the teacher pack's own pgxpool wrapper (db.go) carries
// no unit tests for the same reason. statsArgs is the pure slice of
// that path and is what this test covers.
func TestStatsArgs_OrdersFieldsToMatchInsertStatsSQL(t *testing.T) {
	stats := metadata.CrawlStats{
		TotalURLs:      10,
		TotalRecipes:   4,
		TotalErrors:    2,
		TotalDomains:   3,
		TotalDurationS: 120,
	}

	got := statsArgs(stats)
	want := []any{10, 4, 2, 3, int64(120)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
