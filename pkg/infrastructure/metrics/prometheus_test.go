package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSearchMetrics_Record(t *testing.T) {
	m := NewSearchMetrics("test_method")

	before := testutil.ToFloat64(SearchesTotal.WithLabelValues("test_method", OutcomeRanked))
	m.RecordSearch(OutcomeRanked, 20*time.Millisecond)
	after := testutil.ToFloat64(SearchesTotal.WithLabelValues("test_method", OutcomeRanked))
	assert.Equal(t, before+1, after)

	m.RecordPermutations(12)
	assert.Equal(t, float64(12), testutil.ToFloat64(PermutationsCreated.WithLabelValues("test_method")))

	discarded := testutil.ToFloat64(PossibilitiesDiscarded)
	m.RecordDiscarded(2)
	assert.Equal(t, discarded+2, testutil.ToFloat64(PossibilitiesDiscarded))
}

func TestRecordGeometryAnalysis(t *testing.T) {
	before := testutil.ToFloat64(GeometryAnalysesTotal.WithLabelValues("unsupported"))
	RecordGeometryAnalysis("unsupported")
	assert.Equal(t, before+1, testutil.ToFloat64(GeometryAnalysesTotal.WithLabelValues("unsupported")))
}
