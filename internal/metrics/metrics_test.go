package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncrementCreated(t *testing.T) {
	before := testutil.ToFloat64(RemindersCreated.WithLabelValues("http"))
	IncrementCreated("http")
	IncrementCreated("http")
	if got := testutil.ToFloat64(RemindersCreated.WithLabelValues("http")); got != before+2 {
		t.Errorf("created = %v, want %v", got, before+2)
	}
}

func TestRecordParse(t *testing.T) {
	RecordParse("fake", OutcomeOK, 250*time.Millisecond)
	if n := testutil.CollectAndCount(ParseLatency); n == 0 {
		t.Error("parse histogram has no series")
	}
}
