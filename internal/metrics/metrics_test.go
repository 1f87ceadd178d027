package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.ObserveRequest("post", "/upload", 200, 20*time.Millisecond)
	rec.ObserveRequest("POST", "/upload", 200, 30*time.Millisecond)
	rec.ObserveRequest("GET", "", 404, time.Millisecond)
	rec.ObserveCaption("success", time.Second)
	rec.ObserveCaption("upstream", time.Second)
	rec.ObserveStored(1024)
	rec.MirrorFailed()

	if got := testutil.ToFloat64(rec.requests.WithLabelValues("POST", "/upload", "200")); got != 2 {
		t.Errorf("upload requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.captions.WithLabelValues("upstream")); got != 1 {
		t.Errorf("upstream captions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.storedBytes); got != 1024 {
		t.Errorf("stored bytes = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(rec.mirrorFailures); got != 1 {
		t.Errorf("mirror failures = %v, want 1", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.ObserveRequest("GET", "/up", 200, time.Millisecond)
	rec.ObserveCaption("success", time.Millisecond)
	rec.ObserveStored(10)
	rec.MirrorFailed()
}
