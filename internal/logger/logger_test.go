package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestContextFieldsReachOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "info", Format: "json", Output: &buf, ServiceName: "test"})

	ctx := log.WithContext(context.Background())
	ctx = SetRequestID(ctx, "req-1")
	ctx = WithField(ctx, FieldFilename, "cat.png")

	With(Fields{FieldDurationMs: int64(42)}).Info(ctx, "Caption generated")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	checks := map[string]interface{}{
		"service":       "test",
		"message":       "Caption generated",
		FieldRequestID:  "req-1",
		FieldFilename:   "cat.png",
		FieldDurationMs: float64(42),
	}
	for key, want := range checks {
		if got := line[key]; got != want {
			t.Errorf("field %q = %v, want %v", key, got, want)
		}
	}

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q", got)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != GetDefault() {
		t.Error("expected default logger for a bare context")
	}
}

func TestNewFromEnvHonoursExplicitOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewFromEnv(&EnvConfig{Level: "warn", Format: "text", Output: &buf, ServiceName: "svc"})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if bytes.Contains([]byte(out), []byte("hidden")) {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("shown")) {
		t.Errorf("warn line missing: %s", out)
	}
}
