package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/timmy/captionrelay/internal/domain"
	"github.com/timmy/captionrelay/internal/metrics"
)

func writeTempImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestCaptionClientSendsMultipartFile(t *testing.T) {
	var gotField, gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		f, hdr, err := r.FormFile(CaptionFileField)
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotField = CaptionFileField
		gotName = hdr.Filename
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"caption":"a dog on a beach"}`)
	}))
	defer srv.Close()

	path := writeTempImage(t, "dog.png", []byte("fake image bytes"))
	reg := prometheus.NewRegistry()
	client := NewCaptionClient(&CaptionConfig{Endpoint: srv.URL + "/generate_caption"}, metrics.New(reg))

	caption, err := client.Caption(context.Background(), path)
	if err != nil {
		t.Fatalf("Caption() error = %v", err)
	}
	if caption != "a dog on a beach" {
		t.Errorf("caption = %q", caption)
	}
	if gotField != "file" || gotName != "dog.png" || gotBody != "fake image bytes" {
		t.Errorf("downstream got field=%q name=%q body=%q", gotField, gotName, gotBody)
	}
}

func TestCaptionClientErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    domain.ErrorKind
		wantMsg string
	}{
		{"upstream error", http.StatusServiceUnavailable, `{"error":"model loading"}`, domain.KindUpstream, "model loading"},
		{"upstream plain body", http.StatusInternalServerError, "boom", domain.KindUpstream, "boom"},
		{"invalid json", http.StatusOK, "not json", domain.KindParse, ""},
		{"missing field", http.StatusOK, `{"text":"hi"}`, domain.KindParse, "caption"},
		{"non-string field", http.StatusOK, `{"caption":42}`, domain.KindParse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			path := writeTempImage(t, "cat.jpg", []byte("bytes"))
			client := NewCaptionClient(&CaptionConfig{Endpoint: srv.URL}, nil)

			_, err := client.Caption(context.Background(), path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := domain.KindOf(err); got != tt.want {
				t.Errorf("kind = %q, want %q (err=%v)", got, tt.want, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCaptionClientUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	path := writeTempImage(t, "a.png", []byte("x"))
	_, err := NewCaptionClient(&CaptionConfig{Endpoint: srv.URL}, nil).Caption(context.Background(), path)

	var derr *domain.Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if derr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", derr.Status, http.StatusBadGateway)
	}
}

func TestCaptionClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	path := writeTempImage(t, "a.png", []byte("x"))
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	_, err := NewCaptionClient(&CaptionConfig{Endpoint: endpoint}, rec).Caption(context.Background(), path)
	if got := domain.KindOf(err); got != domain.KindTransport {
		t.Fatalf("kind = %q, want transport (err=%v)", got, err)
	}
	count, err := testutil.GatherAndCount(reg, "captionrelay_caption_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Errorf("caption outcome series = %d, want 1", count)
	}
}

func TestCaptionClientMissingFile(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewCaptionClient(&CaptionConfig{Endpoint: srv.URL}, nil).
		Caption(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if got := domain.KindOf(err); got != domain.KindIO {
		t.Errorf("kind = %q, want io", got)
	}
	if called {
		t.Error("downstream should not be called when the file cannot be opened")
	}
}
