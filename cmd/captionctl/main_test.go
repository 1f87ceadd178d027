package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/timmy/captionrelay/internal/service"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestCaptionAndRecaptionCommands(t *testing.T) {
	var calls atomic.Int32
	captioner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"caption":"a lighthouse"}`)
	}))
	defer captioner.Close()

	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	t.Setenv("CAPTION_SERVICE_URL", captioner.URL)
	t.Setenv("STORAGE_DIR", uploads)

	src := filepath.Join(dir, "light house.jpg")
	if err := os.WriteFile(src, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("metrics:\n  enabled: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "--config", cfgPath, "caption", src)
	if err != nil {
		t.Fatalf("caption error = %v", err)
	}
	var result service.UploadResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if result.Caption != "a lighthouse" || result.ImageURL != "/uploads/light_house.jpg" {
		t.Errorf("result = %+v", result)
	}
	if _, err := os.Stat(filepath.Join(uploads, "light_house.jpg")); err != nil {
		t.Errorf("stored file: %v", err)
	}

	out, err = runCmd(t, "--config", cfgPath, "recaption", result.ImageURL)
	if err != nil {
		t.Fatalf("recaption error = %v", err)
	}
	if !strings.Contains(out, "a lighthouse") {
		t.Errorf("recaption output = %q", out)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("downstream calls = %d, want 2", got)
	}
}

func TestUploadsRequiresDatabase(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("storage:\n  dir: "+filepath.Join(dir, "u")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCmd(t, "--config", cfgPath, "uploads"); err == nil {
		t.Error("expected an error without a database")
	}
}

func TestVersionShort(t *testing.T) {
	out, err := runCmd(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}
