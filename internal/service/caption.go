package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/captionrelay/internal/domain"
	"github.com/timmy/captionrelay/internal/logger"
	"github.com/timmy/captionrelay/internal/metrics"
)

// CaptionFileField is the multipart field the captioning service reads the image from.
const CaptionFileField = "file"

// maxUpstreamDetail caps how much of an upstream error body is kept for logs.
const maxUpstreamDetail = 512

// CaptionClient sends stored files to the external captioning service.
type CaptionClient struct {
	client   *resty.Client
	endpoint string
	metrics  *metrics.Recorder
}

// CaptionConfig holds configuration for the captioning client.
type CaptionConfig struct {
	Endpoint string        // full URL, e.g. http://localhost:5000/generate_caption
	Timeout  time.Duration // zero leaves only the transport defaults
}

// NewCaptionClient creates a captioning client. Each call is a single attempt.
// Parameters:
//   - cfg: endpoint and timeout.
//   - rec: metrics recorder; may be nil.
//
// Returns:
//   - *CaptionClient: initialized client.
func NewCaptionClient(cfg *CaptionConfig, rec *metrics.Recorder) *CaptionClient {
	client := resty.New()
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &CaptionClient{
		client:   client,
		endpoint: cfg.Endpoint,
		metrics:  rec,
	}
}

// Endpoint returns the URL captioning requests are posted to.
func (c *CaptionClient) Endpoint() string {
	return c.endpoint
}

type captionResponse struct {
	Caption *string `json:"caption"`
}

type upstreamErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Caption posts the file at path as multipart field "file" and returns the
// "caption" field of the JSON response.
// Parameters:
//   - ctx: request context; cancelling it aborts the call.
//   - path: stored file to caption.
//
// Returns:
//   - string: generated caption.
//   - error: a *domain.Error of kind io, transport, upstream or parse.
func (c *CaptionClient) Caption(ctx context.Context, path string) (caption string, err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(domain.KindOf(err))
		}
		c.metrics.ObserveCaption(outcome, time.Since(start))
	}()

	logger.CtxInfo(ctx, "Preparing to send file to caption service: %s", path)

	f, err := os.Open(path)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindIO, Op: "caption.open", Path: path, Err: err}
	}
	defer f.Close()

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader(CaptionFileField, filepath.Base(path), f).
		Post(c.endpoint)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindTransport, Op: "caption.post", Path: c.endpoint, Err: err}
	}

	if !resp.IsSuccess() {
		return "", &domain.Error{
			Kind:   domain.KindUpstream,
			Op:     "caption.post",
			Path:   c.endpoint,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("failed to generate caption: %s", upstreamDetail(resp)),
		}
	}

	var body captionResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", &domain.Error{Kind: domain.KindParse, Op: "caption.decode", Path: c.endpoint, Err: err}
	}
	if body.Caption == nil {
		return "", &domain.Error{
			Kind: domain.KindParse,
			Op:   "caption.decode",
			Path: c.endpoint,
			Err:  errors.New(`response has no "caption" field`),
		}
	}

	logger.With(logger.Fields{logger.FieldDurationMs: time.Since(start).Milliseconds()}).
		Info(ctx, "Caption successfully generated from caption service")

	return *body.Caption, nil
}

// upstreamDetail prefers an error message from a JSON body and falls back to
// the status line plus a truncated body.
func upstreamDetail(resp *resty.Response) string {
	var body upstreamErrorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}

	detail := resp.Status()
	if raw := strings.TrimSpace(string(resp.Body())); raw != "" {
		if len(raw) > maxUpstreamDetail {
			raw = raw[:maxUpstreamDetail] + "..."
		}
		detail += ": " + raw
	}
	return detail
}
