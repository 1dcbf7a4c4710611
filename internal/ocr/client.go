// Package ocr talks to the remote layout-analysis service used when a
// PDF carries no extractable text (scanned documents). The service is
// asynchronous: submit, then poll an operation URL until it settles.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agridocs/seed-intake/internal/common"
)

// PageBreak is appended after each retained page's lines so parsers
// can detect page boundaries inside the flattened line stream.
const PageBreak = "<<< PAGE BREAK >>>"

const keyHeader = "Ocp-Apim-Subscription-Key"

// Config holds remote OCR service settings.
type Config struct {
	Endpoint     string
	APIKey       string
	PollInterval time.Duration // default 1250ms
	MaxAttempts  int           // default 30 (~45s ceiling)
}

// Client submits PDFs for analysis and polls for line content.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger *slog.Logger
}

// NewClient builds a client with defaulted polling behavior.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 1250 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 30
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type analyzeResponse struct {
	Status        string `json:"status"` // running | succeeded | failed
	AnalyzeResult struct {
		Pages []struct {
			Lines []struct {
				Content string `json:"content"`
			} `json:"lines"`
		} `json:"pages"`
	} `json:"analyzeResult"`
}

// Analyze runs a PDF through the remote service and returns the
// flattened, ordered line stream (with PageBreak sentinels) plus the
// total page count reported by the service. Pages whose concatenated
// content matches a known boilerplate phrase are dropped wholesale.
func (c *Client) Analyze(ctx context.Context, doc []byte) ([]string, int, error) {
	reqID := uuid.New().String()
	start := time.Now()

	opLoc, err := c.submit(ctx, reqID, doc)
	if err != nil {
		return nil, 0, err
	}

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}

		res, err := c.poll(ctx, reqID, opLoc)
		if err != nil {
			return nil, 0, err
		}
		switch res.Status {
		case "succeeded":
			lines, pages := flattenPages(res, c.logger)
			c.logger.Info("ocr.analyze.ok",
				"req_id", reqID,
				"pages", pages,
				"lines", len(lines),
				"attempts", attempt,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return lines, pages, nil
		case "failed":
			c.logger.Error("ocr.analyze.failed", "req_id", reqID, "attempts", attempt)
			return nil, 0, common.NewAppError("OCR_ANALYSIS_FAILED", "analysis reported failure", common.ErrOCRAnalysis)
		default:
			c.logger.Debug("ocr.poll.pending", "req_id", reqID, "status", res.Status, "attempt", attempt)
		}
	}

	c.logger.Error("ocr.poll.timeout", "req_id", reqID, "attempts", c.cfg.MaxAttempts)
	return nil, 0, common.NewAppError("OCR_TIMEOUT",
		fmt.Sprintf("no result after %d attempts", c.cfg.MaxAttempts), common.ErrOCRTimeout)
}

func (c *Client) submit(ctx context.Context, reqID string, doc []byte) (string, error) {
	url := c.cfg.Endpoint + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set(keyHeader, c.cfg.APIKey)

	c.logger.Info("ocr.submit", "req_id", reqID, "url", url, "content_length", len(doc))

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("ocr.submit.send_error", "req_id", reqID, "error", err)
		return "", common.NewAppError("OCR_SUBMISSION_FAILED", "submit request failed", common.ErrOCRSubmission)
	}
	defer drainClose(resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		c.logger.Error("ocr.submit.rejected", "req_id", reqID, "status", resp.StatusCode)
		return "", common.NewAppError("OCR_SUBMISSION_FAILED",
			fmt.Sprintf("expected 202, got %d", resp.StatusCode), common.ErrOCRSubmission)
	}
	opLoc := resp.Header.Get("Operation-Location")
	if opLoc == "" {
		return "", common.NewAppError("OCR_SUBMISSION_FAILED", "missing Operation-Location header", common.ErrOCRSubmission)
	}
	return opLoc, nil
}

func (c *Client) poll(ctx context.Context, reqID, opLoc string) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLoc, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set(keyHeader, c.cfg.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("ocr.poll.send_error", "req_id", reqID, "error", err)
		return nil, common.NewAppError("OCR_ANALYSIS_FAILED", "poll request failed", common.ErrOCRAnalysis)
	}
	defer drainClose(resp.Body)

	if resp.StatusCode/100 != 2 {
		return nil, common.NewAppError("OCR_ANALYSIS_FAILED",
			fmt.Sprintf("poll status %d", resp.StatusCode), common.ErrOCRAnalysis)
	}
	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, common.NewAppError("OCR_ANALYSIS_FAILED", "decode poll response", common.ErrOCRAnalysis)
	}
	return &out, nil
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
