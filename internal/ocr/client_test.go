package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agridocs/seed-intake/internal/common"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const resultJSON = `{
  "status": "succeeded",
  "analyzeResult": {
    "pages": [
      {"lines": [{"content": "INVOICE NO: 1234567"}, {"content": "123456 BEET CHIOGGIA"}]},
      {"lines": [{"content": "LIMITATION OF WARRANTY AND LIABILITY"}, {"content": "fine print"}]},
      {"lines": [{"content": "SUBTOTAL 1,200.00"}]}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		Endpoint:     srv.URL,
		APIKey:       "test-key",
		PollInterval: time.Millisecond,
		MaxAttempts:  5,
	}, discardLogger())
	return c, srv
}

func TestAnalyzeSucceedsAfterPolling(t *testing.T) {
	var polls atomic.Int32
	var gotKey atomic.Value

	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("Ocp-Apim-Subscription-Key"))
		w.Header().Set("Operation-Location", srvURL+"/result/abc")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /result/abc", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"status":"running"}`))
			return
		}
		_, _ = w.Write([]byte(resultJSON))
	})

	c, srv := newTestClient(t, mux)
	srvURL = srv.URL

	lines, pages, err := c.Analyze(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey.Load())
	assert.Equal(t, int32(3), polls.Load())
	assert.Equal(t, 3, pages)
	// The warranty page is dropped wholesale; every retained page ends
	// with a sentinel.
	assert.Equal(t, []string{
		"INVOICE NO: 1234567",
		"123456 BEET CHIOGGIA",
		PageBreak,
		"SUBTOTAL 1,200.00",
		PageBreak,
	}, lines)
}

func TestAnalyzeFailedStatus(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srvURL+"/result/abc")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /result/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"failed"}`))
	})

	c, srv := newTestClient(t, mux)
	srvURL = srv.URL

	_, _, err := c.Analyze(context.Background(), []byte("%PDF-fake"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRAnalysis))
}

func TestAnalyzeTimesOutAfterMaxAttempts(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srvURL+"/result/abc")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /result/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"running"}`))
	})

	c, srv := newTestClient(t, mux)
	srvURL = srv.URL

	_, _, err := c.Analyze(context.Background(), []byte("%PDF-fake"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRTimeout))
}

func TestAnalyzeRejectedSubmission(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	c, _ := newTestClient(t, mux)

	_, _, err := c.Analyze(context.Background(), []byte("%PDF-fake"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRSubmission))
}

func TestAnalyzeMissingOperationLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	c, _ := newTestClient(t, mux)

	_, _, err := c.Analyze(context.Background(), []byte("%PDF-fake"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRSubmission))
}

func TestAnalyzeHonorsContextCancellation(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srvURL+"/result/abc")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /result/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"running"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	c := NewClient(Config{
		Endpoint:     srv.URL,
		APIKey:       "test-key",
		PollInterval: time.Hour,
		MaxAttempts:  5,
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, err := c.Analyze(ctx, []byte("%PDF-fake"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIsBoilerplate(t *testing.T) {
	assert.True(t, isBoilerplate("blah seed is not warranted blah"))
	assert.False(t, isBoilerplate("123456 BEET CHIOGGIA"))
}
