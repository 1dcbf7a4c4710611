package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, 1250*time.Millisecond, cfg.OCR.PollInterval)
	assert.Equal(t, 30, cfg.OCR.MaxAttempts)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Batch.DocTimeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_ENDPOINT", "https://ocr.example.com")
	t.Setenv("OCR_API_KEY", "k")
	t.Setenv("OCR_POLL_INTERVAL", "2s")
	t.Setenv("OCR_MAX_ATTEMPTS", "10")
	t.Setenv("BATCH_WORKERS", "8")

	cfg := LoadConfig()
	assert.Equal(t, "https://ocr.example.com", cfg.OCR.Endpoint)
	assert.Equal(t, 2*time.Second, cfg.OCR.PollInterval)
	assert.Equal(t, 10, cfg.OCR.MaxAttempts)
	assert.Equal(t, 8, cfg.Batch.Workers)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Batch.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.OCR.Endpoint = "https://ocr.example.com"
	cfg.OCR.APIKey = ""
	assert.Error(t, cfg.Validate())
}
