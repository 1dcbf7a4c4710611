// ocrcheck submits a single PDF to the OCR service and prints the
// extracted lines. Useful for verifying credentials and inspecting
// what a problem document actually looks like to the parsers.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agridocs/seed-intake/internal/common"
	"github.com/agridocs/seed-intake/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "ocrcheck <file.pdf>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.OCR.Endpoint == "" {
		logger.Error("OCR_ENDPOINT required")
		os.Exit(1)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read file", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	client := ocr.NewClient(ocr.Config{
		Endpoint:     cfg.OCR.Endpoint,
		APIKey:       cfg.OCR.APIKey,
		PollInterval: cfg.OCR.PollInterval,
		MaxAttempts:  cfg.OCR.MaxAttempts,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	lines, pages, err := client.Analyze(ctx, raw)
	dur := time.Since(start)

	if err != nil {
		logger.Error("ocr analysis failed", "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("ocr analysis OK",
		"pages", pages, "lines", len(lines), "duration_ms", dur.Milliseconds())
	for _, line := range lines {
		fmt.Println(line)
	}
}
