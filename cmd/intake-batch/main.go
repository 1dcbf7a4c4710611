package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/acquire"
	"github.com/agridocs/seed-intake/internal/batch"
	"github.com/agridocs/seed-intake/internal/catalog"
	"github.com/agridocs/seed-intake/internal/common"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/export"
	"github.com/agridocs/seed-intake/internal/ocr"
	"github.com/agridocs/seed-intake/internal/schema"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory of PDFs to process (required)")
		vendorStr = flag.String("vendor", "", "vendor name, e.g. HM_CLAUSE, SAKATA, BEJO (required)")
		out       = flag.String("out", "", "output XLSX path (defaults to <dir>/../lineitems.xlsx)")
		jsonOut   = flag.String("json", "", "output JSON path (optional)")
		catPath   = flag.String("catalog", "", "package-description catalog file (overrides PACKAGE_CATALOG_PATH)")
		treatPath = flag.String("treatments", "", "treatment vocabulary file (overrides TREATMENTS_PATH)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	vendor, ok := constants.ParseVendor(*vendorStr)
	if !ok {
		printError("Error: unknown --vendor %q (known: %v)\n", *vendorStr, constants.AllVendors())
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "lineitems.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *catPath != "" {
		cfg.Catalog.PackagePath = *catPath
	}
	if *treatPath != "" {
		cfg.Catalog.TreatmentsPath = *treatPath
	}

	inputs, err := loadInputs(cfg)
	if err != nil {
		logger.Error("failed to load reference data", "error", err)
		os.Exit(1)
	}

	docs, err := readDocuments(*dir)
	if err != nil {
		logger.Error("failed to read input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		printError("Error: no PDF files found under %s\n", *dir)
		os.Exit(1)
	}

	batchID := uuid.New()
	logger.Info("batch.start", "batch_id", batchID.String(),
		"vendor", string(vendor), "documents", len(docs), "dir", *dir)

	var ocrClient acquire.OCRClient
	if cfg.OCR.Endpoint != "" {
		ocrClient = ocr.NewClient(ocr.Config{
			Endpoint:     cfg.OCR.Endpoint,
			APIKey:       cfg.OCR.APIKey,
			PollInterval: cfg.OCR.PollInterval,
			MaxAttempts:  cfg.OCR.MaxAttempts,
		}, logger)
	} else {
		logger.Warn("OCR endpoint not configured, scanned documents will fail extraction")
	}

	extractor := acquire.NewExtractor(ocrClient, logger)
	queue := batch.NewAcquireQueue(extractor, logger,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithDocTimeout(cfg.Batch.DocTimeout),
	)

	validator, err := schema.NewValidator()
	if err != nil {
		logger.Error("failed to compile output schema", "error", err)
		os.Exit(1)
	}

	processor := batch.NewProcessor(queue, validator, logger)

	ctx := context.Background()
	result, err := processor.ProcessBatch(ctx, vendor, docs, inputs)
	if err != nil {
		logger.Error("batch failed", "batch_id", batchID.String(), "error", err)
		os.Exit(1)
	}

	if *jsonOut != "" {
		raw, err := json.MarshalIndent(result.Items, "", "  ")
		if err != nil {
			logger.Error("failed to encode JSON output", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonOut, raw, 0644); err != nil {
			logger.Error("failed to write JSON output", "path", *jsonOut, "error", err)
			os.Exit(1)
		}
	}

	svc := export.NewService(logger)
	xlsxBytes, err := svc.ExportItemsXLSX(result.Items)
	if err != nil {
		logger.Error("failed to export line items", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	items := 0
	empty := 0
	for _, lis := range result.Items {
		items += len(lis)
		if len(lis) == 0 {
			empty++
		}
	}
	logger.Info("batch.complete", "batch_id", batchID.String(),
		"documents", len(docs), "invoices", len(result.Items),
		"line_items", items, "empty_documents", empty, "output_file", *out)

	fmt.Printf("Batch complete!\n")
	fmt.Printf("- Vendor: %s\n", vendor)
	fmt.Printf("- Documents: %d\n", len(docs))
	fmt.Printf("- Line items: %d\n", items)
	fmt.Printf("- Empty documents: %d\n", empty)
	fmt.Printf("- Output: %s\n", *out)
}

func loadInputs(cfg *common.Config) (batch.Inputs, error) {
	var inputs batch.Inputs
	if cfg.Catalog.PackagePath != "" {
		lines, err := catalog.LoadLines(cfg.Catalog.PackagePath)
		if err != nil {
			return inputs, fmt.Errorf("package catalog: %w", err)
		}
		inputs.Catalog = catalog.New(lines)
	}
	if cfg.Catalog.TreatmentsPath != "" {
		lines, err := catalog.LoadLines(cfg.Catalog.TreatmentsPath)
		if err != nil {
			return inputs, fmt.Errorf("treatments: %w", err)
		}
		inputs.Treatments = catalog.New(lines)
	}
	return inputs, nil
}

func readDocuments(dir string) ([]entity.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []entity.Document
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		docs = append(docs, entity.Document{Name: e.Name(), Bytes: raw})
	}
	return docs, nil
}
