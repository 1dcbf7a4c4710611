// Package batch orchestrates one vendor batch end to end: concurrent
// extraction, document classification, enrichment-map construction,
// vendor parsing, cross-document merge and final derivation.
package batch

import (
	"context"
	"log/slog"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/calc"
	"github.com/agridocs/seed-intake/internal/catalog"
	"github.com/agridocs/seed-intake/internal/common"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/enrich"
	"github.com/agridocs/seed-intake/internal/parser"
	"github.com/agridocs/seed-intake/internal/schema"
)

// Inputs carries the batch-level reference data.
type Inputs struct {
	// Catalog is the known package-description catalog, used for
	// exact-then-fuzzy canonicalization.
	Catalog *catalog.Catalog
	// Treatments is the known treatment vocabulary; matched treatments
	// are canonicalized to the catalog spelling.
	Treatments *catalog.Catalog
}

// Result is the outcome of one batch run.
type Result struct {
	// Items maps invoice filename to its extracted line items. A
	// failed or empty document maps to an empty slice.
	Items map[string][]entity.LineItem
	// Events holds one audit event per input document, in no
	// particular order.
	Events []entity.ExtractionEvent
}

// Processor runs vendor batches.
type Processor struct {
	queue     *AcquireQueue
	validator *schema.Validator
	logger    *slog.Logger
}

func NewProcessor(queue *AcquireQueue, validator *schema.Validator, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{queue: queue, validator: validator, logger: logger}
}

// ProcessBatch extracts, enriches and normalizes every document in the
// batch. Per-document failures degrade to empty results; the batch
// itself only fails on an unusable vendor.
func (p *Processor) ProcessBatch(ctx context.Context, vendor constants.Vendor, docs []entity.Document, inputs Inputs) (*Result, error) {
	vp, ok := parser.ForVendor(vendor, p.logger)
	if !ok {
		return nil, common.NewAppError("UNKNOWN_VENDOR", "no parser for vendor "+string(vendor), common.ErrInvalidInput)
	}

	contents, errs := p.queue.AcquireAll(ctx, docs)

	result := &Result{Items: make(map[string][]entity.LineItem, len(docs))}

	// Classify before parsing: lookup maps must cover the whole batch
	// before the first invoice lookup.
	aux := make(map[constants.DocKind][]entity.Content)
	type invoiceDoc struct {
		name    string
		content entity.Content
	}
	var invoices []invoiceDoc

	for _, doc := range docs {
		if err, failed := errs[doc.Name]; failed {
			result.Items[doc.Name] = []entity.LineItem{}
			result.Events = append(result.Events, entity.ExtractionEvent{
				Vendor:   string(vendor),
				Filename: doc.Name,
			})
			p.logger.Warn("batch.document.skipped", "filename", doc.Name, "error", err)
			continue
		}
		content := contents[doc.Name]
		kind := enrich.DetectKind(content)
		if kind == constants.DocInvoice {
			invoices = append(invoices, invoiceDoc{name: doc.Name, content: content})
		} else {
			aux[kind] = append(aux[kind], content)
			result.Events = append(result.Events, entity.ExtractionEvent{
				Vendor:           string(vendor),
				Filename:         doc.Name,
				ExtractionMethod: content.Method,
				PageCount:        content.Pages,
			})
			p.logger.Info("batch.document.classified", "filename", doc.Name, "kind", string(kind))
		}
	}

	norm := enrich.NormalizerFor(vendor)
	maps := enrich.Build(aux, norm, constants.GermClampFor(vendor), p.logger)

	for _, inv := range invoices {
		items := vp.Parse(inv.content, inv.name)
		if items == nil {
			items = []entity.LineItem{}
		}
		enrich.Merge(items, maps, norm)
		p.finalize(items, inputs)

		if p.validator != nil {
			if err := p.validator.ValidateItems(items); err != nil {
				p.logger.Warn("batch.schema.violation", "filename", inv.name, "error", err)
			}
		}

		result.Items[inv.name] = items
		result.Events = append(result.Events, entity.ExtractionEvent{
			Vendor:           string(vendor),
			Filename:         inv.name,
			ExtractionMethod: inv.content.Method,
			PageCount:        inv.content.Pages,
			LineCount:        len(items),
		})
		p.logger.Info("batch.invoice.parsed", "filename", inv.name,
			"method", inv.content.Method, "pages", inv.content.Pages, "items", len(items))
	}

	return result, nil
}

// finalize derives the fields that depend on the fully merged record:
// unit cost, canonical package description and treatment spelling, and
// the copy-down of item-level values onto lots.
func (p *Processor) finalize(items []entity.LineItem, inputs Inputs) {
	for i := range items {
		it := &items[i]

		it.UnitCost = calc.UnitCost(it.TotalPrice, it.TotalUpcharge, it.TotalDiscount, it.Quantity)

		if inputs.Catalog != nil && it.PackageDescription == "" {
			it.PackageDescription = calc.InferPackageDescription(it.VendorItemDesc, inputs.Catalog)
		}
		if inputs.Treatments != nil && it.Treatment != "" {
			if canon, ok := inputs.Treatments.Canonical(it.Treatment); ok {
				it.Treatment = canon
			}
		}

		for l := range it.Lots {
			lot := &it.Lots[l]
			if lot.UnitCost == nil {
				lot.UnitCost = it.UnitCost
			}
			if lot.PackageDescription == "" {
				lot.PackageDescription = it.PackageDescription
			}
			if lot.OriginCountry == "" {
				lot.OriginCountry = it.OriginCountry
			}
		}
	}
}
