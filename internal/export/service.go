// Package export renders batch results as XLSX workbooks for the
// intake team's review step.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
)

// Service produces XLSX bytes from extracted line items.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var headers = []string{
	"Vendor",
	"Source File",
	"Item Number",
	"Description",
	"Lot/Batch",
	"Origin",
	constants.FieldPurchaseOrder,
	constants.FieldVendorInvoiceNo,
	"Treatment",
	"Quantity",
	"Total Price",
	"Upcharge",
	"Discount",
	constants.FieldUSDActualCost,
	"Purity %",
	"Inert %",
	"Germ %",
	"Germ Test Date",
	"Seed Count",
	"Package Description",
	"Packages",
	"Net Weight LB",
}

// ExportItemsXLSX writes one row per lot for multi-lot items and one
// row per item otherwise, grouped by source filename in sorted order.
func (s *Service) ExportItemsXLSX(itemsByFile map[string][]entity.LineItem) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Line Items"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on ours.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	files := make([]string, 0, len(itemsByFile))
	for name := range itemsByFile {
		files = append(files, name)
	}
	sort.Strings(files)

	row := 2
	total := 0
	for _, name := range files {
		for i := range itemsByFile[name] {
			row = s.writeItem(f, sheet, row, &itemsByFile[name][i])
			total++
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 22)
	_ = f.SetColWidth(sheet, "C", "E", 16)
	_ = f.SetColWidth(sheet, "D", "D", 36)
	_ = f.SetColWidth(sheet, "T", "T", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"files", len(files),
		"items", total,
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeItem(f *excelize.File, sheet string, row int, it *entity.LineItem) int {
	write := func(col, r int, v any) {
		if v == nil {
			return
		}
		cell, _ := excelize.CoordinatesToCellName(col, r)
		_ = f.SetCellValue(sheet, cell, v)
	}
	writeF := func(col, r int, v *float64) {
		if v != nil {
			write(col, r, *v)
		}
	}

	base := func(r int) {
		write(1, r, it.Vendor)
		write(2, r, it.SourceFile)
		write(3, r, it.VendorItemNumber)
		write(4, r, it.VendorItemDesc)
		write(6, r, it.OriginCountry)
		write(7, r, it.PurchaseOrder)
		write(8, r, it.VendorInvoiceNo)
		write(9, r, it.Treatment)
		writeF(11, r, it.TotalPrice)
		writeF(12, r, it.TotalUpcharge)
		writeF(13, r, it.TotalDiscount)
		writeF(14, r, it.UnitCost)
		writeF(19, r, it.SeedCount)
	}

	if len(it.Lots) == 0 {
		base(row)
		write(5, row, it.LotOrBatch())
		writeF(10, row, it.Quantity)
		writeF(15, row, it.PurityPct)
		writeF(16, row, it.InertPct)
		writeF(17, row, it.GermPct)
		write(18, row, it.GermTestDate)
		write(20, row, it.PackageDescription)
		return row + 1
	}

	for l := range it.Lots {
		lot := &it.Lots[l]
		base(row)
		write(5, row, lot.VendorLotNo)
		if lot.OriginCountry != "" {
			write(6, row, lot.OriginCountry)
		}
		writeF(10, row, lot.Quantity)
		writeF(14, row, lot.UnitCost)
		writeF(15, row, lot.PurityPct)
		writeF(16, row, lot.InertPct)
		writeF(17, row, lot.GermPct)
		write(18, row, lot.GermTestDate)
		write(20, row, lot.PackageDescription)
		writeF(21, row, lot.Packages)
		writeF(22, row, lot.NetWeightLB)
		row++
	}
	return row
}
