package entity

// Lot is one production lot under an invoice line item. Fields left
// nil/empty after enrichment simply had no matching auxiliary record.
type Lot struct {
	VendorLotNo        string   `json:"VendorLotNo"`
	OriginCountry      string   `json:"OriginCountry,omitempty"`
	Quantity           *float64 `json:"Quantity,omitempty"`
	GermPct            *float64 `json:"GermPct,omitempty"`
	GermTestDate       string   `json:"GermTestDate,omitempty"`
	PurityPct          *float64 `json:"PurityPct,omitempty"`
	InertPct           *float64 `json:"InertPct,omitempty"`
	OtherCropPct       *float64 `json:"OtherCropPct,omitempty"`
	WeedSeedPct        *float64 `json:"WeedSeedPct,omitempty"`
	Packages           *float64 `json:"Packages,omitempty"`
	NetWeightLB        *float64 `json:"NetWeightLB,omitempty"`
	UnitCost           *float64 `json:"USD_Actual_Cost_$,omitempty"`
	PackageDescription string   `json:"PackageDescription,omitempty"`
}

// LineItem is the normalized output record for one invoice line.
// Nullable numeric fields are pointers so absent values survive the
// JSON round trip as null rather than zero.
type LineItem struct {
	Vendor           string `json:"Vendor"`
	SourceFile       string `json:"SourceFile"`
	VendorItemNumber string `json:"VendorItemNumber"`
	VendorItemDesc   string `json:"VendorItemDescription,omitempty"`
	VendorLotNo      string `json:"VendorLotNo,omitempty"`
	VendorBatchNo    string `json:"VendorBatchNo,omitempty"`
	OriginCountry    string `json:"OriginCountry,omitempty"`
	PurchaseOrder    string `json:"PurchaseOrder"`
	VendorInvoiceNo  string `json:"VendorInvoiceNo"`
	Treatment        string `json:"Treatment,omitempty"`

	Quantity      *float64 `json:"Quantity,omitempty"`
	TotalPrice    *float64 `json:"TotalPrice,omitempty"`
	TotalUpcharge *float64 `json:"TotalUpcharge,omitempty"`
	TotalDiscount *float64 `json:"TotalDiscount,omitempty"`
	UnitCost      *float64 `json:"USD_Actual_Cost_$"`

	PurityPct    *float64 `json:"PurityPct,omitempty"`
	InertPct     *float64 `json:"InertPct,omitempty"`
	OtherCropPct *float64 `json:"OtherCropPct,omitempty"`
	WeedSeedPct  *float64 `json:"WeedSeedPct,omitempty"`
	GermPct      *float64 `json:"GermPct,omitempty"`
	GermTestDate string   `json:"GermTestDate,omitempty"`
	SeedCount    *float64 `json:"SeedCount,omitempty"`

	PackageDescription string `json:"PackageDescription,omitempty"`

	Lots []Lot `json:"Lots,omitempty"`
}

// LotOrBatch returns the identifier used as the enrichment join key.
func (li *LineItem) LotOrBatch() string {
	if li.VendorLotNo != "" {
		return li.VendorLotNo
	}
	return li.VendorBatchNo
}
