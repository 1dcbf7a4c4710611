package constants

import "strings"

// Vendor identifies which document layout family a PDF belongs to.
// Every vendor has a bespoke parser tuned to its known layout.
type Vendor string

const (
	VendorHMClause  Vendor = "HM_CLAUSE"
	VendorSakata    Vendor = "SAKATA"
	VendorBejo      Vendor = "BEJO"
	VendorEnzaZaden Vendor = "ENZA_ZADEN"
	VendorRijkZwaan Vendor = "RIJK_ZWAAN"
	VendorVilmorin  Vendor = "VILMORIN"
)

// AllVendors returns every supported vendor in a stable order.
func AllVendors() []Vendor {
	return []Vendor{
		VendorHMClause,
		VendorSakata,
		VendorBejo,
		VendorEnzaZaden,
		VendorRijkZwaan,
		VendorVilmorin,
	}
}

// ParseVendor resolves a user-supplied vendor label, tolerating case
// and separator differences ("hm-clause", "HM Clause", "hm_clause").
func ParseVendor(s string) (Vendor, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, v := range AllVendors() {
		if string(v) == norm {
			return v, true
		}
	}
	return "", false
}
