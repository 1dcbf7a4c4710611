package constants

// GermClampFor returns the value germination percentages of exactly
// 100 are clamped to for a vendor. The downstream ERP rejects literal
// 100s, so this is a deliberate business rule, not a parsing artifact.
func GermClampFor(v Vendor) float64 {
	switch v {
	case VendorHMClause, VendorSakata, VendorRijkZwaan:
		return 98
	default:
		return 99
	}
}
