package constants

// Field names that must appear on every exported line item, matching
// the column names the ERP import expects.
const (
	FieldPurchaseOrder   = "PurchaseOrder"
	FieldVendorInvoiceNo = "VendorInvoiceNo"
	FieldUSDActualCost   = "USD_Actual_Cost_$"
)
