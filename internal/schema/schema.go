// Package schema validates outgoing line items against the published
// JSON contract before they are handed to downstream consumers.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agridocs/seed-intake/internal/common"
	"github.com/agridocs/seed-intake/internal/entity"
)

const lineItemSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "SeedIntakeLineItem",
  "type": "object",
  "required": ["Vendor", "SourceFile", "VendorItemNumber", "PurchaseOrder", "VendorInvoiceNo", "USD_Actual_Cost_$"],
  "properties": {
    "Vendor": {"type": "string", "minLength": 1},
    "SourceFile": {"type": "string", "minLength": 1},
    "VendorItemNumber": {"type": "string", "minLength": 1},
    "VendorItemDescription": {"type": "string"},
    "VendorLotNo": {"type": "string"},
    "VendorBatchNo": {"type": "string"},
    "OriginCountry": {"type": "string"},
    "PurchaseOrder": {"type": "string"},
    "VendorInvoiceNo": {"type": "string"},
    "Treatment": {"type": "string"},
    "Quantity": {"type": ["number", "null"]},
    "TotalPrice": {"type": ["number", "null"]},
    "TotalUpcharge": {"type": ["number", "null"]},
    "TotalDiscount": {"type": ["number", "null"]},
    "USD_Actual_Cost_$": {"type": ["number", "null"]},
    "PurityPct": {"type": ["number", "null"], "maximum": 99.99},
    "InertPct": {"type": ["number", "null"]},
    "OtherCropPct": {"type": ["number", "null"]},
    "WeedSeedPct": {"type": ["number", "null"]},
    "GermPct": {"type": ["number", "null"], "exclusiveMaximum": 100},
    "GermTestDate": {"type": "string"},
    "SeedCount": {"type": ["number", "null"]},
    "PackageDescription": {"type": "string"},
    "Lots": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["VendorLotNo"],
        "properties": {
          "VendorLotNo": {"type": "string", "minLength": 1},
          "OriginCountry": {"type": "string"},
          "Quantity": {"type": ["number", "null"]},
          "GermPct": {"type": ["number", "null"], "exclusiveMaximum": 100},
          "GermTestDate": {"type": "string"},
          "PurityPct": {"type": ["number", "null"], "maximum": 99.99},
          "InertPct": {"type": ["number", "null"]},
          "OtherCropPct": {"type": ["number", "null"]},
          "WeedSeedPct": {"type": ["number", "null"]},
          "Packages": {"type": ["number", "null"]},
          "NetWeightLB": {"type": ["number", "null"]},
          "USD_Actual_Cost_$": {"type": ["number", "null"]},
          "PackageDescription": {"type": "string"}
        }
      }
    }
  },
  "additionalProperties": false
}`

// Validator checks line items against the embedded contract schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema. A compile failure is a
// programming error surfaced at startup, not at validation time.
func NewValidator() (*Validator, error) {
	s, err := jsonschema.CompileString("lineitem.schema.json", lineItemSchema)
	if err != nil {
		return nil, common.NewAppError("SCHEMA_COMPILE_FAILED", "compiling line item schema", err)
	}
	return &Validator{schema: s}, nil
}

// ValidateItems validates every item and returns the first violation
// found, identified by its index and item number.
func (v *Validator) ValidateItems(items []entity.LineItem) error {
	for i := range items {
		if err := v.validate(&items[i]); err != nil {
			return common.NewAppError("SCHEMA_VALIDATION_FAILED",
				fmt.Sprintf("line item %d (item %s)", i, items[i].VendorItemNumber), err)
		}
	}
	return nil
}

func (v *Validator) validate(item *entity.LineItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return v.schema.Validate(doc)
}
