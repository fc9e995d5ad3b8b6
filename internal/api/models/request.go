package models

import (
	"bytes"
	"encoding/json"

	"dudhiya-collection/internal/bill"
	"dudhiya-collection/internal/valuation"
)

// ValuationRequest is the body of POST /api/v1/valuations.
// A zero base_snf_percentage is replaced by the dairy default.
type ValuationRequest = valuation.Measurement

// CalculatorRequest is the body of POST /api/v1/calculator.
type CalculatorRequest = valuation.CompareInput

// FormValue is raw form text. It accepts a JSON string, a JSON number or null.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		*v = FormValue(data)
	}
	return nil
}

// SNFFromCLRRequest is the body of POST /api/v1/snf-from-clr.
type SNFFromCLRRequest struct {
	CLR           FormValue `json:"clr"`
	FatPercentage FormValue `json:"fat_percentage"`
}

// BillRequest is the body of POST /api/v1/bills.
type BillRequest struct {
	Dairy   string       `json:"dairy,omitempty"`
	Entries []bill.Entry `json:"entries" binding:"required,min=1"`
}

// HistoryQuery binds GET /api/v1/calculator/history.
type HistoryQuery struct {
	Limit int `form:"limit,omitempty" binding:"omitempty,min=1,max=500"`
}

// BillQuery binds POST /api/v1/bills.
type BillQuery struct {
	Format string `form:"format,omitempty" binding:"omitempty,oneof=json csv pdf"`
}
