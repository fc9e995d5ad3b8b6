package valuation

import (
	"strconv"
	"strings"
)

// Field names used in validation errors.
const (
	FieldWeightKg          = "weightKg"
	FieldFatPercentage     = "fatPercentage"
	FieldSNFPercentage     = "snfPercentage"
	FieldMilkRate          = "milkRate"
	FieldBaseSNFPercentage = "baseSnfPercentage"
	FieldCLR               = "clr"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field      string  `json:"field"`
	Constraint string  `json:"constraint"`
	Value      float64 `json:"value"`
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Constraint + ", got " + strconv.FormatFloat(e.Value, 'f', -1, 64)
}

// ValidationError is returned when a calculation input is out of range.
// Values are reported as given; nothing is clamped.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Fields lists the rejected field names in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}
