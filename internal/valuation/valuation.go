package valuation

import "math"

// Pricing constants used by the collection screens. They encode the dairy's
// pricing convention and must stay in step with the server.
const (
	// MilkDensityKgPerLiter converts collected weight into liters.
	MilkDensityKgPerLiter = 1.02249

	// FatRatioPct and SNFRatioPct split the milk rate between fat and SNF.
	FatRatioPct = 60.0
	SNFRatioPct = 40.0

	// FatReferencePct is the fat content the fat share of the rate is spread over.
	FatReferencePct = 6.5

	MinFatPercentage = 4.0
	MaxFatPercentage = 12.9
	MinSNFPercentage = 4.0
	MaxSNFPercentage = 9.9
)

// BaseSNFOptions are the base SNF percentages a collector can pick from.
var BaseSNFOptions = []float64{9.0, 9.1, 9.2, 9.3, 9.4, 9.5}

// Measurement is the raw input recorded for a single collection.
type Measurement struct {
	WeightKg          float64 `json:"weight_kg" yaml:"weight_kg"`
	FatPercentage     float64 `json:"fat_percentage" yaml:"fat_percentage"`
	SNFPercentage     float64 `json:"snf_percentage" yaml:"snf_percentage"`
	MilkRate          float64 `json:"milk_rate" yaml:"milk_rate"`
	BaseSNFPercentage float64 `json:"base_snf_percentage" yaml:"base_snf_percentage"`
}

// Result is the billable breakdown derived from a Measurement.
// Every field is already rounded or truncated to its display precision.
type Result struct {
	Liters      float64 `json:"liters"`
	FatKg       float64 `json:"fat_kg"`
	SNFKg       float64 `json:"snf_kg"`
	CLR         float64 `json:"clr"`
	FatRate     float64 `json:"fat_rate"`
	SNFRate     float64 `json:"snf_rate"`
	Amount      float64 `json:"amount"`
	SolidWeight float64 `json:"solid_weight"`
}

// Calculate derives the billable breakdown for m.
//
// The products below are wrapped in float64 conversions so the compiler
// never fuses them into FMA instructions; amounts have to match the server
// to the last digit.
func Calculate(m Measurement) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	liters := roundFixed(m.WeightKg/MilkDensityKgPerLiter, 2)
	fatKg := truncateShortest(float64(m.WeightKg*(m.FatPercentage/100)), 2)
	snfKg := truncateShortest(float64(m.WeightKg*(m.SNFPercentage/100)), 2)
	clr := roundFixed(4*(m.SNFPercentage-float64(0.2*m.FatPercentage)-0.14), 3)

	fatRate := roundFixed(float64(m.MilkRate*FatRatioPct)/FatReferencePct, 3)
	snfRate := roundFixed(float64(m.MilkRate*SNFRatioPct)/m.BaseSNFPercentage, 3)

	amount := roundFixed(float64(fatKg*fatRate)+float64(snfKg*snfRate), 2)
	solidWeight := roundFixed(amount/m.MilkRate, 3)

	return Result{
		Liters:      liters,
		FatKg:       fatKg,
		SNFKg:       snfKg,
		CLR:         clr,
		FatRate:     fatRate,
		SNFRate:     snfRate,
		Amount:      amount,
		SolidWeight: solidWeight,
	}, nil
}

// Validate reports every field of m that is outside the accepted range.
func (m Measurement) Validate() error {
	var errs []FieldError

	if !isFinite(m.WeightKg) || m.WeightKg <= 0 {
		errs = append(errs, FieldError{Field: FieldWeightKg, Constraint: "must be greater than 0", Value: m.WeightKg})
	}
	if !inRange(m.FatPercentage, MinFatPercentage, MaxFatPercentage) {
		errs = append(errs, FieldError{Field: FieldFatPercentage, Constraint: "must be between 4.0 and 12.9", Value: m.FatPercentage})
	}
	if !inRange(m.SNFPercentage, MinSNFPercentage, MaxSNFPercentage) {
		errs = append(errs, FieldError{Field: FieldSNFPercentage, Constraint: "must be between 4.0 and 9.9", Value: m.SNFPercentage})
	}
	if !isFinite(m.MilkRate) || m.MilkRate <= 0 {
		errs = append(errs, FieldError{Field: FieldMilkRate, Constraint: "must be greater than 0", Value: m.MilkRate})
	}
	if !IsBaseSNFOption(m.BaseSNFPercentage) {
		errs = append(errs, FieldError{Field: FieldBaseSNFPercentage, Constraint: "must be one of 9.0, 9.1, 9.2, 9.3, 9.4, 9.5", Value: m.BaseSNFPercentage})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// IsBaseSNFOption reports whether v is one of BaseSNFOptions.
func IsBaseSNFOption(v float64) bool {
	for _, opt := range BaseSNFOptions {
		if math.Abs(v-opt) < 1e-9 {
			return true
		}
	}
	return false
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
