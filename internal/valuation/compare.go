package valuation

import "math"

// Base SNF percentages used by the buy/sell calculator.
const (
	BuyBaseSNFPercentage  = 9.0
	SellBaseSNFPercentage = 8.5
)

// CompareInput is the quick calculator's form. Exactly one of SNF or CLR is
// used; SNF wins when both are set.
type CompareInput struct {
	QuantityKg    float64  `json:"quantity_kg"`
	Rate          float64  `json:"rate"`
	FatPercentage float64  `json:"fat_percentage"`
	SNFPercentage *float64 `json:"snf_percentage,omitempty"`
	CLR           *float64 `json:"clr,omitempty"`
}

// Comparison is what a collector pays (buy) against what the milk fetches at
// the sell-side base SNF.
type Comparison struct {
	FatKg         float64 `json:"fat_kg"`
	SNFKg         float64 `json:"snf_kg"`
	SNFPercentage float64 `json:"snf_percentage"`
	BuyFatRate    float64 `json:"buy_fat_rate"`
	BuySNFRate    float64 `json:"buy_snf_rate"`
	SellFatRate   float64 `json:"sell_fat_rate"`
	SellSNFRate   float64 `json:"sell_snf_rate"`
	BuyAmount     float64 `json:"buy_amount"`
	SellAmount    float64 `json:"sell_amount"`
	BuyAvgRate    float64 `json:"buy_avg_rate"`
	SellAvgRate   float64 `json:"sell_avg_rate"`
	Profit        float64 `json:"profit"`
}

// Compare runs the buy/sell calculator. Fat and SNF mass are not truncated
// here, unlike Calculate.
func Compare(in CompareInput) (Comparison, error) {
	var errs []FieldError
	if !isFinite(in.QuantityKg) || in.QuantityKg <= 0 {
		errs = append(errs, FieldError{Field: FieldWeightKg, Constraint: "must be greater than 0", Value: in.QuantityKg})
	}
	if !isFinite(in.Rate) || in.Rate <= 0 {
		errs = append(errs, FieldError{Field: FieldMilkRate, Constraint: "must be greater than 0", Value: in.Rate})
	}
	if !isFinite(in.FatPercentage) || in.FatPercentage < 0 {
		errs = append(errs, FieldError{Field: FieldFatPercentage, Constraint: "must be 0 or more", Value: in.FatPercentage})
	}

	var snf float64
	switch {
	case in.SNFPercentage != nil:
		snf = *in.SNFPercentage
		if !isFinite(snf) || snf < 0 {
			errs = append(errs, FieldError{Field: FieldSNFPercentage, Constraint: "must be 0 or more", Value: snf})
		}
	case in.CLR != nil:
		if !isFinite(*in.CLR) {
			errs = append(errs, FieldError{Field: FieldCLR, Constraint: "must be a number", Value: *in.CLR})
			break
		}
		raw := float64(*in.CLR/4) + float64(0.20*in.FatPercentage) + 0.14
		snf = math.Floor(raw*100) / 100
	default:
		errs = append(errs, FieldError{Field: FieldSNFPercentage, Constraint: "or clr is required", Value: 0})
	}
	if len(errs) > 0 {
		return Comparison{}, &ValidationError{Errors: errs}
	}

	fatKg := in.QuantityKg * (in.FatPercentage / 100)
	snfKg := in.QuantityKg * (snf / 100)

	buyFatRate := roundFixed(float64(in.Rate*FatRatioPct)/FatReferencePct, 3)
	buySNFRate := roundFixed(float64(in.Rate*SNFRatioPct)/BuyBaseSNFPercentage, 3)
	sellFatRate := roundFixed(float64(in.Rate*FatRatioPct)/FatReferencePct, 3)
	sellSNFRate := roundFixed(float64(in.Rate*SNFRatioPct)/SellBaseSNFPercentage, 3)

	buyAmount := roundFixed(float64(fatKg*buyFatRate)+float64(snfKg*buySNFRate), 2)
	sellAmount := roundFixed(float64(fatKg*sellFatRate)+float64(snfKg*sellSNFRate), 3)

	return Comparison{
		FatKg:         fatKg,
		SNFKg:         snfKg,
		SNFPercentage: snf,
		BuyFatRate:    buyFatRate,
		BuySNFRate:    buySNFRate,
		SellFatRate:   sellFatRate,
		SellSNFRate:   sellSNFRate,
		BuyAmount:     buyAmount,
		SellAmount:    sellAmount,
		BuyAvgRate:    roundFixed(buyAmount/in.QuantityKg, 2),
		SellAvgRate:   roundFixed(sellAmount/in.QuantityKg, 2),
		Profit:        roundFixed(sellAmount-buyAmount, 2),
	}, nil
}
