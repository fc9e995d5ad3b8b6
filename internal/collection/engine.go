package collection

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Defaults fill in request fields the caller left empty.
type Defaults struct {
	BaseSNFPercentage   float64
	FatSNFRatio         string
	CLRConversionFactor float64
	DensityFactor       float64
	FatReference        float64
	RateType            RateType
}

// DefaultDefaults matches the backend's built-in settings.
func DefaultDefaults() Defaults {
	return Defaults{
		BaseSNFPercentage:   9.0,
		FatSNFRatio:         Ratio60x40,
		CLRConversionFactor: 0.14,
		DensityFactor:       1.02,
		FatReference:        6.5,
		RateType:            RateFatSNF,
	}
}

// RequestError is returned for a request that cannot be calculated.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func reqErr(field, format string, args ...any) *RequestError {
	return &RequestError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Engine calculates collection records the way the backend persists them.
type Engine struct {
	defaults Defaults
}

// NewEngine builds an engine; zero fields in d fall back to DefaultDefaults.
func NewEngine(d Defaults) *Engine {
	base := DefaultDefaults()
	if d.BaseSNFPercentage != 0 {
		base.BaseSNFPercentage = d.BaseSNFPercentage
	}
	if d.FatSNFRatio != "" {
		base.FatSNFRatio = d.FatSNFRatio
	}
	if d.CLRConversionFactor != 0 {
		base.CLRConversionFactor = d.CLRConversionFactor
	}
	if d.DensityFactor != 0 {
		base.DensityFactor = d.DensityFactor
	}
	if d.FatReference != 0 {
		base.FatReference = d.FatReference
	}
	if d.RateType != "" {
		base.RateType = d.RateType
	}
	return &Engine{defaults: base}
}

func (e *Engine) applyDefaults(req Request) Request {
	if req.RateType == "" {
		req.RateType = e.defaults.RateType
	}
	if req.BaseSNFPercentage == 0 {
		req.BaseSNFPercentage = e.defaults.BaseSNFPercentage
	}
	if req.FatSNFRatio == "" {
		req.FatSNFRatio = e.defaults.FatSNFRatio
	}
	if req.CLRConversionFactor == nil {
		f := e.defaults.CLRConversionFactor
		req.CLRConversionFactor = &f
	}
	if req.DensityFactor == 0 {
		req.DensityFactor = e.defaults.DensityFactor
	}
	if req.RadioSelection == nil {
		req.RadioSelection = &RadioSelection{SNF: true}
	}
	if req.IncludeRateChartSnapshot == nil {
		include := true
		req.IncludeRateChartSnapshot = &include
	}
	return req
}

// Validate checks a request after defaults have been applied.
func Validate(req Request) error {
	if strings.TrimSpace(req.MilkType) == "" {
		return reqErr("milk_type", "milk_type is required")
	}
	if req.CollectionTime != "morning" && req.CollectionTime != "evening" {
		return reqErr("collection_time", "collection_time must be 'morning' or 'evening', got %q", req.CollectionTime)
	}
	if _, err := time.Parse(dateLayout, req.CollectionDate); err != nil {
		return reqErr("collection_date", "collection_date must be YYYY-MM-DD, got %q", req.CollectionDate)
	}
	if !req.RateType.Valid() {
		return reqErr("rate_type", "unsupported rate_type %q", req.RateType)
	}
	if req.MilkRate <= 0 {
		return reqErr("milk_rate", "milk_rate must be greater than 0")
	}
	if !ValidRatio(req.FatSNFRatio) {
		return reqErr("fat_snf_ratio", "fat_snf_ratio must be %q or %q, got %q", Ratio60x40, Ratio52x48, req.FatSNFRatio)
	}
	if req.DensityFactor <= 0 {
		return reqErr("density_factor", "density_factor must be positive")
	}
	if req.BaseSNFPercentage <= 0 {
		return reqErr("base_snf_percentage", "base_snf_percentage must be positive")
	}
	if req.WeightKg == nil && req.Liters == nil {
		return reqErr("weight_kg", "Either weight_kg or liters must be provided")
	}

	if req.RateType.FatBased() {
		radio := RadioSelection{SNF: true}
		if req.RadioSelection != nil {
			radio = *req.RadioSelection
		}
		if req.FatPercentage == nil {
			return reqErr("fat_percentage", "fat_percentage is required for fat-based calculations")
		}
		if radio.SNF && req.SNFPercentage == nil {
			return reqErr("snf_percentage", "snf_percentage is required when SNF radio is active")
		}
		if radio.CLR && req.CLR == nil {
			return reqErr("clr", "clr value is required when CLR radio is active")
		}
	}

	if req.IsProRata && len(req.FatStepUpThresholds) == 0 {
		return reqErr("fat_step_up_thresholds", "Provide at least one fat step-up threshold for pro-rata calculations")
	}
	return nil
}

// Calculate prices a single collection.
func (e *Engine) Calculate(in Request) (*Response, error) {
	req := e.applyDefaults(in)
	if err := Validate(req); err != nil {
		return nil, err
	}

	milkType := normalizeMilkType(req.MilkType)
	milkRate := req.MilkRate

	var weightKg, liters float64
	switch {
	case req.WeightKg != nil && req.Liters != nil:
		weightKg, liters = *req.WeightKg, *req.Liters
	case req.WeightKg != nil:
		weightKg = *req.WeightKg
		l, err := KgToLiters(weightKg, req.DensityFactor)
		if err != nil {
			return nil, reqErr("density_factor", "%s", err.Error())
		}
		liters = l
	default:
		liters = *req.Liters
		weightKg = LitersToKg(liters, req.DensityFactor)
	}

	measured := "liters"
	if req.RateType == RateKgOnly {
		measured = "kg"
	}

	split := ratioSplits[req.FatSNFRatio]
	fatRatioPct, snfRatioPct := split[0], split[1]
	baseSNF := req.BaseSNFPercentage

	fatPct := 0.0
	if req.FatPercentage != nil {
		fatPct = *req.FatPercentage
	}
	var snfPct float64
	clr := req.CLR

	if req.RateType.FatBased() {
		switch {
		case req.RadioSelection.CLR && clr != nil:
			snfPct = SNFFromCLR(*clr, fatPct, *req.CLRConversionFactor)
		case req.SNFPercentage != nil:
			snfPct = *req.SNFPercentage
		default:
			snfPct = baseSNF
		}
	} else {
		fatPct, snfPct, clr = 0, 0, nil
	}

	fatKg := FloorTwo(FatKg(weightKg, fatPct))
	snfKg := FloorTwo(SNFKg(weightKg, snfPct))

	fatRate, snfRate := 0.0, 0.0
	if fatPct != 0 {
		fatRate = FloorTwo(FatRate(milkRate, fatRatioPct, e.defaults.FatReference))
	}
	if snfPct != 0 {
		snfRate = FloorTwo(SNFRate(milkRate, snfRatioPct, baseSNF))
	}

	var (
		amount                   float64
		fatStepRate, snfStepRate float64
		notes                    = []string{}
	)

	switch {
	case !req.RateType.FatBased():
		amount = weightKg * milkRate
	case req.IsProRata:
		var err error
		fatStepRate, err = ResolveThresholdRate(fatPct, req.FatStepUpThresholds, StepUp)
		if err != nil {
			return nil, err
		}
		snfStepRate, err = ResolveThresholdRate(snfPct, req.SNFStepDownThresholds, StepDown)
		if err != nil {
			return nil, err
		}
		fatAdjustment := float64((fatPct - e.defaults.FatReference) * (fatStepRate * 10))
		snfAdjustment := float64((snfPct - baseSNF) * (snfStepRate * 10))
		finalRate := milkRate + fatAdjustment + snfAdjustment
		amount = finalRate * weightKg
		notes = append(notes, "Pro-rata adjustments applied")
	default:
		amount = FloorTwo(fatKg*fatRate) + FloorTwo(snfKg*snfRate)
	}

	solidWeight := amount / milkRate

	amountDigits := 3
	if req.IsProRata {
		amountDigits = 2
	}

	clrText := ""
	if clr != nil {
		clrText = formatFixed(*clr, 3)
	}

	payload := Payload{
		CollectionTime:    req.CollectionTime,
		MilkType:          milkType,
		Customer:          req.CustomerID,
		CollectionDate:    req.CollectionDate,
		Measured:          measured,
		Liters:            formatFixed(liters, 3),
		Kg:                formatFixed(weightKg, 3),
		FatPercentage:     formatFixed(fatPct, 3),
		FatKg:             formatFixed(fatKg, 3),
		CLR:               clrText,
		SNFPercentage:     formatFixed(snfPct, 3),
		SNFKg:             formatFixed(snfKg, 3),
		FatRate:           formatFixed(fatRate, 3),
		SNFRate:           formatFixed(snfRate, 3),
		MilkRate:          formatFixed(milkRate, 3),
		Amount:            formatFixed(amount, amountDigits),
		SolidWeight:       formatFixed(solidWeight, 3),
		BaseSNFPercentage: formatFixed(baseSNF, 3),
	}

	if req.IsProRata {
		fatStep := formatFixed(fatStepRate, 3)
		snfStep := formatFixed(snfStepRate, 3)
		ratio := ratioAPINames[req.FatSNFRatio]
		factor := formatFixed(*req.CLRConversionFactor, 2)
		proRata := true
		payload.FatStepUpRate = &fatStep
		payload.SNFStepDownRate = &snfStep
		payload.IsProRata = &proRata
		payload.FatSNFRatio = &ratio
		payload.CLRConversionFactor = &factor
		payload.ProRataCollectionRateChart = buildSnapshot(req)
	}

	return &Response{
		Payload: payload,
		Summary: Summary{
			Measured:         measured,
			MilkRate:         payload.MilkRate,
			AverageRate:      formatFixed(averageRate(amount, measured, weightKg, liters, fatPct), 3),
			IsProRataApplied: req.IsProRata,
			Notes:            notes,
		},
	}, nil
}

func averageRate(amount float64, measured string, kg, liters, fatPct float64) float64 {
	if measured == "liters" && fatPct <= 0 {
		if liters == 0 {
			return 0
		}
		return amount / liters
	}
	if kg == 0 {
		return 0
	}
	return amount / kg
}

func buildSnapshot(req Request) *RateChartSnapshot {
	if req.IncludeRateChartSnapshot != nil && !*req.IncludeRateChartSnapshot {
		return nil
	}
	if len(req.FatStepUpThresholds) == 0 && len(req.SNFStepDownThresholds) == 0 {
		return nil
	}
	snap := &RateChartSnapshot{
		FatStepUpRates:   make([]RateChartPoint, 0, len(req.FatStepUpThresholds)),
		SNFStepDownRates: make([]RateChartPoint, 0, len(req.SNFStepDownThresholds)),
	}
	for _, t := range req.FatStepUpThresholds {
		snap.FatStepUpRates = append(snap.FatStepUpRates, RateChartPoint{Step: t.Threshold, Rate: t.Rate})
	}
	for _, t := range req.SNFStepDownThresholds {
		snap.SNFStepDownRates = append(snap.SNFStepDownRates, RateChartPoint{Step: t.Threshold, Rate: t.Rate})
	}
	return snap
}

func normalizeMilkType(milkType string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(milkType)), " ", "_")
	if normalized == "cow+buffalo" || normalized == "cow_buffalo" {
		return "cow_buffalo"
	}
	return normalized
}
