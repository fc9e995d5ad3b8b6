package collection

import "encoding/json"

// RateType selects how a collection is priced.
type RateType string

const (
	RateFatSNF     RateType = "fat_snf"
	RateFatCLR     RateType = "fat_clr"
	RateKgOnly     RateType = "kg_only"
	RateLitersOnly RateType = "liters_only"
)

// Valid reports whether r is a known rate type.
func (r RateType) Valid() bool {
	switch r {
	case RateFatSNF, RateFatCLR, RateKgOnly, RateLitersOnly:
		return true
	}
	return false
}

// FatBased reports whether the rate type prices fat and SNF separately.
func (r RateType) FatBased() bool {
	return r == RateFatSNF || r == RateFatCLR
}

// Fat/SNF ratio keys as stored in dairy settings.
const (
	Ratio60x40 = "60_40"
	Ratio52x48 = "52_48"
)

var ratioSplits = map[string][2]float64{
	Ratio60x40: {60, 40},
	Ratio52x48: {52, 48},
}

var ratioAPINames = map[string]string{
	Ratio60x40: "60/40",
	Ratio52x48: "52/48",
}

// ValidRatio reports whether ratio is a supported fat/SNF split.
func ValidRatio(ratio string) bool {
	_, ok := ratioSplits[ratio]
	return ok
}

// RadioSelection mirrors the SNF/CLR toggle on the collection form.
type RadioSelection struct {
	SNF bool `json:"snf"`
	CLR bool `json:"clr"`
}

// UnmarshalJSON defaults each omitted field on its own: snf on, clr off.
func (r *RadioSelection) UnmarshalJSON(data []byte) error {
	type plain RadioSelection
	v := plain{SNF: true}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RadioSelection(v)
	return nil
}

// Threshold is one rung of a pro-rata rate chart.
type Threshold struct {
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
}

// UnmarshalJSON accepts "step" as an alias for "threshold"; rate charts
// stored by the backend use the former.
func (t *Threshold) UnmarshalJSON(data []byte) error {
	var raw struct {
		Threshold *float64 `json:"threshold"`
		Step      *float64 `json:"step"`
		Rate      float64  `json:"rate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Threshold != nil:
		t.Threshold = *raw.Threshold
	case raw.Step != nil:
		t.Threshold = *raw.Step
	}
	t.Rate = raw.Rate
	return nil
}

// RateChartPoint is a threshold as echoed back in a rate chart snapshot.
type RateChartPoint struct {
	Step float64 `json:"step"`
	Rate float64 `json:"rate"`
}

// RateChartSnapshot records the pro-rata chart a collection was priced with.
type RateChartSnapshot struct {
	FatStepUpRates   []RateChartPoint `json:"fat_step_up_rates"`
	SNFStepDownRates []RateChartPoint `json:"snf_step_down_rates"`
}

// Request is the body of a collection calculation.
type Request struct {
	CustomerID               int64           `json:"customer_id"`
	MilkType                 string          `json:"milk_type"`
	CollectionTime           string          `json:"collection_time"`
	CollectionDate           string          `json:"collection_date"`
	RateType                 RateType        `json:"rate_type"`
	MilkRate                 float64         `json:"milk_rate"`
	WeightKg                 *float64        `json:"weight_kg,omitempty"`
	Liters                   *float64        `json:"liters,omitempty"`
	FatPercentage            *float64        `json:"fat_percentage,omitempty"`
	SNFPercentage            *float64        `json:"snf_percentage,omitempty"`
	CLR                      *float64        `json:"clr,omitempty"`
	RadioSelection           *RadioSelection `json:"radio_selection,omitempty"`
	BaseSNFPercentage        float64         `json:"base_snf_percentage,omitempty"`
	FatSNFRatio              string          `json:"fat_snf_ratio,omitempty"`
	CLRConversionFactor      *float64        `json:"clr_conversion_factor,omitempty"`
	DensityFactor            float64         `json:"density_factor,omitempty"`
	IsProRata                bool            `json:"is_pro_rata"`
	FatStepUpThresholds      []Threshold     `json:"fat_step_up_thresholds,omitempty"`
	SNFStepDownThresholds    []Threshold     `json:"snf_step_down_thresholds,omitempty"`
	IncludeRateChartSnapshot *bool           `json:"include_rate_chart_snapshot,omitempty"`
}

// Payload is the collection record ready to be persisted by the backend.
// Numbers are fixed-point strings.
type Payload struct {
	CollectionTime             string             `json:"collection_time"`
	MilkType                   string             `json:"milk_type"`
	Customer                   int64              `json:"customer"`
	CollectionDate             string             `json:"collection_date"`
	Measured                   string             `json:"measured"`
	Liters                     string             `json:"liters"`
	Kg                         string             `json:"kg"`
	FatPercentage              string             `json:"fat_percentage"`
	FatKg                      string             `json:"fat_kg"`
	CLR                        string             `json:"clr"`
	SNFPercentage              string             `json:"snf_percentage"`
	SNFKg                      string             `json:"snf_kg"`
	FatRate                    string             `json:"fat_rate"`
	SNFRate                    string             `json:"snf_rate"`
	MilkRate                   string             `json:"milk_rate"`
	Amount                     string             `json:"amount"`
	SolidWeight                string             `json:"solid_weight"`
	BaseSNFPercentage          string             `json:"base_snf_percentage"`
	FatStepUpRate              *string            `json:"fat_step_up_rate,omitempty"`
	SNFStepDownRate            *string            `json:"snf_step_down_rate,omitempty"`
	IsProRata                  *bool              `json:"is_pro_rata,omitempty"`
	FatSNFRatio                *string            `json:"fat_snf_ratio,omitempty"`
	CLRConversionFactor        *string            `json:"clr_conversion_factor,omitempty"`
	ProRataCollectionRateChart *RateChartSnapshot `json:"pro_rata_collection_rate_chart,omitempty"`
}

// Summary is the human-facing digest shown next to the payload.
type Summary struct {
	Measured         string   `json:"measured"`
	MilkRate         string   `json:"milk_rate"`
	AverageRate      string   `json:"average_rate"`
	IsProRataApplied bool     `json:"is_pro_rata_applied"`
	Notes            []string `json:"notes"`
}

// Response is the result of Engine.Calculate.
type Response struct {
	Payload Payload `json:"payload"`
	Summary Summary `json:"summary"`
}
