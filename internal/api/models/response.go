package models

import (
	"dudhiya-collection/internal/config"
	"dudhiya-collection/internal/history"
	"dudhiya-collection/internal/valuation"
)

// ValuationResponse carries the numbers and how the collection screen shows them.
type ValuationResponse struct {
	Input   valuation.Measurement `json:"input"`
	Result  valuation.Result      `json:"result"`
	Display ValuationDisplay      `json:"display"`
}

// ValuationDisplay is Result rendered at display precision.
type ValuationDisplay struct {
	Liters      string `json:"liters"`
	FatKg       string `json:"fat_kg"`
	SNFKg       string `json:"snf_kg"`
	CLR         string `json:"clr"`
	FatRate     string `json:"fat_rate"`
	SNFRate     string `json:"snf_rate"`
	Amount      string `json:"amount"`
	SolidWeight string `json:"solid_weight"`
}

// NewValuationDisplay renders r at display precision.
func NewValuationDisplay(r valuation.Result) ValuationDisplay {
	return ValuationDisplay{
		Liters:      valuation.FormatFixed(r.Liters, 2),
		FatKg:       valuation.FormatFixed(r.FatKg, 2),
		SNFKg:       valuation.FormatFixed(r.SNFKg, 2),
		CLR:         valuation.FormatFixed(r.CLR, 3),
		FatRate:     valuation.FormatFixed(r.FatRate, 3),
		SNFRate:     valuation.FormatFixed(r.SNFRate, 3),
		Amount:      valuation.FormatFixed(r.Amount, 2),
		SolidWeight: valuation.FormatFixed(r.SolidWeight, 3),
	}
}

// SNFResponse is null when the inputs do not form a number.
type SNFResponse struct {
	SNF *float64 `json:"snf"`
}

// HistoryResponse lists calculator runs, newest first.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// SettingsResponse reports the effective dairy settings.
type SettingsResponse struct {
	Dairy             config.DairySettings `json:"dairy"`
	BaseSNFOptions    []float64            `json:"base_snf_options"`
	CalculatorBaseSNF float64              `json:"calculator_base_snf"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
