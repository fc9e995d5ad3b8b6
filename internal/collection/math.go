package collection

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Direction says which way a threshold chart steps.
type Direction string

const (
	// StepUp applies the rate of the highest threshold at or below the value.
	StepUp Direction = "up"
	// StepDown applies the rate of the highest threshold above the value.
	StepDown Direction = "down"
)

func KgToLiters(kg, density float64) (float64, error) {
	if density <= 0 {
		return 0, errors.New("density_factor must be positive")
	}
	return kg / density, nil
}

func LitersToKg(liters, density float64) float64 {
	return liters * density
}

func FatKg(kg, fatPercentage float64) float64 {
	return kg * (fatPercentage / 100.0)
}

func SNFKg(kg, snfPercentage float64) float64 {
	return kg * (snfPercentage / 100.0)
}

// SNFFromCLR derives SNF% from a lactometer reading without rounding.
func SNFFromCLR(clr, fat, conversionFactor float64) float64 {
	return float64(clr/4.0) + float64(fat*0.20) + conversionFactor
}

func FatRate(milkRate, fatRatioPct, fatReference float64) float64 {
	return float64(milkRate*fatRatioPct) / fatReference
}

func SNFRate(milkRate, snfRatioPct, baseSNF float64) float64 {
	return float64(milkRate*snfRatioPct) / baseSNF
}

// FloorTwo floors v to two decimals.
func FloorTwo(v float64) float64 {
	return math.Floor(v*100) / 100
}

// ResolveThresholdRate picks the chart rate that applies to value.
// An empty chart, or a value no rung covers, resolves to 0.
func ResolveThresholdRate(value float64, thresholds []Threshold, dir Direction) (float64, error) {
	if dir != StepUp && dir != StepDown {
		return 0, fmt.Errorf("direction must be %q or %q, got %q", StepUp, StepDown, dir)
	}
	if len(thresholds) == 0 {
		return 0, nil
	}

	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)

	if dir == StepUp {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })
		rate := 0.0
		for _, t := range sorted {
			if value >= t.Threshold {
				rate = t.Rate
			}
		}
		return rate, nil
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold > sorted[j].Threshold })
	for _, t := range sorted {
		if value < t.Threshold {
			return t.Rate, nil
		}
	}
	return 0, nil
}

// formatFixed renders v the way the backend stores decimals.
func formatFixed(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}
