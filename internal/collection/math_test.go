package collection

import (
	"encoding/json"
	"math"
	"testing"
)

func TestResolveThresholdRate(t *testing.T) {
	chart := []Threshold{
		{Threshold: 7.0, Rate: 1.0},
		{Threshold: 6.0, Rate: 0.4},
		{Threshold: 6.5, Rate: 0.5},
	}

	cases := []struct {
		name  string
		value float64
		dir   Direction
		want  float64
	}{
		{name: "up below lowest", value: 5.9, dir: StepUp, want: 0},
		{name: "up exact rung", value: 6.5, dir: StepUp, want: 0.5},
		{name: "up between rungs", value: 6.8, dir: StepUp, want: 0.5},
		{name: "up above highest", value: 9.0, dir: StepUp, want: 1.0},
		{name: "down below lowest", value: 5.0, dir: StepDown, want: 1.0},
		{name: "down between rungs", value: 6.2, dir: StepDown, want: 1.0},
		{name: "down exact rung", value: 7.0, dir: StepDown, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveThresholdRate(tc.value, chart, tc.dir)
			if err != nil {
				t.Fatalf("ResolveThresholdRate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("rate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveThresholdRate_DoesNotReorderInput(t *testing.T) {
	chart := []Threshold{{Threshold: 9, Rate: 0.3}, {Threshold: 8, Rate: 0.6}}
	if _, err := ResolveThresholdRate(8.5, chart, StepUp); err != nil {
		t.Fatalf("ResolveThresholdRate: %v", err)
	}
	if chart[0].Threshold != 9 {
		t.Fatalf("input chart was reordered: %+v", chart)
	}
}

func TestResolveThresholdRate_EmptyAndInvalid(t *testing.T) {
	got, err := ResolveThresholdRate(7, nil, StepDown)
	if err != nil || got != 0 {
		t.Fatalf("empty chart = %v, %v; want 0, nil", got, err)
	}
	if _, err := ResolveThresholdRate(7, nil, "sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestSNFFromCLR(t *testing.T) {
	got := SNFFromCLR(30, 4, 0.14)
	if math.Abs(got-8.44) > 1e-9 {
		t.Fatalf("SNFFromCLR = %v, want 8.44", got)
	}
}

func TestKgToLiters_RejectsNonPositiveDensity(t *testing.T) {
	if _, err := KgToLiters(10, 0); err == nil {
		t.Fatalf("expected error for zero density")
	}
	l, err := KgToLiters(10.2, 1.02)
	if err != nil {
		t.Fatalf("KgToLiters: %v", err)
	}
	if math.Abs(l-10) > 1e-9 {
		t.Fatalf("liters = %v, want 10", l)
	}
}

func TestFloorTwo(t *testing.T) {
	cases := map[float64]float64{
		461.538: 461.53,
		222.229: 222.22,
		8.0:     8.0,
	}
	for in, want := range cases {
		if got := FloorTwo(in); got != want {
			t.Errorf("FloorTwo(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestThresholdUnmarshal_AcceptsStepAlias(t *testing.T) {
	var chart []Threshold
	body := `[{"threshold": 6.5, "rate": 0.5}, {"step": 7.0, "rate": 1.0}]`
	if err := json.Unmarshal([]byte(body), &chart); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if chart[0].Threshold != 6.5 || chart[1].Threshold != 7.0 || chart[1].Rate != 1.0 {
		t.Fatalf("unexpected chart: %+v", chart)
	}
}

func TestNormalizeMilkType(t *testing.T) {
	cases := map[string]string{
		"Cow":         "cow",
		" Buffalo ":   "buffalo",
		"Cow+Buffalo": "cow_buffalo",
		"cow buffalo": "cow_buffalo",
		"Mixed Breed": "mixed_breed",
	}
	for in, want := range cases {
		if got := normalizeMilkType(in); got != want {
			t.Errorf("normalizeMilkType(%q) = %q, want %q", in, got, want)
		}
	}
}
