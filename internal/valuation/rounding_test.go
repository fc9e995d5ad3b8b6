package valuation

import "testing"

func TestRoundFixed_UsesExactBinaryValue(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		want   string
	}{
		// 1.005 and 1.0005 sit just below the tie in binary.
		{in: 1.005, places: 2, want: "1.00"},
		{in: 1.0005, places: 3, want: "1.000"},
		// Exact ties round away from zero.
		{in: 0.125, places: 2, want: "0.13"},
		{in: 2.5, places: 0, want: "3"},
		{in: -0.125, places: 2, want: "-0.13"},
		{in: 97.80046748623459, places: 2, want: "97.80"},
	}
	for _, tc := range cases {
		if got := FormatFixed(tc.in, tc.places); got != tc.want {
			t.Fatalf("FormatFixed(%v, %d) = %q, want %q", tc.in, tc.places, got, tc.want)
		}
	}
}

func TestTruncateShortest(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{in: 0.4567, want: 0.45},
		{in: 4, want: 4},
		{in: 1.999, want: 1.99},
		{in: 0.0004, want: 0},
		{in: 123.456, want: 123.45},
	}
	for _, tc := range cases {
		nearlyEqual(t, "truncateShortest", truncateShortest(tc.in, 2), tc.want)
	}
}
