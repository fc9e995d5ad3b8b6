package valuation

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// exactDecimal returns the exact decimal expansion of x.
//
// decimal.NewFromFloat keeps only the shortest round-trip digits, which is the
// wrong starting point for rounding: 1.0005 is stored as 1.000499999... and
// must round down to 1.000, not up.
func exactDecimal(x float64) decimal.Decimal {
	frac, exp := math.Frexp(x)
	mant := int64(frac * (1 << 53))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(mant), uint(exp)), 0)
	}
	// m * 2^-k == m * 5^k / 10^k
	k := int64(-exp)
	scaled := new(big.Int).Exp(big.NewInt(5), big.NewInt(k), nil)
	scaled.Mul(scaled, big.NewInt(mant))
	return decimal.NewFromBigInt(scaled, int32(-k))
}

// roundFixed rounds x to places decimals, ties away from zero, on the exact
// binary value. This is what the collection screens display and submit.
func roundFixed(x float64, places int32) float64 {
	return exactDecimal(x).Round(places).InexactFloat64()
}

// truncateShortest cuts the shortest decimal form of x after places digits
// past the point. Integral values are kept whole.
func truncateShortest(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Truncate(places).InexactFloat64()
}

// FormatFixed renders x with exactly places decimals using the same rounding
// as the calculator.
func FormatFixed(x float64, places int32) string {
	return exactDecimal(x).Round(places).StringFixed(places)
}
