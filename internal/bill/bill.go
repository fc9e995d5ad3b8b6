package bill

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dudhiya-collection/internal/valuation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Entry is one collection to put on a bill.
type Entry struct {
	Customer              string `json:"customer" yaml:"customer"`
	Date                  string `json:"date" yaml:"date"`
	Time                  string `json:"time" yaml:"time"`
	MilkType              string `json:"milk_type" yaml:"milk_type"`
	valuation.Measurement `yaml:",inline"`
}

// Row is one priced line of a bill.
type Row struct {
	Index int `json:"index"`

	Entry
	Result valuation.Result `json:"result"`

	// CumAmount is the running total up to and including this row.
	CumAmount float64 `json:"cum_amount"`
}

// Totals summarize every row on a bill.
type Totals struct {
	Entries     int     `json:"entries"`
	WeightKg    float64 `json:"weight_kg"`
	Liters      float64 `json:"liters"`
	FatKg       float64 `json:"fat_kg"`
	SNFKg       float64 `json:"snf_kg"`
	Amount      float64 `json:"amount"`
	AverageRate float64 `json:"average_rate"`
}

// Bill is a priced batch of collections.
type Bill struct {
	Number    string    `json:"number"`
	Dairy     string    `json:"dairy,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Rows      []Row     `json:"rows"`
	Totals    Totals    `json:"totals"`
}

// Builder prices entries into bills.
type Builder struct {
	// Dairy is printed on the bill header.
	Dairy string
	// BaseSNFPercentage fills entries that leave it unset.
	BaseSNFPercentage float64

	now      func() time.Time
	numberFn func() string
}

// NewBuilder returns a builder; baseSNF falls back to the lowest calculator option
// when it is not one of valuation.BaseSNFOptions.
func NewBuilder(dairy string, baseSNF float64) *Builder {
	if !valuation.IsBaseSNFOption(baseSNF) {
		baseSNF = valuation.BaseSNFOptions[0]
	}
	return &Builder{
		Dairy:             dairy,
		BaseSNFPercentage: baseSNF,
		now:               time.Now,
		numberFn:          newBillNumber,
	}
}

func newBillNumber() string {
	return "BILL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Build prices every entry, in order.
func (b *Builder) Build(entries []Entry) (*Bill, error) {
	if len(entries) == 0 {
		return nil, errors.New("no entries")
	}

	rows := make([]Row, 0, len(entries))
	var (
		cum                          = decimal.Zero
		weight, liters, fatKg, snfKg = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	)

	for idx, e := range entries {
		if err := checkEntry(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", idx, err)
		}
		if e.BaseSNFPercentage == 0 {
			e.BaseSNFPercentage = b.BaseSNFPercentage
		}

		res, err := valuation.Calculate(e.Measurement)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", idx, err)
		}

		cum = cum.Add(decimal.NewFromFloat(res.Amount))
		weight = weight.Add(decimal.NewFromFloat(e.WeightKg))
		liters = liters.Add(decimal.NewFromFloat(res.Liters))
		fatKg = fatKg.Add(decimal.NewFromFloat(res.FatKg))
		snfKg = snfKg.Add(decimal.NewFromFloat(res.SNFKg))

		rows = append(rows, Row{
			Index:     idx,
			Entry:     e,
			Result:    res,
			CumAmount: cum.InexactFloat64(),
		})
	}

	avg := decimal.Zero
	if weight.IsPositive() {
		avg = cum.Div(weight).Round(2)
	}

	return &Bill{
		Number:    b.numberFn(),
		Dairy:     b.Dairy,
		CreatedAt: b.now().UTC(),
		Rows:      rows,
		Totals: Totals{
			Entries:     len(rows),
			WeightKg:    weight.InexactFloat64(),
			Liters:      liters.InexactFloat64(),
			FatKg:       fatKg.InexactFloat64(),
			SNFKg:       snfKg.InexactFloat64(),
			Amount:      cum.InexactFloat64(),
			AverageRate: avg.InexactFloat64(),
		},
	}, nil
}

func checkEntry(e Entry) error {
	if e.Date != "" {
		if _, err := time.Parse(dateLayout, e.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD, got %q", e.Date)
		}
	}
	switch e.Time {
	case "", "morning", "evening":
	default:
		return fmt.Errorf("time must be morning or evening, got %q", e.Time)
	}
	return nil
}
