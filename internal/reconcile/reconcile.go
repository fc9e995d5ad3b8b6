// Package reconcile re-prices stored backend collections with the local
// calculator and reports where the two disagree.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"dudhiya-collection/internal/valuation"
	"dudhiya-collection/pkg/clients/dudhiya"

	"go.uber.org/zap"
)

// Skip reasons.
const (
	SkipProRata      = "pro_rata"
	SkipIncomplete   = "incomplete"
	SkipInvalidInput = "invalid_input"
)

// Mismatch is one field where the stored record and the calculator disagree.
type Mismatch struct {
	CollectionID int64  `json:"collection_id"`
	Field        string `json:"field"`
	Stored       string `json:"stored"`
	Computed     string `json:"computed"`
}

// Report summarizes one reconciliation run.
type Report struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Pages      int            `json:"pages"`
	Checked    int            `json:"checked"`
	Skipped    map[string]int `json:"skipped"`
	Mismatches []Mismatch     `json:"mismatches"`
}

// SkippedTotal is the number of records not re-priced.
func (r *Report) SkippedTotal() int {
	n := 0
	for _, v := range r.Skipped {
		n += v
	}
	return n
}

// Reconciler walks the backend's collection listing.
type Reconciler struct {
	client   dudhiya.Client
	pageSize int
	logger   *zap.Logger
	now      func() time.Time
}

// New builds a reconciler; pageSize < 1 uses dudhiya.DefaultPageSize.
func New(client dudhiya.Client, pageSize int, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize < 1 {
		pageSize = dudhiya.DefaultPageSize
	}
	return &Reconciler{client: client, pageSize: pageSize, logger: logger, now: time.Now}
}

type fieldCheck struct {
	name   string
	places int32
	stored func(c dudhiya.Collection) dudhiya.Number
	calc   func(r valuation.Result) float64
}

var checks = []fieldCheck{
	{"fat_kg", 2, func(c dudhiya.Collection) dudhiya.Number { return c.FatKg }, func(r valuation.Result) float64 { return r.FatKg }},
	{"snf_kg", 2, func(c dudhiya.Collection) dudhiya.Number { return c.SNFKg }, func(r valuation.Result) float64 { return r.SNFKg }},
	{"clr", 3, func(c dudhiya.Collection) dudhiya.Number { return c.CLR }, func(r valuation.Result) float64 { return r.CLR }},
	{"fat_rate", 3, func(c dudhiya.Collection) dudhiya.Number { return c.FatRate }, func(r valuation.Result) float64 { return r.FatRate }},
	{"snf_rate", 3, func(c dudhiya.Collection) dudhiya.Number { return c.SNFRate }, func(r valuation.Result) float64 { return r.SNFRate }},
	{"amount", 2, func(c dudhiya.Collection) dudhiya.Number { return c.Amount }, func(r valuation.Result) float64 { return r.Amount }},
	{"solid_weight", 3, func(c dudhiya.Collection) dudhiya.Number { return c.SolidWeight }, func(r valuation.Result) float64 { return r.SolidWeight }},
}

// Run checks at most pages pages, stopping early when the listing ends.
// On a client error the partial report is returned with the error.
func (r *Reconciler) Run(ctx context.Context, pages int) (*Report, error) {
	if pages < 1 {
		pages = 1
	}
	rep := &Report{StartedAt: r.now().UTC(), Skipped: map[string]int{}, Mismatches: []Mismatch{}}

	for page := 1; page <= pages; page++ {
		resp, err := r.client.ListCollections(ctx, page, r.pageSize)
		if err != nil {
			rep.FinishedAt = r.now().UTC()
			return rep, fmt.Errorf("page %d: %w", page, err)
		}
		rep.Pages++
		for _, c := range resp.Results {
			r.check(c, rep)
		}
		if !resp.HasNext() {
			break
		}
	}

	rep.FinishedAt = r.now().UTC()
	return rep, nil
}

func (r *Reconciler) check(c dudhiya.Collection, rep *Report) {
	if c.IsProRata {
		rep.Skipped[SkipProRata]++
		return
	}
	if !c.Kg.Valid || !c.FatPercentage.Valid || !c.SNFPercentage.Valid || !c.MilkRate.Valid {
		rep.Skipped[SkipIncomplete]++
		return
	}

	m := valuation.Measurement{
		WeightKg:          c.Kg.Value,
		FatPercentage:     c.FatPercentage.Value,
		SNFPercentage:     c.SNFPercentage.Value,
		MilkRate:          c.MilkRate.Value,
		BaseSNFPercentage: valuation.BaseSNFOptions[0],
	}
	if c.BaseSNFPercentage.Valid {
		m.BaseSNFPercentage = c.BaseSNFPercentage.Value
	}

	res, err := valuation.Calculate(m)
	if err != nil {
		r.logger.Debug("collection not re-priceable",
			zap.Int64("collection_id", c.ID),
			zap.Error(err))
		rep.Skipped[SkipInvalidInput]++
		return
	}
	rep.Checked++

	for _, chk := range checks {
		stored := chk.stored(c)
		if !stored.Valid {
			continue
		}
		want := valuation.FormatFixed(stored.Value, chk.places)
		got := valuation.FormatFixed(chk.calc(res), chk.places)
		if want != got {
			rep.Mismatches = append(rep.Mismatches, Mismatch{
				CollectionID: c.ID,
				Field:        chk.name,
				Stored:       want,
				Computed:     got,
			})
		}
	}
}
