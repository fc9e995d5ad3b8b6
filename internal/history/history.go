// Package history keeps the buy/sell calculator's past runs.
package history

import (
	"context"
	"time"

	"dudhiya-collection/internal/valuation"

	"github.com/google/uuid"
)

// DefaultLimit is used when List is called without a positive limit.
const DefaultLimit = 50

// Entry is one saved calculator run.
type Entry struct {
	ID        string                 `json:"id" bson:"_id"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
	Input     valuation.CompareInput `json:"input" bson:"input"`
	Result    valuation.Comparison   `json:"result" bson:"result"`
}

// Store persists calculator history. List returns newest first.
type Store interface {
	Save(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context, limit int) ([]Entry, error)
	Clear(ctx context.Context) error
	Close() error
}

// stamp fills in the id and creation time when the caller left them empty.
func stamp(e Entry, now func() time.Time) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// NopStore discards everything; used when history is disabled.
type NopStore struct{}

func (NopStore) Save(_ context.Context, e Entry) (Entry, error) {
	return stamp(e, time.Now), nil
}

func (NopStore) List(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (NopStore) Clear(context.Context) error { return nil }

func (NopStore) Close() error { return nil }
