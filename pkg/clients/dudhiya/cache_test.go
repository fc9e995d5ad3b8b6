package dudhiya

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) ListCollections(_ context.Context, page, pageSize int) (*CollectionPage, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &CollectionPage{Count: page * pageSize}, nil
}

func TestNewCachedClient_ZeroTTLIsPassthrough(t *testing.T) {
	inner := &countingClient{}
	if got := NewCachedClient(inner, 0); got != Client(inner) {
		t.Fatalf("expected inner client back for ttl 0")
	}
}

func TestCachedClient_ServesUntilExpiry(t *testing.T) {
	inner := &countingClient{}
	c := NewCachedClient(inner, time.Minute).(*CachedClient)
	now := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := c.ListCollections(ctx, 1, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if p.Count != 50 {
			t.Fatalf("count = %d", p.Count)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("calls = %d, want 1", inner.calls)
	}

	if _, err := c.ListCollections(ctx, 2, 50); err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("other page should miss, calls = %d", inner.calls)
	}

	now = now.Add(time.Minute)
	if _, err := c.ListCollections(ctx, 1, 50); err != nil {
		t.Fatalf("list after expiry: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expired page should be refetched, calls = %d", inner.calls)
	}
}

func TestCachedClient_DoesNotCacheErrors(t *testing.T) {
	inner := &countingClient{err: errors.New("boom")}
	c := NewCachedClient(inner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := c.ListCollections(context.Background(), 1, 50); err == nil {
			t.Fatalf("expected error")
		}
	}
	if inner.calls != 2 {
		t.Fatalf("calls = %d, want 2", inner.calls)
	}
}
