package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"dudhiya-collection/pkg/clients/dudhiya"
)

type fakeClient struct {
	pages map[int]string
	err   map[int]error
	calls []int
}

func (f *fakeClient) ListCollections(_ context.Context, page, _ int) (*dudhiya.CollectionPage, error) {
	f.calls = append(f.calls, page)
	if err := f.err[page]; err != nil {
		return nil, err
	}
	var p dudhiya.CollectionPage
	if err := json.Unmarshal([]byte(f.pages[page]), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

const pageOne = `{
	"count": 5,
	"next": "page=2",
	"results": [
		{"id": 1, "kg": "100.000", "fat_percentage": "4.0", "snf_percentage": "8.5", "milk_rate": "50.00",
		 "base_snf_percentage": "9.0", "fat_kg": "4.00", "snf_kg": "8.50", "clr": "30.240",
		 "fat_rate": "461.538", "snf_rate": "222.222", "amount": "3735.04", "solid_weight": "74.701"},
		{"id": 2, "kg": "100.000", "fat_percentage": "4.0", "snf_percentage": "8.5", "milk_rate": "50.00",
		 "fat_kg": "4.000", "fat_rate": "461.530", "amount": "3734.990"},
		{"id": 3, "is_pro_rata": true, "kg": "100.000"}
	]
}`

const pageTwo = `{
	"count": 5,
	"next": null,
	"results": [
		{"id": 4, "kg": "10.000", "fat_percentage": "4.0", "milk_rate": "50.00"},
		{"id": 5, "kg": "10.000", "fat_percentage": "13.5", "snf_percentage": "8.5", "milk_rate": "50.00"}
	]
}`

func TestRun_ChecksAndReportsMismatches(t *testing.T) {
	client := &fakeClient{pages: map[int]string{1: pageOne, 2: pageTwo}}

	rep, err := New(client, 0, nil).Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Pages != 2 || len(client.calls) != 2 {
		t.Fatalf("expected to stop after 2 pages, got %d (calls %v)", rep.Pages, client.calls)
	}
	if rep.Checked != 2 {
		t.Fatalf("checked = %d, want 2", rep.Checked)
	}
	if rep.Skipped[SkipProRata] != 1 || rep.Skipped[SkipIncomplete] != 1 || rep.Skipped[SkipInvalidInput] != 1 {
		t.Fatalf("unexpected skipped: %v", rep.Skipped)
	}
	if rep.SkippedTotal() != 3 {
		t.Fatalf("skipped total = %d, want 3", rep.SkippedTotal())
	}

	want := []Mismatch{
		{CollectionID: 2, Field: "fat_rate", Stored: "461.530", Computed: "461.538"},
		{CollectionID: 2, Field: "amount", Stored: "3734.99", Computed: "3735.04"},
	}
	if len(rep.Mismatches) != len(want) {
		t.Fatalf("mismatches = %+v, want %+v", rep.Mismatches, want)
	}
	for i := range want {
		if rep.Mismatches[i] != want[i] {
			t.Fatalf("mismatch %d = %+v, want %+v", i, rep.Mismatches[i], want[i])
		}
	}
}

func TestRun_RespectsPageLimit(t *testing.T) {
	client := &fakeClient{pages: map[int]string{1: pageOne, 2: pageTwo}}

	rep, err := New(client, 10, nil).Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Pages != 1 || len(client.calls) != 1 {
		t.Fatalf("expected a single page, got %d", rep.Pages)
	}
}

func TestRun_ReturnsPartialReportOnError(t *testing.T) {
	boom := errors.New("backend down")
	client := &fakeClient{pages: map[int]string{1: pageOne}, err: map[int]error{2: boom}}

	rep, err := New(client, 10, nil).Run(context.Background(), 3)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if rep == nil || rep.Pages != 1 || rep.Checked != 2 {
		t.Fatalf("unexpected partial report: %+v", rep)
	}
	if rep.FinishedAt.IsZero() {
		t.Fatalf("partial report should be finished")
	}
}

func TestScheduler(t *testing.T) {
	client := &fakeClient{pages: map[int]string{1: pageTwo}}
	r := New(client, 10, nil)

	if _, err := NewScheduler(r, "0 * * * *", 1, "Mars/Olympus", nil); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}

	bad, err := NewScheduler(r, "not a cron", 1, "UTC", nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := bad.Start(); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}

	s, err := NewScheduler(r, "0 * * * *", 1, "Asia/Kolkata", nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if s.LastReport() != nil {
		t.Fatalf("expected no report before the first run")
	}
	s.runOnce()
	if rep := s.LastReport(); rep == nil || rep.Skipped[SkipIncomplete] != 1 {
		t.Fatalf("unexpected last report: %+v", rep)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
