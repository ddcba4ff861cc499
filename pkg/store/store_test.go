package store

import (
	"context"
	"testing"

	"github.com/figflow/figflow/pkg/errors"
)

func TestMemoryStore_SaveAssignsIDAndTimestamp(t *testing.T) {
	s := NewMemoryStore()
	rec := &Record{PlanHash: "abc", Format: "svg", Artifact: []byte("<svg/>")}

	if err := s.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.ID == "" {
		t.Error("ID not assigned")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
}

func TestMemoryStore_GetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rec := &Record{PlanHash: "abc", Format: "svg", Artifact: []byte("<svg/>"), Title: "Demo"}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Demo" || string(got.Artifact) != "<svg/>" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestMemoryStore_GetUnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, hash := range []string{"first", "second", "third"} {
		if err := s.Save(ctx, &Record{PlanHash: hash, Format: "svg"}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].PlanHash != "third" || records[1].PlanHash != "second" {
		t.Errorf("order = %s, %s; want third, second", records[0].PlanHash, records[1].PlanHash)
	}
}
