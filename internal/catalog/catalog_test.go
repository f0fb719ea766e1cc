package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/lucedivina/storefront/internal/storage"
	"github.com/lucedivina/storefront/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), storage.NewMemoryStore(), testLogger)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSeededOnEmptyStore(t *testing.T) {
	svc := newTestService(t)

	all, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(SeedProducts()) {
		t.Fatalf("got %d products, want %d", len(all), len(SeedProducts()))
	}
}

func TestSeedSkippedOnPopulatedStore(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	existing := types.Product{ID: "x", Kind: types.KindBook, Title: "Esistente"}
	if err := store.PutProduct(ctx, &existing); err != nil {
		t.Fatal(err)
	}

	svc, err := NewService(ctx, store, testLogger)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	all, _ := svc.List(ctx, ListFilter{})
	if len(all) != 1 || all[0].Title != "Esistente" {
		t.Errorf("populated store was reseeded: %+v", all)
	}
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	books, err := svc.List(ctx, ListFilter{Kind: types.KindBook})
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	for _, p := range books {
		if p.Kind != types.KindBook {
			t.Errorf("kind filter leaked %q", p.Kind)
		}
	}

	worship, err := svc.List(ctx, ListFilter{Category: "worship"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(worship) != 1 || worship[0].Title != "Adorazione Eterna" {
		t.Errorf("category filter (case-insensitive): %+v", worship)
	}

	byQuery, err := svc.List(ctx, ListFilter{Query: "benedetti"})
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if len(byQuery) != 1 || byQuery[0].Author != "Anna Benedetti" {
		t.Errorf("text query over author: %+v", byQuery)
	}
}

func TestListSorting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	asc, err := svc.List(ctx, ListFilter{Sort: "price_asc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].Price < asc[i-1].Price {
			t.Fatalf("price_asc out of order at %d: %v > %v", i, asc[i-1].Price, asc[i].Price)
		}
	}

	newest, err := svc.List(ctx, ListFilter{Sort: "newest"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(newest); i++ {
		if newest[i].UpdatedAt.After(newest[i-1].UpdatedAt) {
			t.Fatalf("newest out of order at %d", i)
		}
	}
}

func TestListEmptyResultIsNotNil(t *testing.T) {
	svc := newTestService(t)

	none, err := svc.List(context.Background(), ListFilter{Query: "nessuna corrispondenza"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if none == nil {
		t.Fatal("empty result is nil")
	}
	// Clients receive [] rather than null.
	if raw, _ := json.Marshal(none); string(raw) != "[]" {
		t.Errorf("marshaled empty list: %s", raw)
	}
}

func TestAddUpdateRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Add(ctx, &types.Product{Title: "Nuovo Libro", Price: 10})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}
	if created.Kind != types.KindBook || created.Status != types.StatusInStock {
		t.Errorf("defaults not applied: kind=%q status=%q", created.Kind, created.Status)
	}

	created.Price = 12.50
	updated, err := svc.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 12.50 || updated.ID != created.ID {
		t.Errorf("update result: %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", created); !errors.Is(err, types.ErrProductNotFound) {
		t.Errorf("update missing: %v", err)
	}

	if err := svc.Remove(ctx, created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, types.ErrProductNotFound) {
		t.Errorf("get after remove: %v", err)
	}
}

func TestReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, &types.Product{Title: "Temporaneo"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	all, _ := svc.List(ctx, ListFilter{})
	if len(all) != len(SeedProducts()) {
		t.Errorf("after reset: %d products, want %d", len(all), len(SeedProducts()))
	}
}

func TestApplyMetadata(t *testing.T) {
	meta := &types.Metadata{
		Title:       "Salmi per il Cuore",
		Author:      "Anna Benedetti",
		ISBN:        "9781234567890",
		Description: "Una raccolta di salmi.",
		Image:       "https://cdn.example.com/salmi.jpg",
		Price:       types.Float64(14.90),
	}

	draft := &types.Product{}
	ApplyMetadata(draft, meta)
	if draft.Title != meta.Title || draft.Author != meta.Author || draft.Code != meta.ISBN {
		t.Errorf("empty draft not filled: %+v", draft)
	}
	if draft.Price != 14.90 || len(draft.Images) != 1 {
		t.Errorf("price/image not filled: %+v", draft)
	}

	// Manual edits win over scraped values.
	edited := &types.Product{Title: "Titolo Manuale", Price: 20}
	ApplyMetadata(edited, meta)
	if edited.Title != "Titolo Manuale" || edited.Price != 20 {
		t.Errorf("manual fields overwritten: %+v", edited)
	}
	if edited.Author != "Anna Benedetti" {
		t.Errorf("empty field not filled on edited draft: %q", edited.Author)
	}

	// A failed extraction changes nothing.
	failed := &types.Product{}
	ApplyMetadata(failed, &types.Metadata{Error: "unreachable", Title: "ignored"})
	if failed.Title != "" {
		t.Errorf("failed extraction applied: %+v", failed)
	}
}
