package cart

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/lucedivina/storefront/internal/storage"
	"github.com/lucedivina/storefront/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestService(t *testing.T) *Service {
	t.Helper()
	products := storage.NewMemoryStore()
	ctx := context.Background()
	for _, p := range []types.Product{
		{ID: "b1", Kind: types.KindBook, Title: "Salmi per il Cuore", Price: 18.50, Images: []string{"https://cdn.example.com/salmi.jpg"}},
		{ID: "m1", Kind: types.KindMusic, Title: "Adorazione Eterna", Price: 12.99},
	} {
		p := p
		if err := products.PutProduct(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	return NewService(NewMemoryStore(time.Hour), products, testLogger)
}

func TestEmptyCart(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(c.Items) != 0 || c.Count != 0 || c.Total != 0 {
		t.Errorf("empty cart: %+v", c)
	}
	if c.SessionID != "sess-1" {
		t.Errorf("session id: %q", c.SessionID)
	}
}

func TestAddAndMerge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Add(ctx, "sess-1", "b1", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Title != "Salmi per il Cuore" {
		t.Fatalf("cart after add: %+v", c)
	}
	if c.Items[0].Image == "" {
		t.Error("image snapshot missing")
	}

	// Same product merges into one line.
	c, err = svc.Add(ctx, "sess-1", "b1", 2)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 3 {
		t.Errorf("merge: %+v", c.Items)
	}
	if c.Count != 3 {
		t.Errorf("count: %d", c.Count)
	}
	if want := 3 * 18.50; c.Total != want {
		t.Errorf("total: %v, want %v", c.Total, want)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Add(context.Background(), "sess-1", "nope", 1); !errors.Is(err, types.ErrProductNotFound) {
		t.Errorf("got %v, want ErrProductNotFound", err)
	}
}

func TestSetQuantityAndRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess-1", "b1", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, "sess-1", "m1", 1); err != nil {
		t.Fatal(err)
	}

	c, err := svc.SetQuantity(ctx, "sess-1", "b1", 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if c.Items[0].Quantity != 5 {
		t.Errorf("quantity: %+v", c.Items)
	}

	// Zero quantity removes the line.
	c, err = svc.SetQuantity(ctx, "sess-1", "b1", 0)
	if err != nil {
		t.Fatalf("set zero: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != "m1" {
		t.Errorf("after zero: %+v", c.Items)
	}

	if _, err := svc.SetQuantity(ctx, "sess-1", "absent", 1); !errors.Is(err, types.ErrProductNotFound) {
		t.Errorf("set on absent line: %v", err)
	}

	c, err = svc.Remove(ctx, "sess-1", "m1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Items) != 0 {
		t.Errorf("after remove: %+v", c.Items)
	}
}

func TestClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess-1", "b1", 2); err != nil {
		t.Fatal(err)
	}
	c, err := svc.Clear(ctx, "sess-1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(c.Items) != 0 || c.Total != 0 {
		t.Errorf("after clear: %+v", c)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "alice", "b1", 1); err != nil {
		t.Fatal(err)
	}
	bob, err := svc.Get(ctx, "bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(bob.Items) != 0 {
		t.Errorf("session leak: %+v", bob.Items)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	cart := &Cart{SessionID: "s", Items: []Item{{ProductID: "p", Quantity: 1}}}
	cart.recompute()
	if err := store.Save(ctx, cart); err != nil {
		t.Fatal(err)
	}

	time.Sleep(20 * time.Millisecond)
	got, err := store.Load(ctx, "s")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Errorf("expired cart returned: %+v", got)
	}
}
