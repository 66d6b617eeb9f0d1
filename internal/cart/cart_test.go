package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestReduce_AddItem(t *testing.T) {
	productID := uuid.New()

	s := Reduce(State{}, AddItem(productID, 2), t0)
	if len(s.Items) != 1 || s.Items[0].Quantity != 2 {
		t.Fatalf("after add: items = %+v, want one line with quantity 2", s.Items)
	}

	// Adding the same product merges into the existing line.
	s = Reduce(s, AddItem(productID, 3), t0)
	if len(s.Items) != 1 || s.Items[0].Quantity != 5 {
		t.Errorf("after second add: items = %+v, want one line with quantity 5", s.Items)
	}

	// A different product gets its own line.
	s = Reduce(s, AddItem(uuid.New(), 1), t0)
	if len(s.Items) != 2 {
		t.Errorf("after third add: %d lines, want 2", len(s.Items))
	}
	if s.TotalQuantity() != 6 {
		t.Errorf("TotalQuantity = %d, want 6", s.TotalQuantity())
	}
}

func TestReduce_AddItem_RejectsNonPositive(t *testing.T) {
	s := State{Items: []Item{{ProductID: uuid.New(), Quantity: 1}}}
	for _, qty := range []int{0, -1} {
		next := Reduce(s, AddItem(uuid.New(), qty), t0)
		if len(next.Items) != 1 {
			t.Errorf("AddItem(qty=%d) changed state: %+v", qty, next.Items)
		}
	}
}

func TestReduce_RemoveItem(t *testing.T) {
	keep := uuid.New()
	drop := uuid.New()
	s := State{Items: []Item{
		{ProductID: keep, Quantity: 1},
		{ProductID: drop, Quantity: 4},
	}}

	next := Reduce(s, RemoveItem(drop), t0)
	if len(next.Items) != 1 || next.Items[0].ProductID != keep {
		t.Errorf("after remove: items = %+v, want only %s", next.Items, keep)
	}

	// Removing an absent product is a no-op.
	next = Reduce(next, RemoveItem(uuid.New()), t0)
	if len(next.Items) != 1 {
		t.Errorf("remove of absent product changed state: %+v", next.Items)
	}
}

func TestReduce_SetQuantity(t *testing.T) {
	productID := uuid.New()
	s := State{Items: []Item{{ProductID: productID, Quantity: 2}}}

	next := Reduce(s, SetQuantity(productID, 7), t0)
	if next.Items[0].Quantity != 7 {
		t.Errorf("SetQuantity: quantity = %d, want 7", next.Items[0].Quantity)
	}

	// Below the floor: state unchanged.
	next = Reduce(next, SetQuantity(productID, 0), t0)
	if next.Items[0].Quantity != 7 {
		t.Errorf("SetQuantity(0) changed quantity to %d", next.Items[0].Quantity)
	}

	// Setting quantity for an absent product creates the line.
	other := uuid.New()
	next = Reduce(next, SetQuantity(other, 1), t0)
	if next.Find(other) == nil {
		t.Error("SetQuantity on absent product should create the line")
	}
}

func TestReduce_Clear(t *testing.T) {
	s := State{Items: []Item{
		{ProductID: uuid.New(), Quantity: 1},
		{ProductID: uuid.New(), Quantity: 2},
	}}
	next := Reduce(s, Clear(), t0)
	if len(next.Items) != 0 {
		t.Errorf("after clear: items = %+v, want empty", next.Items)
	}
}

func TestReduce_Pure(t *testing.T) {
	productID := uuid.New()
	s := State{Items: []Item{{ProductID: productID, Quantity: 2}}}

	_ = Reduce(s, SetQuantity(productID, 9), t0)
	if s.Items[0].Quantity != 2 {
		t.Error("Reduce mutated its input state")
	}

	// Same inputs, same output.
	a := Reduce(s, AddItem(productID, 1), t0)
	b := Reduce(s, AddItem(productID, 1), t0)
	if a.Items[0].Quantity != b.Items[0].Quantity {
		t.Error("Reduce is not deterministic")
	}
}

// --- Container integration tests (require Redis) ---

func testStore(t *testing.T) *Store {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewStore(client)
}

func TestStore_DispatchAndState(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	tok := "test-cart-" + uuid.New().String()
	t.Cleanup(func() { store.Drop(ctx, tok) })

	productID := uuid.New()
	if _, err := store.Dispatch(ctx, tok, AddItem(productID, 2)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	state, err := store.State(ctx, tok)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if got := state.Find(productID); got == nil || got.Quantity != 2 {
		t.Errorf("persisted state = %+v, want quantity 2 for %s", state.Items, productID)
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	tok := "test-cart-" + uuid.New().String()
	t.Cleanup(func() { store.Drop(ctx, tok) })

	var calls int
	unsubscribe := store.Subscribe(func(token string, s State) {
		if token == tok {
			calls++
		}
	})

	if _, err := store.Dispatch(ctx, tok, AddItem(uuid.New(), 1)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}

	unsubscribe()
	if _, err := store.Dispatch(ctx, tok, Clear()); err != nil {
		t.Fatalf("Dispatch after unsubscribe: %v", err)
	}
	if calls != 1 {
		t.Errorf("subscriber called %d times after unsubscribe, want still 1", calls)
	}
}

func TestStore_MissingCartIsEmpty(t *testing.T) {
	store := testStore(t)
	state, err := store.State(context.Background(), "test-cart-missing-"+uuid.New().String())
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(state.Items) != 0 {
		t.Errorf("missing cart state = %+v, want empty", state.Items)
	}
}
