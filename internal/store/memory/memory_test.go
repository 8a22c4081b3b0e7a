package memory

import (
	"context"
	"errors"
	"testing"

	"smartspend/internal/core"
	"smartspend/internal/store"
)

func tx(id string, ts int64) core.Transaction {
	return core.Transaction{
		ID:         id,
		Name:       "Item " + id,
		Amount:     10,
		CategoryID: "c1",
		MemberIDs:  []string{"m1"},
		Date:       core.NewDate(2024, 6, 1),
		Timestamp:  ts,
	}
}

func TestNewSeedsDefaults(t *testing.T) {
	s := New()
	ctx := context.Background()

	cats, _ := s.Categories(ctx)
	if len(cats) != len(core.DefaultCategories()) {
		t.Errorf("expected %d seed categories, got %d", len(core.DefaultCategories()), len(cats))
	}
	members, _ := s.Members(ctx)
	if len(members) == 0 {
		t.Error("expected seed members")
	}
	settings, _ := s.Settings(ctx)
	if settings.Language != core.DefaultLanguage || settings.Currency != core.DefaultCurrency {
		t.Errorf("unexpected seed settings: %+v", settings)
	}
}

func TestTransactionCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AddTransaction(ctx, tx("t1", 100)); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.Transaction(ctx, "t1")
	if err != nil || got.ID != "t1" {
		t.Fatalf("get: %v %v", got, err)
	}

	updated := tx("t1", 100)
	updated.Name = "Renamed"
	if err := s.UpdateTransaction(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.Transaction(ctx, "t1")
	if got.Name != "Renamed" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Transaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Mutations on missing ids report not found.
	if err := s.UpdateTransaction(ctx, tx("nope", 1)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("delete missing: %v", err)
	}
}

func TestTransactionsSortedNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, tr := range []core.Transaction{tx("old", 100), tx("new", 300), tx("mid", 200)} {
		if err := s.AddTransaction(ctx, tr); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	txs, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if txs[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(txs), want)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.AddTransaction(ctx, tx("t1", 100)); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap.Transactions[0].Name = "mutated"
	snap.Categories[0].Name = "mutated"

	got, _ := s.Transaction(ctx, "t1")
	if got.Name == "mutated" {
		t.Error("snapshot mutation leaked into store")
	}
	cats, _ := s.Categories(ctx)
	if cats[0].Name == "mutated" {
		t.Error("snapshot category mutation leaked into store")
	}
}

func TestReplaceSwapsEverything(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.AddTransaction(ctx, tx("old", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	data := core.AppData{
		Transactions: []core.Transaction{tx("new", 2)},
		Categories:   []core.Category{{ID: "x1", Name: "Only"}},
		Members:      []core.Member{{ID: "y1", Name: "Solo"}},
		Settings:     core.AppSettings{Language: "zh", Currency: "CNY"},
	}
	if err := s.Replace(ctx, data); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if _, err := s.Transaction(ctx, "old"); !errors.Is(err, store.ErrNotFound) {
		t.Error("old transaction survived replace")
	}
	cats, _ := s.Categories(ctx)
	if len(cats) != 1 || cats[0].ID != "x1" {
		t.Errorf("unexpected categories after replace: %v", cats)
	}
	settings, _ := s.Settings(ctx)
	if settings.Currency != "CNY" {
		t.Errorf("settings not replaced: %+v", settings)
	}
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, tr := range txs {
		out[i] = tr.ID
	}
	return out
}
