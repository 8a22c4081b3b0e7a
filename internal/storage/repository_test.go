package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"smartspend/internal/core"
	"smartspend/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTx(id string, ts int64) core.Transaction {
	return core.Transaction{
		ID:         id,
		Name:       "Groceries",
		Amount:     42.5,
		CategoryID: "c1",
		MemberIDs:  []string{"m1", "m2"},
		Date:       core.NewDate(2024, 5, 1),
		Note:       "weekly",
		Timestamp:  ts,
	}
}

func TestSeedDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(core.DefaultCategories()) {
		t.Fatalf("got %d categories, want %d", len(cats), len(core.DefaultCategories()))
	}
	members, err := s.Members(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != len(core.DefaultMembers()) {
		t.Fatalf("got %d members, want %d", len(members), len(core.DefaultMembers()))
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings != core.DefaultSettings() {
		t.Fatalf("settings %+v, want defaults", settings)
	}
}

func TestTransactionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := sampleTx("t1", 100)
	tx.EndDate = core.NewDate(2024, 5, 31)
	tx.Reflection = &core.ReflectionFlags{Waste: true}
	tx.ReflectionTagIDs = []string{"rt2"}

	if err := s.AddTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	got, err := s.Transaction(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != tx.Name || got.Amount != tx.Amount || got.CategoryID != tx.CategoryID {
		t.Fatalf("got %+v, want %+v", got, tx)
	}
	if len(got.MemberIDs) != 2 || got.MemberIDs[0] != "m1" {
		t.Fatalf("member ids %v", got.MemberIDs)
	}
	if !got.EndDate.Equal(tx.EndDate) {
		t.Fatalf("end date %s, want %s", got.EndDate, tx.EndDate)
	}
	if got.Reflection == nil || !got.Reflection.Waste {
		t.Fatalf("reflection lost: %+v", got.Reflection)
	}
	if len(got.ReflectionTagIDs) != 1 || got.ReflectionTagIDs[0] != "rt2" {
		t.Fatalf("tag ids %v", got.ReflectionTagIDs)
	}

	got.Amount = 50
	got.EndDate = core.Date{}
	if err := s.UpdateTransaction(ctx, got); err != nil {
		t.Fatal(err)
	}
	updated, err := s.Transaction(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Amount != 50 || updated.Amortized() {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Transaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct {
		id string
		ts int64
	}{{"a", 100}, {"b", 300}, {"c", 200}} {
		if err := s.AddTransaction(ctx, sampleTx(tc.id, tc.ts)); err != nil {
			t.Fatal(err)
		}
	}

	txs, err := s.Transactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 3 || txs[0].ID != "b" || txs[1].ID != "c" || txs[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", txs)
	}
}

func TestReplaceIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddTransaction(ctx, sampleTx("old", 1)); err != nil {
		t.Fatal(err)
	}

	next := core.AppData{
		Transactions: []core.Transaction{sampleTx("new", 2)},
		Categories:   []core.Category{{ID: "x1", Name: "Only"}},
		Members:      []core.Member{{ID: "y1", Name: "Solo"}},
		Settings:     core.AppSettings{Language: "zh", Currency: "CNY"},
	}
	if err := s.Replace(ctx, next); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "new" {
		t.Fatalf("transactions not replaced: %+v", snap.Transactions)
	}
	if len(snap.Categories) != 1 || snap.Categories[0].Name != "Only" {
		t.Fatalf("categories not replaced: %+v", snap.Categories)
	}
	if snap.Settings.Currency != "CNY" {
		t.Fatalf("settings not replaced: %+v", snap.Settings)
	}

	// Duplicate ids make the insert fail; the old state must survive.
	bad := next
	bad.Transactions = []core.Transaction{sampleTx("dup", 1), sampleTx("dup", 2)}
	if err := s.Replace(ctx, bad); err == nil {
		t.Fatal("expected replace error for duplicate ids")
	}
	snap, err = s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "new" {
		t.Fatalf("failed replace must not change state: %+v", snap.Transactions)
	}
}

func TestSyncBookkeeping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddTransaction(ctx, sampleTx("t1", 100)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddTransaction(ctx, sampleTx("t2", 200)); err != nil {
		t.Fatal(err)
	}

	pending, err := s.UnsyncedTransactions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].ID != "t1" {
		t.Fatalf("pending %+v, want t1 then t2", pending)
	}

	if err := s.MarkTransactionSynced(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	pending, err = s.UnsyncedTransactions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != "t2" {
		t.Fatalf("pending %+v, want only t2", pending)
	}

	// Any update re-queues the row for mirroring.
	tx, err := s.Transaction(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	tx.Amount = 1
	if err := s.UpdateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	pending, err = s.UnsyncedTransactions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("update must reset synced flag, pending %+v", pending)
	}
}

func TestCategoryAndMemberCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := core.Category{ID: "cx", Name: "Pets", Icon: "🐶", Color: "cyan"}
	if err := s.AddCategory(ctx, c); err != nil {
		t.Fatal(err)
	}
	c.Name = "Animals"
	if err := s.UpdateCategory(ctx, c); err != nil {
		t.Fatal(err)
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, got := range cats {
		if got.ID == "cx" && got.Name == "Animals" {
			found = true
		}
	}
	if !found {
		t.Fatalf("updated category missing from %+v", cats)
	}
	if err := s.DeleteCategory(ctx, "cx"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateCategory(ctx, c); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	m := core.Member{ID: "mx", Name: "Guest", Avatar: "🙂"}
	if err := s.AddMember(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteMember(ctx, "mx"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteMember(ctx, "mx"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := core.AppSettings{Language: "zh", Currency: "EUR"}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.AddTransaction(ctx, sampleTx("t1", 100)); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// A second open re-runs migrations against the up-to-date schema and
	// must leave existing data alone.
	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { s2.Close() })

	tx, err := s2.Transaction(ctx, "t1")
	if err != nil {
		t.Fatalf("get transaction after reopen: %v", err)
	}
	if tx.Name != "Groceries" || tx.Amount != 42.5 {
		t.Errorf("unexpected transaction after reopen: %+v", tx)
	}
}
