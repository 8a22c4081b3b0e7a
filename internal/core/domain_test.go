package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Name:       "Groceries",
		Amount:     12.5,
		CategoryID: "c1",
		MemberIDs:  []string{"m1"},
		Date:       NewDate(2024, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Name: "", Amount: 1, MemberIDs: []string{"m1"}, Date: NewDate(2024, 1, 1)},
		{Name: "a", Amount: 0, MemberIDs: []string{"m1"}, Date: NewDate(2024, 1, 1)},
		{Name: "a", Amount: -3, MemberIDs: []string{"m1"}, Date: NewDate(2024, 1, 1)},
		{Name: "a", Amount: 1, MemberIDs: nil, Date: NewDate(2024, 1, 1)},
		{Name: "a", Amount: 1, MemberIDs: []string{"m1"}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if err := (AppSettings{Language: "fr", Currency: "USD"}).Validate(); err == nil {
		t.Fatal("expected unsupported language error")
	}
	if err := (AppSettings{Language: "en", Currency: "XXX"}).Validate(); err == nil {
		t.Fatal("expected unsupported currency error")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}
	in := wrapper{D: NewDate(2024, 7, 14)}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"d":"2024-07-14"}` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var out wrapper
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if !out.D.Equal(in.D) {
		t.Fatalf("round trip mismatch: %s != %s", out.D, in.D)
	}

	var zero wrapper
	if err := json.Unmarshal([]byte(`{"d":null}`), &zero); err != nil {
		t.Fatal(err)
	}
	if !zero.D.IsZero() {
		t.Fatal("null must decode to zero date")
	}
}

func TestDateTolerantOfTimestamps(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-07-14T22:15:03Z"`), &d); err != nil {
		t.Fatal(err)
	}
	if !d.Equal(NewDate(2024, 7, 14)) {
		t.Fatalf("got %s, want 2024-07-14", d)
	}
}

func TestDateOfNormalizesToMidnight(t *testing.T) {
	instant := time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)
	d := DateOf(instant)
	if h, m, s := d.Clock(); h != 0 || m != 0 || s != 0 {
		t.Fatalf("expected midnight, got %02d:%02d:%02d", h, m, s)
	}
}

func TestSortNewestFirst(t *testing.T) {
	txs := []Transaction{
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 300},
		{ID: "c", Timestamp: 200},
	}
	SortNewestFirst(txs)
	if txs[0].ID != "b" || txs[1].ID != "c" || txs[2].ID != "a" {
		t.Fatalf("unexpected order: %v %v %v", txs[0].ID, txs[1].ID, txs[2].ID)
	}
}

func TestDefaultSeedSets(t *testing.T) {
	cats := DefaultCategories()
	if len(cats) != 8 {
		t.Fatalf("got %d categories, want 8", len(cats))
	}
	found := false
	for _, c := range cats {
		if c.ID == FallbackCategoryID && c.Name == "Other" {
			found = true
		}
	}
	if !found {
		t.Fatal("fallback category must be the seeded Other category")
	}
	if len(DefaultMembers()) != 4 {
		t.Fatalf("got %d members, want 4", len(DefaultMembers()))
	}
}
