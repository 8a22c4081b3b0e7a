package core

import (
	"math"
	"testing"
)

func testCategories() []Category {
	return []Category{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Transport"},
	}
}

func testMembers() []Member {
	return []Member{
		{ID: "m1", Name: "Alice"},
		{ID: "m2", Name: "Bob"},
		{ID: "m3", Name: "Kim"},
	}
}

func findEntry(entries []BreakdownEntry, name string) (float64, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Amount, true
		}
	}
	return 0, false
}

func TestAggregateOverview(t *testing.T) {
	txs := []Transaction{
		{Amount: 90, CategoryID: "c1", MemberIDs: []string{"m1", "m2", "m3"}, IsWaste: true},
		{Amount: 30, CategoryID: "c2", MemberIDs: []string{"m1"}},
	}
	sum := Aggregate(txs, testCategories(), testMembers(), DefaultReflectionTags(), ModeOverview, "")

	if math.Abs(sum.Total-120) > epsilon {
		t.Fatalf("total %v, want 120", sum.Total)
	}
	if math.Abs(sum.WasteTotal-90) > epsilon {
		t.Fatalf("waste %v, want 90", sum.WasteTotal)
	}
	if v, ok := findEntry(sum.ByCategory, "Food"); !ok || math.Abs(v-90) > epsilon {
		t.Fatalf("Food %v (%v), want 90", v, ok)
	}
	// Alice gets 90/3 + 30 = 60.
	if v, ok := findEntry(sum.ByMember, "Alice"); !ok || math.Abs(v-60) > epsilon {
		t.Fatalf("Alice %v (%v), want 60", v, ok)
	}
	if v, ok := findEntry(sum.ByMember, "Bob"); !ok || math.Abs(v-30) > epsilon {
		t.Fatalf("Bob %v (%v), want 30", v, ok)
	}
}

func TestAggregateByMember(t *testing.T) {
	txs := []Transaction{
		{Amount: 90, CategoryID: "c1", MemberIDs: []string{"m1", "m2", "m3"}},
		{Amount: 30, CategoryID: "c2", MemberIDs: []string{"m2"}},
	}
	sum := Aggregate(txs, testCategories(), testMembers(), DefaultReflectionTags(), ModeByMember, "m1")

	// m1's share of the 90 split three ways.
	if math.Abs(sum.Total-30) > epsilon {
		t.Fatalf("total %v, want 30", sum.Total)
	}
	if sum.ByMember != nil {
		t.Fatal("byMember breakdown must be empty in member mode")
	}
	if v, ok := findEntry(sum.ByCategory, "Food"); !ok || math.Abs(v-30) > epsilon {
		t.Fatalf("Food %v (%v), want 30", v, ok)
	}
}

func TestAggregateByCategory(t *testing.T) {
	txs := []Transaction{
		{Amount: 90, CategoryID: "c1", MemberIDs: []string{"m1", "m2", "m3"}},
		{Amount: 50, CategoryID: "c2", MemberIDs: []string{"m1"}},
	}
	sum := Aggregate(txs, testCategories(), testMembers(), DefaultReflectionTags(), ModeByCategory, "c1")

	if math.Abs(sum.Total-90) > epsilon {
		t.Fatalf("total %v, want 90", sum.Total)
	}
	if sum.ByCategory != nil {
		t.Fatal("byCategory breakdown must be empty in category mode")
	}
	for _, name := range []string{"Alice", "Bob", "Kim"} {
		if v, ok := findEntry(sum.ByMember, name); !ok || math.Abs(v-30) > epsilon {
			t.Fatalf("%s %v (%v), want 30", name, v, ok)
		}
	}
}

func TestAggregateDanglingReferences(t *testing.T) {
	txs := []Transaction{
		{Amount: 25, CategoryID: "missing", MemberIDs: []string{"ghost"}},
	}
	sum := Aggregate(txs, testCategories(), testMembers(), DefaultReflectionTags(), ModeOverview, "")

	if v, ok := findEntry(sum.ByCategory, "Unknown"); !ok || math.Abs(v-25) > epsilon {
		t.Fatalf("Unknown category %v (%v), want 25", v, ok)
	}
	if v, ok := findEntry(sum.ByMember, "Unknown"); !ok || math.Abs(v-25) > epsilon {
		t.Fatalf("Unknown member %v (%v), want 25", v, ok)
	}
}

func TestAggregateSplitSumInvariant(t *testing.T) {
	tx := Transaction{Amount: 100, CategoryID: "c1", MemberIDs: []string{"m1", "m2", "m3"}}
	sum := Aggregate([]Transaction{tx}, testCategories(), testMembers(), DefaultReflectionTags(), ModeOverview, "")

	var memberSum float64
	for _, e := range sum.ByMember {
		memberSum += e.Amount
	}
	if math.Abs(memberSum-tx.Amount) > 1e-6 {
		t.Fatalf("member shares sum to %v, want %v", memberSum, tx.Amount)
	}
}

func TestAggregateBreakdownOrdering(t *testing.T) {
	txs := []Transaction{
		{Amount: 10, CategoryID: "c1", MemberIDs: []string{"m1"}},
		{Amount: 40, CategoryID: "c2", MemberIDs: []string{"m1"}},
	}
	sum := Aggregate(txs, testCategories(), testMembers(), DefaultReflectionTags(), ModeOverview, "")
	if len(sum.ByCategory) != 2 || sum.ByCategory[0].Name != "Transport" {
		t.Fatalf("expected Transport first, got %+v", sum.ByCategory)
	}
}

func TestAggregateWasteFromReflectionTags(t *testing.T) {
	tags := DefaultReflectionTags()
	txs := []Transaction{
		// Tagged regret: counts even though the legacy flag is false.
		{Amount: 20, CategoryID: "c1", MemberIDs: []string{"m1"}, ReflectionTagIDs: []string{"rt1"}},
		// Tags authoritative: a save-only tag set overrides the legacy flag.
		{Amount: 15, CategoryID: "c1", MemberIDs: []string{"m1"}, IsWaste: true, ReflectionTagIDs: []string{"rt3"}},
	}
	sum := Aggregate(txs, testCategories(), testMembers(), tags, ModeOverview, "")
	if math.Abs(sum.WasteTotal-20) > epsilon {
		t.Fatalf("waste %v, want 20", sum.WasteTotal)
	}
}

func TestAggregateInvalidModeFallsBackToOverview(t *testing.T) {
	txs := []Transaction{{Amount: 5, CategoryID: "c1", MemberIDs: []string{"m1"}}}
	sum := Aggregate(txs, testCategories(), testMembers(), nil, AggregateMode("bogus"), "")
	if math.Abs(sum.Total-5) > epsilon {
		t.Fatalf("total %v, want 5", sum.Total)
	}
}
