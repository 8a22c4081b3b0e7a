package sheets

import (
	"testing"

	"smartspend/internal/core"
)

func TestRowValues(t *testing.T) {
	data := core.AppData{
		Categories: []core.Category{{ID: "c1", Name: "Food"}},
		Members:    []core.Member{{ID: "m1", Name: "Alice"}, {ID: "m2", Name: "Bob"}},
		Settings:   core.DefaultSettings(),
	}

	tx := core.Transaction{
		ID:         "t1",
		Name:       "Groceries",
		Amount:     42.5,
		CategoryID: "c1",
		MemberIDs:  []string{"m1", "m2"},
		Date:       core.NewDate(2024, 6, 1),
		IsWaste:    true,
		Note:       "weekly",
	}

	row := RowValues(tx, data)
	if len(row) != len(Header) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(Header))
	}
	if row[0] != "t1" || row[1] != "2024-06-01" || row[2] != "Groceries" {
		t.Errorf("unexpected leading columns: %v", row[:3])
	}
	if row[3] != 42.5 {
		t.Errorf("amount = %v, want 42.5", row[3])
	}
	if row[4] != "Food" || row[5] != "Alice, Bob" {
		t.Errorf("unexpected category/members: %v %v", row[4], row[5])
	}
	if row[6] != "Instant" || row[7] != "Yes" || row[9] != "" {
		t.Errorf("unexpected type/waste/end-date: %v %v %v", row[6], row[7], row[9])
	}
}

func TestRowValuesAmortizedAndDangling(t *testing.T) {
	tx := core.Transaction{
		ID:         "t2",
		Name:       "Rent",
		Amount:     900,
		CategoryID: "missing",
		MemberIDs:  []string{"ghost"},
		Date:       core.NewDate(2024, 6, 1),
		EndDate:    core.NewDate(2024, 6, 30),
	}

	row := RowValues(tx, core.AppData{Settings: core.DefaultSettings()})
	if row[4] != "Unknown" {
		t.Errorf("dangling category = %v, want Unknown", row[4])
	}
	if row[5] != "ghost" {
		t.Errorf("dangling member = %v, want raw id", row[5])
	}
	if row[6] != "Long-term" || row[9] != "2024-06-30" {
		t.Errorf("unexpected amortization columns: %v %v", row[6], row[9])
	}
}
