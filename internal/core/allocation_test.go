package core

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestInclusiveDayCount(t *testing.T) {
	cases := []struct {
		start, end Date
		want       int
	}{
		{NewDate(2024, 1, 1), NewDate(2024, 1, 1), 1},
		{NewDate(2024, 1, 1), NewDate(2024, 1, 3), 3},
		{NewDate(2024, 1, 1), NewDate(2024, 1, 31), 31},
		{NewDate(2024, 2, 28), NewDate(2024, 3, 1), 3}, // leap year
		{NewDate(2023, 12, 31), NewDate(2024, 1, 1), 2},
		// Reversed ranges take the absolute difference.
		{NewDate(2024, 1, 3), NewDate(2024, 1, 1), 3},
	}
	for i, tc := range cases {
		if got := InclusiveDayCount(tc.start, tc.end); got != tc.want {
			t.Fatalf("case %d: got %d, want %d", i, got, tc.want)
		}
	}
}

func TestDailyCostAmortized(t *testing.T) {
	tx := Transaction{
		Amount:  300,
		Date:    NewDate(2024, 1, 1),
		EndDate: NewDate(2024, 1, 3),
	}
	cases := []struct {
		day  Date
		want float64
	}{
		{NewDate(2023, 12, 31), 0},
		{NewDate(2024, 1, 1), 100},
		{NewDate(2024, 1, 2), 100},
		{NewDate(2024, 1, 3), 100},
		{NewDate(2024, 1, 4), 0},
	}
	for i, tc := range cases {
		got := DailyCost(tc.day, []Transaction{tx})
		if math.Abs(got-tc.want) > epsilon {
			t.Fatalf("case %d (%s): got %v, want %v", i, tc.day, got, tc.want)
		}
	}
}

func TestDailyCostInstant(t *testing.T) {
	tx := Transaction{Amount: 42.5, Date: NewDate(2024, 6, 15)}
	if got := DailyCost(NewDate(2024, 6, 15), []Transaction{tx}); math.Abs(got-42.5) > epsilon {
		t.Fatalf("got %v, want 42.5", got)
	}
	if got := DailyCost(NewDate(2024, 6, 16), []Transaction{tx}); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestDailyCostSingleDayRangeEqualsInstant(t *testing.T) {
	day := NewDate(2024, 5, 10)
	instant := Transaction{Amount: 80, Date: day}
	ranged := Transaction{Amount: 80, Date: day, EndDate: day}

	gotInstant := DailyCost(day, []Transaction{instant})
	gotRanged := DailyCost(day, []Transaction{ranged})
	if math.Abs(gotInstant-gotRanged) > epsilon {
		t.Fatalf("instant %v != single-day range %v", gotInstant, gotRanged)
	}
	if math.Abs(gotRanged-80) > epsilon {
		t.Fatalf("got %v, want 80", gotRanged)
	}
}

func TestDailyCostSumsToAmount(t *testing.T) {
	// Spanning uneven divisions: 100 over 7 days must still sum back to 100.
	tx := Transaction{
		Amount:  100,
		Date:    NewDate(2024, 3, 1),
		EndDate: NewDate(2024, 3, 7),
	}
	var sum float64
	for d := 0; d < 7; d++ {
		sum += DailyCost(DateOf(tx.Date.AddDate(0, 0, d)), []Transaction{tx})
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Fatalf("daily costs sum to %v, want 100", sum)
	}
}

func TestDailyCostMixedTransactions(t *testing.T) {
	txs := []Transaction{
		{Amount: 300, Date: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 3)},
		{Amount: 50, Date: NewDate(2024, 1, 2)},
		{Amount: 10, Date: NewDate(2024, 1, 4)},
	}
	if got := DailyCost(NewDate(2024, 1, 2), txs); math.Abs(got-150) > epsilon {
		t.Fatalf("got %v, want 150", got)
	}
}

func TestDailyRange(t *testing.T) {
	txs := []Transaction{
		{Amount: 70, Date: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 7)},
	}
	stats := DailyRange(NewDate(2024, 1, 7), 7, txs)
	if len(stats) != 7 {
		t.Fatalf("got %d stats, want 7", len(stats))
	}
	if !stats[0].Date.Equal(NewDate(2024, 1, 1)) {
		t.Fatalf("first day %s, want 2024-01-01", stats[0].Date)
	}
	for i, st := range stats {
		if math.Abs(st.Amount-10) > epsilon {
			t.Fatalf("day %d: got %v, want 10", i, st.Amount)
		}
	}
	if DailyRange(NewDate(2024, 1, 1), 0, txs) != nil {
		t.Fatal("expected nil for zero days")
	}
}
