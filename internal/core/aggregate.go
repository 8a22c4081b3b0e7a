package core

import "sort"

// AggregateMode selects which slice of spending a summary covers.
type AggregateMode string

const (
	// ModeOverview counts every transaction in full.
	ModeOverview AggregateMode = "overview"
	// ModeByMember keeps only transactions including the filtered member,
	// each contributing its per-member split.
	ModeByMember AggregateMode = "byMember"
	// ModeByCategory keeps only transactions in the filtered category,
	// broken down per member instead of per category.
	ModeByCategory AggregateMode = "byCategory"
)

func (m AggregateMode) Valid() bool {
	switch m {
	case ModeOverview, ModeByMember, ModeByCategory:
		return true
	}
	return false
}

// BreakdownEntry is one named slice of a summary, e.g. a category or a
// member with its summed amount.
type BreakdownEntry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Summary is the result of aggregating a transaction list under one mode.
type Summary struct {
	Total      float64          `json:"total"`
	WasteTotal float64          `json:"wasteTotal"`
	ByCategory []BreakdownEntry `json:"byCategory,omitempty"`
	ByMember   []BreakdownEntry `json:"byMember,omitempty"`
}

// unknownLabel is used whenever a category or member reference does not
// resolve; aggregation never fails on dangling ids.
const unknownLabel = "Unknown"

// breakdown accumulates name->amount sums while remembering first-seen
// order, so equal amounts sort deterministically.
type breakdown struct {
	sums  map[string]float64
	order []string
}

func newBreakdown() *breakdown {
	return &breakdown{sums: make(map[string]float64)}
}

func (b *breakdown) add(name string, amount float64) {
	if _, seen := b.sums[name]; !seen {
		b.order = append(b.order, name)
	}
	b.sums[name] += amount
}

// entries returns the breakdown sorted descending by amount, ties broken
// by insertion order.
func (b *breakdown) entries() []BreakdownEntry {
	if len(b.order) == 0 {
		return nil
	}
	out := make([]BreakdownEntry, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, BreakdownEntry{Name: name, Amount: b.sums[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// Aggregate produces total, regretted subtotal, and per-category /
// per-member breakdowns for the given view.
//
// Splitting an amount across n members always uses exact floating-point
// division; rounding is a display concern, which keeps the sum of the
// per-member shares equal to the original amount.
//
// The tags argument supplies the reflection tag definitions used to decide
// whether a transaction counts as regretted under the tag model; legacy
// boolean flags are honored when a transaction carries no tags.
func Aggregate(txs []Transaction, cats []Category, members []Member, tags []ReflectionTag, mode AggregateMode, filterID string) Summary {
	catNames := make(map[string]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}
	memberNames := make(map[string]string, len(members))
	for _, m := range members {
		memberNames[m.ID] = m.Name
	}
	categoryName := func(id string) string {
		if name, ok := catNames[id]; ok {
			return name
		}
		return unknownLabel
	}
	memberName := func(id string) string {
		if name, ok := memberNames[id]; ok {
			return name
		}
		return unknownLabel
	}

	var summary Summary
	byCat := newBreakdown()
	byMem := newBreakdown()

	for _, tx := range txs {
		regretted := IsRegretted(tx, tags)

		switch mode {
		case ModeByMember:
			if !containsID(tx.MemberIDs, filterID) {
				continue
			}
			split := tx.Amount / float64(len(tx.MemberIDs))
			summary.Total += split
			if regretted {
				summary.WasteTotal += split
			}
			byCat.add(categoryName(tx.CategoryID), split)

		case ModeByCategory:
			if tx.CategoryID != filterID {
				continue
			}
			summary.Total += tx.Amount
			if regretted {
				summary.WasteTotal += tx.Amount
			}
			split := tx.Amount / float64(len(tx.MemberIDs))
			for _, mid := range tx.MemberIDs {
				byMem.add(memberName(mid), split)
			}

		default: // ModeOverview
			summary.Total += tx.Amount
			if regretted {
				summary.WasteTotal += tx.Amount
			}
			byCat.add(categoryName(tx.CategoryID), tx.Amount)
			split := tx.Amount / float64(len(tx.MemberIDs))
			for _, mid := range tx.MemberIDs {
				byMem.add(memberName(mid), split)
			}
		}
	}

	// Category totals are meaningless when already filtered to one
	// category, and the member view isolates a single member.
	switch mode {
	case ModeByCategory:
		summary.ByMember = byMem.entries()
	case ModeByMember:
		summary.ByCategory = byCat.entries()
	default:
		summary.ByCategory = byCat.entries()
		summary.ByMember = byMem.entries()
	}

	return summary
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
