package sheets

import (
	"strings"

	"smartspend/internal/core"
)

// Header is the first row of a mirror sheet. Column A carries the
// transaction id so rows can be updated and deleted in place.
var Header = []any{
	"ID", "Date", "Item Name", "Amount", "Category", "Split With",
	"Type", "Is Waste", "Note", "End Date (Amortization)",
}

// RowValues flattens a transaction into mirror sheet columns. Category and
// member ids are resolved against the snapshot; a dangling category renders
// as "Unknown" and a dangling member id is kept verbatim.
func RowValues(t core.Transaction, data core.AppData) []any {
	categories := make(map[string]string, len(data.Categories))
	for _, c := range data.Categories {
		categories[c.ID] = c.Name
	}
	members := make(map[string]string, len(data.Members))
	for _, m := range data.Members {
		members[m.ID] = m.Name
	}

	category, ok := categories[t.CategoryID]
	if !ok {
		category = "Unknown"
	}

	names := make([]string, 0, len(t.MemberIDs))
	for _, id := range t.MemberIDs {
		if name, ok := members[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}

	kind := "Instant"
	endDate := ""
	if t.Amortized() {
		kind = "Long-term"
		endDate = t.EndDate.String()
	}

	isWaste := "No"
	if t.IsWaste {
		isWaste = "Yes"
	}

	return []any{
		t.ID,
		t.Date.String(),
		t.Name,
		t.Amount,
		category,
		strings.Join(names, ", "),
		kind,
		isWaste,
		t.Note,
		endDate,
	}
}
