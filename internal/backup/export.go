// Package backup implements the portable backup document: full-state JSON
// export, flat CSV export, and a sanitizing importer that tolerates
// documents from older schema versions or hand-edited files.
package backup

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smartspend/internal/core"
)

// SchemaVersion tags exported documents so future importers can branch on
// the shape they were given.
const SchemaVersion = 1

// AppName identifies the producing application inside exported documents.
const AppName = "smartspend"

// Document is the portable backup wrapper.
type Document struct {
	Version   int          `json:"version"`
	Timestamp int64        `json:"timestamp"`
	App       string       `json:"app"`
	Data      core.AppData `json:"data"`
}

// Export wraps a snapshot into a versioned document. All four collections
// are always present, even when empty.
func Export(data core.AppData, now time.Time) Document {
	if data.Transactions == nil {
		data.Transactions = []core.Transaction{}
	}
	if data.Categories == nil {
		data.Categories = []core.Category{}
	}
	if data.Members == nil {
		data.Members = []core.Member{}
	}
	return Document{
		Version:   SchemaVersion,
		Timestamp: now.UnixMilli(),
		App:       AppName,
		Data:      data,
	}
}

// ExportJSON renders the document as indented JSON for download.
func ExportJSON(data core.AppData, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Export(data, now), "", "  ")
}

// csvHeader matches the historical export layout; changing it breaks
// spreadsheets users have built on top of it.
var csvHeader = []string{
	"Date", "Item Name", "Amount", "Category", "Split With",
	"Type", "Is Waste", "Note", "End Date (Amortization)",
}

// ExportCSV renders one row per transaction with double-quote-escaped
// text fields. Member references that do not resolve fall back to the raw
// id so no split information is silently lost.
func ExportCSV(data core.AppData) []byte {
	catNames := make(map[string]string, len(data.Categories))
	for _, c := range data.Categories {
		catNames[c.ID] = c.Name
	}
	memberNames := make(map[string]string, len(data.Members))
	for _, m := range data.Members {
		memberNames[m.ID] = m.Name
	}

	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')

	for i, tx := range data.Transactions {
		catName := catNames[tx.CategoryID]
		if catName == "" {
			catName = "Unknown"
		}
		names := make([]string, 0, len(tx.MemberIDs))
		for _, mid := range tx.MemberIDs {
			if name, ok := memberNames[mid]; ok {
				names = append(names, name)
			} else {
				names = append(names, mid)
			}
		}
		txType := "Instant"
		if tx.Amortized() {
			txType = "Long-term"
		}
		isWaste := "No"
		if tx.IsWaste {
			isWaste = "Yes"
		}

		row := []string{
			tx.Date.String(),
			quote(tx.Name),
			fmt.Sprintf("%.2f %s", tx.Amount, data.Settings.Currency),
			quote(catName),
			quote(strings.Join(names, ", ")),
			txType,
			isWaste,
			quote(tx.Note),
			tx.EndDate.String(),
		}
		b.WriteString(strings.Join(row, ","))
		if i < len(data.Transactions)-1 {
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
