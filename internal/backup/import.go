package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"smartspend/internal/core"
)

// ImportOptions lets callers pin the clock and id source for tests. Zero
// values fall back to wall clock and random UUIDs.
type ImportOptions struct {
	Now   func() time.Time
	NewID func() string
}

func (o ImportOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o ImportOptions) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

// Import parses a backup document of unknown provenance and returns fully
// valid application state. Both the versioned wrapper shape and the bare
// four-collections shape are accepted. Every transaction field is defaulted
// individually, and empty category/member lists are replaced with the seed
// sets so the application never ends up without them.
//
// Only syntactically malformed input is an error; callers are expected to
// leave previously persisted state untouched in that case.
func Import(raw []byte, opts ImportOptions) (core.AppData, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return core.AppData{}, fmt.Errorf("parse backup document: %w", err)
	}

	// Wrapper shape: the collections live one level down under "data".
	if inner, ok := root["data"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil && nested != nil {
			root = nested
		}
	}

	data := core.AppData{
		Transactions: sanitizeTransactions(root["transactions"], opts),
		Categories:   sanitizeCategories(root["categories"], opts),
		Members:      sanitizeMembers(root["members"], opts),
		Settings:     sanitizeSettings(root["settings"]),
	}
	return data, nil
}

func decodeList(raw json.RawMessage) []map[string]any {
	if raw == nil {
		return nil
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func sanitizeTransactions(raw json.RawMessage, opts ImportOptions) []core.Transaction {
	items := decodeList(raw)
	txs := make([]core.Transaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		txs = append(txs, sanitizeTransaction(item, opts))
	}
	return txs
}

func sanitizeTransaction(item map[string]any, opts ImportOptions) core.Transaction {
	tx := core.Transaction{
		ID:         stringField(item, "id", ""),
		Name:       stringField(item, "name", "Unknown"),
		Amount:     numberField(item, "amount"),
		CategoryID: stringField(item, "categoryId", core.FallbackCategoryID),
		MemberIDs:  stringListField(item, "memberIds"),
		IsWaste:    boolField(item, "isWaste"),
		Note:       stringField(item, "note", ""),
	}
	if tx.ID == "" {
		tx.ID = opts.newID()
	}

	if d, ok := dateField(item, "date"); ok {
		tx.Date = d
	} else {
		tx.Date = core.DateOf(opts.now())
	}
	// An unparseable end date means instantaneous, not an error.
	if d, ok := dateField(item, "endDate"); ok {
		tx.EndDate = d
	}

	if ts, ok := intField(item, "timestamp"); ok {
		tx.Timestamp = ts
	} else {
		tx.Timestamp = opts.now().UnixMilli()
	}

	if flags, ok := item["reflection"].(map[string]any); ok {
		tx.Reflection = &core.ReflectionFlags{
			Regret: boolField(flags, "regret"),
			Waste:  boolField(flags, "waste"),
			Save:   boolField(flags, "save"),
		}
	}
	if tags := stringListField(item, "reflectionTagIds"); len(tags) > 0 {
		tx.ReflectionTagIDs = tags
	}

	return tx
}

func sanitizeCategories(raw json.RawMessage, opts ImportOptions) []core.Category {
	items := decodeList(raw)
	if len(items) == 0 {
		return core.DefaultCategories()
	}
	cats := make([]core.Category, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		c := core.Category{
			ID:    stringField(item, "id", ""),
			Name:  stringField(item, "name", "Unknown"),
			Icon:  stringField(item, "icon", "📦"),
			Color: stringField(item, "color", "slate"),
		}
		if c.ID == "" {
			c.ID = opts.newID()
		}
		cats = append(cats, c)
	}
	if len(cats) == 0 {
		return core.DefaultCategories()
	}
	return cats
}

func sanitizeMembers(raw json.RawMessage, opts ImportOptions) []core.Member {
	items := decodeList(raw)
	if len(items) == 0 {
		return core.DefaultMembers()
	}
	members := make([]core.Member, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		m := core.Member{
			ID:     stringField(item, "id", ""),
			Name:   stringField(item, "name", "Unknown"),
			Avatar: stringField(item, "avatar", "🧑"),
		}
		if m.ID == "" {
			m.ID = opts.newID()
		}
		members = append(members, m)
	}
	if len(members) == 0 {
		return core.DefaultMembers()
	}
	return members
}

func sanitizeSettings(raw json.RawMessage) core.AppSettings {
	settings := core.DefaultSettings()
	if raw == nil {
		return settings
	}
	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil {
		return settings
	}
	if lang := stringField(item, "language", ""); core.SupportedLanguage(lang) {
		settings.Language = lang
	}
	if cur := stringField(item, "currency", ""); cur != "" {
		settings.Currency = cur
	}
	return settings
}

func stringField(item map[string]any, key, fallback string) string {
	if v, ok := item[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// numberField coerces an amount: JSON numbers pass through, numeric
// strings are parsed, anything else becomes zero.
func numberField(item map[string]any, key string) float64 {
	switch v := item[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func intField(item map[string]any, key string) (int64, bool) {
	switch v := item[key].(type) {
	case float64:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func boolField(item map[string]any, key string) bool {
	v, _ := item[key].(bool)
	return v
}

func dateField(item map[string]any, key string) (core.Date, bool) {
	s, ok := item[key].(string)
	if !ok || s == "" {
		return core.Date{}, false
	}
	if len(s) > len(core.DateLayout) {
		s = s[:len(core.DateLayout)]
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, false
	}
	return d, true
}

func stringListField(item map[string]any, key string) []string {
	list, ok := item[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
