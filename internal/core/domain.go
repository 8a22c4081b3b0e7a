package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

type (
	// Date is a calendar day. The time component is always normalized to
	// midnight UTC so that day arithmetic never trips over timezones or DST.
	Date struct {
		time.Time
	}

	// Transaction is the central record: a single expense, optionally
	// amortized over a date range and split across household members.
	Transaction struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Amount     float64  `json:"amount"`
		CategoryID string   `json:"categoryId"`
		MemberIDs  []string `json:"memberIds"`
		Date       Date     `json:"date"`
		// EndDate zero means instant consumption; set means the amount is
		// spread evenly across every day from Date to EndDate inclusive.
		EndDate Date `json:"endDate,omitempty"`
		// IsWaste is the legacy single regret flag, superseded by
		// ReflectionTagIDs but still honored for old data.
		IsWaste          bool             `json:"isWaste"`
		Reflection       *ReflectionFlags `json:"reflection,omitempty"`
		ReflectionTagIDs []string         `json:"reflectionTagIds,omitempty"`
		Note             string           `json:"note"`
		// Timestamp is unix milliseconds, used only for newest-first sorting.
		Timestamp int64 `json:"timestamp"`
	}

	// ReflectionFlags are the legacy fixed reflection markers.
	ReflectionFlags struct {
		Regret bool `json:"regret"`
		Waste  bool `json:"waste"`
		Save   bool `json:"save"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}

	Member struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}

	ReflectionTag struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Icon  string `json:"icon,omitempty"`
	}

	AppSettings struct {
		Language string `json:"language"`
		Currency string `json:"currency"`
	}

	// AppData is a full application snapshot: everything the engine and the
	// backup adapter operate on. Treated as immutable once handed out.
	AppData struct {
		Transactions []Transaction `json:"transactions"`
		Categories   []Category    `json:"categories"`
		Members      []Member      `json:"members"`
		Settings     AppSettings   `json:"settings"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrNoMembers       = errors.New("transaction needs at least one member")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrInvalidCurrency = errors.New("unsupported currency")
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// String renders the date in wire format; zero dates render empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string, null, or empty string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Tolerate full timestamps by keeping only the day part.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Equal reports calendar-day equality.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(t.MemberIDs) == 0 {
		return ErrNoMembers
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}

// Amortized reports whether the cost spreads over a date range.
func (t Transaction) Amortized() bool {
	return !t.EndDate.IsZero()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (s AppSettings) Validate() error {
	if !SupportedLanguage(s.Language) {
		return ErrInvalidLanguage
	}
	if !SupportedCurrency(s.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// SortNewestFirst orders transactions by descending timestamp, the only
// ordering the application ever presents.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp > txs[j].Timestamp
	})
}
