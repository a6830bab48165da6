package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultCategory = "General"
	DefaultCurrency = "USD"

	// DateLayout is the on-disk and on-screen form of an expense date.
	DateLayout = "2006-01-02"
)

type (
	Date struct {
		time.Time
	}

	Expense struct {
		ID             int64  `json:"id"`
		Date           Date   `json:"date"`
		Description    string `json:"description"`
		Amount         Money  `json:"amount"` // base amount, used for every aggregate
		Category       string `json:"category"`
		Currency       string `json:"currency"`
		OriginalAmount Money  `json:"original_amount"`
	}
)

var (
	ErrNotFound         = errors.New("expense not found")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRate      = errors.New("invalid conversion rate")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyKeyword     = errors.New("empty keyword")
	ErrInvalidDate      = errors.New("invalid date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// ParseStoredDate is ParseDate for values read back from a store, where an
// empty cell means the record has no date.
func ParseStoredDate(s string) (Date, error) {
	if strings.TrimSpace(s) == "" {
		return Date{}, nil
	}
	return ParseDate(s)
}

// Month returns the month, 0 for an undated record.
func (d Date) Month() int {
	if d.IsZero() {
		return 0
	}
	return int(d.Time.Month())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidateMonth accepts 1-12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d (must be 1-12)", ErrInvalidMonth, month)
	}
	return nil
}

// Matches reports whether keyword occurs in the description or the category,
// ignoring case.
func (e Expense) Matches(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(e.Description), k) ||
		strings.Contains(strings.ToLower(e.Category), k)
}

// Validate checks a record about to be added. Records already in a ledger
// are not revalidated, so legacy data without a date still loads.
func (e Expense) Validate() error {
	if e.ID < 1 {
		return fmt.Errorf("invalid id %d", e.ID)
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if e.OriginalAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
