package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Date is a plain calendar date. The canonical form everywhere
	// (persistence, API, aggregation) is the ISO string YYYY-MM-DD.
	Date struct {
		Year  int
		Month int // 1-12
		Day   int
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded expense. ID doubles as the
	// secondary sort key for "most recent first" views.
	Transaction struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		Amount      Money  `json:"amount_cents"`
		Date        Date   `json:"date"`
		Category    string `json:"category"`
	}

	// Draft is the caller-supplied shape of a transaction before the
	// ledger assigns an ID and normalizes the category.
	Draft struct {
		Description string
		Amount      Money
		Date        Date
		Category    string
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooShort = errors.New("description too short (min 2 characters)")
)

const maxDescriptionLen = 200

// NewDate creates a Date from year, month, day without validation.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the Date for the given instant in its location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Today(t), nil
}

// String renders the canonical ISO form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("%w: day %d", ErrInvalidDate, d.Day)
	}
	return nil
}

// Equal reports exact date equality, the comparison every "same day"
// aggregate uses.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// Compare returns -1, 0 or 1 ordering dates chronologically. ISO string
// ordering and chronological ordering agree, so a field compare is enough.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	case d.Day != other.Day:
		return sign(d.Day - other.Day)
	}
	return 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// MarshalJSON encodes the date as its ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts the ISO string form.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(t.Description)
	if len(trimmed) == 0 {
		return ErrEmptyDescription
	}
	if len(trimmed) < 2 {
		return ErrDescriptionTooShort
	}
	if len(t.Description) > maxDescriptionLen {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks a draft the same way a stored transaction is checked.
// The ledger itself trusts drafts; the HTTP form layer calls this before
// dispatching.
func (dr Draft) Validate() error {
	t := Transaction{
		Description: dr.Description,
		Amount:      dr.Amount,
		Date:        dr.Date,
		Category:    dr.Category,
	}
	return t.Validate()
}
