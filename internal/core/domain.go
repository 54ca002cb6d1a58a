package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Asset     CategoryType = "asset"
	Liability CategoryType = "liability"
)

const dateLayout = "2006-01-02"

type (
	CategoryType string

	// Date is a calendar date without a time component, always in UTC.
	Date struct {
		time.Time
	}

	// Entry is one dated net worth snapshot for a user.
	Entry struct {
		ID           int64         `json:"id"`
		UID          int64         `json:"uid"`
		Date         Date          `json:"date"`
		Values       []Value       `json:"values"`
		CreditLimits []CreditLimit `json:"creditLimit"`
		Currencies   []Currency    `json:"currencies"`
	}

	// EntryInput is the caller-supplied content of an entry on create and update.
	EntryInput struct {
		Date         Date          `json:"date"`
		Values       []Value       `json:"values"`
		CreditLimits []CreditLimit `json:"creditLimit"`
		Currencies   []Currency    `json:"currencies"`
	}

	Currency struct {
		Currency string  `json:"currency"`
		Rate     float64 `json:"rate"`
	}

	CreditLimit struct {
		Subcategory int64 `json:"subcategory"`
		Value       int64 `json:"value"`
	}

	Category struct {
		ID       int64        `json:"id"`
		Type     CategoryType `json:"type"`
		Category string       `json:"category"`
		Color    string       `json:"color"`
		IsOption bool         `json:"isOption"`
	}

	Subcategory struct {
		ID               int64    `json:"id"`
		CategoryID       int64    `json:"categoryId"`
		Subcategory      string   `json:"subcategory"`
		HasCreditLimit   *bool    `json:"hasCreditLimit"`
		IsSAYE           *bool    `json:"isSAYE"`
		Opacity          float64  `json:"opacity"`
		AppreciationRate *float64 `json:"appreciationRate"`
	}

	// SubcategoryInfo is a sub-category joined with the metadata of its parent category,
	// as needed by validation.
	SubcategoryInfo struct {
		Subcategory
		CategoryType     CategoryType
		CategoryName     string
		CategoryIsOption bool
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyCategoryName   = errors.New("empty category name")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrEmptySubcategory    = errors.New("empty subcategory name")
)

func (t CategoryType) IsValid() bool {
	return t == Asset || t == Liability
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Category) == "" {
		return ErrEmptyCategoryName
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategoryType, c.Type)
	}
	return nil
}

func (s Subcategory) Validate() error {
	if strings.TrimSpace(s.Subcategory) == "" {
		return ErrEmptySubcategory
	}
	return nil
}

// Validate checks the structural invariants of an entry input. Reference checks against
// stored sub-categories happen in the validation layer.
func (in EntryInput) Validate() error {
	if err := in.Date.Validate(); err != nil {
		return BadRequest(err.Error())
	}
	values := make(map[int64]struct{}, len(in.Values))
	for _, v := range in.Values {
		if err := v.Validate(); err != nil {
			return err
		}
		if _, dup := values[v.Subcategory]; dup {
			return BadRequest("duplicate value for subcategory", v.Subcategory)
		}
		values[v.Subcategory] = struct{}{}
	}
	seen := make(map[string]struct{}, len(in.Currencies))
	for _, c := range in.Currencies {
		code := strings.TrimSpace(c.Currency)
		if code == "" {
			return BadRequest("empty currency code")
		}
		if c.Rate < 0 {
			return BadRequest(fmt.Sprintf("negative rate for currency %s", code))
		}
		if _, dup := seen[code]; dup {
			return BadRequest(fmt.Sprintf("duplicate currency %s", code))
		}
		seen[code] = struct{}{}
	}
	return nil
}
