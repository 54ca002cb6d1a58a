package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != NewDate(2024, 1, 31) {
		t.Fatalf("got %v", d)
	}
	if d.String() != "2024-01-31" {
		t.Fatalf("String() = %q", d.String())
	}
	if _, err := ParseDate("31/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateOfDropsTime(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)
	if got := DateOf(at); got != NewDate(2024, 3, 5) {
		t.Fatalf("DateOf = %v", got)
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Type: Asset, Category: "Cash"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Type: "equity", Category: "Cash"}).Validate(); !errors.Is(err, ErrInvalidCategoryType) {
		t.Fatalf("expected ErrInvalidCategoryType, got %v", err)
	}
	if err := (Category{Type: Asset, Category: " "}).Validate(); !errors.Is(err, ErrEmptyCategoryName) {
		t.Fatalf("expected ErrEmptyCategoryName, got %v", err)
	}
}

func TestEntryInputValidate(t *testing.T) {
	good := EntryInput{
		Date:       NewDate(2024, 1, 31),
		Values:     []Value{{Subcategory: 1, Payload: Simple{Amount: 100}}},
		Currencies: []Currency{{Currency: "USD", Rate: 0.8}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []EntryInput{
		{Values: good.Values},
		{Date: good.Date, Values: []Value{{Subcategory: 1}}},
		{Date: good.Date, Values: []Value{{Subcategory: 1, Payload: FX{}}}},
		{Date: good.Date, Currencies: []Currency{{Currency: "USD", Rate: 1}, {Currency: "USD", Rate: 2}}},
		{Date: good.Date, Currencies: []Currency{{Currency: "", Rate: 1}}},
		{Date: good.Date, Values: []Value{
			{Subcategory: 1, Payload: Simple{Amount: 1}},
			{Subcategory: 1, Payload: Simple{Amount: 2}},
		}},
	}
	for i, in := range bads {
		err := in.Validate()
		if !errors.Is(err, ErrBadRequest) {
			t.Fatalf("case %d expected bad request, got %v", i, err)
		}
	}
}
