package services

import (
	"reflect"
	"testing"

	"networth/internal/core"
)

func storedEntry() core.Entry {
	return core.Entry{
		ID:   7,
		UID:  1,
		Date: core.NewDate(2024, 1, 31),
		Values: []core.Value{
			{ID: 70, Subcategory: 1, Payload: core.Simple{Amount: 1000}},
			{ID: 71, Subcategory: 2, Payload: core.FX{{Value: 10, Currency: "EUR"}, {Value: 5, Currency: "USD"}}},
			{ID: 72, Subcategory: 3, Payload: core.Option{Units: 100, StrikePrice: 50, MarketPrice: 80, Vested: 60}},
		},
		CreditLimits: []core.CreditLimit{{Subcategory: 4, Value: 500}},
		Currencies:   []core.Currency{{Currency: "EUR", Rate: 0.85}, {Currency: "USD", Rate: 0.79}},
	}
}

func inputOf(e core.Entry) core.EntryInput {
	values := make([]core.Value, len(e.Values))
	for i, v := range e.Values {
		v.ID = 0
		values[i] = v
	}
	return core.EntryInput{
		Date:         e.Date,
		Values:       values,
		CreditLimits: append([]core.CreditLimit(nil), e.CreditLimits...),
		Currencies:   append([]core.Currency(nil), e.Currencies...),
	}
}

func TestDiffEntryUnchanged(t *testing.T) {
	before := storedEntry()
	diff := DiffEntry(before, inputOf(before))

	if len(diff.DeletedValues)+len(diff.DeletedCreditLimits)+len(diff.DeletedCurrencies)+len(diff.ChangedValues) != 0 {
		t.Fatalf("expected empty diff, got %+v", diff)
	}
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(diff.AllSubcategories, want) {
		t.Fatalf("all subcategories = %v, want %v", diff.AllSubcategories, want)
	}
}

func TestDiffEntryOnlyChangedFXValue(t *testing.T) {
	before := storedEntry()
	after := inputOf(before)
	after.Values[1].Payload = core.FX{{Value: 12, Currency: "EUR"}, {Value: 5, Currency: "USD"}}

	diff := DiffEntry(before, after)

	if len(diff.DeletedValues) != 0 || len(diff.DeletedCreditLimits) != 0 || len(diff.DeletedCurrencies) != 0 {
		t.Fatalf("unexpected deletions: %+v", diff)
	}
	if want := []int64{2}; !reflect.DeepEqual(diff.ChangedValues, want) {
		t.Fatalf("changed = %v, want %v", diff.ChangedValues, want)
	}
}

func TestDiffEntryIgnoresFXOrder(t *testing.T) {
	before := storedEntry()
	after := inputOf(before)
	after.Values[1].Payload = core.FX{{Value: 5, Currency: "USD"}, {Value: 10, Currency: "EUR"}}

	if diff := DiffEntry(before, after); len(diff.ChangedValues) != 0 {
		t.Fatalf("reordered basket should not count as a change: %v", diff.ChangedValues)
	}
}

func TestDiffEntryDeletions(t *testing.T) {
	before := storedEntry()
	after := inputOf(before)
	after.Values = after.Values[:1]
	after.CreditLimits = nil
	after.Currencies = after.Currencies[1:]
	after.Values = append(after.Values, core.Value{Subcategory: 9, Payload: core.Simple{Amount: 1}})

	diff := DiffEntry(before, after)

	want := EntryDiff{
		DeletedValues:       []int64{2, 3},
		DeletedCreditLimits: []int64{4},
		DeletedCurrencies:   []string{"EUR"},
		AllSubcategories:    []int64{1, 9},
	}
	if !reflect.DeepEqual(diff, want) {
		t.Fatalf("diff = %+v\nwant %+v", diff, want)
	}
}

func TestDiffEntrySkipFlagIsAChange(t *testing.T) {
	before := storedEntry()
	after := inputOf(before)
	after.Values[0].Skip = true

	if diff := DiffEntry(before, after); !reflect.DeepEqual(diff.ChangedValues, []int64{1}) {
		t.Fatalf("changed = %v, want [1]", diff.ChangedValues)
	}
}

func TestDiffEntryDoesNotMutateInputs(t *testing.T) {
	before := storedEntry()
	after := inputOf(before)
	after.Values[1].Payload = core.FX{{Value: 5, Currency: "USD"}, {Value: 10, Currency: "EUR"}}
	snapshotBefore := storedEntry()
	snapshotAfter := inputOf(before)
	snapshotAfter.Values[1].Payload = core.FX{{Value: 5, Currency: "USD"}, {Value: 10, Currency: "EUR"}}

	DiffEntry(before, after)

	if !reflect.DeepEqual(before, snapshotBefore) || !reflect.DeepEqual(after, snapshotAfter) {
		t.Fatal("DiffEntry modified its inputs")
	}
}
