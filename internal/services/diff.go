package services

import (
	"sort"

	"networth/internal/core"
)

// EntryDiff lists what an update has to remove or rewrite, keyed by sub-category or
// currency code. All slices are sorted.
type EntryDiff struct {
	DeletedValues       []int64
	DeletedCreditLimits []int64
	DeletedCurrencies   []string
	// ChangedValues are sub-categories present before and after whose value differs in
	// anything but its ID. Their FX and loan child rows are cleared before the rewrite.
	ChangedValues []int64
	// AllSubcategories covers every new value; their option rows are always replaced.
	AllSubcategories []int64
}

// DiffEntry compares the stored state of an entry with its replacement. Neither input is
// modified.
func DiffEntry(before core.Entry, after core.EntryInput) EntryDiff {
	beforeValues := make(map[int64]core.Value, len(before.Values))
	for _, v := range before.Values {
		beforeValues[v.Subcategory] = v
	}
	afterValues := make(map[int64]core.Value, len(after.Values))
	for _, v := range after.Values {
		afterValues[v.Subcategory] = v
	}

	var diff EntryDiff
	for sub := range beforeValues {
		if _, ok := afterValues[sub]; !ok {
			diff.DeletedValues = append(diff.DeletedValues, sub)
		}
	}
	for sub, next := range afterValues {
		diff.AllSubcategories = append(diff.AllSubcategories, sub)
		if prev, ok := beforeValues[sub]; ok && !prev.EqualContent(next) {
			diff.ChangedValues = append(diff.ChangedValues, sub)
		}
	}

	afterLimits := make(map[int64]struct{}, len(after.CreditLimits))
	for _, cl := range after.CreditLimits {
		afterLimits[cl.Subcategory] = struct{}{}
	}
	for _, cl := range before.CreditLimits {
		if _, ok := afterLimits[cl.Subcategory]; !ok {
			diff.DeletedCreditLimits = append(diff.DeletedCreditLimits, cl.Subcategory)
		}
	}

	afterCurrencies := make(map[string]struct{}, len(after.Currencies))
	for _, c := range after.Currencies {
		afterCurrencies[c.Currency] = struct{}{}
	}
	for _, c := range before.Currencies {
		if _, ok := afterCurrencies[c.Currency]; !ok {
			diff.DeletedCurrencies = append(diff.DeletedCurrencies, c.Currency)
		}
	}

	sortInt64s(diff.DeletedValues)
	sortInt64s(diff.DeletedCreditLimits)
	sortInt64s(diff.ChangedValues)
	sortInt64s(diff.AllSubcategories)
	sort.Strings(diff.DeletedCurrencies)
	return diff
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
