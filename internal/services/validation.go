package services

import (
	"sort"

	"networth/internal/core"
)

// ValidateEntry checks the sub-category references of an entry against the known
// sub-categories. Existence is checked first so that the credit-limit checks only ever
// see valid IDs; the NotFound error lists every unknown ID.
func ValidateEntry(known []core.SubcategoryInfo, valueSubcategories, creditLimitSubcategories []int64) error {
	byID := make(map[int64]core.SubcategoryInfo, len(known))
	for _, info := range known {
		byID[info.ID] = info
	}

	missing := make(map[int64]struct{})
	for _, ids := range [][]int64{valueSubcategories, creditLimitSubcategories} {
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing[id] = struct{}{}
			}
		}
	}
	if len(missing) > 0 {
		return core.NotFound("subcategories do not exist", sortedIDs(missing)...)
	}

	for _, id := range creditLimitSubcategories {
		info := byID[id]
		if info.CategoryType != core.Liability {
			return core.BadRequest("credit limit on a subcategory that is not a liability", id)
		}
		if info.HasCreditLimit == nil || !*info.HasCreditLimit {
			return core.BadRequest("credit limit on a subcategory without credit limits", id)
		}
	}

	seen := make(map[int64]struct{}, len(creditLimitSubcategories))
	duplicates := make(map[int64]struct{})
	for _, id := range creditLimitSubcategories {
		if _, dup := seen[id]; dup {
			duplicates[id] = struct{}{}
		}
		seen[id] = struct{}{}
	}
	if len(duplicates) > 0 {
		return core.BadRequest("duplicate credit limit", sortedIDs(duplicates)...)
	}
	return nil
}

// ValidateSubcategoryParent enforces that isSAYE is set exactly when the parent category
// holds options. A nil parent means the category does not exist.
func ValidateSubcategoryParent(parent *core.Category, sub core.Subcategory) error {
	if parent == nil {
		return core.NotFound("category does not exist", sub.CategoryID)
	}
	if parent.IsOption && sub.IsSAYE == nil {
		return core.BadRequest("isSAYE is required under an option category", parent.ID)
	}
	if !parent.IsOption && sub.IsSAYE != nil {
		return core.BadRequest("isSAYE is only allowed under an option category", parent.ID)
	}
	return nil
}

func valueSubcategories(values []core.Value) []int64 {
	ids := make([]int64, len(values))
	for i, v := range values {
		ids[i] = v.Subcategory
	}
	return ids
}

func creditLimitSubcategories(limits []core.CreditLimit) []int64 {
	ids := make([]int64, len(limits))
	for i, cl := range limits {
		ids[i] = cl.Subcategory
	}
	return ids
}

// uniqueIDs returns the distinct IDs of both lists in ascending order.
func uniqueIDs(lists ...[]int64) []int64 {
	set := make(map[int64]struct{})
	for _, ids := range lists {
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return sortedIDs(set)
}

func sortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
