package models

import (
	"cmp"
	"slices"
)

// RankIssued orders issued coupons by date, then creation time, then id,
// and numbers them from 1. Dates are free text and compare byte-wise.
func RankIssued(coupons []IssuedCoupon) []RankedIssued {
	sorted := slices.Clone(coupons)
	slices.SortStableFunc(sorted, func(a, b IssuedCoupon) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	ranked := make([]RankedIssued, len(sorted))
	for i, c := range sorted {
		ranked[i] = RankedIssued{IssuedCoupon: c, Order: i + 1}
	}
	return ranked
}

// RankCompleted orders completed coupons by insertion (id) and numbers them from 1.
func RankCompleted(coupons []CompletedCoupon) []RankedCompleted {
	sorted := slices.Clone(coupons)
	slices.SortStableFunc(sorted, func(a, b CompletedCoupon) int {
		return cmp.Compare(a.ID, b.ID)
	})

	ranked := make([]RankedCompleted, len(sorted))
	for i, c := range sorted {
		ranked[i] = RankedCompleted{CompletedCoupon: c, Order: i + 1}
	}
	return ranked
}
