package coins

import (
	"sort"
	"strings"
)

// SortAssets orders assets by key in the direction dir.
//
// The sort is stable: assets comparing equal keep their relative order,
// in both directions.
func SortAssets(assets []Asset, key SortKey, dir SortDirection) {
	less := func(a, b Asset) bool {
		switch key {
		case SortByName:
			return strings.ToLower(a.Quote.Name) < strings.ToLower(b.Quote.Name)
		case SortByValue:
			return a.Value.LessThan(b.Value)
		default:
			return a.Quote.Rank < b.Quote.Rank
		}
	}
	sort.SliceStable(assets, func(i, j int) bool {
		if dir == Descending {
			return less(assets[j], assets[i])
		}
		return less(assets[i], assets[j])
	})
}
