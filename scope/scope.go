// Package scope implements C2: the scoped-value engine used by link
// properties that carry a default plus an ordered list of (category,
// timespan) overrides.
package scope

import (
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/timespan"
)

// DefaultCategory is the sentinel category meaning "applies regardless
// of category".
const DefaultCategory = "any"

// MinOverlapMinutesDefault is the minimum overlap Merge uses when its
// minOverlapMinutes argument is zero or negative. Resolve does not use it.
const MinOverlapMinutesDefault = 60

// Item is a single (category, timespan, value) override, the Go analog
// of a ScopedLinkValueItem / IndivScopedPropertySetItem.
type Item struct {
	Category string
	Timespan timespan.Timespan
	Value    any
}

// isDefault reports whether item applies to every category and the
// whole day, i.e. carries no actual scoping information.
func (it Item) isDefault() bool {
	return it.Category == DefaultCategory && it.Timespan.IsDefault()
}

func categoryMatches(itemCategory, queryCategory string) bool {
	return itemCategory == DefaultCategory || queryCategory == DefaultCategory || itemCategory == queryCategory
}

// matches reports whether item is a `matching` scope for (category, ts):
// same or "any" category, and item's timespan contains ts (or is default).
func matches(it Item, category string, ts timespan.Timespan) bool {
	if !categoryMatches(it.Category, category) {
		return false
	}
	if it.Timespan.IsDefault() {
		return true
	}
	return it.Timespan.Contains(ts)
}

// overlapping reports whether item is an `overlapping` scope for
// (category, ts): same or "any" category, and item's timespan intersects
// ts by at least minOverlapMinutes (or is default).
func overlapping(it Item, category string, ts timespan.Timespan, minOverlapMinutes int) bool {
	if !categoryMatches(it.Category, category) {
		return false
	}
	if it.Timespan.IsDefault() {
		return true
	}
	return it.Timespan.OverlapMinutes(ts) >= minOverlapMinutes
}

// conflicting reports whether item overlaps (category, ts) but does not
// match it. Default-scoped items never conflict.
func conflicting(it Item, category string, ts timespan.Timespan, minOverlapMinutes int) bool {
	if it.Timespan.IsDefault() {
		return false
	}
	return overlapping(it, category, ts, minOverlapMinutes) && !matches(it, category, ts)
}

// Resolve returns the value that applies for (category, ts) given a
// scalar default and an ordered override list. Candidates are the
// non-default items that match (category, ts): same or "any" category,
// and a timespan that fully contains ts. strict and minOverlapMinutes do
// not change the candidate set; both modes select the same items. The
// longest matching item (by duration) wins; ties keep the earliest item
// in list order. If nothing matches, def is returned.
func Resolve(def any, list []Item, category string, ts timespan.Timespan, minOverlapMinutes int, strict bool) any {
	if category == "" {
		category = DefaultCategory
	}
	best := -1
	bestDuration := -1
	for i, it := range list {
		if it.isDefault() {
			continue
		}
		if strict {
			if !matches(it, category, ts) {
				continue
			}
		} else if !matches(it, category, ts) {
			continue
		}
		d := it.Timespan.DurationSeconds()
		if d > bestDuration {
			bestDuration = d
			best = i
		}
	}
	if best == -1 {
		return def
	}
	return list[best].Value
}

// MergePolicy controls how new items are reconciled against an existing
// list in Merge.
type MergePolicy string

const (
	PolicyErrorOnConflict     MergePolicy = "error_on_conflict"
	PolicyOverwriteConflicting MergePolicy = "overwrite_conflicting"
	PolicyOverwriteAll        MergePolicy = "overwrite_all"
)

// Merge reconciles newItems into existing per policy, returning the
// resulting list. See spec §4.2: overwrite_all replaces wholesale;
// otherwise conflicting existing items are dropped (or cause
// ErrScopeConflict) and matching existing items are replaced, with
// unmatched new items appended.
func Merge(existing []Item, newItems []Item, policy MergePolicy, minOverlapMinutes int) ([]Item, error) {
	if policy == PolicyOverwriteAll {
		out := make([]Item, len(newItems))
		copy(out, newItems)
		return out, nil
	}
	if minOverlapMinutes <= 0 {
		minOverlapMinutes = MinOverlapMinutesDefault
	}

	result := make([]Item, len(existing))
	copy(result, existing)

	for _, ni := range newItems {
		var conflicts []int
		for idx, ei := range result {
			if conflicting(ei, ni.Category, ni.Timespan, minOverlapMinutes) {
				conflicts = append(conflicts, idx)
			}
		}
		if len(conflicts) > 0 {
			if policy == PolicyErrorOnConflict {
				return nil, fmt.Errorf("%w: category=%s timespan=%s", errs.ErrScopeConflict, ni.Category, ni.Timespan)
			}
			// overwrite_conflicting: drop the conflicting items.
			result = dropIndices(result, conflicts)
		}

		matchIdx := -1
		for idx, ei := range result {
			if ei.Category == ni.Category && ei.Timespan == ni.Timespan {
				matchIdx = idx
				break
			}
		}
		if matchIdx >= 0 {
			result[matchIdx] = ni
		} else {
			result = append(result, ni)
		}
	}

	return result, nil
}

func dropIndices(items []Item, indices []int) []Item {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	out := make([]Item, 0, len(items))
	for i, it := range items {
		if !drop[i] {
			out = append(out, it)
		}
	}
	return out
}

// WriteSpec is the Cartesian-product expansion unit: a caller may supply
// Categories/Timespans (grouped form) or Category/Timespan (individual
// form); ExpandWriteSpec produces one Item per combination, substituting
// defaults when neither is given, exactly as
// _grouped_to_indiv_list_of_scopedpropsetitem does.
type WriteSpec struct {
	Category   string
	Categories []string
	Timespan   *timespan.Timespan
	Timespans  []timespan.Timespan
	Value      any
}

// ExpandWriteSpec expands a single WriteSpec into the Cartesian product
// of (category, timespan) items it addresses.
func ExpandWriteSpec(ws WriteSpec) []Item {
	categories := append([]string(nil), ws.Categories...)
	if ws.Category != "" {
		categories = append(categories, ws.Category)
	}
	if len(categories) == 0 {
		categories = []string{DefaultCategory}
	}

	spans := append([]timespan.Timespan(nil), ws.Timespans...)
	if ws.Timespan != nil {
		spans = append(spans, *ws.Timespan)
	}
	if len(spans) == 0 {
		spans = []timespan.Timespan{timespan.Default}
	}

	items := make([]Item, 0, len(categories)*len(spans))
	for _, c := range categories {
		for _, t := range spans {
			items = append(items, Item{Category: c, Timespan: t, Value: ws.Value})
		}
	}
	return items
}

// ExpandWriteSpecs expands and flattens a list of WriteSpecs, in order.
func ExpandWriteSpecs(specs []WriteSpec) []Item {
	var items []Item
	for _, ws := range specs {
		items = append(items, ExpandWriteSpec(ws)...)
	}
	return items
}

// ApplyDelta applies a numeric additive change to an existing numeric
// value. existing must be an int, int64, float64 or float32; the result
// keeps existing's numeric type.
func ApplyDelta(existing any, delta float64) (any, error) {
	switch v := existing.(type) {
	case int:
		return v + int(delta), nil
	case int64:
		return v + int64(delta), nil
	case float64:
		return v + delta, nil
	case float32:
		return v + float32(delta), nil
	default:
		return nil, fmt.Errorf("%w: change can only be applied to a numeric existing value, got %T", errs.ErrInvalidScopedLinkValue, existing)
	}
}
