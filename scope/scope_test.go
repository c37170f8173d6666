package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/scope"
	"github.com/wsp-sag/network-wrangler-sub001/timespan"
)

func mustSpan(t *testing.T, start, end string) timespan.Timespan {
	t.Helper()
	ts, err := timespan.ParseList([]string{start, end})
	require.NoError(t, err)
	return ts
}

func TestResolveReturnsDefaultWithoutMatch(t *testing.T) {
	query := mustSpan(t, "10:00", "11:00")
	items := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "06:00", "09:00"), Value: 2},
	}
	got := scope.Resolve(3, items, scope.DefaultCategory, query, scope.MinOverlapMinutesDefault, false)
	assert.Equal(t, 3, got)
}

func TestResolveReturnsMatchingOverride(t *testing.T) {
	query := mustSpan(t, "07:00", "08:00")
	items := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "06:00", "09:00"), Value: 2},
	}
	got := scope.Resolve(3, items, scope.DefaultCategory, query, scope.MinOverlapMinutesDefault, false)
	assert.Equal(t, 2, got)
}

func TestMergeErrorOnConflict(t *testing.T) {
	existing := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "06:00", "09:00"), Value: 2},
	}
	newItems := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "07:00", "10:00"), Value: 1},
	}
	_, err := scope.Merge(existing, newItems, scope.PolicyErrorOnConflict, scope.MinOverlapMinutesDefault)
	assert.Error(t, err)
}

func TestMergeOverwriteConflicting(t *testing.T) {
	existing := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "06:00", "09:00"), Value: 2},
	}
	newItems := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "07:00", "10:00"), Value: 1},
	}
	merged, err := scope.Merge(existing, newItems, scope.PolicyOverwriteConflicting, scope.MinOverlapMinutesDefault)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, mustSpan(t, "07:00", "10:00"), merged[0].Timespan)
	assert.Equal(t, 1, merged[0].Value)
}

func TestMergeAppendsNonConflicting(t *testing.T) {
	existing := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "06:00", "09:00"), Value: 2},
	}
	newItems := []scope.Item{
		{Category: scope.DefaultCategory, Timespan: mustSpan(t, "12:00", "14:00"), Value: 5},
	}
	merged, err := scope.Merge(existing, newItems, scope.PolicyErrorOnConflict, scope.MinOverlapMinutesDefault)
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestExpandWriteSpecCartesianProduct(t *testing.T) {
	ts1 := mustSpan(t, "06:00", "09:00")
	ts2 := mustSpan(t, "09:00", "15:00")
	items := scope.ExpandWriteSpec(scope.WriteSpec{
		Categories: []string{"hov2", "hov3"},
		Timespans:  []timespan.Timespan{ts1, ts2},
		Value:      4.0,
	})
	assert.Len(t, items, 4)
}

func TestExpandWriteSpecDefaultsWhenOmitted(t *testing.T) {
	items := scope.ExpandWriteSpec(scope.WriteSpec{Value: 1})
	require.Len(t, items, 1)
	assert.Equal(t, scope.DefaultCategory, items[0].Category)
	assert.True(t, items[0].Timespan.IsDefault())
}

func TestApplyDelta(t *testing.T) {
	v, err := scope.ApplyDelta(3, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = scope.ApplyDelta("not-numeric", 1)
	assert.Error(t, err)
}
