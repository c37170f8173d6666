package clip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/transit"
	"github.com/wsp-sag/network-wrangler-sub001/transit/clip"
)

func buildFeed(t *testing.T) *transit.Feed {
	t.Helper()
	f := transit.NewFeed()
	require.NoError(t, f.Agencies.Insert(transit.Agency{AgencyID: "A1"}))
	require.NoError(t, f.Routes.Insert(transit.Route{RouteID: "R1", AgencyID: "A1"}))
	require.NoError(t, f.Routes.Insert(transit.Route{RouteID: "R2", AgencyID: "A1"}))

	// Trip T1 runs nodes 1-2-3-4, all inside the boundary.
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T1", RouteID: "R1", ShapeID: "S1"}))
	for seq, node := range []int{1, 2, 3, 4} {
		require.NoError(t, f.Shapes.Insert(transit.ShapePoint{ShapeID: "S1", ShapePtSequence: seq, ModelNodeID: node}))
		require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T1", StopID: node, StopSequence: seq}))
		require.NoError(t, f.Stops.Insert(transit.Stop{StopID: node}))
	}

	// Trip T2 only touches node 99, entirely outside the boundary - it
	// should be dropped for falling below min stops.
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T2", RouteID: "R2", ShapeID: "S2"}))
	require.NoError(t, f.Shapes.Insert(transit.ShapePoint{ShapeID: "S2", ShapePtSequence: 0, ModelNodeID: 99}))
	require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T2", StopID: 99, StopSequence: 0}))
	require.NoError(t, f.Stops.Insert(transit.Stop{StopID: 99}))

	return f
}

func TestToNodesKeepsTripsMeetingMinStops(t *testing.T) {
	f := buildFeed(t)
	clipped := clip.ToNodes(f, []int{1, 2, 3, 4}, clip.DefaultMinStops)

	assert.True(t, clipped.Trips.Has("T1"))
	assert.False(t, clipped.Trips.Has("T2"))
	assert.True(t, clipped.Routes.Has("R1"))
	assert.False(t, clipped.Routes.Has("R2"))
}

func TestToNodesDropsTripsBelowMinStops(t *testing.T) {
	f := buildFeed(t)
	clipped := clip.ToNodes(f, []int{1}, clip.DefaultMinStops)
	assert.False(t, clipped.Trips.Has("T1"))
}

func TestToNodesRetainsOnlyKeptShapes(t *testing.T) {
	f := buildFeed(t)
	clipped := clip.ToNodes(f, []int{1, 2, 3, 4}, clip.DefaultMinStops)
	shapes := clipped.Shapes.Filter(func(sp transit.ShapePoint) bool { return sp.ShapeID == "S2" })
	assert.Empty(t, shapes)
}

func TestToNodesDefaultsMinStopsWhenNonPositive(t *testing.T) {
	f := buildFeed(t)
	clipped := clip.ToNodes(f, []int{1, 2, 3, 4}, 0)
	assert.True(t, clipped.Trips.Has("T1"))
}

func TestToNodesTrimsShapeToLongestContiguousRun(t *testing.T) {
	f := transit.NewFeed()
	require.NoError(t, f.Routes.Insert(transit.Route{RouteID: "R1"}))
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T1", RouteID: "R1", ShapeID: "S1"}))
	// Shape dips outside the boundary (node 50) in the middle, leaving
	// two candidate in-boundary runs: [1,2] and [3,4,5]; the longer run
	// [3,4,5] must be the one retained.
	for seq, node := range []int{1, 2, 50, 3, 4, 5} {
		require.NoError(t, f.Shapes.Insert(transit.ShapePoint{ShapeID: "S1", ShapePtSequence: seq, ModelNodeID: node}))
	}
	for seq, node := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T1", StopID: node, StopSequence: seq}))
		require.NoError(t, f.Stops.Insert(transit.Stop{StopID: node}))
	}

	clipped := clip.ToNodes(f, []int{1, 2, 3, 4, 5}, clip.DefaultMinStops)

	shapePoints := clipped.Shapes.Filter(func(sp transit.ShapePoint) bool { return sp.ShapeID == "S1" })
	require.Len(t, shapePoints, 3)
	var nodes []int
	for _, sp := range shapePoints {
		nodes = append(nodes, sp.ModelNodeID)
	}
	assert.ElementsMatch(t, []int{3, 4, 5}, nodes)
}
