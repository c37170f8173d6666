package transit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
	"github.com/wsp-sag/network-wrangler-sub001/transit"
)

// routingChangeNetwork builds the roadway network backing the
// spec.md worked example: a shape [1,2,3,4] detoured through new nodes
// 6 and 7 via existing:[2,3] set:[2,7,6,3].
func routingChangeNetwork(t *testing.T) *roadway.Network {
	t.Helper()
	net := roadway.NewNetwork()
	nodes := []roadway.Node{
		{ModelNodeID: 1, Point: geometry.Point{X: 0, Y: 0}},
		{ModelNodeID: 2, Point: geometry.Point{X: 1, Y: 0}},
		{ModelNodeID: 3, Point: geometry.Point{X: 2, Y: 0}},
		{ModelNodeID: 4, Point: geometry.Point{X: 3, Y: 0}},
		{ModelNodeID: 6, Point: geometry.Point{X: 1.5, Y: 1}},
		{ModelNodeID: 7, Point: geometry.Point{X: 1.2, Y: 1}},
	}
	links := []roadway.Link{
		{ModelLinkID: 100, A: 1, B: 2, Lanes: 1, Distance: 1, DriveAccess: true},
		{ModelLinkID: 101, A: 2, B: 3, Lanes: 1, Distance: 1, DriveAccess: true},
		{ModelLinkID: 102, A: 3, B: 4, Lanes: 1, Distance: 1, DriveAccess: true},
		{ModelLinkID: 103, A: 2, B: 7, Lanes: 1, Distance: 1, BusOnly: true},
		{ModelLinkID: 104, A: 7, B: 6, Lanes: 1, Distance: 1, BusOnly: true},
		{ModelLinkID: 105, A: 6, B: 3, Lanes: 1, Distance: 1, BusOnly: true},
	}
	require.NoError(t, net.AssignTables(links, nodes, nil))
	return net
}

func threeStopFeed(t *testing.T) *transit.Feed {
	t.Helper()
	f := transit.NewFeed()
	require.NoError(t, f.Routes.Insert(transit.Route{RouteID: "R1"}))
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T1", RouteID: "R1", ShapeID: "S1"}))
	require.NoError(t, f.Shapes.Insert(transit.ShapePoint{ShapeID: "S1", ShapePtSequence: 0, ModelNodeID: 1}))
	require.NoError(t, f.Shapes.Insert(transit.ShapePoint{ShapeID: "S1", ShapePtSequence: 1, ModelNodeID: 2}))
	require.NoError(t, f.Stops.Insert(transit.Stop{StopID: 1}))
	require.NoError(t, f.Stops.Insert(transit.Stop{StopID: 2}))
	require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T1", StopID: 1, StopSequence: 0}))
	require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T1", StopID: 2, StopSequence: 1}))
	return f
}

func TestValidateForeignKeysCatchesMissingRoute(t *testing.T) {
	f := transit.NewFeed()
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T1", RouteID: "RX", ShapeID: "S1"}))
	assert.Error(t, f.ValidateForeignKeys())
}

func TestValidateAgainstRoadwayNodesCatchesUnknownStop(t *testing.T) {
	f := threeStopFeed(t)
	roadwayNodes := map[string]bool{"1": true}
	permissibleLinks := map[[2]int]bool{{1, 2}: true}
	assert.Error(t, f.ValidateAgainstRoadwayNodes(roadwayNodes, permissibleLinks))
}

func TestValidateAgainstRoadwayNodesPassesWhenCovered(t *testing.T) {
	f := threeStopFeed(t)
	roadwayNodes := map[string]bool{"1": true, "2": true}
	permissibleLinks := map[[2]int]bool{{1, 2}: true}
	assert.NoError(t, f.ValidateAgainstRoadwayNodes(roadwayNodes, permissibleLinks))
}

func TestValidateAgainstRoadwayNodesCatchesImpermissibleShapeLink(t *testing.T) {
	f := threeStopFeed(t)
	roadwayNodes := map[string]bool{"1": true, "2": true}
	assert.Error(t, f.ValidateAgainstRoadwayNodes(roadwayNodes, map[[2]int]bool{}))
}

func TestHashStableAcrossEquivalentBuild(t *testing.T) {
	f1 := threeStopFeed(t)
	f2 := threeStopFeed(t)
	assert.Equal(t, f1.Hash(), f2.Hash())
}

func TestDeepCopyIndependentFromOriginal(t *testing.T) {
	f := threeStopFeed(t)
	cp := f.DeepCopy()
	require.NoError(t, cp.EditTripProperty([]string{"T1"}, "service_id", transit.PropertyChange{Set: "weekday"}, ""))

	orig, ok := f.Trips.Get("T1")
	require.True(t, ok)
	assert.Equal(t, "", orig.ServiceID)
}

func TestEditRoutePropertySetScalar(t *testing.T) {
	f := threeStopFeed(t)
	require.NoError(t, f.EditRouteProperty([]string{"R1"}, "route_short_name", transit.PropertyChange{Set: "10"}, "proj1"))
	r, ok := f.Routes.Get("R1")
	require.True(t, ok)
	assert.Equal(t, "10", r.RouteShortName)
	assert.Contains(t, r.Projects, "proj1")
}

func detourFeed(t *testing.T) *transit.Feed {
	t.Helper()
	f := transit.NewFeed()
	require.NoError(t, f.Routes.Insert(transit.Route{RouteID: "R1"}))
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T1", RouteID: "R1", ShapeID: "S1"}))
	for seq, node := range []int{1, 2, 3, 4} {
		require.NoError(t, f.Shapes.Insert(transit.ShapePoint{ShapeID: "S1", ShapePtSequence: seq, ModelNodeID: node}))
		require.NoError(t, f.Stops.Insert(transit.Stop{StopID: node}))
		require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T1", StopID: node, StopSequence: seq}))
	}
	return f
}

func TestRoutingChangeSplicesShapeAndCreatesStops(t *testing.T) {
	f := detourFeed(t)
	net := routingChangeNetwork(t)
	newID := func() string { return "S2" }

	require.NoError(t, f.RoutingChange(net, []string{"T1"}, []int{2, 3}, []int{2, 7, 6, 3}, "proj1", newID))

	trip, ok := f.Trips.Get("T1")
	require.True(t, ok)

	shapePoints := f.Shapes.Filter(func(sp transit.ShapePoint) bool { return sp.ShapeID == trip.ShapeID })
	sortShapePoints(shapePoints)
	var shapeNodes []int
	for _, sp := range shapePoints {
		shapeNodes = append(shapeNodes, sp.ModelNodeID)
	}
	assert.Equal(t, []int{1, 2, 7, 6, 3, 4}, shapeNodes)

	sts := f.StopTimes.Filter(func(st transit.StopTime) bool { return st.TripID == "T1" })
	sortStopTimes(sts)
	var stopNodes []int
	for _, st := range sts {
		stopNodes = append(stopNodes, st.StopID)
	}
	assert.Equal(t, []int{1, 2, 7, 6, 3, 4}, stopNodes)

	assert.True(t, f.Stops.Has("6"))
	assert.True(t, f.Stops.Has("7"))
	assert.NoError(t, f.ValidateForeignKeys())
}

func TestRoutingChangeNoopWhenSetMatchesExistingExtent(t *testing.T) {
	f := detourFeed(t)
	net := routingChangeNetwork(t)
	newID := func() string { t.Fatal("newShapeID should not be called for a no-op change"); return "" }

	require.NoError(t, f.RoutingChange(net, []string{"T1"}, []int{2, 3}, []int{2, 3}, "proj1", newID))

	shapePoints := f.Shapes.Filter(func(sp transit.ShapePoint) bool { return sp.ShapeID == "S1" })
	sortShapePoints(shapePoints)
	var shapeNodes []int
	for _, sp := range shapePoints {
		shapeNodes = append(shapeNodes, sp.ModelNodeID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, shapeNodes)
}

func TestRoutingChangeClonesSharedShape(t *testing.T) {
	f := detourFeed(t)
	require.NoError(t, f.Trips.Insert(transit.Trip{TripID: "T2", RouteID: "R1", ShapeID: "S1"}))
	for seq, node := range []int{1, 2, 3, 4} {
		require.NoError(t, f.StopTimes.Insert(transit.StopTime{TripID: "T2", StopID: node, StopSequence: seq}))
	}
	net := routingChangeNetwork(t)
	newID := func() string { return "S2" }

	require.NoError(t, f.RoutingChange(net, []string{"T1"}, []int{2, 3}, []int{2, 7, 6, 3}, "proj1", newID))

	t1, _ := f.Trips.Get("T1")
	t2, _ := f.Trips.Get("T2")
	assert.Equal(t, "S2", t1.ShapeID)
	assert.Equal(t, "S1", t2.ShapeID)

	originalShape := f.Shapes.Filter(func(sp transit.ShapePoint) bool { return sp.ShapeID == "S1" })
	assert.Len(t, originalShape, 4)
}

func TestRoutingChangeRejectsImpermissibleLink(t *testing.T) {
	f := detourFeed(t)
	net := roadway.NewNetwork()
	nodes := []roadway.Node{
		{ModelNodeID: 1, Point: geometry.Point{X: 0, Y: 0}},
		{ModelNodeID: 2, Point: geometry.Point{X: 1, Y: 0}},
		{ModelNodeID: 3, Point: geometry.Point{X: 2, Y: 0}},
		{ModelNodeID: 4, Point: geometry.Point{X: 3, Y: 0}},
		{ModelNodeID: 6, Point: geometry.Point{X: 1.5, Y: 1}},
		{ModelNodeID: 7, Point: geometry.Point{X: 1.2, Y: 1}},
	}
	// No links at all: every consecutive pair in the new shape fails.
	require.NoError(t, net.AssignTables(nil, nodes, nil))
	newID := func() string { return "S2" }

	err := f.RoutingChange(net, []string{"T1"}, []int{2, 3}, []int{2, 7, 6, 3}, "proj1", newID)
	assert.Error(t, err)
}

func sortShapePoints(points []transit.ShapePoint) {
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j].ShapePtSequence < points[j-1].ShapePtSequence; j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
}

func sortStopTimes(sts []transit.StopTime) {
	for i := 1; i < len(sts); i++ {
		for j := i; j > 0 && sts[j].StopSequence < sts[j-1].StopSequence; j-- {
			sts[j], sts[j-1] = sts[j-1], sts[j]
		}
	}
}

func TestDeleteServiceRemovesTripAndOrphanShape(t *testing.T) {
	f := threeStopFeed(t)
	require.NoError(t, f.DeleteService([]string{"T1"}, false))
	assert.False(t, f.Trips.Has("T1"))
	assert.Empty(t, f.StopTimes.Filter(func(st transit.StopTime) bool { return st.TripID == "T1" }))
	assert.Empty(t, f.Shapes.Filter(func(sp transit.ShapePoint) bool { return sp.ShapeID == "S1" }))
}
