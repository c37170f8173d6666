package roadway_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
)

func threeNodeNetwork(t *testing.T) *roadway.Network {
	t.Helper()
	net := roadway.NewNetwork()
	nodes := []roadway.Node{
		{ModelNodeID: 1, Point: geometry.Point{X: 0, Y: 0}},
		{ModelNodeID: 2, Point: geometry.Point{X: 1, Y: 0}},
		{ModelNodeID: 3, Point: geometry.Point{X: 2, Y: 0}},
	}
	links := []roadway.Link{
		{ModelLinkID: 10, A: 1, B: 2, Lanes: 2, Distance: 1, DriveAccess: true, WalkAccess: true,
			Geometry: geometry.LineString{Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
		{ModelLinkID: 11, A: 2, B: 3, Lanes: 3, Distance: 1, DriveAccess: true,
			Geometry: geometry.LineString{Points: []geometry.Point{{X: 1, Y: 0}, {X: 2, Y: 0}}}},
	}
	require.NoError(t, net.AssignTables(links, nodes, nil))
	return net
}

func TestAssignTablesValidatesForeignKeys(t *testing.T) {
	net := roadway.NewNetwork()
	err := net.AssignTables(
		[]roadway.Link{{ModelLinkID: 1, A: 1, B: 99, Distance: 1}},
		[]roadway.Node{{ModelNodeID: 1, Point: geometry.Point{X: 0, Y: 0}}},
		nil,
	)
	assert.Error(t, err)
}

func TestHashStableAcrossEquivalentBuild(t *testing.T) {
	net1 := threeNodeNetwork(t)
	net2 := threeNodeNetwork(t)
	assert.Equal(t, net1.Hash(), net2.Hash())
}

func TestOrphanNodes(t *testing.T) {
	net := threeNodeNetwork(t)
	require.NoError(t, net.AddNode(roadway.Node{ModelNodeID: 4, Point: geometry.Point{X: 3, Y: 0}}))
	orphans := net.OrphanNodes()
	require.Len(t, orphans, 1)
	assert.Equal(t, 4, orphans[0].ModelNodeID)
}

func TestFilterLinksToModes(t *testing.T) {
	net := threeNodeNetwork(t)
	walk := roadway.FilterLinksToModes(net.Links.All(), []string{roadway.ModeWalk})
	require.Len(t, walk, 1)
	assert.Equal(t, 10, walk[0].ModelLinkID)
}

func TestDeleteNodeReferencedByLinkFails(t *testing.T) {
	net := threeNodeNetwork(t)
	err := net.DeleteNodes([]int{1}, false)
	assert.Error(t, err)
}

func TestDeleteLinkThenOrphanNodeSucceeds(t *testing.T) {
	net := threeNodeNetwork(t)
	require.NoError(t, net.DeleteLinks([]int{10}, false))
	require.NoError(t, net.DeleteNodes([]int{1}, false))
	assert.False(t, net.Nodes.Has("1"))
}

func TestEditLinkPropertySetScalar(t *testing.T) {
	net := threeNodeNetwork(t)
	err := net.EditLinkProperty([]int{10}, "lanes", roadway.PropertyChange{Set: 4}, "proj1", nil, 10)
	require.NoError(t, err)
	link, err := net.LinkByID(10)
	require.NoError(t, err)
	assert.Equal(t, 4, link.Lanes)
	assert.Contains(t, link.Projects, "proj1")
}

func TestDeepCopyIndependentFromOriginal(t *testing.T) {
	net := threeNodeNetwork(t)
	cp := net.DeepCopy()
	require.NoError(t, cp.EditLinkProperty([]int{10}, "lanes", roadway.PropertyChange{Set: 9}, "", nil, 10))

	orig, err := net.LinkByID(10)
	require.NoError(t, err)
	assert.Equal(t, 2, orig.Lanes)
}

func TestFilterLinksToModesBusIncludesDriveAccess(t *testing.T) {
	net := threeNodeNetwork(t)
	bus := roadway.FilterLinksToModes(net.Links.All(), []string{roadway.ModeBus})
	require.Len(t, bus, 2)
}

func TestAddLinkRejectsDuplicateAB(t *testing.T) {
	net := threeNodeNetwork(t)
	err := net.AddLink(roadway.Link{ModelLinkID: 20, A: 1, B: 2, Distance: 1}, geometry.NullEngine{})
	assert.Error(t, err)
}

func TestAddLinkSynthesizesGeometryAndDistance(t *testing.T) {
	net := threeNodeNetwork(t)
	require.NoError(t, net.AddLink(roadway.Link{ModelLinkID: 20, A: 1, B: 3}, geometry.NullEngine{}))
	link, err := net.LinkByID(20)
	require.NoError(t, err)
	require.Len(t, link.Geometry.Points, 2)
	assert.Greater(t, link.Distance, 0.0)
}

func TestEditLinkPropertyAccessPointAll(t *testing.T) {
	net := threeNodeNetwork(t)
	require.NoError(t, net.EditLinkProperty([]int{10, 11}, "ML_access_point", roadway.PropertyChange{Set: "all"}, "proj1", geometry.NullEngine{}, 10))
	link10, err := net.LinkByID(10)
	require.NoError(t, err)
	link11, err := net.LinkByID(11)
	require.NoError(t, err)
	assert.True(t, link10.MLAccessPoint)
	assert.True(t, link11.MLAccessPoint)
}

func TestEditLinkPropertyAccessPointNodeList(t *testing.T) {
	net := threeNodeNetwork(t)
	require.NoError(t, net.EditLinkProperty([]int{10, 11}, "ML_access_point", roadway.PropertyChange{Set: []int{1}}, "proj1", geometry.NullEngine{}, 10))
	link10, err := net.LinkByID(10)
	require.NoError(t, err)
	link11, err := net.LinkByID(11)
	require.NoError(t, err)
	assert.True(t, link10.MLAccessPoint)
	assert.False(t, link11.MLAccessPoint)
}
