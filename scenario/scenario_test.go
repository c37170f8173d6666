package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
	"github.com/wsp-sag/network-wrangler-sub001/scenario"
	"github.com/wsp-sag/network-wrangler-sub001/transit"
)

func baseNetwork(t *testing.T) *roadway.Network {
	t.Helper()
	net := roadway.NewNetwork()
	nodes := []roadway.Node{
		{ModelNodeID: 1, Point: geometry.Point{X: 0, Y: 0}},
		{ModelNodeID: 2, Point: geometry.Point{X: 1, Y: 0}},
	}
	links := []roadway.Link{
		{ModelLinkID: 10, A: 1, B: 2, Lanes: 2, Distance: 1, DriveAccess: true,
			Geometry: geometry.LineString{Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
	}
	require.NoError(t, net.AssignTables(links, nodes, nil))
	return net
}

func setLanesChange(linkID int, lanes int) scenario.Change {
	return scenario.ChangeFunc(func(net *roadway.Network, feed *transit.Feed) error {
		return net.EditLinkProperty([]int{linkID}, "lanes", roadway.PropertyChange{Set: lanes}, "p", nil, 10)
	})
}

func TestApplyProjectCommitsOnSuccess(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	err := s.ApplyProject(scenario.Project{
		Name:    "widen",
		Changes: []scenario.Change{setLanesChange(10, 4)},
	}, nil)
	require.NoError(t, err)
	link, err := s.Roadway.LinkByID(10)
	require.NoError(t, err)
	assert.Equal(t, 4, link.Lanes)
	assert.Equal(t, []string{"widen"}, s.AppliedProjects)
}

func TestApplyProjectRollsBackOnFailure(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	failing := scenario.ChangeFunc(func(net *roadway.Network, feed *transit.Feed) error {
		return net.EditLinkProperty([]int{999}, "lanes", roadway.PropertyChange{Set: 4}, "p", nil, 10)
	})
	err := s.ApplyProject(scenario.Project{Name: "bad", Changes: []scenario.Change{failing}}, nil)
	assert.Error(t, err)
	assert.Empty(t, s.AppliedProjects)
	link, lerr := s.Roadway.LinkByID(10)
	require.NoError(t, lerr)
	assert.Equal(t, 2, link.Lanes)
}

func TestApplyProjectSkipsAlreadyApplied(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	s.AppliedProjects = []string{"widen"}
	err := s.ApplyProject(scenario.Project{Name: "widen", Changes: []scenario.Change{setLanesChange(10, 9)}}, nil)
	require.NoError(t, err)
	link, lerr := s.Roadway.LinkByID(10)
	require.NoError(t, lerr)
	assert.Equal(t, 2, link.Lanes)
}

func TestApplyProjectEnforcesPrerequisite(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	err := s.ApplyProject(scenario.Project{
		Name: "phase2", Prerequisites: []string{"phase1"},
		Changes: []scenario.Change{setLanesChange(10, 9)},
	}, nil)
	assert.Error(t, err)
}

func TestApplyProjectEnforcesConflict(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	s.AppliedProjects = []string{"optionA"}
	err := s.ApplyProject(scenario.Project{
		Name: "optionB", Conflicts: []string{"optionA"},
		Changes: []scenario.Change{setLanesChange(10, 9)},
	}, nil)
	assert.Error(t, err)
}

func TestApplyProjectsEnforcesCorequisiteAcrossBatch(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	err := s.ApplyProjects([]scenario.Project{
		{Name: "a", Corequisites: []string{"b"}, Changes: []scenario.Change{setLanesChange(10, 3)}},
		{Name: "b", Changes: []scenario.Change{setLanesChange(10, 4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.AppliedProjects)
}

func TestApplyProjectMissingCorequisiteFails(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	err := s.ApplyProject(scenario.Project{
		Name: "a", Corequisites: []string{"b"},
		Changes: []scenario.Change{setLanesChange(10, 3)},
	}, nil)
	assert.Error(t, err)
}

func TestManifestRecordsCommitOrder(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	err := s.ApplyProjects([]scenario.Project{
		{Name: "a", Changes: []scenario.Change{setLanesChange(10, 3)}},
		{Name: "b", Changes: []scenario.Change{setLanesChange(10, 4)}},
	})
	require.NoError(t, err)
	require.Len(t, s.Manifest.Entries, 2)
	assert.Equal(t, []string{"a", "b"}, s.Manifest.ProjectNames())
	assert.False(t, s.Manifest.Entries[0].AppliedAt.IsZero())
}

func TestManifestSkipsAlreadyAppliedProject(t *testing.T) {
	s := scenario.New(baseNetwork(t), transit.NewFeed())
	s.AppliedProjects = []string{"widen"}
	err := s.ApplyProject(scenario.Project{Name: "widen", Changes: []scenario.Change{setLanesChange(10, 9)}}, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Manifest.Entries)
}
