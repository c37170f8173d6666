// Package scenario implements C10: the scenario orchestrator that
// applies a sequence of named projects to a base roadway network and
// transit feed, enforcing prerequisite/corequisite/conflict
// constraints and rolling back a project atomically if any of its
// sub-changes fails. Grounded on spec.md §4.9 and the teacher's
// storage/memory.go transactional-apply idiom (build the new state,
// only publish it once every step has succeeded).
package scenario

import (
	"fmt"
	"time"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
	"github.com/wsp-sag/network-wrangler-sub001/transit"
)

// Change is a single sub-change dispatched to a roadway or transit
// editor as part of a project's declared order. Implementations wrap
// one of roadway.Network's or transit.Feed's editor methods.
type Change interface {
	Apply(net *roadway.Network, feed *transit.Feed) error
}

// ChangeFunc adapts a plain function to Change.
type ChangeFunc func(net *roadway.Network, feed *transit.Feed) error

func (f ChangeFunc) Apply(net *roadway.Network, feed *transit.Feed) error { return f(net, feed) }

// Project is a named, ordered set of changes plus the orchestration
// constraints spec §4.9 requires Scenario to check before applying it.
type Project struct {
	Name          string
	Prerequisites []string
	Corequisites  []string
	Conflicts     []string
	Changes       []Change
}

// Scenario holds the base networks plus the projects already applied
// and the conflict map declared by the base scenario config, per
// spec §4.9's "(base_roadway, base_transit, applied_projects,
// conflicts, corequisites, prerequisites)" state tuple. Per-project
// corequisites/prerequisites/conflicts travel on the Project itself;
// Conflicts here additionally carries base-scenario-level conflict
// declarations that apply regardless of which project declares them.
type Scenario struct {
	Roadway         *roadway.Network
	Transit         *transit.Feed
	AppliedProjects []string
	Conflicts       map[string][]string
	Manifest        Manifest
}

// New builds a Scenario from a base roadway network and transit feed.
func New(net *roadway.Network, feed *transit.Feed) *Scenario {
	return &Scenario{Roadway: net, Transit: feed, Conflicts: map[string][]string{}}
}

// ApplyProject runs the six-step orchestration spec §4.9 describes:
// already-applied check, prerequisite check, conflict check,
// corequisite check, all-or-nothing dispatch over a deep copy, then
// commit and record. queued lists every project name enqueued for this
// application run (including ones not yet applied), used to satisfy
// the corequisite check.
func (s *Scenario) ApplyProject(p Project, queued []string) error {
	for _, applied := range s.AppliedProjects {
		if applied == p.Name {
			return nil
		}
	}

	for _, prereq := range p.Prerequisites {
		if !contains(s.AppliedProjects, prereq) {
			return fmt.Errorf("%w: project %q requires %q to be applied first", errs.ErrScenarioPrerequisite, p.Name, prereq)
		}
	}

	for _, conflict := range p.Conflicts {
		if contains(s.AppliedProjects, conflict) {
			return fmt.Errorf("%w: project %q conflicts with already-applied project %q", errs.ErrScenarioConflict, p.Name, conflict)
		}
	}
	for applied, conflicts := range s.Conflicts {
		if applied != p.Name {
			continue
		}
		for _, c := range conflicts {
			if contains(s.AppliedProjects, c) {
				return fmt.Errorf("%w: project %q conflicts with already-applied project %q", errs.ErrScenarioConflict, p.Name, c)
			}
		}
	}

	for _, coreq := range p.Corequisites {
		if !contains(queued, coreq) && !contains(s.AppliedProjects, coreq) {
			return fmt.Errorf("%w: project %q requires %q to be queued in the same application", errs.ErrScenarioCorequisite, p.Name, coreq)
		}
	}

	netCopy := s.Roadway.DeepCopy()
	feedCopy := s.Transit.DeepCopy()
	for i, change := range p.Changes {
		if err := change.Apply(netCopy, feedCopy); err != nil {
			return fmt.Errorf("project %q step %d failed, scenario unchanged: %w", p.Name, i, err)
		}
	}

	s.Roadway = netCopy
	s.Transit = feedCopy
	s.AppliedProjects = append(s.AppliedProjects, p.Name)
	s.Manifest.record(p.Name, time.Now())
	return nil
}

// ApplyProjects applies each project in order, passing the full
// project-name list as the queued set so corequisites declared between
// two projects in the same batch resolve correctly regardless of
// declaration order within the batch.
func (s *Scenario) ApplyProjects(projects []Project) error {
	queued := make([]string, len(projects))
	for i, p := range projects {
		queued[i] = p.Name
	}
	for _, p := range projects {
		if err := s.ApplyProject(p, queued); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
