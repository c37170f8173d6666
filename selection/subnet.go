// Package selection implements C6: resolving a facility/service
// selection (project card "facility" block) against a roadway or
// transit network into the concrete set of links/nodes/trips it
// addresses.
package selection

import (
	"fmt"
	"sort"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
)

// Default breadth-search tuning, mirroring DEFAULT_MAX_SEARCH_BREADTH /
// DEFAULT_SP_WEIGHT_FACTOR / DEFAULT_SP_WEIGHT_COL.
const (
	DefaultMaxSearchBreadth = 10
	DefaultSPWeightFactor   = 100.0
)

// Subnet is a connected, modally-filtered selection of links used as
// the search space for segment selection, grounded on
// roadway/subnet.py's Subnet class.
type Subnet struct {
	all     []roadway.Link // the full, modally-filtered candidate link pool
	links   []roadway.Link // the links currently in the subnet
	maxSearchBreadth int
	iterations       int
}

// NewSubnet seeds a subnet from an initial link set drawn from the
// modally-filtered candidate pool all.
func NewSubnet(all []roadway.Link, initial []roadway.Link, maxSearchBreadth int) *Subnet {
	if maxSearchBreadth <= 0 {
		maxSearchBreadth = DefaultMaxSearchBreadth
	}
	return &Subnet{all: all, links: append([]roadway.Link(nil), initial...), maxSearchBreadth: maxSearchBreadth}
}

// Links returns the subnet's current link set.
func (s *Subnet) Links() []roadway.Link { return s.links }

// Nodes returns the distinct node ids touched by the subnet's links.
func (s *Subnet) Nodes() []int {
	return roadway.NodesForLinks(s.links)
}

// ExpandToNodes grows the subnet breadth-first until every id in
// nodeIDs is reachable, or errors once max_search_breadth iterations
// are exhausted, mirroring expand_to_nodes/_expand_subnet_breadth.
func (s *Subnet) ExpandToNodes(nodeIDs []int) error {
	want := map[int]bool{}
	for _, id := range nodeIDs {
		want[id] = true
	}
	for !containsAll(s.Nodes(), want) {
		if s.iterations >= s.maxSearchBreadth {
			return fmt.Errorf("%w: could not reach nodes %v within %d expansion iterations",
				errs.ErrSubnetExpansion, nodeIDs, s.maxSearchBreadth)
		}
		s.expandBreadth()
	}
	return nil
}

func containsAll(have []int, want map[int]bool) bool {
	haveSet := map[int]bool{}
	for _, id := range have {
		haveSet[id] = true
	}
	for id := range want {
		if !haveSet[id] {
			return false
		}
	}
	return true
}

func (s *Subnet) expandBreadth() {
	s.iterations++
	subnetNodes := map[int]bool{}
	for _, id := range s.Nodes() {
		subnetNodes[id] = true
	}
	inSubnet := map[int]bool{}
	for _, l := range s.links {
		inSubnet[l.ModelLinkID] = true
	}

	var add []roadway.Link
	for _, l := range s.all {
		if inSubnet[l.ModelLinkID] {
			continue
		}
		aIn, bIn := subnetNodes[l.A], subnetNodes[l.B]
		if aIn || bIn {
			add = append(add, l)
		}
	}
	// Deterministic order: by ModelLinkID, matching pd.concat's stable
	// append order once candidates are sorted by id.
	sort.Slice(add, func(i, j int) bool { return add[i].ModelLinkID < add[j].ModelLinkID })
	s.links = append(s.links, add...)
}

// GenerateSubnetFromLinkSelection builds a Subnet from a pool of
// candidate links already narrowed to the requested modes, erroring if
// none match, per generate_subnet_from_link_selection_dict.
func GenerateSubnetFromLinkSelection(candidatePool []roadway.Link, initial []roadway.Link, maxSearchBreadth int) (*Subnet, error) {
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: no links found matching selection", errs.ErrSubnetCreation)
	}
	return NewSubnet(candidatePool, initial, maxSearchBreadth), nil
}
