package roadway

import (
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
)

func pathMissingError(missing [][2]int) error {
	return fmt.Errorf("%w: path links missing for node pairs %v", errs.ErrLinkNotFound, missing)
}

// OrphanNodes returns the nodes in the network referenced by no link's
// A or B, per spec §4.1's network-consistency checks.
func (n *Network) OrphanNodes() []Node {
	referenced := map[int]bool{}
	for _, l := range n.Links.All() {
		referenced[l.A] = true
		referenced[l.B] = true
	}
	var orphans []Node
	for _, node := range n.Nodes.All() {
		if !referenced[node.ModelNodeID] {
			orphans = append(orphans, node)
		}
	}
	return orphans
}

// LaneMileSummary aggregates lane-miles (lanes * distance) by
// FilterLinksToModes(modes) over the network's current links, used for
// before/after reporting on a scenario build.
func LaneMileSummary(links []Link, modes []string) float64 {
	var total float64
	for _, l := range FilterLinksToModes(links, modes) {
		total += float64(l.Lanes) * l.Distance
	}
	return total
}

// NodesForLinks returns the distinct set of node ids referenced by
// links' A and B fields, in first-seen order.
func NodesForLinks(links []Link) []int {
	seen := map[int]bool{}
	var out []int
	for _, l := range links {
		for _, id := range [2]int{l.A, l.B} {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// LinksToMLAccessPoints and LinksToMLEgressPoints select the links whose
// MLAccessPoint (respectively MLEgressPoint) flag is set, mirroring
// _filter_link_to_ml_access_egress_points: when no link in the input has
// that flag set, every managed-lane link is assumed to be an
// access/egress point.
func LinksToMLAccessPoints(links []Link) []Link {
	return mlAccessEgress(links, true)
}

func LinksToMLEgressPoints(links []Link) []Link {
	return mlAccessEgress(links, false)
}

func mlAccessEgress(links []Link, access bool) []Link {
	anyFlagged := false
	for _, l := range links {
		if (access && l.MLAccessPoint) || (!access && l.MLEgressPoint) {
			anyFlagged = true
			break
		}
	}
	if !anyFlagged {
		return FilterLinksManagedLanes(links)
	}
	return filterLinks(links, func(l Link) bool {
		if access {
			return l.MLAccessPoint
		}
		return l.MLEgressPoint
	})
}
