package roadway

// Mode names accepted by FilterLinksToModes, matching
// modes_to_network_link_variables in the original's params module.
const (
	ModeAny   = "any"
	ModeDrive = "drive"
	ModeTransit = "transit"
	ModeWalk  = "walk"
	ModeBike  = "bike"
	ModeRail  = "rail"
	ModeBus   = "bus"
)

func modeAccessor(mode string) func(Link) bool {
	switch mode {
	case ModeDrive:
		return func(l Link) bool { return l.DriveAccess }
	case ModeWalk:
		return func(l Link) bool { return l.WalkAccess }
	case ModeBike:
		return func(l Link) bool { return l.BikeAccess }
	case ModeRail:
		return func(l Link) bool { return l.RailOnly }
	case ModeBus:
		return func(l Link) bool { return l.BusOnly || l.DriveAccess }
	case ModeTransit:
		return func(l Link) bool { return l.BusOnly || l.RailOnly || l.DriveAccess }
	default:
		return nil
	}
}

// FilterLinksToModes returns links accessible by any of modes, or all
// links when modes contains "any".
func FilterLinksToModes(links []Link, modes []string) []Link {
	for _, m := range modes {
		if m == ModeAny {
			return links
		}
	}
	accessors := make([]func(Link) bool, 0, len(modes))
	for _, m := range modes {
		if a := modeAccessor(m); a != nil {
			accessors = append(accessors, a)
		}
	}
	var out []Link
	for _, l := range links {
		for _, a := range accessors {
			if a(l) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// FilterLinksManagedLanes returns links that are themselves a managed
// lane facility (Managed == ManagedLane).
func FilterLinksManagedLanes(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.Managed == ManagedLane })
}

// FilterLinksParallelGeneralPurpose returns the general-purpose links
// running parallel to a managed lane (Managed == ManagedParallel).
func FilterLinksParallelGeneralPurpose(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.Managed == ManagedParallel })
}

// FilterLinksGeneralPurpose returns every link that is not itself a
// managed lane (Managed < ManagedLane), i.e. both ordinary links and
// GP links with a parallel ML facility.
func FilterLinksGeneralPurpose(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.Managed < ManagedLane })
}

// FilterLinksGeneralPurposeNoParallelManaged returns only ordinary
// links with no managed-lane involvement at all.
func FilterLinksGeneralPurposeNoParallelManaged(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.Managed == ManagedNone })
}

// RoadwayAccessDummy and RoadwayEgressDummy are the Roadway field
// values used by the synthetic links connecting a GP link to its
// parallel ML facility (see MLAccessPoint/MLEgressPoint on Link and
// spec.md §4.1's ADDITIONAL_COPY_TO_ACCESS_EGRESS note).
const (
	RoadwayAccessDummy = "ml_access_point"
	RoadwayEgressDummy = "ml_egress_point"
)

// FilterLinksAccessDummy returns the synthetic links connecting a GP
// link onto its parallel managed lane.
func FilterLinksAccessDummy(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.Roadway == RoadwayAccessDummy })
}

// FilterLinksEgressDummy returns the synthetic links connecting a
// managed lane back onto its parallel GP link.
func FilterLinksEgressDummy(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.Roadway == RoadwayEgressDummy })
}

// FilterLinksDummy returns both access and egress dummy links.
func FilterLinksDummy(links []Link) []Link {
	return filterLinks(links, func(l Link) bool {
		return l.Roadway == RoadwayAccessDummy || l.Roadway == RoadwayEgressDummy
	})
}

// FilterLinksPedbikeOnly returns links walkable or bikeable but not
// driveable.
func FilterLinksPedbikeOnly(links []Link) []Link {
	return filterLinks(links, func(l Link) bool {
		return (l.WalkAccess || l.BikeAccess) && !l.DriveAccess
	})
}

// FilterLinksTransitOnly returns links restricted to bus and/or rail.
func FilterLinksTransitOnly(links []Link) []Link {
	return filterLinks(links, func(l Link) bool { return l.BusOnly || l.RailOnly })
}

// FilterLinksToNodeIDs returns links with either endpoint in nodeIDs.
func FilterLinksToNodeIDs(links []Link, nodeIDs []int) []Link {
	set := intSet(nodeIDs)
	return filterLinks(links, func(l Link) bool { return set[l.A] || set[l.B] })
}

// FilterLinksToIDs returns links whose ModelLinkID is in linkIDs.
func FilterLinksToIDs(links []Link, linkIDs []int) []Link {
	set := intSet(linkIDs)
	return filterLinks(links, func(l Link) bool { return set[l.ModelLinkID] })
}

// FilterLinksNotInIDs is the complement of FilterLinksToIDs.
func FilterLinksNotInIDs(links []Link, linkIDs []int) []Link {
	set := intSet(linkIDs)
	return filterLinks(links, func(l Link) bool { return !set[l.ModelLinkID] })
}

// FilterLinksToPath returns, in path order, the links connecting each
// consecutive pair of nodes in path. If ignoreMissing is false, a
// missing A-B pair is an error; otherwise it is silently skipped.
func FilterLinksToPath(links []Link, path []int, ignoreMissing bool) ([]Link, error) {
	byAB := make(map[[2]int]Link, len(links)*2)
	for _, l := range links {
		byAB[[2]int{l.A, l.B}] = l
		if _, exists := byAB[[2]int{l.B, l.A}]; !exists {
			byAB[[2]int{l.B, l.A}] = l
		}
	}
	var out []Link
	var missing [][2]int
	for i := 0; i+1 < len(path); i++ {
		pair := [2]int{path[i], path[i+1]}
		l, ok := byAB[pair]
		if !ok {
			missing = append(missing, pair)
			continue
		}
		out = append(out, l)
	}
	if len(missing) > 0 && !ignoreMissing {
		return nil, pathMissingError(missing)
	}
	return out, nil
}

func filterLinks(links []Link, pred func(Link) bool) []Link {
	var out []Link
	for _, l := range links {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}

func intSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
