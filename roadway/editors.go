package roadway

import (
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/scope"
)

// PropertyChange is the Go analog of RoadPropertyChange: exactly one of
// Set/Change must be supplied for a scalar edit, and Scoped carries the
// scope-level write specs for properties with an sc_* counterpart.
type PropertyChange struct {
	Set                    any
	Change                 *float64
	Existing               any
	ExistingValueConflict  errs.ExistingValueConflictPolicy
	Scoped                 []scope.WriteSpec
	OverwriteScoped        scope.MergePolicy
}

type linkFieldAccessor struct {
	get          func(Link) any
	set          func(*Link, any)
	getScope     func(Link) []scope.Item
	setScope     func(*Link, []scope.Item)
	isManagedLane bool
}

func linkFieldRegistry() map[string]linkFieldAccessor {
	return map[string]linkFieldAccessor{
		"name":         {get: func(l Link) any { return l.Name }, set: func(l *Link, v any) { l.Name = v.(string) }},
		"roadway":      {get: func(l Link) any { return l.Roadway }, set: func(l *Link, v any) { l.Roadway = v.(string) }},
		"rail_only":    {get: func(l Link) any { return l.RailOnly }, set: func(l *Link, v any) { l.RailOnly = v.(bool) }},
		"bus_only":     {get: func(l Link) any { return l.BusOnly }, set: func(l *Link, v any) { l.BusOnly = v.(bool) }},
		"drive_access": {get: func(l Link) any { return l.DriveAccess }, set: func(l *Link, v any) { l.DriveAccess = v.(bool) }},
		"bike_access":  {get: func(l Link) any { return l.BikeAccess }, set: func(l *Link, v any) { l.BikeAccess = v.(bool) }},
		"walk_access":  {get: func(l Link) any { return l.WalkAccess }, set: func(l *Link, v any) { l.WalkAccess = v.(bool) }},
		"truck_access": {get: func(l Link) any { return l.TruckAccess }, set: func(l *Link, v any) { l.TruckAccess = v.(bool) }},
		"distance":     {get: func(l Link) any { return l.Distance }, set: func(l *Link, v any) { l.Distance = v.(float64) }},
		"lanes": {
			get: func(l Link) any { return l.Lanes }, set: func(l *Link, v any) { l.Lanes = v.(int) },
			getScope: func(l Link) []scope.Item { return l.ScLanes }, setScope: func(l *Link, items []scope.Item) { l.ScLanes = items },
		},
		"price": {
			get: func(l Link) any { return l.Price }, set: func(l *Link, v any) { l.Price = v.(float64) },
			getScope: func(l Link) []scope.Item { return l.ScPrice }, setScope: func(l *Link, items []scope.Item) { l.ScPrice = items },
		},
		"ML_lanes": {
			isManagedLane: true,
			get:           func(l Link) any { return derefInt(l.MLLanes) }, set: func(l *Link, v any) { n := v.(int); l.MLLanes = &n },
			getScope: func(l Link) []scope.Item { return l.ScMLLanes }, setScope: func(l *Link, items []scope.Item) { l.ScMLLanes = items },
		},
		"ML_price": {
			isManagedLane: true,
			get:           func(l Link) any { return derefFloat(l.MLPrice) }, set: func(l *Link, v any) { n := v.(float64); l.MLPrice = &n },
			getScope: func(l Link) []scope.Item { return l.ScMLPrice }, setScope: func(l *Link, items []scope.Item) { l.ScMLPrice = items },
		},
		"ML_access": {
			isManagedLane: true,
			get:           func(l Link) any { return derefBool(l.MLAccess) }, set: func(l *Link, v any) { n := v.(bool); l.MLAccess = &n },
			getScope: func(l Link) []scope.Item { return l.ScMLAccess }, setScope: func(l *Link, items []scope.Item) { l.ScMLAccess = items },
		},
	}
}

func derefInt(p *int) any {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) any {
	if p == nil {
		return 0.0
	}
	return *p
}

func derefBool(p *bool) any {
	if p == nil {
		return false
	}
	return *p
}

// EditLinkProperty applies change to prop on every link in linkIDs,
// following spec §4.2: existing-value conflicts are resolved per
// change.ExistingValueConflict, ML_* properties auto-initialize the
// link as a managed lane (offsetting ML_geometry from the base
// geometry via eng), and scoped writes merge into the sc_* list per
// change.OverwriteScoped.
func (n *Network) EditLinkProperty(linkIDs []int, prop string, change PropertyChange, projectName string, eng geometry.Engine, mlOffsetMeters float64) error {
	if prop == "ML_access_point" || prop == "ML_egress_point" {
		return n.editManagedLaneAccessEgress(linkIDs, prop, change, projectName, eng, mlOffsetMeters)
	}
	registry := linkFieldRegistry()
	fa, ok := registry[prop]
	if !ok {
		return fmt.Errorf("%w: unknown link property %q", errs.ErrLinkChange, prop)
	}

	for _, id := range linkIDs {
		link, err := n.LinkByID(id)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrLinkChange, err)
		}

		if change.Existing != nil {
			current := fa.get(link)
			if current != change.Existing {
				switch change.ExistingValueConflict {
				case errs.ConflictPolicySkip:
					continue
				case errs.ConflictPolicyWarn, "":
					// proceed, logging is the caller's concern at this layer
				default:
					return fmt.Errorf("%w: link %d property %s: expected existing %v, got %v", errs.ErrExistingValueConflict, id, prop, change.Existing, current)
				}
			}
		}

		if fa.isManagedLane && link.Managed != ManagedLane {
			if err := n.initializeManagedLane(&link, eng, mlOffsetMeters); err != nil {
				return err
			}
		}

		if change.Set != nil {
			fa.set(&link, change.Set)
		} else if change.Change != nil {
			updated, err := scope.ApplyDelta(fa.get(link), *change.Change)
			if err != nil {
				return fmt.Errorf("%w: link %d property %s: %v", errs.ErrLinkChange, id, prop, err)
			}
			fa.set(&link, updated)
		}

		if len(change.Scoped) > 0 {
			if fa.getScope == nil {
				return fmt.Errorf("%w: property %s has no scoped counterpart", errs.ErrLinkChange, prop)
			}
			policy := change.OverwriteScoped
			if policy == "" {
				policy = scope.PolicyErrorOnConflict
			}
			merged, err := scope.Merge(fa.getScope(link), scope.ExpandWriteSpecs(change.Scoped), policy, scope.MinOverlapMinutesDefault)
			if err != nil {
				return fmt.Errorf("%w: link %d property %s: %v", errs.ErrScopeConflict, id, prop, err)
			}
			fa.setScope(&link, merged)
		}

		if projectName != "" {
			link.Projects = appendProject(link.Projects, projectName)
			if fa.isManagedLane {
				link.MLProjects = appendProject(link.MLProjects, projectName)
			}
		}

		if err := n.Links.Replace(fmt.Sprintf("%d", id), link); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrLinkChange, err)
		}
	}
	return nil
}

func appendProject(existing, projectName string) string {
	if existing == "" {
		return projectName + ","
	}
	return existing + projectName + ","
}

// initializeManagedLane sets Managed = ManagedLane and, if ML_geometry
// is unset, derives it by offsetting the link's base geometry, mirroring
// _initialize_links_as_managed_lanes.
func (n *Network) initializeManagedLane(link *Link, eng geometry.Engine, offsetMeters float64) error {
	link.Managed = ManagedLane
	if link.MLGeometry == nil {
		if eng == nil {
			return fmt.Errorf("%w: link %d: cannot derive ML_geometry without a geometry engine", errs.ErrManagedLaneAccessEgress, link.ModelLinkID)
		}
		offset, err := eng.ParallelOffset(link.Geometry, offsetMeters)
		if err != nil {
			return fmt.Errorf("%w: link %d: %v", errs.ErrManagedLaneAccessEgress, link.ModelLinkID, err)
		}
		link.MLGeometry = &offset
	}
	return nil
}

// editManagedLaneAccessEgress implements the ML_access_point/
// ML_egress_point form of EditLinkProperty spec §4.6 singles out: Set
// is either the literal "all" (every selected link gets the point set
// true) or a list of node ids restricting which selected links get it
// set true, keyed off the link's A endpoint for an access point and its
// B endpoint for an egress point.
func (n *Network) editManagedLaneAccessEgress(linkIDs []int, prop string, change PropertyChange, projectName string, eng geometry.Engine, mlOffsetMeters float64) error {
	var all bool
	var nodeSet map[int]bool
	switch v := change.Set.(type) {
	case string:
		if v != "all" {
			return fmt.Errorf("%w: %s accepts \"all\" or a list of node ids, got %q", errs.ErrManagedLaneAccessEgress, prop, v)
		}
		all = true
	case []int:
		nodeSet = intSet(v)
	default:
		return fmt.Errorf("%w: %s accepts \"all\" or a list of node ids", errs.ErrManagedLaneAccessEgress, prop)
	}

	for _, id := range linkIDs {
		link, err := n.LinkByID(id)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrLinkChange, err)
		}
		if link.Managed != ManagedLane {
			if err := n.initializeManagedLane(&link, eng, mlOffsetMeters); err != nil {
				return err
			}
		}

		boundaryNode := link.A
		if prop == "ML_egress_point" {
			boundaryNode = link.B
		}
		set := all || nodeSet[boundaryNode]
		if prop == "ML_access_point" {
			link.MLAccessPoint = set
		} else {
			link.MLEgressPoint = set
		}

		if projectName != "" {
			link.Projects = appendProject(link.Projects, projectName)
			link.MLProjects = appendProject(link.MLProjects, projectName)
		}

		if err := n.Links.Replace(fmt.Sprintf("%d", id), link); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrLinkChange, err)
		}
	}
	return nil
}

// EditNodeProperty applies a scalar set/change edit to prop on every
// node in nodeIDs. Geometry-bearing fields (X, Y) must go through
// MoveNode instead, since moving a node cascades into link geometries.
func (n *Network) EditNodeProperty(nodeIDs []int, prop string, change PropertyChange) error {
	if prop == "X" || prop == "Y" {
		return fmt.Errorf("%w: use MoveNode to change node geometry", errs.ErrNodeChange)
	}
	for _, id := range nodeIDs {
		node, err := n.NodeByID(id)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrNodeChange, err)
		}
		switch prop {
		case "osm_node_id":
			node.OSMNodeID = change.Set.(string)
		case "is_stop":
			node.IsStop = change.Set.(bool)
		case "projects":
			node.Projects = change.Set.(string)
		default:
			return fmt.Errorf("%w: unknown node property %q", errs.ErrNodeChange, prop)
		}
		if err := n.Nodes.Replace(fmt.Sprintf("%d", id), node); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrNodeChange, err)
		}
	}
	return nil
}

// MoveNode relocates a node and regenerates the geometry of every link
// touching it (as endpoint A at position 0, or endpoint B at the last
// vertex), per edit_link_geometry_from_nodes.
func (n *Network) MoveNode(nodeID int, newPoint geometry.Point, eng geometry.Engine) error {
	node, err := n.NodeByID(nodeID)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNodeChange, err)
	}
	node.Point = newPoint
	if err := n.Nodes.Replace(fmt.Sprintf("%d", nodeID), node); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNodeChange, err)
	}

	for _, l := range n.Links.All() {
		if l.A != nodeID && l.B != nodeID {
			continue
		}
		updated := l
		pts := append([]geometry.Point(nil), l.Geometry.Points...)
		if l.A == nodeID && len(pts) > 0 {
			pts[0] = newPoint
		}
		if l.B == nodeID && len(pts) > 0 {
			pts[len(pts)-1] = newPoint
		}
		updated.Geometry = geometry.LineString{Points: pts}
		updated.Distance = eng.LengthMiles(updated.Geometry)
		if err := n.Links.Replace(fmt.Sprintf("%d", l.ModelLinkID), updated); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrNodeChange, err)
		}
	}
	return nil
}

// AddNode inserts a new node, erroring if its primary key already
// exists (spec §4.1 C7 add_nodes).
func (n *Network) AddNode(node Node) error {
	if err := validateNode(node); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNodeAdd, err)
	}
	if err := n.Nodes.Insert(node); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNodeAdd, err)
	}
	return nil
}

// AddLink inserts a new link, validating that both endpoints already
// exist in Nodes (spec §4.1 C7 add_links / ErrNodesInLinksMissing) and
// that the (A, B) pair is not already used by another link (spec §3.1:
// "the pair (a,b) is unique"; §4.6 "fail on duplicate id or duplicate
// (a,b)"). If the caller supplies no geometry, it is synthesized from
// the endpoint nodes' points via eng, and distance from that geometry's
// length in miles, per §4.6's add-link synthesis rule.
func (n *Network) AddLink(link Link, eng geometry.Engine) error {
	if err := validateLink(link); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrLinkAdd, err)
	}
	aNode, err := n.NodeByID(link.A)
	if err != nil {
		return fmt.Errorf("%w: link %d references missing node(s) A=%d B=%d", errs.ErrNodesInLinksMissing, link.ModelLinkID, link.A, link.B)
	}
	bNode, err := n.NodeByID(link.B)
	if err != nil {
		return fmt.Errorf("%w: link %d references missing node(s) A=%d B=%d", errs.ErrNodesInLinksMissing, link.ModelLinkID, link.A, link.B)
	}
	for _, existing := range n.Links.All() {
		if existing.A == link.A && existing.B == link.B {
			return fmt.Errorf("%w: link (%d,%d) duplicates existing link %d", errs.ErrLinkAdd, link.A, link.B, existing.ModelLinkID)
		}
	}

	if len(link.Geometry.Points) == 0 {
		points := []geometry.Point{aNode.Point, bNode.Point}
		if eng != nil {
			link.Geometry = eng.FromPoints(points)
		} else {
			link.Geometry = geometry.LineString{Points: points}
		}
	}
	if link.Distance == 0 && eng != nil {
		link.Distance = eng.LengthMiles(link.Geometry)
	}

	if err := n.Links.Insert(link); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrLinkAdd, err)
	}
	return nil
}

// DeleteLinks removes the given link ids. Missing ids are an error
// unless ignoreMissing is set, per delete_links_by_ids.
func (n *Network) DeleteLinks(linkIDs []int, ignoreMissing bool) error {
	var missing []int
	for _, id := range linkIDs {
		if !n.Links.Delete(fmt.Sprintf("%d", id)) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 && !ignoreMissing {
		return fmt.Errorf("%w: links not in network: %v", errs.ErrLinkDeletion, missing)
	}
	return nil
}

// DeleteNodes removes the given node ids, refusing to delete a node
// still referenced by a link (the node analog of delete_nodes_by_ids,
// extended with the reverse-FK check spec §4.3 step 4 requires before
// commit). The reference check always applies; there is no option to
// override it. ignoreMissing only suppresses the error for ids that are
// not in the network.
func (n *Network) DeleteNodes(nodeIDs []int, ignoreMissing bool) error {
	referenced := map[int]bool{}
	for _, l := range n.Links.All() {
		referenced[l.A] = true
		referenced[l.B] = true
	}
	for _, id := range nodeIDs {
		if referenced[id] {
			return fmt.Errorf("%w: node %d is still referenced by a link", errs.ErrNodeDeletion, id)
		}
	}
	var missing []int
	for _, id := range nodeIDs {
		if !n.Nodes.Delete(fmt.Sprintf("%d", id)) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 && !ignoreMissing {
		return fmt.Errorf("%w: nodes not in network: %v", errs.ErrNodeDeletion, missing)
	}
	return nil
}

// GenerateNodeIDs picks n unused ids from idRange (inclusive bounds),
// mirroring generate_node_ids.
func GenerateNodeIDs(existing []int, idRange [2]int, n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	used := intSet(existing)
	var out []int
	for id := idRange[0]; id <= idRange[1] && len(out) < n; id++ {
		if !used[id] {
			out = append(out, id)
		}
	}
	if len(out) < n {
		return nil, fmt.Errorf("%w: only %d new ids available in range %v, need %d", errs.ErrNodeAdd, len(out), idRange, n)
	}
	return out, nil
}
