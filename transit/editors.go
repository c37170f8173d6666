package transit

import (
	"fmt"
	"sort"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
	"github.com/wsp-sag/network-wrangler-sub001/scope"
)

// PropertyChange is the transit analog of roadway.PropertyChange, for
// the scalar (non-scoped) route/trip property edits spec §5.2
// describes; transit properties carry no sc_* scoped counterpart.
type PropertyChange struct {
	Set    any
	Change *float64
}

type routeFieldAccessor struct {
	get func(Route) any
	set func(*Route, any)
}

func routeFieldRegistry() map[string]routeFieldAccessor {
	return map[string]routeFieldAccessor{
		"route_short_name": {get: func(r Route) any { return r.RouteShortName }, set: func(r *Route, v any) { r.RouteShortName = v.(string) }},
		"route_long_name":  {get: func(r Route) any { return r.RouteLongName }, set: func(r *Route, v any) { r.RouteLongName = v.(string) }},
		"agency_id":        {get: func(r Route) any { return r.AgencyID }, set: func(r *Route, v any) { r.AgencyID = v.(string) }},
	}
}

type tripFieldAccessor struct {
	get func(Trip) any
	set func(*Trip, any)
}

func tripFieldRegistry() map[string]tripFieldAccessor {
	return map[string]tripFieldAccessor{
		"service_id":  {get: func(t Trip) any { return t.ServiceID }, set: func(t *Trip, v any) { t.ServiceID = v.(string) }},
		"direction_id": {get: func(t Trip) any { return t.DirectionID }, set: func(t *Trip, v any) { t.DirectionID = v.(int) }},
	}
}

// EditRouteProperty applies a scalar set/change edit to prop on every
// route in routeIDs, per spec §5.2's property-change editor.
func (f *Feed) EditRouteProperty(routeIDs []string, prop string, change PropertyChange, projectName string) error {
	registry := routeFieldRegistry()
	fa, ok := registry[prop]
	if !ok {
		return fmt.Errorf("%w: unknown route property %q", errs.ErrTransitPropertyChange, prop)
	}
	for _, id := range routeIDs {
		route, ok := f.Routes.Get(id)
		if !ok {
			return fmt.Errorf("%w: route %s not found", errs.ErrTransitPropertyChange, id)
		}
		if err := applyScalar(change, fa.get(route), func(v any) { fa.set(&route, v) }); err != nil {
			return fmt.Errorf("%w: route %s property %s: %v", errs.ErrTransitPropertyChange, id, prop, err)
		}
		if projectName != "" {
			route.Projects = appendProject(route.Projects, projectName)
		}
		if err := f.Routes.Replace(id, route); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitPropertyChange, err)
		}
	}
	return nil
}

// EditTripProperty is the trip analog of EditRouteProperty.
func (f *Feed) EditTripProperty(tripIDs []string, prop string, change PropertyChange, projectName string) error {
	registry := tripFieldRegistry()
	fa, ok := registry[prop]
	if !ok {
		return fmt.Errorf("%w: unknown trip property %q", errs.ErrTransitPropertyChange, prop)
	}
	for _, id := range tripIDs {
		trip, ok := f.Trips.Get(id)
		if !ok {
			return fmt.Errorf("%w: trip %s not found", errs.ErrTransitPropertyChange, id)
		}
		if err := applyScalar(change, fa.get(trip), func(v any) { fa.set(&trip, v) }); err != nil {
			return fmt.Errorf("%w: trip %s property %s: %v", errs.ErrTransitPropertyChange, id, prop, err)
		}
		if projectName != "" {
			trip.Projects = appendProject(trip.Projects, projectName)
		}
		if err := f.Trips.Replace(id, trip); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitPropertyChange, err)
		}
	}
	return nil
}

func applyScalar(change PropertyChange, existing any, set func(any)) error {
	if change.Set != nil {
		set(change.Set)
		return nil
	}
	if change.Change != nil {
		updated, err := scope.ApplyDelta(existing, *change.Change)
		if err != nil {
			return err
		}
		set(updated)
		return nil
	}
	return fmt.Errorf("property change must have set or change")
}

func appendProject(existing, projectName string) string {
	if existing == "" {
		return projectName + ","
	}
	return existing + projectName + ","
}

// RoutingChange implements spec §4.7's transit routing-change editor.
// For every shape used by tripIDs, the segment of the shape between the
// first and last node of existing (or the whole shape, when existing is
// empty) is spliced out and replaced by set. A negative entry in set is
// a pass-through node: it joins the shape but never becomes a stop. If
// the shape is still used by trips outside tripIDs it is cloned under a
// fresh id (from newShapeID) first, so the edit never leaks into
// unrelated trips. The result is checked against permissibleLinks (see
// RoadwayPermissibleLinks), any stop referenced by set that doesn't
// exist yet is created from net's node coordinates, and each selected
// trip's stop_times is rebuilt around the nearest stops bordering the
// replaced range (find_nearest_stops, ties going to the earlier stop in
// sequence).
func (f *Feed) RoutingChange(net *roadway.Network, tripIDs []string, existing []int, set []int, projectName string, newShapeID func() string) error {
	permissibleLinks := RoadwayPermissibleLinks(net)

	shapeIDs := map[string]bool{}
	for _, tripID := range tripIDs {
		trip, ok := f.Trips.Get(tripID)
		if !ok {
			return fmt.Errorf("%w: trip %s not found", errs.ErrTransitRoutingChange, tripID)
		}
		shapeIDs[trip.ShapeID] = true
	}

	for shapeID := range shapeIDs {
		selected := selectedTripsOnShape(f, shapeID, tripIDs)
		if err := f.applyRoutingChangeToShape(net, shapeID, selected, existing, set, projectName, permissibleLinks, newShapeID); err != nil {
			return err
		}
	}
	return nil
}

func selectedTripsOnShape(f *Feed, shapeID string, tripIDs []string) []string {
	var selected []string
	for _, tripID := range tripIDs {
		if trip, ok := f.Trips.Get(tripID); ok && trip.ShapeID == shapeID {
			selected = append(selected, tripID)
		}
	}
	return selected
}

func (f *Feed) applyRoutingChangeToShape(net *roadway.Network, shapeID string, selectedTrips []string, existing, set []int, projectName string, permissibleLinks map[[2]int]bool, newShapeID func() string) error {
	points := f.shapePointsSorted(shapeID)
	currentNodes := make([]int, len(points))
	for i, p := range points {
		currentNodes[i] = p.ModelNodeID
	}

	i0, i1, err := spliceBounds(currentNodes, existing)
	if err != nil {
		return fmt.Errorf("%w: shape %s: %v", errs.ErrTransitRoutingChange, shapeID, err)
	}

	absSet := make([]int, len(set))
	for i, id := range set {
		absSet[i] = abs(id)
	}
	newNodes := append(append(append([]int{}, currentNodes[:i0]...), absSet...), currentNodes[i1+1:]...)

	if intsEqual(newNodes, currentNodes) {
		return nil
	}

	for i := 0; i+1 < len(newNodes); i++ {
		pair := [2]int{newNodes[i], newNodes[i+1]}
		if !permissibleLinks[pair] {
			return fmt.Errorf("%w: shape %s: no transit-permissible roadway link (%d, %d)", errs.ErrTransitRoadwayConsistency, shapeID, pair[0], pair[1])
		}
	}

	usedByOthers := false
	for _, t := range f.Trips.All() {
		if t.ShapeID == shapeID && !containsStr(selectedTrips, t.TripID) {
			usedByOthers = true
			break
		}
	}

	targetShapeID := shapeID
	if usedByOthers {
		targetShapeID = newShapeID()
		for _, tripID := range selectedTrips {
			trip, _ := f.Trips.Get(tripID)
			trip.ShapeID = targetShapeID
			if projectName != "" {
				trip.Projects = appendProject(trip.Projects, projectName)
			}
			if err := f.Trips.Replace(tripID, trip); err != nil {
				return fmt.Errorf("%w: %v", errs.ErrTransitRoutingChange, err)
			}
		}
	} else {
		for _, p := range points {
			f.Shapes.Delete(shapePointKey(p))
		}
		if projectName != "" {
			for _, tripID := range selectedTrips {
				trip, _ := f.Trips.Get(tripID)
				trip.Projects = appendProject(trip.Projects, projectName)
				if err := f.Trips.Replace(tripID, trip); err != nil {
					return fmt.Errorf("%w: %v", errs.ErrTransitRoutingChange, err)
				}
			}
		}
	}

	for seq, nodeID := range newNodes {
		sp := ShapePoint{ShapeID: targetShapeID, ShapePtSequence: seq, ModelNodeID: nodeID, Projects: projectName}
		if node, err := net.NodeByID(nodeID); err == nil {
			sp.ShapePtLat, sp.ShapePtLon = node.Point.Y, node.Point.X
		}
		if err := f.Shapes.Insert(sp); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitRoutingChange, err)
		}
	}

	var positiveSet []int
	for _, id := range set {
		if id > 0 {
			positiveSet = append(positiveSet, id)
		}
	}
	for _, nodeID := range positiveSet {
		if f.Stops.Has(fmt.Sprintf("%d", nodeID)) {
			continue
		}
		node, err := net.NodeByID(nodeID)
		if err != nil {
			return fmt.Errorf("%w: stop %d: %v", errs.ErrTransitRoutingChange, nodeID, err)
		}
		if err := f.Stops.Insert(Stop{StopID: nodeID, StopLat: node.Point.Y, StopLon: node.Point.X, Projects: projectName}); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitRoutingChange, err)
		}
	}

	for _, tripID := range selectedTrips {
		if err := f.rebuildStopTimesForTrip(tripID, currentNodes, i0, i1, positiveSet, projectName); err != nil {
			return err
		}
	}
	if err := f.ValidateForeignKeys(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransitRoutingChange, err)
	}
	return nil
}

func (f *Feed) shapePointsSorted(shapeID string) []ShapePoint {
	points := f.Shapes.Filter(func(sp ShapePoint) bool { return sp.ShapeID == shapeID })
	sort.Slice(points, func(i, j int) bool { return points[i].ShapePtSequence < points[j].ShapePtSequence })
	return points
}

// spliceBounds locates, within nodes, the index of existing's first and
// last node - the [i0, i1] run that gets replaced. An empty existing
// means "replace the whole shape".
func spliceBounds(nodes []int, existing []int) (int, int, error) {
	if len(existing) == 0 {
		return 0, len(nodes) - 1, nil
	}
	i0 := indexOfInt(nodes, existing[0], 0)
	if i0 < 0 {
		return 0, 0, fmt.Errorf("existing node %d not found in shape", existing[0])
	}
	i1 := indexOfInt(nodes, existing[len(existing)-1], i0)
	if i1 < 0 {
		return 0, 0, fmt.Errorf("existing node %d not found in shape at or after %d", existing[len(existing)-1], existing[0])
	}
	return i0, i1, nil
}

// rebuildStopTimesForTrip implements spec §4.7 step 6: the old stop
// pattern is split at the nearest stops bordering [i0, i1] in the old
// shape sequence (find_nearest_stops, snapping outward when the bound
// itself isn't a stop), the bordered segment is replaced by
// positiveSet, and stop_sequence is renumbered contiguously from 1.
func (f *Feed) rebuildStopTimesForTrip(tripID string, oldShapeNodes []int, i0, i1 int, positiveSet []int, projectName string) error {
	oldStopTimes := f.StopTimes.Filter(func(st StopTime) bool { return st.TripID == tripID })
	sort.Slice(oldStopTimes, func(i, j int) bool { return oldStopTimes[i].StopSequence < oldStopTimes[j].StopSequence })

	isStop := map[int]bool{}
	oldStopNodesInOrder := make([]int, len(oldStopTimes))
	for i, st := range oldStopTimes {
		isStop[st.StopID] = true
		oldStopNodesInOrder[i] = st.StopID
	}

	leftIdx := i0
	for leftIdx >= 0 && !isStop[oldShapeNodes[leftIdx]] {
		leftIdx--
	}
	rightIdx := i1
	for rightIdx < len(oldShapeNodes) && !isStop[oldShapeNodes[rightIdx]] {
		rightIdx++
	}

	var prefix, suffix []int
	if leftIdx >= 0 {
		if li := indexOfInt(oldStopNodesInOrder, oldShapeNodes[leftIdx], 0); li >= 0 {
			prefix = oldStopNodesInOrder[:li]
		}
	}
	if rightIdx < len(oldShapeNodes) {
		if ri := indexOfInt(oldStopNodesInOrder, oldShapeNodes[rightIdx], 0); ri >= 0 {
			suffix = oldStopNodesInOrder[ri+1:]
		}
	}

	newStopNodes := append(append(append([]int{}, prefix...), positiveSet...), suffix...)

	for _, st := range oldStopTimes {
		f.StopTimes.Delete(stopTimeKey(st))
	}
	for i, nodeID := range newStopNodes {
		st := StopTime{TripID: tripID, StopID: nodeID, StopSequence: i + 1, Projects: projectName}
		if err := f.StopTimes.Insert(st); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitRoutingChange, err)
		}
	}
	return nil
}

func indexOfInt(list []int, v, from int) int {
	for i := from; i < len(list); i++ {
		if list[i] == v {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (f *Feed) shapeStillUsed(shapeID string) bool {
	for _, t := range f.Trips.All() {
		if t.ShapeID == shapeID {
			return true
		}
	}
	return false
}

// AddRoute inserts a new route with its trips, shape points, and stop
// times as a single unit, per spec §5.2's add-route editor.
func (f *Feed) AddRoute(route Route, trips []Trip, shapePoints []ShapePoint, stopTimes []StopTime) error {
	if err := validateRoute(route); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransitRouteAdd, err)
	}
	if err := f.Routes.Insert(route); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransitRouteAdd, err)
	}
	for _, t := range trips {
		if err := f.Trips.Insert(t); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitRouteAdd, err)
		}
	}
	for _, sp := range shapePoints {
		if err := f.Shapes.Insert(sp); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitRouteAdd, err)
		}
	}
	for _, st := range stopTimes {
		if err := f.StopTimes.Insert(st); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTransitRouteAdd, err)
		}
	}
	return f.ValidateForeignKeys()
}

// DeleteService removes the given trips along with their stop_times
// and frequencies, then drops any shape left unreferenced by a
// remaining trip, per spec §5.2's delete-service editor.
func (f *Feed) DeleteService(tripIDs []string, ignoreMissing bool) error {
	var missing []string
	for _, id := range tripIDs {
		trip, ok := f.Trips.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		for _, st := range f.StopTimes.Filter(func(st StopTime) bool { return st.TripID == id }) {
			f.StopTimes.Delete(stopTimeKey(st))
		}
		for _, fr := range f.Frequencies.Filter(func(fr Frequency) bool { return fr.TripID == id }) {
			f.Frequencies.Delete(frequencyKey(fr))
		}
		f.Trips.Delete(id)
		if !f.shapeStillUsed(trip.ShapeID) {
			for _, sp := range f.Shapes.Filter(func(sp ShapePoint) bool { return sp.ShapeID == trip.ShapeID }) {
				f.Shapes.Delete(shapePointKey(sp))
			}
		}
	}
	if len(missing) > 0 && !ignoreMissing {
		return fmt.Errorf("%w: trips not in network: %v", errs.ErrTransitRoutingChange, missing)
	}
	return nil
}
