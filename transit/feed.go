package transit

import (
	"fmt"
	"sort"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/table"
)

// Feed holds the seven GTFS-flavored tables that make up a transit
// network, one table.Table per entity, in the teacher's per-entity map
// layout (storage/memory.go) generalized to table.Table[Row].
type Feed struct {
	Agencies  *table.Table[Agency]
	Routes    *table.Table[Route]
	Trips     *table.Table[Trip]
	Shapes    *table.Table[ShapePoint]
	Stops     *table.Table[Stop]
	StopTimes *table.Table[StopTime]
	Frequencies *table.Table[Frequency]
}

func agencyKey(a Agency) string { return a.AgencyID }
func routeKey(r Route) string   { return r.RouteID }
func tripKey(t Trip) string     { return t.TripID }
func shapePointKey(s ShapePoint) string {
	return fmt.Sprintf("%s|%d", s.ShapeID, s.ShapePtSequence)
}
func stopKey(s Stop) string { return fmt.Sprintf("%d", s.StopID) }
func stopTimeKey(st StopTime) string {
	return fmt.Sprintf("%s|%d", st.TripID, st.StopSequence)
}
func frequencyKey(f Frequency) string {
	return fmt.Sprintf("%s|%s", f.TripID, f.Start.String())
}

func validateAgency(a Agency) error {
	if a.AgencyID == "" {
		return fmt.Errorf("%w: agency_id must be set", errs.ErrTableValidation)
	}
	return nil
}

func validateRoute(r Route) error {
	if r.RouteID == "" {
		return fmt.Errorf("%w: route_id must be set", errs.ErrTableValidation)
	}
	return nil
}

func validateTrip(t Trip) error {
	if t.TripID == "" || t.RouteID == "" || t.ShapeID == "" {
		return fmt.Errorf("%w: trip_id, route_id, and shape_id must be set", errs.ErrTableValidation)
	}
	return nil
}

func validateShapePoint(s ShapePoint) error {
	if s.ShapeID == "" {
		return fmt.Errorf("%w: shape_id must be set", errs.ErrTableValidation)
	}
	if s.ModelNodeID == 0 {
		return fmt.Errorf("%w: shape point must carry a model_node_id", errs.ErrTableValidation)
	}
	return nil
}

func validateStop(s Stop) error {
	if s.StopID == 0 {
		return fmt.Errorf("%w: stop_id (model_node_id) must be set", errs.ErrTableValidation)
	}
	return nil
}

func validateStopTime(st StopTime) error {
	if st.TripID == "" {
		return fmt.Errorf("%w: trip_id must be set", errs.ErrTableValidation)
	}
	if st.StopID == 0 {
		return fmt.Errorf("%w: stop_id (model_node_id) must be set", errs.ErrTableValidation)
	}
	return nil
}

func validateFrequency(f Frequency) error {
	if f.TripID == "" {
		return fmt.Errorf("%w: trip_id must be set", errs.ErrTableValidation)
	}
	if f.HeadwaySecs <= 0 {
		return fmt.Errorf("%w: headway_secs must be > 0", errs.ErrTableValidation)
	}
	return nil
}

func agencyHash(a Agency) []byte {
	return []byte(a.AgencyID + "|" + a.AgencyName + "|" + a.AgencyURL + "|" + a.AgencyTimezone)
}
func routeHash(r Route) []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%s|%d", r.RouteID, r.AgencyID, r.RouteShortName, r.RouteLongName, r.RouteType))
}
func tripHash(t Trip) []byte {
	return []byte(fmt.Sprintf("%s|%s|%d|%s|%s", t.TripID, t.ShapeID, t.DirectionID, t.ServiceID, t.RouteID))
}
func shapePointHash(s ShapePoint) []byte {
	return []byte(fmt.Sprintf("%s|%d|%d", s.ShapeID, s.ShapePtSequence, s.ModelNodeID))
}
func stopHash(s Stop) []byte { return []byte(fmt.Sprintf("%d|%s", s.StopID, s.StopIDGTFS)) }
func stopTimeHash(st StopTime) []byte {
	return []byte(fmt.Sprintf("%s|%d|%d", st.TripID, st.StopSequence, st.StopID))
}
func frequencyHash(f Frequency) []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%d", f.TripID, f.Start.String(), f.End.String(), f.HeadwaySecs))
}

// NewFeed builds an empty Feed with every table registered.
func NewFeed() *Feed {
	return &Feed{
		Agencies: table.New("agency", table.Schema[Agency]{Validate: validateAgency, Key: agencyKey, HashBytes: agencyHash}),
		Routes:   table.New("routes", table.Schema[Route]{Validate: validateRoute, Key: routeKey, HashBytes: routeHash}),
		Trips:    table.New("trips", table.Schema[Trip]{Validate: validateTrip, Key: tripKey, HashBytes: tripHash}),
		Shapes:   table.New("shapes", table.Schema[ShapePoint]{Validate: validateShapePoint, Key: shapePointKey, HashBytes: shapePointHash}),
		Stops:    table.New("stops", table.Schema[Stop]{Validate: validateStop, Key: stopKey, HashBytes: stopHash}),
		StopTimes: table.New("stop_times", table.Schema[StopTime]{Validate: validateStopTime, Key: stopTimeKey, HashBytes: stopTimeHash}),
		Frequencies: table.New("frequencies", table.Schema[Frequency]{Validate: validateFrequency, Key: frequencyKey, HashBytes: frequencyHash}),
	}
}

// Hash returns the feed's content hash over all seven tables, in
// declaration order, per spec §4.3 step 5 applied to the transit DB.
func (f *Feed) Hash() uint64 {
	return table.CombineHashes([]uint64{
		f.Agencies.Hash(), f.Routes.Hash(), f.Trips.Hash(), f.Shapes.Hash(),
		f.Stops.Hash(), f.StopTimes.Hash(), f.Frequencies.Hash(),
	})
}

// ValidateForeignKeys checks the feed-internal FK graph: trips.route_id
// -> routes, trips.shape_id -> shapes, stop_times.trip_id -> trips,
// stop_times.stop_id -> stops (spec §4.3 steps 3-4, applied to the
// transit DB).
func (f *Feed) ValidateForeignKeys() error {
	routeKeys := table.KeySet(f.Routes.Keys())
	shapeIDs := map[string]bool{}
	for _, s := range f.Shapes.All() {
		shapeIDs[s.ShapeID] = true
	}
	tripKeys := table.KeySet(f.Trips.Keys())

	var tripRouteIDs, tripShapeIDs []string
	for _, t := range f.Trips.All() {
		tripRouteIDs = append(tripRouteIDs, t.RouteID)
		tripShapeIDs = append(tripShapeIDs, t.ShapeID)
	}
	if _, err := table.CheckForeignKey("trips", "route_id", tripRouteIDs, routeKeys, true); err != nil {
		return err
	}
	if _, err := table.CheckForeignKey("trips", "shape_id", tripShapeIDs, shapeIDs, true); err != nil {
		return err
	}

	stopKeys := table.KeySet(f.Stops.Keys())
	var stopTimeTripIDs, stopTimeStopIDs []string
	for _, st := range f.StopTimes.All() {
		stopTimeTripIDs = append(stopTimeTripIDs, st.TripID)
		stopTimeStopIDs = append(stopTimeStopIDs, fmt.Sprintf("%d", st.StopID))
	}
	if _, err := table.CheckForeignKey("stop_times", "trip_id", stopTimeTripIDs, tripKeys, true); err != nil {
		return err
	}
	if _, err := table.CheckForeignKey("stop_times", "stop_id", stopTimeStopIDs, stopKeys, true); err != nil {
		return err
	}
	return nil
}

// ValidateAgainstRoadwayNodes checks the wrangler-flavor invariants of
// spec §3.2/§8: every stop_id and every shape point's model_node_id is
// a node id present in the associated roadway network (stops.stop_id
// IS a roadway node_id, per spec.md's glossary), and every consecutive
// pair of a shape's points is a transit-permissible roadway link.
// permissibleLinks is the set of directed (A, B) pairs of roadway links
// with drive_access, bus_only, or rail_only set, as built by
// RoadwayPermissibleLinks.
func (f *Feed) ValidateAgainstRoadwayNodes(roadwayNodeKeys map[string]bool, permissibleLinks map[[2]int]bool) error {
	var stopIDs, shapeNodeIDs, stopTimeStopIDs []string
	for _, s := range f.Stops.All() {
		stopIDs = append(stopIDs, fmt.Sprintf("%d", s.StopID))
	}
	for _, s := range f.Shapes.All() {
		shapeNodeIDs = append(shapeNodeIDs, fmt.Sprintf("%d", s.ModelNodeID))
	}
	for _, st := range f.StopTimes.All() {
		stopTimeStopIDs = append(stopTimeStopIDs, fmt.Sprintf("%d", st.StopID))
	}
	if _, err := table.CheckForeignKey("stops", "stop_id", stopIDs, roadwayNodeKeys, true); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransitRoadwayConsistency, err)
	}
	if _, err := table.CheckForeignKey("shapes", "shape_model_node_id", shapeNodeIDs, roadwayNodeKeys, true); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransitRoadwayConsistency, err)
	}
	if _, err := table.CheckForeignKey("stop_times", "stop_id", stopTimeStopIDs, roadwayNodeKeys, true); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransitRoadwayConsistency, err)
	}
	return f.validateShapesFollowPermissibleLinks(permissibleLinks)
}

// validateShapesFollowPermissibleLinks implements the other half of the
// §3.2/§8 invariant: for every shape, each consecutive pair of points
// (R, R') must correspond to an existing, transit-permissible roadway
// link (R.ModelNodeID, R'.ModelNodeID).
func (f *Feed) validateShapesFollowPermissibleLinks(permissibleLinks map[[2]int]bool) error {
	byShape := map[string][]ShapePoint{}
	for _, sp := range f.Shapes.All() {
		byShape[sp.ShapeID] = append(byShape[sp.ShapeID], sp)
	}
	for shapeID, points := range byShape {
		sort.Slice(points, func(i, j int) bool { return points[i].ShapePtSequence < points[j].ShapePtSequence })
		for i := 0; i+1 < len(points); i++ {
			pair := [2]int{points[i].ModelNodeID, points[i+1].ModelNodeID}
			if !permissibleLinks[pair] {
				return fmt.Errorf("%w: shape %s: no transit-permissible roadway link (%d, %d)", errs.ErrTransitRoadwayConsistency, shapeID, pair[0], pair[1])
			}
		}
	}
	return nil
}

// DeepCopy returns an independent Feed, used by scenario application to
// build-then-commit transit edits.
func (f *Feed) DeepCopy() *Feed {
	return &Feed{
		Agencies:    f.Agencies.DeepCopy(),
		Routes:      f.Routes.DeepCopy(),
		Trips:       f.Trips.DeepCopy(),
		Shapes:      f.Shapes.DeepCopy(),
		Stops:       f.Stops.DeepCopy(),
		StopTimes:   f.StopTimes.DeepCopyWith(cloneStopTime),
		Frequencies: f.Frequencies.DeepCopyWith(cloneFrequency),
	}
}

func cloneStopTime(st StopTime) StopTime {
	cp := st
	if st.ArrivalTime != nil {
		v := *st.ArrivalTime
		cp.ArrivalTime = &v
	}
	if st.DepartureTime != nil {
		v := *st.DepartureTime
		cp.DepartureTime = &v
	}
	return cp
}

func cloneFrequency(f Frequency) Frequency { return f }
