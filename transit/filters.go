package transit

import "github.com/wsp-sag/network-wrangler-sub001/timespan"

// ShapeIDsUsingNodes returns the shape ids whose points touch any (or,
// if requireAll, every) node in nodeIDs, grounded on
// TransitSelection._filter_trips_by_nodes's require=any/all switch.
func ShapeIDsUsingNodes(shapes []ShapePoint, nodeIDs []int, requireAll bool) []string {
	want := intSet(nodeIDs)
	byShape := map[string]map[int]bool{}
	for _, s := range shapes {
		if byShape[s.ShapeID] == nil {
			byShape[s.ShapeID] = map[int]bool{}
		}
		byShape[s.ShapeID][s.ModelNodeID] = true
	}

	var out []string
	for shapeID, nodes := range byShape {
		if requireAll {
			all := true
			for id := range want {
				if !nodes[id] {
					all = false
					break
				}
			}
			if all {
				out = append(out, shapeID)
			}
			continue
		}
		for id := range want {
			if nodes[id] {
				out = append(out, shapeID)
				break
			}
		}
	}
	return out
}

// FilterTripsByShapeIDs returns trips whose ShapeID is in shapeIDs.
func FilterTripsByShapeIDs(trips []Trip, shapeIDs []string) []Trip {
	set := stringSet(shapeIDs)
	return filterTrips(trips, func(t Trip) bool { return set[t.ShapeID] })
}

// FilterTripsByRouteIDs returns trips whose RouteID is in routeIDs.
func FilterTripsByRouteIDs(trips []Trip, routeIDs []string) []Trip {
	set := stringSet(routeIDs)
	return filterTrips(trips, func(t Trip) bool { return set[t.RouteID] })
}

// FilterRoutesByProperty returns routes for which match(r) is true,
// the Go analog of routes_df.dict_query(route_properties).
func FilterRoutesByProperty(routes []Route, match func(Route) bool) []Route {
	var out []Route
	for _, r := range routes {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterTripsByProperty returns trips for which match(t) is true, the
// Go analog of trips_df.dict_query(trip_properties).
func FilterTripsByProperty(trips []Trip, match func(Trip) bool) []Trip {
	return filterTrips(trips, match)
}

// TripIDsWithFrequencyOverlap returns the trip ids whose frequency
// entries overlap query by at least minOverlapMinutes, used to narrow
// a selection to a requested timespan.
func TripIDsWithFrequencyOverlap(freqs []Frequency, query timespan.Timespan, minOverlapMinutes int) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range freqs {
		span := timespan.Timespan{Start: f.Start, End: f.End}
		if span.OverlapMinutes(query) >= minOverlapMinutes && !seen[f.TripID] {
			seen[f.TripID] = true
			out = append(out, f.TripID)
		}
	}
	return out
}

func filterTrips(trips []Trip, pred func(Trip) bool) []Trip {
	var out []Trip
	for _, t := range trips {
		if pred(t) {
			out = append(out, t)
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

func stringSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
