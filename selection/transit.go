package selection

import (
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/timespan"
	"github.com/wsp-sag/network-wrangler-sub001/transit"
)

// TransitSelectDict is the transit analog of a roadway facility
// selection, mirroring TransitSelection's three query axes: by node
// sequence the trip's shape must traverse, by route/trip property, and
// by a service-period overlap requirement.
type TransitSelectDict struct {
	NodeIDs           []int
	RequireAllNodes   bool
	RouteProperties   func(transit.Route) bool
	TripProperties    func(transit.Trip) bool
	Timespan          *timespan.Timespan
	MinOverlapMinutes int
}

// TransitSelection is the resolved result of applying a
// TransitSelectDict to a feed: the trip ids it matched and the shape
// ids those trips use.
type TransitSelection struct {
	TripIDs  []string
	ShapeIDs []string
}

// SelectTransit resolves sel against feed, narrowing first by node
// sequence (if NodeIDs is set), then by route property, then by trip
// property, then by service-period overlap, erroring with
// ErrTransitSelectionEmpty if nothing survives every applicable filter,
// grounded on transit/selection.py's TransitSelection class.
func SelectTransit(feed *transit.Feed, sel TransitSelectDict) (TransitSelection, error) {
	trips := feed.Trips.All()

	if len(sel.NodeIDs) > 0 {
		shapeIDs := transit.ShapeIDsUsingNodes(feed.Shapes.All(), sel.NodeIDs, sel.RequireAllNodes)
		if len(shapeIDs) == 0 {
			return TransitSelection{}, fmt.Errorf("%w: no shapes traverse nodes %v", errs.ErrTransitSelectionEmpty, sel.NodeIDs)
		}
		trips = transit.FilterTripsByShapeIDs(trips, shapeIDs)
	}

	if sel.RouteProperties != nil {
		routes := transit.FilterRoutesByProperty(feed.Routes.All(), sel.RouteProperties)
		routeIDs := make([]string, 0, len(routes))
		for _, r := range routes {
			routeIDs = append(routeIDs, r.RouteID)
		}
		trips = transit.FilterTripsByRouteIDs(trips, routeIDs)
	}

	if sel.TripProperties != nil {
		trips = transit.FilterTripsByProperty(trips, sel.TripProperties)
	}

	if sel.Timespan != nil {
		want := map[string]bool{}
		for _, id := range transit.TripIDsWithFrequencyOverlap(feed.Frequencies.All(), *sel.Timespan, sel.MinOverlapMinutes) {
			want[id] = true
		}
		trips = transit.FilterTripsByProperty(trips, func(t transit.Trip) bool { return want[t.TripID] })
	}

	if len(trips) == 0 {
		return TransitSelection{}, fmt.Errorf("%w: selection matched no trips", errs.ErrTransitSelectionEmpty)
	}

	seenShape := map[string]bool{}
	var tripIDs, shapeIDs []string
	for _, t := range trips {
		tripIDs = append(tripIDs, t.TripID)
		if !seenShape[t.ShapeID] {
			seenShape[t.ShapeID] = true
			shapeIDs = append(shapeIDs, t.ShapeID)
		}
	}
	return TransitSelection{TripIDs: tripIDs, ShapeIDs: shapeIDs}, nil
}
