// Package clip implements C9: clip_feed, a pure function that narrows
// a transit.Feed to a node boundary, keeping only trips that still
// traverse at least a minimum number of stops inside the boundary.
// Grounded on transit/clip.py's _clip_feed_to_nodes / clip_feed_to_roadway.
package clip

import (
	"sort"

	"github.com/wsp-sag/network-wrangler-sub001/transit"
)

// DefaultMinStops is the minimum stop count a trip must retain within
// the clip boundary to survive clipping, per DEFAULT_MIN_STOPS.
const DefaultMinStops = 2

// ToNodes returns a new Feed containing only the stops, stop_times,
// trips, routes, shapes, and frequencies that survive clipping to
// nodeIDs, per spec §4.8's three-step algorithm:
//  1. Each shape is replaced by the longest contiguous run of its
//     points whose model_node_id is in nodeIDs (the retained link set,
//     approximated here as "both endpoints of the implied link are
//     within the boundary" since clip operates on a node selector
//     rather than an explicit roadway link set).
//  2. A trip survives if its shape's retained run is non-empty and its
//     retained stop_times count is >= minStops.
//  3. Stops, routes, and frequencies are re-derived from the surviving
//     trips and stop_times; every agency is kept.
func ToNodes(feed *transit.Feed, nodeIDs []int, minStops int) *transit.Feed {
	if minStops <= 0 {
		minStops = DefaultMinStops
	}
	wanted := map[int]bool{}
	for _, id := range nodeIDs {
		wanted[id] = true
	}

	clipped := transit.NewFeed()

	keptStopIDs := map[int]bool{}
	for _, s := range feed.Stops.All() {
		if wanted[s.StopID] {
			keptStopIDs[s.StopID] = true
		}
	}

	trimmedShapes := trimShapesToRetainedRun(feed, wanted)

	stopCountByTrip := map[string]int{}
	var candidateStopTimes []transit.StopTime
	for _, st := range feed.StopTimes.All() {
		if keptStopIDs[st.StopID] {
			candidateStopTimes = append(candidateStopTimes, st)
		}
	}
	for _, st := range candidateStopTimes {
		stopCountByTrip[st.TripID]++
	}

	keptTrips := map[string]bool{}
	for _, t := range feed.Trips.All() {
		if len(trimmedShapes[t.ShapeID]) == 0 {
			continue
		}
		if stopCountByTrip[t.TripID] >= minStops {
			keptTrips[t.TripID] = true
		}
	}

	for _, st := range candidateStopTimes {
		if keptTrips[st.TripID] {
			_ = clipped.StopTimes.Insert(st)
		}
	}

	keptShapeIDs := map[string]bool{}
	for _, t := range feed.Trips.All() {
		if keptTrips[t.TripID] {
			_ = clipped.Trips.Insert(t)
			keptShapeIDs[t.ShapeID] = true
		}
	}

	finalStopIDs := map[int]bool{}
	for _, st := range clipped.StopTimes.All() {
		finalStopIDs[st.StopID] = true
	}
	for _, s := range feed.Stops.All() {
		if finalStopIDs[s.StopID] {
			_ = clipped.Stops.Insert(s)
		}
	}

	for shapeID, points := range trimmedShapes {
		if !keptShapeIDs[shapeID] {
			continue
		}
		for _, sp := range points {
			_ = clipped.Shapes.Insert(sp)
		}
	}

	keptRouteIDs := map[string]bool{}
	for _, t := range clipped.Trips.All() {
		keptRouteIDs[t.RouteID] = true
	}
	for _, r := range feed.Routes.All() {
		if keptRouteIDs[r.RouteID] {
			_ = clipped.Routes.Insert(r)
		}
	}
	for _, r := range feed.Agencies.All() {
		_ = clipped.Agencies.Insert(r)
	}

	for _, fr := range feed.Frequencies.All() {
		if keptTrips[fr.TripID] {
			_ = clipped.Frequencies.Insert(fr)
		}
	}

	return clipped
}

// trimShapesToRetainedRun groups shape points by shape_id, sorts each
// group by sequence, and replaces it with its longest contiguous
// in-boundary run, renumbered from 0.
func trimShapesToRetainedRun(feed *transit.Feed, wanted map[int]bool) map[string][]transit.ShapePoint {
	byShape := map[string][]transit.ShapePoint{}
	for _, sp := range feed.Shapes.All() {
		byShape[sp.ShapeID] = append(byShape[sp.ShapeID], sp)
	}
	out := make(map[string][]transit.ShapePoint, len(byShape))
	for shapeID, points := range byShape {
		sort.Slice(points, func(i, j int) bool { return points[i].ShapePtSequence < points[j].ShapePtSequence })
		run := longestContiguousRun(points, wanted)
		renumbered := make([]transit.ShapePoint, len(run))
		for i, sp := range run {
			sp.ShapePtSequence = i
			renumbered[i] = sp
		}
		out[shapeID] = renumbered
	}
	return out
}

// longestContiguousRun returns the longest contiguous subsequence of
// points whose ModelNodeID is in wanted. Every consecutive pair inside
// such a run has both endpoints in wanted, which is exactly the
// retained-link condition spec §4.8 step 1 describes when the selector
// is a node boundary.
func longestContiguousRun(points []transit.ShapePoint, wanted map[int]bool) []transit.ShapePoint {
	bestStart, bestLen := 0, 0
	curStart, curLen := 0, 0
	for i, p := range points {
		if wanted[p.ModelNodeID] {
			if curLen == 0 {
				curStart = i
			}
			curLen++
			if curLen > bestLen {
				bestStart, bestLen = curStart, curLen
			}
		} else {
			curLen = 0
		}
	}
	if bestLen == 0 {
		return nil
	}
	return points[bestStart : bestStart+bestLen]
}

// ToRoadwayLinks clips feed to roadwayNodeIDs (the caller supplies every
// A and B across the retained roadway links), per clip_feed_to_roadway.
func ToRoadwayLinks(feed *transit.Feed, roadwayNodeIDs []int, minStops int) *transit.Feed {
	return ToNodes(feed, roadwayNodeIDs, minStops)
}
