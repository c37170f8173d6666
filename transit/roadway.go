package transit

import "github.com/wsp-sag/network-wrangler-sub001/roadway"

// RoadwayPermissibleLinks builds the permissibleLinks set that
// ValidateAgainstRoadwayNodes and RoutingChange require: the directed
// (A, B) pairs of net's links that are transit-permissible (carry
// drive_access, bus_only, or rail_only), per spec §3.2/§8's consecutive-
// shape-pair invariant.
func RoadwayPermissibleLinks(net *roadway.Network) map[[2]int]bool {
	out := map[[2]int]bool{}
	for _, l := range net.Links.All() {
		if l.DriveAccess || l.BusOnly || l.RailOnly {
			out[[2]int{l.A, l.B}] = true
		}
	}
	return out
}
