// Package transit implements C5 (the GTFS-flavored transit data model,
// "wrangler flavor": stops.stop_id is a roadway node_id rather than a
// GTFS string id) and C8 (transit editors). Grounded on the teacher's
// model package (model/model.go), which this package's row types
// mirror field-for-field before bending StopID/ShapeModelNodeID over
// to roadway node ids.
package transit

import "github.com/wsp-sag/network-wrangler-sub001/timespan"

// Agency mirrors GTFS agency.txt.
type Agency struct {
	AgencyID       string
	AgencyName     string
	AgencyURL      string
	AgencyTimezone string
}

// RouteType mirrors the teacher's model.RouteType enum (GTFS route_type
// codes), reused verbatim since GTFS route typing doesn't change
// between a plain feed and a wrangler-flavor one.
type RouteType int

const (
	RouteTypeTram       RouteType = 0
	RouteTypeSubway     RouteType = 1
	RouteTypeRail       RouteType = 2
	RouteTypeBus        RouteType = 3
	RouteTypeFerry      RouteType = 4
	RouteTypeCable      RouteType = 5
	RouteTypeAerial     RouteType = 6
	RouteTypeFunicular  RouteType = 7
	RouteTypeTrolleybus RouteType = 11
	RouteTypeMonorail   RouteType = 12
)

// Route mirrors GTFS routes.txt plus the wrangler projects tracking
// column.
type Route struct {
	RouteID        string
	AgencyID       string
	RouteShortName string
	RouteLongName  string
	RouteType      RouteType
	Projects       string
}

// Trip mirrors GTFS trips.txt. DirectionID is a Category in the
// original (0/1); Go models it as an int.
type Trip struct {
	TripID      string
	ShapeID     string
	DirectionID int
	ServiceID   string
	RouteID     string
	Projects    string
}

// ShapePoint is a single vertex of a shape's polyline. ModelNodeID is
// the wrangler-flavor addition: every shape point ties to a roadway
// node, not just a raw lat/lon, per spec §5.1.
type ShapePoint struct {
	ShapeID         string
	ShapePtLat      float64
	ShapePtLon      float64
	ShapePtSequence int
	ModelNodeID     int
	Projects        string
}

// Frequency mirrors GTFS frequencies.txt with Start/End resolved to
// C1 Time values instead of raw HH:MM:SS strings.
type Frequency struct {
	TripID      string
	Start       timespan.Time
	End         timespan.Time
	HeadwaySecs int
	Projects    string
}

const (
	PickupTypeRegular    = 0
	PickupTypeNone       = 1
	PickupTypePhoneAgency = 2
	PickupTypeDriver     = 3
)

// StopTime mirrors GTFS stop_times.txt. StopID is the wrangler-flavor
// addition: it IS the roadway model_node_id, not a separate GTFS stop
// id, per spec.md's glossary entry for "wrangler flavor".
type StopTime struct {
	TripID        string
	StopID        int
	StopSequence  int
	PickupType    int
	DropOffType   int
	ArrivalTime   *timespan.Time
	DepartureTime *timespan.Time
	Projects      string
}

// Stop mirrors GTFS stops.txt with StopID bent to the roadway node id
// convention; StopLat/StopLon are retained for feeds ingested before a
// roadway network is associated, but the roadway node is authoritative
// once joined.
type Stop struct {
	StopID      int
	StopIDGTFS  string
	StopLat     float64
	StopLon     float64
	Projects    string
}
