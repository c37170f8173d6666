package ingest

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/wsp-sag/network-wrangler-sub001/timespan"
	"github.com/wsp-sag/network-wrangler-sub001/transit"
)

// AgencyCSV mirrors GTFS agency.txt.
type AgencyCSV struct {
	AgencyID       string `csv:"agency_id"`
	AgencyName     string `csv:"agency_name"`
	AgencyURL      string `csv:"agency_url"`
	AgencyTimezone string `csv:"agency_timezone"`
}

// RouteCSV mirrors GTFS routes.txt plus the wrangler projects column.
type RouteCSV struct {
	RouteID        string `csv:"route_id"`
	AgencyID       string `csv:"agency_id"`
	RouteShortName string `csv:"route_short_name"`
	RouteLongName  string `csv:"route_long_name"`
	RouteType      int    `csv:"route_type"`
	Projects       string `csv:"projects"`
}

// TripCSV mirrors GTFS trips.txt.
type TripCSV struct {
	TripID      string `csv:"trip_id"`
	ShapeID     string `csv:"shape_id"`
	DirectionID int    `csv:"direction_id"`
	ServiceID   string `csv:"service_id"`
	RouteID     string `csv:"route_id"`
	Projects    string `csv:"projects"`
}

// ShapePointCSV mirrors GTFS shapes.txt bent to the wrangler flavor:
// shape_model_node_id replaces a raw lat/lon-only vertex.
type ShapePointCSV struct {
	ShapeID         string  `csv:"shape_id"`
	ShapePtLat      float64 `csv:"shape_pt_lat"`
	ShapePtLon      float64 `csv:"shape_pt_lon"`
	ShapePtSequence int     `csv:"shape_pt_sequence"`
	ModelNodeID     int     `csv:"shape_model_node_id"`
	Projects        string  `csv:"projects"`
}

// StopCSV mirrors GTFS stops.txt bent to the wrangler flavor: stop_id
// is a roadway model_node_id, stop_id_gtfs carries the original string.
type StopCSV struct {
	StopID     int     `csv:"stop_id"`
	StopIDGTFS string  `csv:"stop_id_gtfs"`
	StopLat    float64 `csv:"stop_lat"`
	StopLon    float64 `csv:"stop_lon"`
	Projects   string  `csv:"projects"`
}

// StopTimeCSV mirrors GTFS stop_times.txt.
type StopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        int    `csv:"stop_id"`
	StopSequence  int    `csv:"stop_sequence"`
	PickupType    int    `csv:"pickup_type"`
	DropOffType   int    `csv:"drop_off_type"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	Projects      string `csv:"projects"`
}

// FrequencyCSV mirrors GTFS frequencies.txt.
type FrequencyCSV struct {
	TripID      string `csv:"trip_id"`
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	HeadwaySecs int    `csv:"headway_secs"`
	Projects    string `csv:"projects"`
}

func optionalTime(cell string) (*timespan.Time, error) {
	if cell == "" {
		return nil, nil
	}
	t, err := timespan.Parse(cell)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadFeed decodes the seven GTFS-flavored CSVs into a transit.Feed,
// enforcing primary-key uniqueness on insert and running the in-feed
// foreign-key check. agenciesR and frequenciesR may be nil to skip that
// table (e.g. a feed with no frequencies.txt); the other readers are
// required.
func ReadFeed(agenciesR, routesR, tripsR, shapesR, stopsR, stopTimesR, frequenciesR io.Reader) (*transit.Feed, error) {
	feed := transit.NewFeed()

	if agenciesR != nil {
		var rows []*AgencyCSV
		if err := gocsv.Unmarshal(agenciesR, &rows); err != nil {
			return nil, fmt.Errorf("unmarshaling agency csv: %w", err)
		}
		for _, c := range rows {
			if err := feed.Agencies.Insert(transit.Agency{
				AgencyID: c.AgencyID, AgencyName: c.AgencyName, AgencyURL: c.AgencyURL, AgencyTimezone: c.AgencyTimezone,
			}); err != nil {
				return nil, err
			}
		}
	}

	var rows []*RouteCSV
	if err := gocsv.Unmarshal(routesR, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling routes csv: %w", err)
	}
	for _, c := range rows {
		if err := feed.Routes.Insert(transit.Route{
			RouteID: c.RouteID, AgencyID: c.AgencyID, RouteShortName: c.RouteShortName,
			RouteLongName: c.RouteLongName, RouteType: transit.RouteType(c.RouteType), Projects: c.Projects,
		}); err != nil {
			return nil, err
		}
	}

	var tripRows []*TripCSV
	if err := gocsv.Unmarshal(tripsR, &tripRows); err != nil {
		return nil, fmt.Errorf("unmarshaling trips csv: %w", err)
	}
	for _, c := range tripRows {
		if err := feed.Trips.Insert(transit.Trip{
			TripID: c.TripID, ShapeID: c.ShapeID, DirectionID: c.DirectionID,
			ServiceID: c.ServiceID, RouteID: c.RouteID, Projects: c.Projects,
		}); err != nil {
			return nil, err
		}
	}

	var shapeRows []*ShapePointCSV
	if err := gocsv.Unmarshal(shapesR, &shapeRows); err != nil {
		return nil, fmt.Errorf("unmarshaling shapes csv: %w", err)
	}
	for _, c := range shapeRows {
		if err := feed.Shapes.Insert(transit.ShapePoint{
			ShapeID: c.ShapeID, ShapePtLat: c.ShapePtLat, ShapePtLon: c.ShapePtLon,
			ShapePtSequence: c.ShapePtSequence, ModelNodeID: c.ModelNodeID, Projects: c.Projects,
		}); err != nil {
			return nil, err
		}
	}

	var stopRows []*StopCSV
	if err := gocsv.Unmarshal(stopsR, &stopRows); err != nil {
		return nil, fmt.Errorf("unmarshaling stops csv: %w", err)
	}
	for _, c := range stopRows {
		if err := feed.Stops.Insert(transit.Stop{
			StopID: c.StopID, StopIDGTFS: c.StopIDGTFS, StopLat: c.StopLat, StopLon: c.StopLon, Projects: c.Projects,
		}); err != nil {
			return nil, err
		}
	}

	var stopTimeRows []*StopTimeCSV
	if err := gocsv.Unmarshal(stopTimesR, &stopTimeRows); err != nil {
		return nil, fmt.Errorf("unmarshaling stop_times csv: %w", err)
	}
	for _, c := range stopTimeRows {
		arrival, err := optionalTime(c.ArrivalTime)
		if err != nil {
			return nil, fmt.Errorf("stop_time %s/%d: %w", c.TripID, c.StopSequence, err)
		}
		departure, err := optionalTime(c.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("stop_time %s/%d: %w", c.TripID, c.StopSequence, err)
		}
		if err := feed.StopTimes.Insert(transit.StopTime{
			TripID: c.TripID, StopID: c.StopID, StopSequence: c.StopSequence,
			PickupType: c.PickupType, DropOffType: c.DropOffType,
			ArrivalTime: arrival, DepartureTime: departure, Projects: c.Projects,
		}); err != nil {
			return nil, err
		}
	}

	if frequenciesR != nil {
		var freqRows []*FrequencyCSV
		if err := gocsv.Unmarshal(frequenciesR, &freqRows); err != nil {
			return nil, fmt.Errorf("unmarshaling frequencies csv: %w", err)
		}
		for _, c := range freqRows {
			start, err := timespan.Parse(c.StartTime)
			if err != nil {
				return nil, fmt.Errorf("frequency %s: %w", c.TripID, err)
			}
			end, err := timespan.Parse(c.EndTime)
			if err != nil {
				return nil, fmt.Errorf("frequency %s: %w", c.TripID, err)
			}
			if err := feed.Frequencies.Insert(transit.Frequency{
				TripID: c.TripID, Start: start, End: end, HeadwaySecs: c.HeadwaySecs, Projects: c.Projects,
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := feed.ValidateForeignKeys(); err != nil {
		return nil, err
	}
	return feed, nil
}
