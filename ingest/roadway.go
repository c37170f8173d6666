package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
)

// LinkCSV is the CSV row shape for RoadLinksTable, mirroring
// models/roadway/tables.py's column names; ScLanes/ScPrice/ScML* are
// JSON-array cells decoded via decodeScopeItems.
type LinkCSV struct {
	ModelLinkID int     `csv:"model_link_id"`
	A           int     `csv:"A"`
	B           int     `csv:"B"`
	Name        string  `csv:"name"`
	RailOnly    bool    `csv:"rail_only"`
	BusOnly     bool    `csv:"bus_only"`
	DriveAccess bool    `csv:"drive_access"`
	BikeAccess  bool    `csv:"bike_access"`
	WalkAccess  bool    `csv:"walk_access"`
	TruckAccess bool    `csv:"truck_access"`
	Distance    float64 `csv:"distance"`
	Roadway     string  `csv:"roadway"`
	Projects    string  `csv:"projects"`
	Managed     int     `csv:"managed"`
	ShapeID     string  `csv:"shape_id"`
	Lanes       int     `csv:"lanes"`
	Price       float64 `csv:"price"`
	ScLanes     string  `csv:"sc_lanes"`
	ScPrice     string  `csv:"sc_price"`

	MLProjects    string `csv:"ML_projects"`
	MLLanes       string `csv:"ML_lanes"`
	MLPrice       string `csv:"ML_price"`
	MLAccess      string `csv:"ML_access"`
	MLAccessPoint bool   `csv:"ML_access_point"`
	MLEgressPoint bool   `csv:"ML_egress_point"`
	ScMLLanes     string `csv:"sc_ML_lanes"`
	ScMLPrice     string `csv:"sc_ML_price"`
	ScMLAccess    string `csv:"sc_ML_access"`
	MLShapeID     string `csv:"ML_shape_id"`

	OSMLinkID string `csv:"osm_link_id"`
}

// NodeCSV is the CSV row shape for RoadNodesTable.
type NodeCSV struct {
	ModelNodeID int     `csv:"model_node_id"`
	X           float64 `csv:"X"`
	Y           float64 `csv:"Y"`
	OSMNodeID   string  `csv:"osm_node_id"`
	Projects    string  `csv:"projects"`
	IsStop      bool    `csv:"is_stop"`
}

// ShapeCSV is the CSV row shape for RoadShapesTable; Geometry is a
// JSON array of [x,y] pairs, mirroring "geometry becomes a JSON-array
// column" for non-GeoJSON tabular formats per spec §6.
type ShapeCSV struct {
	ShapeID    string `csv:"shape_id"`
	Geometry   string `csv:"geometry"`
	RefShapeID string `csv:"ref_shape_id"`
}

func decodeLineString(cell string) (geometry.LineString, error) {
	if cell == "" {
		return geometry.LineString{}, nil
	}
	var pts [][2]float64
	if err := json.Unmarshal([]byte(cell), &pts); err != nil {
		return geometry.LineString{}, fmt.Errorf("decoding geometry cell %q: %w", cell, err)
	}
	ls := geometry.LineString{Points: make([]geometry.Point, len(pts))}
	for i, p := range pts {
		ls.Points[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return ls, nil
}

func optionalInt(cell string) (*int, error) {
	if cell == "" {
		return nil, nil
	}
	var v int
	if _, err := fmt.Sscanf(cell, "%d", &v); err != nil {
		return nil, fmt.Errorf("decoding int cell %q: %w", cell, err)
	}
	return &v, nil
}

func optionalFloat(cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	var v float64
	if _, err := fmt.Sscanf(cell, "%g", &v); err != nil {
		return nil, fmt.Errorf("decoding float cell %q: %w", cell, err)
	}
	return &v, nil
}

func optionalBool(cell string) (*bool, error) {
	if cell == "" {
		return nil, nil
	}
	v := cell == "true" || cell == "True" || cell == "1"
	return &v, nil
}

// ReadLinks decodes a links CSV into roadway.Link rows.
func ReadLinks(r io.Reader) ([]roadway.Link, error) {
	var rows []*LinkCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling links csv: %w", err)
	}
	links := make([]roadway.Link, len(rows))
	for i, c := range rows {
		scLanes, err := decodeScopeItems(c.ScLanes)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		scPrice, err := decodeScopeItems(c.ScPrice)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		scMLLanes, err := decodeScopeItems(c.ScMLLanes)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		scMLPrice, err := decodeScopeItems(c.ScMLPrice)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		scMLAccess, err := decodeScopeItems(c.ScMLAccess)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		mlLanes, err := optionalInt(c.MLLanes)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		mlPrice, err := optionalFloat(c.MLPrice)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}
		mlAccess, err := optionalBool(c.MLAccess)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", c.ModelLinkID, err)
		}

		links[i] = roadway.Link{
			ModelLinkID: c.ModelLinkID, A: c.A, B: c.B, Name: c.Name,
			RailOnly: c.RailOnly, BusOnly: c.BusOnly, DriveAccess: c.DriveAccess,
			BikeAccess: c.BikeAccess, WalkAccess: c.WalkAccess, TruckAccess: c.TruckAccess,
			Distance: c.Distance, Roadway: c.Roadway, Projects: c.Projects,
			Managed: roadway.ManagedState(c.Managed), ShapeID: c.ShapeID, Lanes: c.Lanes, Price: c.Price,
			ScLanes: scLanes, ScPrice: scPrice,
			MLProjects: c.MLProjects, MLLanes: mlLanes, MLPrice: mlPrice, MLAccess: mlAccess,
			MLAccessPoint: c.MLAccessPoint, MLEgressPoint: c.MLEgressPoint,
			ScMLLanes: scMLLanes, ScMLPrice: scMLPrice, ScMLAccess: scMLAccess,
			MLShapeID: c.MLShapeID, OSMLinkID: c.OSMLinkID,
		}
	}
	return links, nil
}

// ReadNodes decodes a nodes CSV into roadway.Node rows.
func ReadNodes(r io.Reader) ([]roadway.Node, error) {
	var rows []*NodeCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling nodes csv: %w", err)
	}
	nodes := make([]roadway.Node, len(rows))
	for i, c := range rows {
		nodes[i] = roadway.Node{
			ModelNodeID: c.ModelNodeID,
			Point:       geometry.Point{X: c.X, Y: c.Y},
			OSMNodeID:   c.OSMNodeID,
			Projects:    c.Projects,
			IsStop:      c.IsStop,
		}
	}
	return nodes, nil
}

// ReadShapes decodes a shapes CSV into roadway.Shape rows.
func ReadShapes(r io.Reader) ([]roadway.Shape, error) {
	var rows []*ShapeCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling shapes csv: %w", err)
	}
	shapes := make([]roadway.Shape, len(rows))
	for i, c := range rows {
		geom, err := decodeLineString(c.Geometry)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", c.ShapeID, err)
		}
		shapes[i] = roadway.Shape{ShapeID: c.ShapeID, Geometry: geom, RefShapeID: c.RefShapeID}
	}
	return shapes, nil
}

// ReadNetwork decodes links/nodes/shapes CSVs and assigns them to a new
// roadway.Network, running the full table validation and foreign-key
// check spec §4.3 describes. shapesR may be nil when the caller omits
// shape ingestion (mirroring base_scenario.roadway.read_in_shapes).
func ReadNetwork(linksR, nodesR, shapesR io.Reader) (*roadway.Network, error) {
	links, err := ReadLinks(linksR)
	if err != nil {
		return nil, err
	}
	nodes, err := ReadNodes(nodesR)
	if err != nil {
		return nil, err
	}
	var shapes []roadway.Shape
	if shapesR != nil {
		shapes, err = ReadShapes(shapesR)
		if err != nil {
			return nil, err
		}
	}

	net := roadway.NewNetwork()
	if err := net.AssignTables(links, nodes, shapes); err != nil {
		return nil, err
	}
	return net, nil
}
