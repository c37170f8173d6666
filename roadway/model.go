// Package roadway implements C4 (the roadway network data model and its
// derived queries) and C7 (roadway editors). A Network holds three
// table.Table instances — Links, Nodes, Shapes — plus the foreign-key
// graph between them, following the teacher's per-entity map layout in
// storage/memory.go generalized through table.Table[Row].
package roadway

import (
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/scope"
)

// ManagedState classifies a link's relationship to a managed-lane pair,
// mirroring RoadLinksTable.managed: 1 is the ML facility itself, -1 is
// the parallel GP link it was split from, 0 is an ordinary link.
type ManagedState int

const (
	ManagedNone     ManagedState = 0
	ManagedLane     ManagedState = 1
	ManagedParallel ManagedState = -1
)

// Link is the Go analog of RoadLinksTable: a directed edge A->B with
// modal access flags, an optional parallel managed-lane facility, and
// scoped overrides on lanes/price/access.
type Link struct {
	ModelLinkID int
	A           int
	B           int
	Geometry    geometry.LineString
	Name        string
	RailOnly    bool
	BusOnly     bool
	DriveAccess bool
	BikeAccess  bool
	WalkAccess  bool
	TruckAccess bool
	Distance    float64

	Roadway  string
	Projects string
	Managed  ManagedState

	ShapeID string
	Lanes   int
	Price   float64

	ScLanes []scope.Item
	ScPrice []scope.Item

	MLProjects     string
	MLLanes        *int
	MLPrice        *float64
	MLAccess       *bool
	MLAccessPoint  bool
	MLEgressPoint  bool
	ScMLLanes      []scope.Item
	ScMLPrice      []scope.Item
	ScMLAccess     []scope.Item
	MLGeometry     *geometry.LineString
	MLShapeID      string

	OSMLinkID string
	GP_A      *int
	GP_B      *int
}

// Node is the Go analog of RoadNodesTable.
type Node struct {
	ModelNodeID           int
	Point                 geometry.Point
	OSMNodeID             string
	Projects              string
	IsStop                bool
	InboundReferenceIDs   []string
	OutboundReferenceIDs  []string
}

// Shape is the Go analog of RoadShapesTable: a reusable polyline that
// links reference by shape_id, e.g. for a managed lane's own geometry.
type Shape struct {
	ShapeID     string
	Geometry    geometry.LineString
	RefShapeID  string
}

func validateLink(l Link) error {
	if l.A == l.B {
		return fmt.Errorf("%w: link %d: A and B must differ (got %d)", errs.ErrTableValidation, l.ModelLinkID, l.A)
	}
	if l.Distance < 0 {
		return fmt.Errorf("%w: link %d: distance must be >= 0", errs.ErrTableValidation, l.ModelLinkID)
	}
	if l.Lanes < 0 {
		return fmt.Errorf("%w: link %d: lanes must be >= 0", errs.ErrTableValidation, l.ModelLinkID)
	}
	return nil
}

func validateNode(n Node) error {
	if n.ModelNodeID == 0 {
		return fmt.Errorf("%w: node model_node_id must be set", errs.ErrTableValidation)
	}
	return nil
}

func validateShape(s Shape) error {
	if s.ShapeID == "" {
		return fmt.Errorf("%w: shape_id must be set", errs.ErrTableValidation)
	}
	return nil
}

func linkKey(l Link) string   { return fmt.Sprintf("%d", l.ModelLinkID) }
func nodeKey(n Node) string   { return fmt.Sprintf("%d", n.ModelNodeID) }
func shapeKey(s Shape) string { return s.ShapeID }

func linkHashBytes(l Link) []byte {
	return []byte(fmt.Sprintf("%d|%d|%d|%s|%v|%v|%v|%f|%s|%d|%d|%f|%d",
		l.ModelLinkID, l.A, l.B, l.Name, l.RailOnly, l.BusOnly, l.DriveAccess,
		l.Distance, l.Roadway, l.Managed, l.Lanes, l.Price, len(l.ScLanes)+len(l.ScPrice)))
}

func nodeHashBytes(n Node) []byte {
	return []byte(fmt.Sprintf("%d|%f|%f|%s", n.ModelNodeID, n.Point.X, n.Point.Y, n.OSMNodeID))
}

func shapeHashBytes(s Shape) []byte {
	return []byte(fmt.Sprintf("%s|%d|%s", s.ShapeID, len(s.Geometry.Points), s.RefShapeID))
}
