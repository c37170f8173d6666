package roadway

import (
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/geometry"
	"github.com/wsp-sag/network-wrangler-sub001/scope"
	"github.com/wsp-sag/network-wrangler-sub001/table"
)

// Network is the roadway half of a scenario's network: links, nodes,
// and shapes plus the foreign-key graph between them (A/B -> node,
// shape_id -> shape), matching spec §4.1/§4.3's roadway table DB.
type Network struct {
	Links  *table.Table[Link]
	Nodes  *table.Table[Node]
	Shapes *table.Table[Shape]
}

// NewNetwork builds an empty roadway network with schema-validated
// tables registered.
func NewNetwork() *Network {
	return &Network{
		Links: table.New("links", table.Schema[Link]{
			Validate:  validateLink,
			Key:       linkKey,
			HashBytes: linkHashBytes,
		}),
		Nodes: table.New("nodes", table.Schema[Node]{
			Validate:  validateNode,
			Key:       nodeKey,
			HashBytes: nodeHashBytes,
		}),
		Shapes: table.New("shapes", table.Schema[Shape]{
			Validate:  validateShape,
			Key:       shapeKey,
			HashBytes: shapeHashBytes,
		}),
	}
}

// AssignTables loads the three tables wholesale, as from a CSV ingest.
func (n *Network) AssignTables(links []Link, nodes []Node, shapes []Shape) error {
	if err := n.Nodes.Assign(nodes); err != nil {
		return err
	}
	if err := n.Shapes.Assign(shapes); err != nil {
		return err
	}
	if err := n.Links.Assign(links); err != nil {
		return err
	}
	return n.ValidateForeignKeys()
}

// ValidateForeignKeys runs spec §4.3 steps 3-4 across the roadway
// table DB: every link's A/B must reference an existing node (error on
// a missing value; the node table itself is always present here so
// there is no skip case), and every shape_id/ML_shape_id referenced by
// a link must exist in shapes (shapes table is optional content-wise,
// so a link carrying no shape_id is fine; an empty shapes table with
// links that do reference shape ids is still an error, not a skip,
// since Shapes is always present as a Network field).
func (n *Network) ValidateForeignKeys() error {
	nodeKeys := table.KeySet(n.Nodes.Keys())
	shapeKeys := table.KeySet(n.Shapes.Keys())

	var aIDs, bIDs, shapeIDs []string
	for _, l := range n.Links.All() {
		aIDs = append(aIDs, fmt.Sprintf("%d", l.A))
		bIDs = append(bIDs, fmt.Sprintf("%d", l.B))
		if l.ShapeID != "" {
			shapeIDs = append(shapeIDs, l.ShapeID)
		}
		if l.MLShapeID != "" {
			shapeIDs = append(shapeIDs, l.MLShapeID)
		}
	}
	if _, err := table.CheckForeignKey("links", "A", aIDs, nodeKeys, true); err != nil {
		return err
	}
	if _, err := table.CheckForeignKey("links", "B", bIDs, nodeKeys, true); err != nil {
		return err
	}
	if _, err := table.CheckForeignKey("links", "shape_id", shapeIDs, shapeKeys, true); err != nil {
		return err
	}

	referencedNodes := map[string]bool{}
	for _, id := range append(aIDs, bIDs...) {
		referencedNodes[id] = true
	}
	referencedKeys := make([]string, 0, len(referencedNodes))
	for k := range referencedNodes {
		referencedKeys = append(referencedKeys, k)
	}
	if err := table.CheckReverseForeignKey("nodes", referencedKeys, nodeKeys); err != nil {
		return err
	}
	return nil
}

// Hash returns the database-level content hash over Nodes, Shapes,
// Links in that declaration order, per spec §4.3 step 5.
func (n *Network) Hash() uint64 {
	return table.CombineHashes([]uint64{n.Nodes.Hash(), n.Shapes.Hash(), n.Links.Hash()})
}

// DeepCopy returns an independent Network, used by scenario application
// (C10) to build-then-commit without mutating the base network on
// failure.
func (n *Network) DeepCopy() *Network {
	return &Network{
		Links:  n.Links.DeepCopyWith(cloneLink),
		Nodes:  n.Nodes.DeepCopyWith(cloneNode),
		Shapes: n.Shapes.DeepCopy(),
	}
}

func cloneLink(l Link) Link {
	cp := l
	cp.ScLanes = append([]scope.Item(nil), l.ScLanes...)
	cp.ScPrice = append([]scope.Item(nil), l.ScPrice...)
	cp.ScMLLanes = append([]scope.Item(nil), l.ScMLLanes...)
	cp.ScMLPrice = append([]scope.Item(nil), l.ScMLPrice...)
	cp.ScMLAccess = append([]scope.Item(nil), l.ScMLAccess...)
	if l.MLLanes != nil {
		v := *l.MLLanes
		cp.MLLanes = &v
	}
	if l.MLPrice != nil {
		v := *l.MLPrice
		cp.MLPrice = &v
	}
	if l.MLAccess != nil {
		v := *l.MLAccess
		cp.MLAccess = &v
	}
	if l.GP_A != nil {
		v := *l.GP_A
		cp.GP_A = &v
	}
	if l.GP_B != nil {
		v := *l.GP_B
		cp.GP_B = &v
	}
	if l.MLGeometry != nil {
		g := *l.MLGeometry
		g.Points = append([]geometry.Point(nil), l.MLGeometry.Points...)
		cp.MLGeometry = &g
	}
	return cp
}

func cloneNode(n Node) Node {
	cp := n
	cp.InboundReferenceIDs = append([]string(nil), n.InboundReferenceIDs...)
	cp.OutboundReferenceIDs = append([]string(nil), n.OutboundReferenceIDs...)
	return cp
}

// NodeByID is a convenience lookup returning errs.ErrNodeNotFound on
// miss, used by editors that need the full row rather than a bool.
func (n *Network) NodeByID(id int) (Node, error) {
	row, ok := n.Nodes.Get(fmt.Sprintf("%d", id))
	if !ok {
		return Node{}, fmt.Errorf("%w: %d", errs.ErrNodeNotFound, id)
	}
	return row, nil
}

// LinkByID is the link analog of NodeByID.
func (n *Network) LinkByID(id int) (Link, error) {
	row, ok := n.Links.Get(fmt.Sprintf("%d", id))
	if !ok {
		return Link{}, fmt.Errorf("%w: %d", errs.ErrLinkNotFound, id)
	}
	return row, nil
}
