package selection

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
	"github.com/wsp-sag/network-wrangler-sub001/roadway"
)

// pqItem is a node on the shortest-path frontier.
type pqItem struct {
	node int
	dist float64
	// seq is the item's insertion order; Less breaks equal-distance ties
	// by node id first and uses seq only between items for the same node.
	seq int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	if pq[i].node != pq[j].node {
		return pq[i].node < pq[j].node
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)        { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// WeightFunc assigns an edge weight to a directed link traversal, e.g.
// a DefaultSPWeightFactor-scaled weight for the teacher's sp_weight_col
// convention, or Distance for a plain shortest-path-by-distance query.
type WeightFunc func(roadway.Link) float64

// DefaultWeight weighs every traversal equally, giving a pure
// fewest-links shortest path.
func DefaultWeight(roadway.Link) float64 { return 1 }

// ShortestPath finds the lowest-weight node sequence from fromNode to
// toNode over links (treated as directed A->B, plus B->A since roadway
// links are drivable both ways within a subnet search), breaking ties
// deterministically by preferring the lower node id at each step so
// repeated runs over the same subnet return the same path.
func ShortestPath(links []roadway.Link, fromNode, toNode int, weight WeightFunc) ([]int, error) {
	if weight == nil {
		weight = DefaultWeight
	}
	adj := buildAdjacency(links)

	dist := map[int]float64{fromNode: 0}
	prev := map[int]int{}
	visited := map[int]bool{}

	pq := &priorityQueue{{node: fromNode, dist: 0, seq: 0}}
	heap.Init(pq)
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == toNode {
			break
		}

		neighbors := adj[cur.node]
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].to < neighbors[j].to })
		for _, e := range neighbors {
			if visited[e.to] {
				continue
			}
			nd := cur.dist + weight(e.link)
			if existing, ok := dist[e.to]; !ok || nd < existing {
				dist[e.to] = nd
				prev[e.to] = cur.node
				heap.Push(pq, pqItem{node: e.to, dist: nd, seq: seq})
				seq++
			}
		}
	}

	if !visited[toNode] {
		return nil, fmt.Errorf("%w: no path from node %d to node %d", errs.ErrSegmentSelection, fromNode, toNode)
	}

	path := []int{toNode}
	for path[len(path)-1] != fromNode {
		n, ok := prev[path[len(path)-1]]
		if !ok {
			return nil, fmt.Errorf("%w: path reconstruction failed from %d to %d", errs.ErrSegmentSelection, fromNode, toNode)
		}
		path = append(path, n)
	}
	reverse(path)
	return path, nil
}

type edge struct {
	to   int
	link roadway.Link
}

func buildAdjacency(links []roadway.Link) map[int][]edge {
	adj := map[int][]edge{}
	for _, l := range links {
		adj[l.A] = append(adj[l.A], edge{to: l.B, link: l})
		adj[l.B] = append(adj[l.B], edge{to: l.A, link: l})
	}
	return adj
}

func reverse(ids []int) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// SelectSegment resolves a named-segment selection (spec §6.1's
// "shortest path within a modally-filtered subnet" facility type):
// filter candidatePool to modes, seed a subnet from initialLinks, grow
// it until it spans fromNode and toNode, then shortest-path between
// them over the grown subnet.
func SelectSegment(candidatePool []roadway.Link, modes []string, initialLinks []roadway.Link, fromNode, toNode int, weight WeightFunc) ([]roadway.Link, error) {
	modal := roadway.FilterLinksToModes(candidatePool, modes)
	subnet, err := GenerateSubnetFromLinkSelection(modal, initialLinks, DefaultMaxSearchBreadth)
	if err != nil {
		return nil, err
	}
	if err := subnet.ExpandToNodes([]int{fromNode, toNode}); err != nil {
		return nil, err
	}
	path, err := ShortestPath(subnet.Links(), fromNode, toNode, weight)
	if err != nil {
		return nil, err
	}
	return roadway.FilterLinksToPath(subnet.Links(), path, false)
}
