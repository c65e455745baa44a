package shortestpath

import (
	"container/heap"
	"fmt"
	"fuel-route-service/internal/graph"
	"slices"
)

// noPredecessor marks a node that was never reached from the source.
const noPredecessor = -1

// Path is an ordered node sequence from source to target, both inclusive.
type Path struct {
	Nodes    []int
	Distance int
}

// Edges is the number of hops along the path.
func (p Path) Edges() int {
	if len(p.Nodes) == 0 {
		return 0
	}
	return len(p.Nodes) - 1
}

// ShortestPath runs Dijkstra from src and reconstructs the path to dst.
//
// Each call owns its working state, so concurrent calls on the same graph
// are safe. Frontier ties are broken by insertion order. If dst cannot be
// reached the call returns ErrUnreachable instead of a partial path.
func ShortestPath(g *graph.Graph, src, dst int) (Path, error) {
	if !g.Contains(src) || !g.Contains(dst) {
		return Path{}, fmt.Errorf("shortest path %d -> %d: %w", src, dst, graph.ErrNodeOutOfRange)
	}
	if src == dst {
		return Path{Nodes: []int{src}}, nil
	}

	n := g.NodeCount()
	dist := make([]int, n)
	pred := make([]int, n)
	for i := range dist {
		dist[i] = Infinity
		pred[i] = noPredecessor
	}
	dist[src] = 0

	pq := &frontier{}
	var seq int
	heap.Push(pq, entry{node: src, dist: 0, seq: seq})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(entry)
		if cur.dist > dist[cur.node] {
			continue
		}
		if cur.node == dst {
			break
		}

		for _, a := range g.Neighbors(cur.node) {
			nd := cur.dist + a.Weight
			if nd < dist[a.To] {
				dist[a.To] = nd
				pred[a.To] = cur.node
				seq++
				heap.Push(pq, entry{node: a.To, dist: nd, seq: seq})
			}
		}
	}

	if dist[dst] == Infinity {
		return Path{}, fmt.Errorf("shortest path %d -> %d: %w", src, dst, ErrUnreachable)
	}

	nodes := []int{dst}
	for node := dst; node != src; {
		p := pred[node]
		if p == noPredecessor {
			return Path{}, fmt.Errorf("shortest path %d -> %d: broken predecessor at %d: %w", src, dst, node, ErrUnreachable)
		}
		nodes = append(nodes, p)
		node = p
	}
	slices.Reverse(nodes)

	return Path{Nodes: nodes, Distance: dist[dst]}, nil
}

type entry struct {
	node int
	dist int
	seq  int
}

// frontier is a min-heap of entries keyed by (dist, seq).
type frontier []entry

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(entry)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
