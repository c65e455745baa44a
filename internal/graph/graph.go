// Package graph holds the immutable road network the planner works on.
//
// A Graph is built once from a domain.GraphDescriptor. Every edge is stored
// on both endpoints, parallel edges are kept, and node kinds (regular, depot,
// gas station) are fixed at construction. After New returns, the graph is
// read-only and safe to share between goroutines.
package graph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrEmptyGraph     = errors.New("graph has no nodes")
	ErrNodeOutOfRange = errors.New("node id out of range")
	ErrInvalidEdge    = errors.New("invalid edge")
	ErrKindConflict   = errors.New("node has conflicting kinds")
	ErrNoDepots       = errors.New("no depot configured")
	ErrNoGasStations  = errors.New("no gas station configured")
)

// Arc is one direction of an undirected edge, as seen from its source node.
type Arc struct {
	To     int
	Weight int
}

type Graph struct {
	adj         [][]Arc
	kinds       []domain.NodeKind
	depots      []int
	gasStations []int
	edgeCount   int
	fingerprint string
}

// New validates the descriptor and builds the graph.
// Depots and gas stations must both be non-empty: route assembly cannot
// start without a depot or refuel without a station.
func New(desc domain.GraphDescriptor) (*Graph, error) {
	if desc.NodeCount <= 0 {
		return nil, fmt.Errorf("new graph: node_count=%d: %w", desc.NodeCount, ErrEmptyGraph)
	}
	if len(desc.Depots) == 0 {
		return nil, fmt.Errorf("new graph: %w", ErrNoDepots)
	}
	if len(desc.GasStations) == 0 {
		return nil, fmt.Errorf("new graph: %w", ErrNoGasStations)
	}

	g := &Graph{
		adj:         make([][]Arc, desc.NodeCount),
		kinds:       make([]domain.NodeKind, desc.NodeCount),
		depots:      make([]int, 0, len(desc.Depots)),
		gasStations: make([]int, 0, len(desc.GasStations)),
	}

	if err := g.markKind(desc.Depots, domain.KindDepot, &g.depots); err != nil {
		return nil, fmt.Errorf("new graph: depots: %w", err)
	}
	if err := g.markKind(desc.GasStations, domain.KindGasStation, &g.gasStations); err != nil {
		return nil, fmt.Errorf("new graph: gas stations: %w", err)
	}

	for i, e := range desc.Edges {
		if !g.Contains(e.A) || !g.Contains(e.B) {
			return nil, fmt.Errorf("new graph: edge #%d (%d, %d): %w", i+1, e.A, e.B, ErrNodeOutOfRange)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("new graph: edge #%d (%d, %d) weight=%d: %w", i+1, e.A, e.B, e.Weight, ErrInvalidEdge)
		}
		g.adj[e.A] = append(g.adj[e.A], Arc{To: e.B, Weight: e.Weight})
		if e.A != e.B {
			g.adj[e.B] = append(g.adj[e.B], Arc{To: e.A, Weight: e.Weight})
		}
		g.edgeCount++
	}

	g.fingerprint = fingerprint(desc)
	return g, nil
}

func (g *Graph) markKind(ids []int, kind domain.NodeKind, dst *[]int) error {
	for _, id := range ids {
		if !g.Contains(id) {
			return fmt.Errorf("node %d: %w", id, ErrNodeOutOfRange)
		}
		switch g.kinds[id] {
		case domain.KindRegular:
			g.kinds[id] = kind
			*dst = append(*dst, id)
		case kind:
			// Listed twice; keep the first occurrence.
		default:
			return fmt.Errorf("node %d is %s and %s: %w", id, g.kinds[id], kind, ErrKindConflict)
		}
	}
	return nil
}

func (g *Graph) NodeCount() int { return len(g.adj) }

// Number of undirected edges, parallel edges included.
func (g *Graph) EdgeCount() int { return g.edgeCount }

func (g *Graph) Contains(node int) bool { return node >= 0 && node < len(g.adj) }

// Neighbors returns the arcs leaving node. The slice must not be modified.
func (g *Graph) Neighbors(node int) []Arc {
	if !g.Contains(node) {
		return nil
	}
	return g.adj[node]
}

func (g *Graph) Kind(node int) domain.NodeKind {
	if !g.Contains(node) {
		return domain.KindRegular
	}
	return g.kinds[node]
}

// Depots in configuration order. Iteration order is the tie-break order.
func (g *Graph) Depots() []int { return append([]int(nil), g.depots...) }

// Gas stations in configuration order.
func (g *Graph) GasStations() []int { return append([]int(nil), g.gasStations...) }

// Fingerprint identifies the graph content. Two graphs built from the same
// descriptor share a fingerprint; it keys the distance matrix caches.
func (g *Graph) Fingerprint() string { return g.fingerprint }

func fingerprint(desc domain.GraphDescriptor) string {
	h := xxhash.New()
	var buf [8]byte
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}

	write(desc.NodeCount)
	write(len(desc.Depots))
	for _, d := range desc.Depots {
		write(d)
	}
	write(len(desc.GasStations))
	for _, s := range desc.GasStations {
		write(s)
	}
	write(len(desc.Edges))
	for _, e := range desc.Edges {
		write(e.A)
		write(e.B)
		write(e.Weight)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
