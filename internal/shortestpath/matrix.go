// Package shortestpath computes distances over a graph.Graph.
//
// AllPairs runs Floyd–Warshall once and returns a dense Matrix that is
// read-only afterwards. ShortestPath runs Dijkstra for a single source and
// target and reconstructs the node sequence. Both are deterministic.
package shortestpath

import (
	"errors"
	"fmt"
	"fuel-route-service/internal/graph"
	"math"
)

// Infinity marks an unreachable cell. It is never used in a sum.
const Infinity = math.MaxInt

// ErrUnreachable is returned when no path connects two nodes.
var ErrUnreachable = errors.New("node unreachable")

// ErrBadMatrix is returned when cached rows do not form a square matrix or
// do not describe shortest distances on the graph they are checked against.
var ErrBadMatrix = errors.New("malformed distance matrix")

// Matrix holds all-pairs shortest distances in a flat n*n arena.
type Matrix struct {
	n     int
	cells []int
}

// AllPairs computes the all-pairs shortest distance matrix of g.
//
// Direct edges seed the matrix with the smallest weight among parallel edges,
// the diagonal is zero and every other cell starts at Infinity. Relaxation
// skips any intermediate node that is unreachable on either side, so Infinity
// is never added. O(V^3) time, O(V^2) memory.
func AllPairs(g *graph.Graph) *Matrix {
	n := g.NodeCount()
	m := newMatrix(n)

	for i := 0; i < n; i++ {
		for _, a := range g.Neighbors(i) {
			if a.Weight < m.cells[i*n+a.To] {
				m.cells[i*n+a.To] = a.Weight
			}
		}
	}
	for i := 0; i < n; i++ {
		m.cells[i*n+i] = 0
	}

	for k := 0; k < n; k++ {
		rowK := m.cells[k*n : (k+1)*n]
		for i := 0; i < n; i++ {
			ik := m.cells[i*n+k]
			if ik == Infinity {
				continue
			}
			rowI := m.cells[i*n : (i+1)*n]
			for j, kj := range rowK {
				if kj == Infinity {
					continue
				}
				if d := ik + kj; d < rowI[j] {
					rowI[j] = d
				}
			}
		}
	}

	return m
}

func newMatrix(n int) *Matrix {
	cells := make([]int, n*n)
	for i := range cells {
		cells[i] = Infinity
	}
	return &Matrix{n: n, cells: cells}
}

// Size is the number of nodes the matrix covers.
func (m *Matrix) Size() int { return m.n }

// Distance returns the shortest distance from i to j and whether j is reachable.
func (m *Matrix) Distance(i, j int) (int, bool) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		return 0, false
	}
	d := m.cells[i*m.n+j]
	if d == Infinity {
		return 0, false
	}
	return d, true
}

// At returns the raw cell, Infinity when unreachable or out of range.
func (m *Matrix) At(i, j int) int {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		return Infinity
	}
	return m.cells[i*m.n+j]
}

func (m *Matrix) Reachable(i, j int) bool {
	_, ok := m.Distance(i, j)
	return ok
}

// Rows copies the matrix into row slices with -1 for unreachable cells.
// This is the form the matrix caches persist.
func (m *Matrix) Rows() [][]int {
	rows := make([][]int, m.n)
	for i := range rows {
		row := make([]int, m.n)
		for j := range row {
			d := m.cells[i*m.n+j]
			if d == Infinity {
				d = -1
			}
			row[j] = d
		}
		rows[i] = row
	}
	return rows
}

// FromRows rebuilds a Matrix from the output of Rows.
func FromRows(rows [][]int) (*Matrix, error) {
	n := len(rows)
	m := newMatrix(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("matrix from rows: row %d has %d cells, want %d: %w", i, len(row), n, ErrBadMatrix)
		}
		for j, d := range row {
			switch {
			case d == -1:
			case d < 0:
				return nil, fmt.Errorf("matrix from rows: cell (%d, %d)=%d: %w", i, j, d, ErrBadMatrix)
			default:
				m.cells[i*n+j] = d
			}
		}
	}
	return m, nil
}

// Check reports whether m can stand in for AllPairs(g): the sizes agree, every
// node is at distance 0 from itself, distances are symmetric and no cell
// exceeds the weight of a direct edge.
func (m *Matrix) Check(g *graph.Graph) error {
	if m.n != g.NodeCount() {
		return fmt.Errorf("check matrix: size %d, graph has %d nodes: %w", m.n, g.NodeCount(), ErrBadMatrix)
	}
	for i := 0; i < m.n; i++ {
		if d := m.cells[i*m.n+i]; d != 0 {
			return fmt.Errorf("check matrix: cell (%d, %d)=%d: %w", i, i, d, ErrBadMatrix)
		}
		for j := i + 1; j < m.n; j++ {
			if a, b := m.cells[i*m.n+j], m.cells[j*m.n+i]; a != b {
				return fmt.Errorf("check matrix: cell (%d, %d)=%d but (%d, %d)=%d: %w", i, j, a, j, i, b, ErrBadMatrix)
			}
		}
		for _, arc := range g.Neighbors(i) {
			if d := m.cells[i*m.n+arc.To]; d > arc.Weight {
				return fmt.Errorf("check matrix: cell (%d, %d)=%d exceeds edge weight %d: %w", i, arc.To, d, arc.Weight, ErrBadMatrix)
			}
		}
	}
	return nil
}
