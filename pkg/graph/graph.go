// Package graph models the complete graph K_n whose edges remain to be
// assigned to clink rounds.
//
// The graph is stored as one bitset row per node, so the hot operations of
// the round search (edge tests, residual degrees, candidate intersection)
// are word-parallel. Nodes are identified by 1-based integers; edges are
// unordered pairs normalized so that A < B.
//
// A Graph starts as K_n and only ever shrinks: the solver removes each
// round's realized edges at the round boundary. Removing an edge that is
// not present is an internal consistency violation and reported as
// ErrEdgeNotFound.
package graph

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Sentinel errors for graph operations.
var (
	// ErrEdgeNotFound is returned by RemoveEdge and RemoveEdges when the
	// edge is absent from the remaining set. This indicates a bug in round
	// finalization, never a condition reachable from valid input.
	ErrEdgeNotFound = errors.New("graph: edge not in remaining set")

	// ErrInvalidNode is returned when a node identifier is outside 1..n.
	ErrInvalidNode = errors.New("graph: node out of range")

	// ErrInvalidOrder is returned by New and NewEmpty for n < 1.
	ErrInvalidOrder = errors.New("graph: order must be at least 1")
)

// Node identifies a participant, 1-based.
type Node int

// Edge is an unordered pair of distinct nodes with A < B.
type Edge struct {
	A, B Node
}

// NewEdge returns the normalized edge for the pair (a, b).
func NewEdge(a, b Node) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Less orders edges lexicographically by (A, B).
func (e Edge) Less(o Edge) bool {
	if e.A != o.A {
		return e.A < o.A
	}
	return e.B < o.B
}

// String returns the edge as "a-b".
func (e Edge) String() string { return fmt.Sprintf("%d-%d", e.A, e.B) }

// SortEdges sorts a slice of edges by (A, B) in place.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].Less(edges[j]) })
}

// Graph holds the remaining (unassigned) edges of a graph over nodes 1..n.
// The zero value is not usable - use New or NewEmpty.
// Graph is not safe for concurrent mutation without external
// synchronization; concurrent reads are safe.
type Graph struct {
	n     int
	words int
	rows  [][]uint64 // rows[i] is the neighbor bitset of node i (index 0 unused)
	edges int
}

// New creates the complete graph K_n with all C(n,2) edges remaining.
func New(n int) (*Graph, error) {
	g, err := NewEmpty(n)
	if err != nil {
		return nil, err
	}
	for a := 1; a <= n; a++ {
		for b := a + 1; b <= n; b++ {
			g.setBit(a, b)
			g.setBit(b, a)
			g.edges++
		}
	}
	return g, nil
}

// NewEmpty creates an edgeless graph over nodes 1..n.
// Edges are added with AddEdge; this is used by tests and the verifier to
// build arbitrary residual graphs.
func NewEmpty(n int) (*Graph, error) {
	if n < 1 {
		return nil, ErrInvalidOrder
	}
	words := (n + 1 + 63) / 64
	rows := make([][]uint64, n+1)
	backing := make([]uint64, (n+1)*words)
	for i := range rows {
		rows[i] = backing[i*words : (i+1)*words]
	}
	return &Graph{n: n, words: words, rows: rows}, nil
}

// Order returns n, the number of nodes the graph was created with.
func (g *Graph) Order() int { return g.n }

// EdgeCount returns the number of remaining edges.
func (g *Graph) EdgeCount() int { return g.edges }

// IsEmpty reports whether no edges remain.
func (g *Graph) IsEmpty() bool { return g.edges == 0 }

// HasEdge reports whether the edge {a, b} remains.
// Out-of-range nodes and self pairs report false.
func (g *Graph) HasEdge(a, b Node) bool {
	if !g.valid(a) || !g.valid(b) || a == b {
		return false
	}
	return g.rows[a][int(b)/64]&(1<<(uint(b)%64)) != 0
}

// Degree returns the residual degree of the node, the number of remaining
// edges incident to it. Out-of-range nodes have degree 0.
func (g *Graph) Degree(n Node) int {
	if !g.valid(n) {
		return 0
	}
	d := 0
	for _, w := range g.rows[n] {
		d += bits.OnesCount64(w)
	}
	return d
}

// MaxDegree returns the largest residual degree over all nodes.
func (g *Graph) MaxDegree() int {
	max := 0
	for i := 1; i <= g.n; i++ {
		if d := g.Degree(Node(i)); d > max {
			max = d
		}
	}
	return max
}

// AddEdge inserts the edge {a, b}. Adding a present edge is a no-op.
// Returns ErrInvalidNode for out-of-range or equal endpoints.
func (g *Graph) AddEdge(a, b Node) error {
	if !g.valid(a) || !g.valid(b) || a == b {
		return fmt.Errorf("%w: {%d,%d}", ErrInvalidNode, a, b)
	}
	if g.HasEdge(a, b) {
		return nil
	}
	g.setBit(int(a), int(b))
	g.setBit(int(b), int(a))
	g.edges++
	return nil
}

// RemoveEdge deletes the edge {a, b} from the remaining set.
// Returns ErrEdgeNotFound if the edge is absent.
func (g *Graph) RemoveEdge(a, b Node) error {
	if !g.HasEdge(a, b) {
		return fmt.Errorf("%w: {%d,%d}", ErrEdgeNotFound, a, b)
	}
	g.clearBit(int(a), int(b))
	g.clearBit(int(b), int(a))
	g.edges--
	return nil
}

// RemoveEdges deletes every edge in the slice. The removal is
// all-or-nothing: if any edge is absent the graph is left untouched and
// ErrEdgeNotFound is returned.
func (g *Graph) RemoveEdges(edges []Edge) error {
	for _, e := range edges {
		if !g.HasEdge(e.A, e.B) {
			return fmt.Errorf("%w: %s", ErrEdgeNotFound, e)
		}
	}
	for _, e := range edges {
		g.clearBit(int(e.A), int(e.B))
		g.clearBit(int(e.B), int(e.A))
		g.edges--
	}
	return nil
}

// RemainingEdges returns all remaining edges sorted by (A, B).
func (g *Graph) RemainingEdges() []Edge {
	out := make([]Edge, 0, g.edges)
	for a := 1; a <= g.n; a++ {
		g.eachNeighbor(Node(a), func(b Node) {
			if Node(a) < b {
				out = append(out, Edge{A: Node(a), B: b})
			}
		})
	}
	return out
}

// FirstEdge returns the lexicographically smallest remaining edge.
// The second return is false if the graph is empty.
func (g *Graph) FirstEdge() (Edge, bool) {
	for a := 1; a <= g.n; a++ {
		found := Node(0)
		g.eachNeighbor(Node(a), func(b Node) {
			if b > Node(a) && (found == 0 || b < found) {
				found = b
			}
		})
		if found != 0 {
			return Edge{A: Node(a), B: found}, true
		}
	}
	return Edge{}, false
}

// Neighbors returns the remaining neighbors of the node in ascending order.
func (g *Graph) Neighbors(n Node) []Node {
	if !g.valid(n) {
		return nil
	}
	var out []Node
	g.eachNeighbor(n, func(b Node) { out = append(out, b) })
	return out
}

// Candidates returns, in ascending order, the nodes adjacent to every node
// in required. With an empty required set it returns all nodes that still
// have at least one remaining edge.
func (g *Graph) Candidates(required []Node) []Node {
	if len(required) == 0 {
		var out []Node
		for i := 1; i <= g.n; i++ {
			if g.Degree(Node(i)) > 0 {
				out = append(out, Node(i))
			}
		}
		return out
	}
	acc := make([]uint64, g.words)
	if !g.valid(required[0]) {
		return nil
	}
	copy(acc, g.rows[required[0]])
	for _, r := range required[1:] {
		if !g.valid(r) {
			return nil
		}
		for i := range acc {
			acc[i] &= g.rows[r][i]
		}
	}
	var out []Node
	for i, w := range acc {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, Node(i*64+bit))
			w &= w - 1
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c, _ := NewEmpty(g.n)
	for i := 1; i <= g.n; i++ {
		copy(c.rows[i], g.rows[i])
	}
	c.edges = g.edges
	return c
}

// Signature returns a stable textual identity of the remaining edge set,
// used as the residual-graph part of memo keys. Two graphs over the same
// node labels have equal signatures exactly when their remaining edges are
// equal; no relabeling equivalence is applied.
func (g *Graph) Signature() string {
	var sb strings.Builder
	sb.Grow(g.edges*6 + 8)
	fmt.Fprintf(&sb, "n%d:", g.n)
	for _, e := range g.RemainingEdges() {
		sb.WriteString(e.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// DegreeSequence returns the residual degree sequence sorted descending.
func (g *Graph) DegreeSequence() []int {
	seq := make([]int, 0, g.n)
	for i := 1; i <= g.n; i++ {
		seq = append(seq, g.Degree(Node(i)))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(seq)))
	return seq
}

func (g *Graph) valid(n Node) bool { return n >= 1 && int(n) <= g.n }

func (g *Graph) setBit(a, b int)   { g.rows[a][b/64] |= 1 << (uint(b) % 64) }
func (g *Graph) clearBit(a, b int) { g.rows[a][b/64] &^= 1 << (uint(b) % 64) }

func (g *Graph) eachNeighbor(n Node, fn func(Node)) {
	for i, w := range g.rows[n] {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			fn(Node(i*64 + bit))
			w &= w - 1
		}
	}
}
