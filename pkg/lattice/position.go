// Package lattice models placements of clink participants on the infinite
// triangular lattice.
//
// Positions use axial coordinates with the two axes squished to 60 degrees,
// so every position has exactly six unit neighbors. A State is one
// in-progress or finished round: a bijection from nodes to positions plus
// the set of edges the round realizes. The Validator decides whether a node
// may occupy a position given the current partial round and the remaining
// graph, and Canonical collapses rotation/reflection/translation-equivalent
// configurations to one representative for memoization.
package lattice

// Position is an axial coordinate (Q, R) on the triangular lattice.
type Position struct {
	Q, R int
}

// Direction indexes one of the six lattice neighbors, counterclockwise
// starting at Right.
type Direction uint8

// The six lattice directions.
const (
	Right Direction = iota
	TopRight
	TopLeft
	Left
	BottomLeft
	BottomRight
)

// offsets maps each direction to its axial delta.
var offsets = [6]Position{
	{1, 0},   // Right
	{0, 1},   // TopRight
	{-1, 1},  // TopLeft
	{-1, 0},  // Left
	{0, -1},  // BottomLeft
	{1, -1},  // BottomRight
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return (d + 3) % 6 }

// RotateCW returns the direction one step clockwise.
func (d Direction) RotateCW() Direction { return (d + 5) % 6 }

// RotateCCW returns the direction one step counterclockwise.
func (d Direction) RotateCCW() Direction { return (d + 1) % 6 }

// Offset returns the axial delta of the direction.
func (d Direction) Offset() Position { return offsets[d] }

// Neighbor returns the adjacent position in the given direction.
func (p Position) Neighbor(d Direction) Position {
	o := offsets[d]
	return Position{Q: p.Q + o.Q, R: p.R + o.R}
}

// Neighbors returns all six adjacent positions in direction order.
func (p Position) Neighbors() [6]Position {
	var out [6]Position
	for d := range out {
		out[d] = p.Neighbor(Direction(d))
	}
	return out
}

// Adjacent reports whether two positions are at unit lattice distance.
func (p Position) Adjacent(o Position) bool {
	dq, dr := o.Q-p.Q, o.R-p.R
	for _, off := range offsets {
		if off.Q == dq && off.R == dr {
			return true
		}
	}
	return false
}

// Less orders positions by (R, Q). This is the deterministic scan order
// used for frontiers and canonical sequences.
func (p Position) Less(o Position) bool {
	if p.R != o.R {
		return p.R < o.R
	}
	return p.Q < o.Q
}

// rotate60 returns the position rotated 60 degrees counterclockwise about
// the origin: (q, r) -> (-r, q+r).
func (p Position) rotate60() Position {
	return Position{Q: -p.R, R: p.Q + p.R}
}

// reflect returns the position mirrored across the Q=R diagonal. Combined
// with the six rotations this generates the full twelve-element symmetry
// group of the lattice.
func (p Position) reflect() Position {
	return Position{Q: p.R, R: p.Q}
}
