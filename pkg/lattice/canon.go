package lattice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/prost/pkg/graph"
)

// Canonical returns the canonical representative of a set of occupied
// positions under the lattice's twelve-element symmetry group (six
// rotations composed with an optional reflection) and translation.
//
// Each of the twelve images is translated so its bounding-box corner sits
// at the origin, then sorted in (R, Q) order; the lexicographically
// smallest sequence wins. Applying Canonical to its own output returns the
// same sequence, and any two rotated, reflected or translated copies of a
// configuration share one canonical form.
func Canonical(positions []Position) []Position {
	if len(positions) == 0 {
		return nil
	}

	best := normalize(positions)
	image := append([]Position(nil), positions...)
	for flip := 0; flip < 2; flip++ {
		for rot := 0; rot < 6; rot++ {
			cand := normalize(image)
			if seqLess(cand, best) {
				best = cand
			}
			for i := range image {
				image[i] = image[i].rotate60()
			}
		}
		for i := range image {
			image[i] = image[i].reflect()
		}
	}
	return best
}

// CanonicalSequenceString renders a position sequence as "q,r;q,r;...".
func CanonicalSequenceString(positions []Position) string {
	var sb strings.Builder
	sb.Grow(len(positions) * 8)
	for _, p := range positions {
		fmt.Fprintf(&sb, "%d,%d;", p.Q, p.R)
	}
	return sb.String()
}

// CanonicalStateKey serializes the canonical form of a labeled placement:
// the node-to-position assignment up to rotation, reflection and
// translation. Two states share a key exactly when one is a rigid image of
// the other with the same nodes on corresponding positions, in which case
// their legal continuations correspond one to one.
func CanonicalStateKey(s *State) string {
	nodes := s.Nodes()
	if len(nodes) == 0 {
		return ""
	}
	image := make([]labeled, len(nodes))
	for i, n := range nodes {
		p, _ := s.Position(n)
		image[i] = labeled{pos: p, node: n}
	}

	var best []labeled
	for flip := 0; flip < 2; flip++ {
		for rot := 0; rot < 6; rot++ {
			cand := normalizeLabeled(image)
			if best == nil || labeledLess(cand, best) {
				best = cand
			}
			for i := range image {
				image[i].pos = image[i].pos.rotate60()
			}
		}
		for i := range image {
			image[i].pos = image[i].pos.reflect()
		}
	}

	var sb strings.Builder
	sb.Grow(len(best) * 10)
	for _, l := range best {
		fmt.Fprintf(&sb, "%d,%d=%d;", l.pos.Q, l.pos.R, l.node)
	}
	return sb.String()
}

type labeled struct {
	pos  Position
	node graph.Node
}

func normalizeLabeled(in []labeled) []labeled {
	minQ, minR := in[0].pos.Q, in[0].pos.R
	for _, l := range in[1:] {
		if l.pos.Q < minQ {
			minQ = l.pos.Q
		}
		if l.pos.R < minR {
			minR = l.pos.R
		}
	}
	out := make([]labeled, len(in))
	for i, l := range in {
		out[i] = labeled{pos: Position{Q: l.pos.Q - minQ, R: l.pos.R - minR}, node: l.node}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].pos != out[j].pos {
			return out[i].pos.Less(out[j].pos)
		}
		return out[i].node < out[j].node
	})
	return out
}

func labeledLess(a, b []labeled) bool {
	for i := range a {
		if a[i].pos != b[i].pos {
			return a[i].pos.Less(b[i].pos)
		}
		if a[i].node != b[i].node {
			return a[i].node < b[i].node
		}
	}
	return false
}

// normalize translates the positions so the minimum Q and minimum R are
// zero and returns them sorted in (R, Q) order. Translating by a lattice
// vector is rigid, keeps coordinates integral, and makes the result a
// fixed point of repeated normalization.
func normalize(positions []Position) []Position {
	minQ, minR := positions[0].Q, positions[0].R
	for _, p := range positions[1:] {
		if p.Q < minQ {
			minQ = p.Q
		}
		if p.R < minR {
			minR = p.R
		}
	}
	out := make([]Position, len(positions))
	for i, p := range positions {
		out[i] = Position{Q: p.Q - minQ, R: p.R - minR}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// seqLess compares two equal-length sorted position sequences
// lexicographically.
func seqLess(a, b []Position) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i].Less(b[i])
		}
	}
	return false
}
