package lattice

import (
	"reflect"
	"testing"

	"github.com/matzehuels/prost/pkg/graph"
)

// transform applies an optional reflection, k 60-degree rotations, and a
// translation to a copy of ps.
func transform(ps []Position, rotations int, reflected bool, dq, dr int) []Position {
	out := append([]Position(nil), ps...)
	for i := range out {
		if reflected {
			out[i] = out[i].reflect()
		}
		for r := 0; r < rotations; r++ {
			out[i] = out[i].rotate60()
		}
		out[i] = Position{Q: out[i].Q + dq, R: out[i].R + dr}
	}
	return out
}

func TestCanonicalIdempotent(t *testing.T) {
	shapes := [][]Position{
		{{0, 0}},
		{{0, 0}, {1, 0}},
		{{0, 0}, {1, 0}, {0, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, -1}},
		{{2, -3}, {3, -3}, {2, -2}, {4, -3}},
	}
	for _, ps := range shapes {
		once := Canonical(ps)
		twice := Canonical(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Canonical not idempotent for %v: %v vs %v", ps, once, twice)
		}
	}
}

func TestCanonicalCollapsesSymmetries(t *testing.T) {
	base := []Position{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, -1}}
	want := Canonical(base)

	tests := []struct {
		name      string
		rotations int
		reflected bool
		dq, dr    int
	}{
		{name: "Identity", rotations: 0},
		{name: "Rot60", rotations: 1},
		{name: "Rot180", rotations: 3},
		{name: "Rot300", rotations: 5},
		{name: "Reflected", reflected: true},
		{name: "ReflectedRot120", reflected: true, rotations: 2},
		{name: "Translated", dq: -7, dr: 11},
		{name: "Everything", rotations: 4, reflected: true, dq: 3, dr: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := transform(base, tt.rotations, tt.reflected, tt.dq, tt.dr)
			if got := Canonical(img); !reflect.DeepEqual(got, want) {
				t.Errorf("Canonical(%s) = %v, want %v", tt.name, got, want)
			}
		})
	}
}

func TestCanonicalDistinguishesShapes(t *testing.T) {
	line := []Position{{0, 0}, {1, 0}, {2, 0}}
	bent := []Position{{0, 0}, {1, 0}, {1, 1}}
	triangle := []Position{{0, 0}, {1, 0}, {0, 1}}

	a := CanonicalSequenceString(Canonical(line))
	b := CanonicalSequenceString(Canonical(bent))
	c := CanonicalSequenceString(Canonical(triangle))
	if a == b || b == c || a == c {
		t.Errorf("distinct shapes share a canonical form: %q %q %q", a, b, c)
	}
}

func TestCanonicalEmpty(t *testing.T) {
	if got := Canonical(nil); got != nil {
		t.Errorf("Canonical(nil) = %v, want nil", got)
	}
}

func TestCanonicalOfPlacedState(t *testing.T) {
	g, err := graph.New(3)
	if err != nil {
		t.Fatalf("graph.New(3): %v", err)
	}
	v := Validator{}
	s := NewState()
	// Build the triangle at an offset; its occupied shape must share the
	// canonical form of the triangle at the origin.
	for _, pl := range []struct {
		n graph.Node
		p Position
	}{
		{1, Position{Q: 4, R: -2}},
		{2, Position{Q: 5, R: -2}},
		{3, Position{Q: 4, R: -1}},
	} {
		if _, err := v.Place(pl.n, pl.p, s, g); err != nil {
			t.Fatalf("Place(%d): %v", pl.n, err)
		}
	}

	got := Canonical(s.Positions())
	want := Canonical([]Position{{0, 0}, {1, 0}, {0, 1}})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Canonical(state positions) = %v, want %v", got, want)
	}
}
