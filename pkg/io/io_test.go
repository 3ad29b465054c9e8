package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/solve"
)

func testDecomposition(t *testing.T) *solve.Decomposition {
	t.Helper()
	s, err := solve.New(solve.Options{Mode: solve.ModeAStar})
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.Decompose(context.Background(), 4)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRoundTrip(t *testing.T) {
	d := testDecomposition(t)

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.N != d.N || got.RoundCount() != d.RoundCount() || got.TimeStepCount() != d.TimeStepCount() {
		t.Errorf("round trip changed shape: got n=%d rounds=%d steps=%d", got.N, got.RoundCount(), got.TimeStepCount())
	}
}

func TestFileRoundTrip(t *testing.T) {
	d := testDecomposition(t)
	path := filepath.Join(t.TempDir(), "k4.json")
	if err := ExportJSON(d, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.RoundCount() != d.RoundCount() {
		t.Errorf("rounds = %d, want %d", got.RoundCount(), d.RoundCount())
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "clink"},
		{"wrong version", `{"version": 99, "decomposition": {"n": 3}}`},
		{"missing decomposition", `{"version": 1}`},
		{"inconsistent rounds", `{"version": 1, "decomposition": {"n": 3, "rounds": [], "exact": true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
