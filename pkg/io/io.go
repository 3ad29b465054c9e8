// Package io reads and writes decompositions as JSON documents.
//
// The document wraps the decomposition with a format version so older
// files fail loudly instead of decoding into garbage. Imported documents
// are structurally validated before being returned.
package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/solve"
)

// FormatVersion identifies the on-disk document layout.
const FormatVersion = 1

type document struct {
	Version       int                  `json:"version"`
	Decomposition *solve.Decomposition `json:"decomposition"`
}

// WriteJSON encodes a decomposition as JSON and writes it to w. The output
// can be re-imported with [ReadJSON].
func WriteJSON(d *solve.Decomposition, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Version: FormatVersion, Decomposition: d}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a decomposition from r and validates it.
func ReadJSON(r io.Reader) (*solve.Decomposition, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode decomposition")
	}
	if doc.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format version %d (want %d)", doc.Version, FormatVersion)
	}
	if doc.Decomposition == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "document has no decomposition")
	}
	if err := doc.Decomposition.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "imported decomposition is inconsistent")
	}
	return doc.Decomposition, nil
}

// ExportJSON writes a decomposition to a JSON file at path.
func ExportJSON(d *solve.Decomposition, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ImportJSON reads a decomposition from a JSON file at path.
func ImportJSON(path string) (*solve.Decomposition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
