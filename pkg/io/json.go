package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/table"
)

// ReadJSON decodes a table from r.
//
// The input must be an object with a "categories" array and an optional
// "measures" array; each column has a "name" and a "values" array:
//
//	{
//	  "categories": [{"name": "region", "values": ["north", "south", null]}],
//	  "measures":   [{"name": "revenue", "values": [10, "12.5", 3]}]
//	}
//
// Numbers are decoded as json.Number so large integers keep their digits.
// Unknown top-level fields are rejected. The table is validated before it is
// returned. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var t table.Table
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode table")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ImportJSON reads a table from the JSON file at path.
func ImportJSON(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes t as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(w io.Writer, t *table.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return nil
}

// ExportJSON writes t as JSON to the file at path.
func ExportJSON(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
