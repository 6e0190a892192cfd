package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/table"
)

// CSVOptions selects and types the columns of a delimited file.
type CSVOptions struct {
	// Categories lists the grouping columns in tree order. When empty, every
	// column not listed in Measures is a category, in header order.
	Categories []string
	// Measures lists the numeric columns summed into every node.
	Measures []string
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// NullToken marks blank cells. When empty, no field is blank.
	NullToken string
}

// ReadCSV reads a delimited table with a header row from r.
//
// Every record must have as many fields as the header. Malformed input and
// records of the wrong width are reported with their line number. ReadCSV
// does not close r.
func ReadCSV(r io.Reader, opts CSVOptions) (*table.Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv input has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)

	plan, err := planColumns(header, opts.Categories, opts.Measures)
	if err != nil {
		return nil, err
	}

	t := plan.newTable(0)
	row := make([]any, len(header))
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed csv")
		}
		for i, field := range rec {
			if opts.NullToken != "" && field == opts.NullToken {
				row[i] = nil
			} else {
				row[i] = field
			}
		}
		plan.appendRow(t, row)
	}
	return t, nil
}

// ImportCSV reads a delimited table from the file at path.
func ImportCSV(path string, opts CSVOptions) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts)
}
