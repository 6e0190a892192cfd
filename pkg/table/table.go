package table

import (
	"github.com/matzehuels/drilltree/pkg/errors"
)

// CategoryColumn is a grouping column. Each distinct value becomes a node at
// the column's depth in the tree.
type CategoryColumn struct {
	Name   string `json:"name" msgpack:"name"`
	Values []any  `json:"values" msgpack:"values"`
}

// MeasureColumn is a numeric column summed bottom-up into every ancestor.
type MeasureColumn struct {
	Name   string `json:"name" msgpack:"name"`
	Values []any  `json:"values" msgpack:"values"`
}

// Table is the rectangular input of a tree build. Columns are aligned by row
// index; [Table.Validate] rejects ragged tables.
//
// The zero value is an empty table with no categories, which builds no tree.
type Table struct {
	Categories []CategoryColumn `json:"categories" msgpack:"categories"`
	Measures   []MeasureColumn  `json:"measures,omitempty" msgpack:"measures"`
}

// AddCategory appends a grouping column and returns the table for chaining.
func (t *Table) AddCategory(name string, values ...any) *Table {
	t.Categories = append(t.Categories, CategoryColumn{Name: name, Values: values})
	return t
}

// AddMeasure appends a measure column and returns the table for chaining.
func (t *Table) AddMeasure(name string, values ...any) *Table {
	t.Measures = append(t.Measures, MeasureColumn{Name: name, Values: values})
	return t
}

// RowCount returns the number of rows, taken from the first category column.
// A table without categories has no rows.
func (t *Table) RowCount() int {
	if t == nil || len(t.Categories) == 0 {
		return 0
	}
	return len(t.Categories[0].Values)
}

// HasCategories reports whether the table can produce a tree at all.
func (t *Table) HasCategories() bool {
	return t != nil && len(t.Categories) > 0
}

// CategoryNames returns the display names of the grouping columns in order.
func (t *Table) CategoryNames() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// MeasureNames returns the display names of the measure columns in order.
func (t *Table) MeasureNames() []string {
	names := make([]string, len(t.Measures))
	for i, m := range t.Measures {
		names[i] = m.Name
	}
	return names
}

// Measure returns the parsed value of measure m at row i.
func (t *Table) Measure(m, i int) float64 {
	return ParseNumber(t.Measures[m].Values[i])
}

// Category returns the normalized value of category column c at row i.
func (t *Table) Category(c, i int) Value {
	return Normalize(t.Categories[c].Values[i])
}

// Validate checks that every column has a valid, unique name and that all
// columns hold exactly RowCount values.
func (t *Table) Validate() error {
	if t == nil {
		return errors.New(errors.ErrCodeInvalidTable, "table is nil")
	}
	names := append(t.CategoryNames(), t.MeasureNames()...)
	if err := errors.ValidateColumnNames(names); err != nil {
		return err
	}

	rows := t.RowCount()
	for _, c := range t.Categories {
		if len(c.Values) != rows {
			return errors.New(errors.ErrCodeInvalidTable,
				"category column %q has %d values, want %d", c.Name, len(c.Values), rows)
		}
	}
	for _, m := range t.Measures {
		if len(m.Values) != rows {
			return errors.New(errors.ErrCodeInvalidTable,
				"measure column %q has %d values, want %d", m.Name, len(m.Values), rows)
		}
	}
	return nil
}
