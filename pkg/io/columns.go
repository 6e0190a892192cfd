package io

import (
	"slices"

	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/table"
)

// columnPlan maps source column positions onto table columns.
type columnPlan struct {
	categories []int
	measures   []int
	names      []string
}

// planColumns resolves category and measure names against the header. With no
// explicit categories, every header column that is not a measure is a
// category, in header order.
func planColumns(header, categories, measures []string) (columnPlan, error) {
	plan := columnPlan{names: header}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; dup {
			return plan, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", h)
		}
		index[h] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidInput, "unknown column %q", name)
		}
		return i, nil
	}

	for _, m := range measures {
		i, err := lookup(m)
		if err != nil {
			return plan, err
		}
		plan.measures = append(plan.measures, i)
	}

	if len(categories) == 0 {
		for i := range header {
			if !slices.Contains(plan.measures, i) {
				plan.categories = append(plan.categories, i)
			}
		}
		return plan, nil
	}

	for _, c := range categories {
		i, err := lookup(c)
		if err != nil {
			return plan, err
		}
		if slices.Contains(plan.measures, i) {
			return plan, errors.New(errors.ErrCodeInvalidInput, "column %q is both a category and a measure", c)
		}
		plan.categories = append(plan.categories, i)
	}
	return plan, nil
}

// newTable allocates the empty columns described by the plan.
func (p columnPlan) newTable(rows int) *table.Table {
	t := &table.Table{
		Categories: make([]table.CategoryColumn, len(p.categories)),
	}
	for j, i := range p.categories {
		t.Categories[j] = table.CategoryColumn{Name: p.names[i], Values: make([]any, 0, rows)}
	}
	if len(p.measures) > 0 {
		t.Measures = make([]table.MeasureColumn, len(p.measures))
		for j, i := range p.measures {
			t.Measures[j] = table.MeasureColumn{Name: p.names[i], Values: make([]any, 0, rows)}
		}
	}
	return t
}

// appendRow distributes one source record over the table columns.
func (p columnPlan) appendRow(t *table.Table, record []any) {
	for j, i := range p.categories {
		t.Categories[j].Values = append(t.Categories[j].Values, record[i])
	}
	for j, i := range p.measures {
		t.Measures[j].Values = append(t.Measures[j].Values, record[i])
	}
}
