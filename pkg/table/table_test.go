package table

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/drilltree/pkg/errors"
)

func TestNormalize(t *testing.T) {
	var nilStr *string
	s := "ptr"
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Value{Kind: KindBlank}},
		{"empty string", "", Value{Kind: KindEmpty}},
		{"string", "x", Value{Text: "x"}},
		{"literal blank label", BlankLabel, Value{Text: BlankLabel}},
		{"bytes", []byte("raw"), Value{Text: "raw"}},
		{"nil pointer", nilStr, Value{Kind: KindBlank}},
		{"pointer", &s, Value{Text: "ptr"}},
		{"int", 42, Value{Text: "42"}},
		{"int64", int64(-7), Value{Text: "-7"}},
		{"float", 1.5, Value{Text: "1.5"}},
		{"whole float", 3.0, Value{Text: "3"}},
		{"bool", true, Value{Text: "true"}},
		{"time", ts, Value{Text: "2024-03-01T12:00:00Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueLabel(t *testing.T) {
	if got := (Value{Kind: KindBlank}).Label(); got != BlankLabel {
		t.Errorf("blank label = %q", got)
	}
	if got := (Value{Kind: KindEmpty}).Label(); got != EmptyLabel {
		t.Errorf("empty label = %q", got)
	}
	if got := (Value{Text: "x"}).Label(); got != "x" {
		t.Errorf("text label = %q", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{12, 12},
		{int64(3), 3},
		{2.5, 2.5},
		{float32(0.5), 0.5},
		{" 7.25 ", 7.25},
		{"1e3", 1000},
		{"abc", 0},
		{"", 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{"NaN", 0},
		{true, 1},
		{[]byte("9"), 9},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tbl     *Table
		wantErr bool
	}{
		{"empty", &Table{}, false},
		{"aligned", (&Table{}).AddCategory("a", 1, 2).AddMeasure("m", 1, 2), false},
		{"ragged category", (&Table{}).AddCategory("a", 1, 2).AddCategory("b", 1), true},
		{"ragged measure", (&Table{}).AddCategory("a", 1, 2).AddMeasure("m", 1, 2, 3), true},
		{"blank name", (&Table{}).AddCategory(" ", 1), true},
		{"duplicate name", (&Table{}).AddCategory("a", 1).AddMeasure("a", 1), true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tbl.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidTable) {
				t.Errorf("Validate() code = %s, want INVALID_TABLE", errors.GetCode(err))
			}
		})
	}
}

func TestRowCountAndNames(t *testing.T) {
	tbl := (&Table{}).AddCategory("a", "x", "y", "z").AddMeasure("m", 1, 2, 3)
	if tbl.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", tbl.RowCount())
	}
	if got := tbl.CategoryNames(); len(got) != 1 || got[0] != "a" {
		t.Errorf("CategoryNames() = %v", got)
	}
	if got := tbl.MeasureNames(); len(got) != 1 || got[0] != "m" {
		t.Errorf("MeasureNames() = %v", got)
	}
	if (&Table{}).RowCount() != 0 {
		t.Error("empty table has rows")
	}
}

func TestFingerprint(t *testing.T) {
	build := func(name string, vals ...any) *Table {
		return (&Table{}).AddCategory(name, vals...).AddMeasure("m", 1, 2)
	}

	a, err := build("c", "x", nil).Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	b, _ := build("c", "x", nil).Fingerprint()
	if a != b {
		t.Errorf("equal tables hash differently: %x vs %x", a, b)
	}

	for name, other := range map[string]*Table{
		"renamed column": build("d", "x", nil),
		"blank vs empty": build("c", "x", ""),
		"changed value":  build("c", "y", nil),
	} {
		h, _ := other.Fingerprint()
		if h == a {
			t.Errorf("%s: fingerprint unchanged", name)
		}
	}
}
