package cli

import (
	"strings"
	"testing"
)

func TestPrintTree(t *testing.T) {
	v := regionsVisual(t)
	if err := v.ExpandRequested(v.Tree().Find("a")); err != nil {
		t.Fatal(err)
	}
	l, ok := v.Layout()
	if !ok {
		t.Fatal("no layout")
	}

	out := printTree(l)
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "Total 53") {
		t.Errorf("root line = %q, want Total 53", lines[0])
	}
	for _, want := range []string{"a1", "a2", "b 15", "+ 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "18.9 | 50.0 %") {
		t.Errorf("nested share missing:\n%s", out)
	}
}
