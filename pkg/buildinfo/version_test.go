package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{"unstamped", Info{"dev", "none", "unknown"}, Info{"v0.3.1", "abc123", "2026-01-02T03:04:05Z"}},
		{"stamped", Info{"v1.0.0", "deadbeef", "today"}, Info{"v1.0.0", "deadbeef", "today"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fill(tt.in, bi); got != tt.want {
				t.Errorf("fill() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFillDevelModule(t *testing.T) {
	got := fill(Info{"dev", "none", "unknown"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != "dev" {
		t.Errorf("Version = %q, want dev", got.Version)
	}
}

func TestTemplate(t *testing.T) {
	if s := Template(); !strings.HasPrefix(s, "{{.Name}} version ") {
		t.Errorf("Template() = %q", s)
	}
	if s := String(); !strings.Contains(s, "commit: ") {
		t.Errorf("String() = %q", s)
	}
}
