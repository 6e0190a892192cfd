// Package config defines the settings record that drives a drill-down view.
//
// Settings come from three places, all producing the same immutable
// [Settings] value:
//
//   - [Default] for the built-in values
//   - [Load] for a TOML settings file
//   - [FromMap] for a loosely typed settings bag supplied by a host, such as
//     the query parameters or JSON body of an HTTP request
//
// Unknown keys are rejected in both file and bag form so typos surface as
// INVALID_SETTINGS errors instead of being silently ignored.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/layout"
	"github.com/matzehuels/drilltree/pkg/tree"
)

// Default values.
const (
	DefaultShowMeasure      = true
	DefaultBranchLimit      = drill.DefaultBranchLimit
	DefaultDrillIntoBlank   = true
	DefaultDrillIntoEmpty   = true
	DefaultDrillDepth       = 1
	MaxBranchLimit          = 1000
	MaxDrillDepth           = 64
	DefaultSettingsFileName = "drilltree.toml"
)

// LayoutSettings holds the box geometry in pixels.
type LayoutSettings struct {
	NodeWidth   float64 `toml:"node_width" mapstructure:"node_width" json:"node_width" msgpack:"node_width"`
	Gap         float64 `toml:"gap" mapstructure:"gap" json:"gap" msgpack:"gap"`
	Margin      float64 `toml:"margin" mapstructure:"margin" json:"margin" msgpack:"margin"`
	LevelHeight float64 `toml:"level_height" mapstructure:"level_height" json:"level_height" msgpack:"level_height"`
	BoxHeight   float64 `toml:"box_height" mapstructure:"box_height" json:"box_height" msgpack:"box_height"`
}

// Settings is the configuration of a view. Values are passed and stored by
// copy; nothing mutates a Settings after construction.
type Settings struct {
	// ShowMeasure controls whether measure values and share bars are shown.
	ShowMeasure bool `toml:"show_measure" mapstructure:"show_measure" json:"show_measure" msgpack:"show_measure"`
	// BranchLimit is the number of children revealed or hidden per step.
	BranchLimit int `toml:"branch_limit" mapstructure:"branch_limit" json:"branch_limit" msgpack:"branch_limit"`
	// DrillIntoBlank lets the initial expansion descend into blank-only chains.
	DrillIntoBlank bool `toml:"drill_into_blank" mapstructure:"drill_into_blank" json:"drill_into_blank" msgpack:"drill_into_blank"`
	// DrillIntoEmpty lets the initial expansion descend into empty-only chains.
	DrillIntoEmpty bool `toml:"drill_into_empty" mapstructure:"drill_into_empty" json:"drill_into_empty" msgpack:"drill_into_empty"`
	// DefaultDrillDepth is the number of levels opened after a data update.
	DefaultDrillDepth int `toml:"default_drill_depth" mapstructure:"default_drill_depth" json:"default_drill_depth" msgpack:"default_drill_depth"`

	Layout LayoutSettings `toml:"layout" mapstructure:"layout" json:"layout" msgpack:"layout"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ShowMeasure:       DefaultShowMeasure,
		BranchLimit:       DefaultBranchLimit,
		DrillIntoBlank:    DefaultDrillIntoBlank,
		DrillIntoEmpty:    DefaultDrillIntoEmpty,
		DefaultDrillDepth: DefaultDrillDepth,
		Layout: LayoutSettings{
			NodeWidth:   layout.DefaultNodeWidth,
			Gap:         layout.DefaultGap,
			Margin:      layout.DefaultMargin,
			LevelHeight: layout.DefaultLevelHeight,
			BoxHeight:   layout.DefaultBoxHeight,
		},
	}
}

// Load reads settings from a TOML file on top of the defaults. A missing
// file, or an empty path, yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(errors.ErrCodeInvalidSettings, err, "read settings %s", path)
	}
	return Parse(data, s)
}

// Parse decodes TOML settings on top of base.
func Parse(data []byte, base Settings) (Settings, error) {
	s := base
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidSettings, err, "parse settings")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return base, errors.New(errors.ErrCodeInvalidSettings, "unknown settings: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// FromMap decodes a settings bag on top of the defaults. Values are weakly
// typed, so "3" is accepted for an int and "false" for a bool.
func FromMap(m map[string]any) (Settings, error) {
	return Default().Merge(m)
}

// Merge returns a copy of s with the keys of m applied.
func (s Settings) Merge(m map[string]any) (Settings, error) {
	out := s
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInternal, err, "settings decoder")
	}
	if err := dec.Decode(m); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode settings")
	}
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.BranchLimit < 1 || s.BranchLimit > MaxBranchLimit {
		return errors.New(errors.ErrCodeInvalidSettings, "branch_limit must be between 1 and %d, got %d", MaxBranchLimit, s.BranchLimit)
	}
	if s.DefaultDrillDepth < 0 || s.DefaultDrillDepth > MaxDrillDepth {
		return errors.New(errors.ErrCodeInvalidSettings, "default_drill_depth must be between 0 and %d, got %d", MaxDrillDepth, s.DefaultDrillDepth)
	}
	geometry := []struct {
		name  string
		value float64
	}{
		{"node_width", s.Layout.NodeWidth},
		{"gap", s.Layout.Gap},
		{"margin", s.Layout.Margin},
		{"level_height", s.Layout.LevelHeight},
		{"box_height", s.Layout.BoxHeight},
	}
	for _, g := range geometry {
		if g.value <= 0 {
			return errors.New(errors.ErrCodeInvalidSettings, "layout.%s must be positive, got %v", g.name, g.value)
		}
	}
	if s.Layout.BoxHeight > s.Layout.LevelHeight {
		return errors.New(errors.ErrCodeInvalidSettings, "layout.box_height %v exceeds level_height %v", s.Layout.BoxHeight, s.Layout.LevelHeight)
	}
	return nil
}

// Policy returns the drill policy.
func (s Settings) Policy() drill.Policy {
	return drill.Policy{
		BranchLimit:    s.BranchLimit,
		DrillIntoBlank: s.DrillIntoBlank,
		DrillIntoEmpty: s.DrillIntoEmpty,
	}
}

// LayoutOptions returns the layout geometry.
func (s Settings) LayoutOptions() layout.Options {
	return layout.Options{
		NodeWidth:   s.Layout.NodeWidth,
		Gap:         s.Layout.Gap,
		Margin:      s.Layout.Margin,
		LevelHeight: s.Layout.LevelHeight,
		BoxHeight:   s.Layout.BoxHeight,
	}
}

// RootLabel returns the root label: "Total" when measures are shown,
// "Everything" otherwise.
func (s Settings) RootLabel() string {
	if s.ShowMeasure {
		return tree.RootLabelMeasures
	}
	return tree.RootLabelCount
}

// TreeOptions returns the build options for these settings.
func (s Settings) TreeOptions() tree.Options {
	return tree.Options{RootLabel: s.RootLabel()}
}
