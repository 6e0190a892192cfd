package cache

import "fmt"

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// TableKey identifies the table produced by a data source query.
	TableKey(opts TableKeyOpts) string
	// LayoutKey identifies a laid-out drill state of a table.
	LayoutKey(tableHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// TableKeyOpts describes a data source query.
type TableKeyOpts struct {
	Driver     string   `json:"driver"`
	DSN        string   `json:"dsn"`
	Query      string   `json:"query"`
	Args       []any    `json:"args,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Measures   []string `json:"measures,omitempty"`
}

// LayoutKeyOpts holds everything besides the table that shapes a layout.
type LayoutKeyOpts struct {
	SettingsHash string     `json:"settings"`
	Expand       [][]string `json:"expand,omitempty"`
	ExpandAll    bool       `json:"expand_all,omitempty"`
}

// ArtifactKeyOpts selects a rendering of a layout.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Detailed    bool    `json:"detailed,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Interactive string  `json:"interactive,omitempty"`
}

// DefaultKeyer builds keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TableKey hashes the query description. Column lists are order-sensitive
// since category order is tree order.
func (DefaultKeyer) TableKey(opts TableKeyOpts) string {
	return hashKey("table", opts)
}

// LayoutKey hashes the table fingerprint with the drill options. Expand paths
// keep their order: revealing a node before or after its parent opens a
// different number of siblings.
func (DefaultKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", tableHash, opts)
}

// ArtifactKey hashes the layout hash with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// FingerprintHash formats a 64-bit content fingerprint for use in keys.
func FingerprintHash(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
