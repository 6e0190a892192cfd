// Package visual holds the stateful drill-down view of one table.
//
// A [Visual] owns the tree built from the last table it saw, the drill state
// of that tree and the current layout. Hosts feed it data and user
// interactions:
//
//	v := visual.New(config.Default(), visual.WithLogger(logger))
//	changed, err := v.Update(tbl, settings)   // rebuild, reset drill state
//	err = v.ExpandRequested(id)               // drill, then re-layout
//	l, ok := v.Layout()                       // hand to a renderer
//
// Update is idempotent: feeding the same table and settings again neither
// rebuilds the tree nor discards the user's drill state. Every interaction
// re-runs the layout over the whole visible tree.
//
// A Visual is not safe for concurrent use; the HTTP server guards each view
// with its own mutex.
package visual
