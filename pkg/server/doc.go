// Package server exposes drill-down views over HTTP.
//
// Each view owns one [visual.Visual]. Clients create a view by posting a
// table, then drive it with interaction callbacks and fetch the current
// layout as JSON, interactive SVG or Graphviz DOT:
//
//	GET    /healthz
//	POST   /api/views                              create a view from a JSON table
//	GET    /api/views/{id}                         current layout
//	GET    /api/views/{id}/svg                     interactive SVG
//	GET    /api/views/{id}/dot                     Graphviz DOT
//	POST   /api/views/{id}/nodes/{node}/{action}   expand, collapse, more, fewer
//	PUT    /api/views/{id}/data                    feed new data (idempotent)
//	DELETE /api/views/{id}
//
// POST /api/views and PUT /api/views/{id}/data accept an optional settings
// query parameter holding a JSON object, e.g.
// ?settings={"branch_limit":3,"show_measure":false}. Its keys are applied on
// top of the server's settings.
//
// Errors are JSON objects {"code": ..., "message": ...} with the HTTP status
// derived from the error code.
package server
