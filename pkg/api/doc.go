// Package api serves an editing session over HTTP.
//
// The server wraps one [editor.Editor] behind a mutex; every request is a
// single editor call, so each mutation is one undoable step. Routes:
//
//	GET    /health
//	GET    /version                  build information
//	GET    /document                 snapshot of every shape record
//	PUT    /document                 replace the document from a snapshot
//	GET    /shapes                   id, type, bounds and rotation per shape
//	POST   /shapes                   add a shape from a record
//	GET    /shapes/{id}              one record
//	DELETE /shapes/{id}              delete (nodes cascade to their edges)
//	POST   /shapes/{id}/move         {"dx", "dy"}
//	POST   /shapes/{id}/rotate       {"degrees"}
//	POST   /shapes/{id}/resize       {"width", "height"}
//	PUT    /shapes/{id}/label        {"label"}
//	PATCH  /shapes/{id}/style        style fields to change
//	POST   /shapes/{id}/ungroup
//	POST   /nodes                    {"x", "y", "radius", "label"}
//	POST   /edges                    {"source", "target", "direction"}
//	POST   /order                    {"ids", "op"}
//	POST   /distribute               {"ids", "axis"}
//	POST   /group                    {"ids"}
//	POST   /layout                   {"name"}
//	GET    /hit?x=&y=                topmost shape under a point
//	POST   /undo, /redo
//	GET    /history
//	GET    /documents                stored keys, when the store can list
//	POST   /documents/{key}/save, /documents/{key}/load
//	GET    /events                   server-sent events from the bus
//
// Errors are JSON objects {"error", "code"} with the status from
// [errors.HTTPStatus].
package api
