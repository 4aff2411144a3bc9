// Package cli implements the drawgraph command-line interface.
//
// Commands hang off a [CLI] value holding the logger and the configuration
// loaded from drawgraph.toml. Documents on disk are JSON snapshots of a
// drawing; every command that changes one goes through an editor session, so
// graph consistency is maintained exactly as it is for API clients.
//
// # Commands
//
//   - new: create an empty document
//   - apply: run an edit script against a document
//   - inspect: list a document's shapes
//   - layout: place nodes with Graphviz or the circle layouter
//   - edit: interactive editing in the terminal
//   - serve: HTTP editing API with server-sent events
//   - push, pull, store: share documents through the configured store
//   - config: show or initialise the configuration
//
// # Edit scripts
//
// An [Interpreter] runs one operation per line. Shapes are created under an
// alias that later lines refer to:
//
//	node a 100 100 label="Start"
//	node b 300 100
//	edge ab a b dir=forward
//	move 0 50 a b
//	layout circle
//
// Everything after a # that starts a token is a comment.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it
// the level comes from the [log] section of the config file.
package cli
