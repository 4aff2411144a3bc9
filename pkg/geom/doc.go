// Package geom is the stateless geometry kernel of the editor.
//
// # Overview
//
// Every shape in the editor delegates its coordinate arithmetic to this
// package: rotation normalisation, point rotation about a pivot, the
// axis-aligned box of a rotated box, decomposition of imported affine
// matrices and point-to-segment distances used by hit testing.
//
// # Precision
//
// Coordinates are rounded to three decimal places with [Round3] after every
// operation that produces them. Repeated transform/undo cycles therefore
// converge on the same values instead of accumulating floating point drift.
// The helpers in this package that return coordinates ([RotatePoint],
// [RotatedBounds]) already apply the rounding; plain vector arithmetic on
// [Point] does not, so callers round when they store the result.
//
// # Degenerate Input
//
// Nothing here panics or returns errors. Zero-length segments collapse to
// point distance, empty bounds stay empty through unions and rotation.
package geom
