// Package shape defines the closed set of drawable shapes and their shared
// capability contract.
//
// # Overview
//
// Every shape variant implements [Shape]: hit testing with a tolerance,
// bounds, move, scale/translate transforms, cloning under a new identity and
// serialisation into a plain [Record]. The set is closed: the interface has
// an unexported method, so only the variants in this package exist.
//
//   - [Line], [Polyline]: stroke-only, hit by segment distance
//   - [Rectangle], [Ellipse]: filled interior or stroke annulus
//   - [Text]: measured or approximated box
//   - [Polygon], [Path]: vertex lists and Bézier paths
//   - [Image]: a box with an external reference
//   - [Node], [Edge]: graph variants; an edge's geometry is derived
//   - [Group]: a container that propagates moves and transforms
//
// # Rotation
//
// Rotation is stored in degrees, normalised to [0, 360), about the center of
// the shape's unrotated bounds. Hit tests rotate the query point by the
// negative rotation into the shape's local frame before testing; bounds are
// the axis-aligned box of the rotated local bounds. Edges always report zero
// rotation and reject any other value with [ErrEdgeRotation].
//
// # Precision
//
// All coordinate writes pass through [geom.Round3], so move/undo and
// transform/undo cycles land on the exact values they started from.
//
// # Edges
//
// An [Edge] stores only the identities of its endpoints. Its path is routed on
// demand through a [NodeResolver] (normally the graph registry) with the
// shared functions of package route. When an endpoint cannot be resolved the
// edge is empty: no bounds, never hit.
package shape
