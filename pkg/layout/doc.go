// Package layout turns allocator snapshots into drawing primitives.
//
// # Overview
//
// The layout engine is pure and backend-agnostic. Given a snapshot from
// [github.com/phallocators/allocviz/pkg/model] and a [Config], it derives the
// grid geometry and emits an ordered list of [Primitive] values in integer
// pixel space. Rendering backends (see the render/sink package) turn the
// primitives and the palette into SVG, PNG or PDF.
//
// Identical input always yields an identical primitive list.
//
// # Grid Geometry
//
// [Dimension] linearizes the address space onto a power-of-two wide grid:
//
//	gridWidth  = NextPowerOfTwo(floor(sqrt(memSize * SizingMultiplier)))
//	gridHeight = ceil(memSize / gridWidth)
//
// # Layouts
//
//   - [Bitmap]: one cell per unit, row-major, cells past memSize drawn Empty
//   - [Buddy]: every buddy layer stacked per row group; coarse entries span
//     [WidthMul] columns
//   - [Region]: linked-list blocks drawn as row-wrapped spans with triangular
//     start and end caps over an Empty background
//   - [AdjacencyGraph]: prev/next structure of a linked list for a graph backend
//
// # Validation
//
// Every layout validates its whole input before emitting anything. Malformed
// snapshots produce validation errors and bad configuration produces
// configuration errors (see the errors package); there is no partial output.
package layout
