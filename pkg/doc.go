// Package pkg provides the libraries behind allocviz, which draws memory
// allocator state as diagrams.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Domain: [model] (allocator snapshots), [palette] (state colors) and
//     [layout] (grid dimensioning and the three layout engines)
//  2. Rendering: [render/sink] (SVG, PNG, PDF, JSON) and [render/nodelink]
//     (Graphviz adjacency diagrams)
//  3. Infrastructure: [cache], [config], [observability], [errors] and
//     [buildinfo]
//  4. Orchestration: [pipeline] (decode → layout → render)
//
// # Architecture
//
// The typical data flow:
//
//	allocator JSON dump
//	         ↓
//	    [model] package (decode, detect kind)
//	         ↓
//	    [layout] package (Bitmap, Buddy or Region → primitives)
//	         ↓
//	    [render/sink] package (primitives → SVG/PNG/PDF/JSON)
//
// Linked-list snapshots additionally go through [layout.AdjacencyGraph] and
// [render/nodelink] to produce a prev/next graph.
//
// # Quick Start
//
//	snap, err := model.Import("heap.json", "")
//	if err != nil {
//	    return err
//	}
//	d, err := pipeline.Layout(snap, layout.DefaultSet())
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(d, layout.DefaultSet().For(snap.Kind).Palette)
//
// Layouts are pure functions of the snapshot and a [layout.Config]: the same
// input always yields the same primitives, in the same order.
package pkg
