// Package model defines allocator state snapshots and decodes them from JSON.
//
// # Snapshot Shapes
//
// Three allocator models are supported, each with its own wire shape:
//
//	Flat bitmap:   {"memSize": 4, "bitmap": [0, 1, 0, 1]}
//	Buddy:         {"blocksLayer0": 2, "bitmap": {"0": "01", "1": "0110"}}
//	Linked list:   {"blockList": [{"id": 1, "base": 0, "size": 2, "type": 1, "prev": null, "next": 2}]}
//
// Tag sequences may be given either as JSON arrays of integers or as strings
// of decimal digits, which is how the allocator debug dumps write them.
//
// # Decoding
//
// [Decode] detects the shape from the keys present; [DecodeAs] forces one.
// Decoding only checks syntax. Semantic checks (tag range, block overlap,
// dangling links) belong to the layout engine, which reports them with the
// offending index or block id.
//
// Snapshots are immutable values once decoded; nothing in this module
// mutates them.
package model
