package model

import (
	"fmt"
	"strings"
)

// Kind identifies the allocator model a snapshot describes.
type Kind string

const (
	KindBitmap     Kind = "bitmap"
	KindBuddy      Kind = "buddy"
	KindLinkedList Kind = "linkedlist"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindBitmap, KindBuddy, KindLinkedList}

// ParseKind converts a user-supplied name into a Kind.
// The empty string and "auto" yield ("", nil), meaning detect from content.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", nil
	case "bitmap":
		return KindBitmap, nil
	case "buddy":
		return KindBuddy, nil
	case "linkedlist", "linked-list", "list":
		return KindLinkedList, nil
	}
	return "", fmt.Errorf("unknown kind %q (must be bitmap, buddy, or linkedlist)", s)
}

// Header carries the descriptive fields allocator dumps emit alongside the
// state. None of them affect layout.
type Header struct {
	MemBase       uint64 `json:"memBase,omitempty"`
	MemSizeBytes  uint64 `json:"memSizeBytes,omitempty"`
	BlockSize     uint64 `json:"blockSize,omitempty"`
	BitmapSize    uint64 `json:"bitmapSize,omitempty"`
	TotalCapacity uint64 `json:"totalCapacity,omitempty"`
	UsedBlocks    uint64 `json:"usedBlocks,omitempty"`
}

// Bitmap is a flat bitmap allocator snapshot: one state per unit.
type Bitmap struct {
	MemSize int
	States  []State
}

// Buddy is a buddy allocator snapshot. Layers[i] holds the entries of layer i.
// BlocksLayer0 counts blocks at the coarsest granularity.
type Buddy struct {
	BlocksLayer0 int
	Layers       [][]State
}

// MemSize returns the number of finest-granularity units the snapshot covers.
func (b Buddy) MemSize() int {
	if len(b.Layers) == 0 {
		return 0
	}
	return b.BlocksLayer0 << (len(b.Layers) - 1)
}

// Block is one record of a linked-list allocator.
type Block struct {
	ID   uint64
	Base int
	Size int
	Type State
	Prev *uint64
	Next *uint64
}

// End returns the first unit past the block.
func (b Block) End() int { return b.Base + b.Size }

// LinkedList is a linked-list allocator snapshot.
type LinkedList struct {
	Blocks []Block
}

// MemSize returns max(base+size) over all blocks, or 0 for an empty list.
func (l LinkedList) MemSize() int {
	n := 0
	for _, b := range l.Blocks {
		n = max(n, b.End())
	}
	return n
}

// Snapshot is a decoded input of any kind. Exactly one of Bitmap, Buddy and
// LinkedList is set, matching Kind.
type Snapshot struct {
	Kind       Kind
	Header     Header
	Bitmap     *Bitmap
	Buddy      *Buddy
	LinkedList *LinkedList
}

// States returns every input tag of the snapshot in input order.
func (s *Snapshot) States() []State {
	switch s.Kind {
	case KindBitmap:
		return s.Bitmap.States
	case KindBuddy:
		var out []State
		for _, layer := range s.Buddy.Layers {
			out = append(out, layer...)
		}
		return out
	case KindLinkedList:
		out := make([]State, len(s.LinkedList.Blocks))
		for i, b := range s.LinkedList.Blocks {
			out[i] = b.Type
		}
		return out
	}
	return nil
}

// MemSize returns the unit count covered by the snapshot.
func (s *Snapshot) MemSize() int {
	switch s.Kind {
	case KindBitmap:
		return s.Bitmap.MemSize
	case KindBuddy:
		return s.Buddy.MemSize()
	case KindLinkedList:
		return s.LinkedList.MemSize()
	}
	return 0
}
