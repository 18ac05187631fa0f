package layout

import (
	"math"
	"slices"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

func validateLinkedList(in model.LinkedList, limit int) error {
	byID := make(map[uint64]model.Block, len(in.Blocks))
	for _, b := range in.Blocks {
		switch {
		case b.Size <= 0:
			return errBlock(errors.ErrCodeInvalidBlock, b, "size %d must be positive", b.Size)
		case b.Base < 0:
			return errBlock(errors.ErrCodeInvalidBlock, b, "base %d is negative", b.Base)
		case b.Base > math.MaxInt-b.Size:
			return errBlock(errors.ErrCodeInvalidBlock, b, "base %d + size %d overflows", b.Base, b.Size)
		case limit > 0 && b.End() > limit:
			return errBlock(errors.ErrCodeInvalidBlock, b, "range [%d, %d) exceeds memSize=%d", b.Base, b.End(), limit)
		case !b.Type.Valid():
			return errBlock(errors.ErrCodeInvalidState, b, "unknown type tag %d", int(b.Type))
		}
		if _, dup := byID[b.ID]; dup {
			return errBlock(errors.ErrCodeInvalidBlock, b, "duplicate id")
		}
		byID[b.ID] = b
	}

	for _, b := range in.Blocks {
		if b.Prev != nil {
			p, ok := byID[*b.Prev]
			if !ok {
				return errBlock(errors.ErrCodeInvalidReference, b, "prev references unknown block %d", *b.Prev)
			}
			if p.Next != nil && *p.Next != b.ID {
				return errBlock(errors.ErrCodeInvalidReference, b, "prev is %d but block %d has next=%d", p.ID, p.ID, *p.Next)
			}
		}
		if b.Next != nil {
			n, ok := byID[*b.Next]
			if !ok {
				return errBlock(errors.ErrCodeInvalidReference, b, "next references unknown block %d", *b.Next)
			}
			if n.Prev != nil && *n.Prev != b.ID {
				return errBlock(errors.ErrCodeInvalidReference, b, "next is %d but block %d has prev=%d", n.ID, n.ID, *n.Prev)
			}
		}
	}

	sorted := slices.Clone(in.Blocks)
	slices.SortStableFunc(sorted, func(a, b model.Block) int { return a.Base - b.Base })
	for i := 1; i < len(sorted); i++ {
		if prev, cur := sorted[i-1], sorted[i]; cur.Base < prev.End() {
			return errBlock(errors.ErrCodeInvalidBlock, cur, "range [%d, %d) overlaps block %d [%d, %d)",
				cur.Base, cur.End(), prev.ID, prev.Base, prev.End())
		}
	}
	return nil
}
