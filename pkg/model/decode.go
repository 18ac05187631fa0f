package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/phallocators/allocviz/pkg/errors"
)

// tags decodes either a JSON array of integers or a string of decimal digits.
type tags []State

func (t *tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		out := make([]State, len(s))
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c < '0' || c > '9' {
				return fmt.Errorf("tag string: invalid character %q at index %d", c, i)
			}
			out[i] = State(c - '0')
		}
		*t = out
		return nil
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("tags must be an array of integers or a digit string: %w", err)
	}
	out := make([]State, len(ints))
	for i, v := range ints {
		out[i] = State(v)
	}
	*t = out
	return nil
}

type jsonBlock struct {
	ID   *uint64 `json:"id"`
	Base int     `json:"base"`
	Size int     `json:"size"`
	Type int     `json:"type"`
	Prev *uint64 `json:"prev"`
	Next *uint64 `json:"next"`
}

type jsonSnapshot struct {
	Header

	MemSize      *int            `json:"memSize"`
	BlocksLayer0 *int            `json:"blocksLayer0"`
	Bitmap       json.RawMessage `json:"bitmap"`
	BlockList    []jsonBlock     `json:"blockList"`
}

// Read decodes a snapshot from r, detecting its kind from the keys present.
//
// Read returns an INVALID_INPUT error for malformed JSON, an unrecognizable
// shape, or wire-level type mismatches. It does not close r.
func Read(r io.Reader) (*Snapshot, error) {
	return ReadAs(r, "")
}

// ReadAs decodes a snapshot from r as the given kind. An empty kind detects
// the shape like [Read].
func ReadAs(r io.Reader, kind Kind) (*Snapshot, error) {
	var raw jsonSnapshot
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}

	if kind == "" {
		kind = detect(&raw)
		if kind == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"cannot detect snapshot kind: expected one of blockList, blocksLayer0, or memSize with bitmap")
		}
	}

	s := &Snapshot{Kind: kind, Header: raw.Header}
	var err error
	switch kind {
	case KindBitmap:
		s.Bitmap, err = decodeBitmap(&raw)
	case KindBuddy:
		s.Buddy, err = decodeBuddy(&raw)
	case KindLinkedList:
		s.LinkedList, err = decodeLinkedList(&raw)
	default:
		return nil, errors.New(errors.ErrCodeInvalidKind, "unknown snapshot kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Decode decodes a snapshot held in memory. See [Read].
func Decode(data []byte) (*Snapshot, error) {
	return ReadAs(bytes.NewReader(data), "")
}

// DecodeAs decodes a snapshot held in memory as the given kind. See [ReadAs].
func DecodeAs(data []byte, kind Kind) (*Snapshot, error) {
	return ReadAs(bytes.NewReader(data), kind)
}

// Import reads and decodes the snapshot file at path.
func Import(path string, kind Kind) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadAs(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func detect(raw *jsonSnapshot) Kind {
	switch {
	case raw.BlockList != nil:
		return KindLinkedList
	case raw.BlocksLayer0 != nil:
		return KindBuddy
	case raw.MemSize != nil && len(raw.Bitmap) > 0:
		return KindBitmap
	}
	return ""
}

func decodeBitmap(raw *jsonSnapshot) (*Bitmap, error) {
	if raw.MemSize == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bitmap snapshot: missing memSize")
	}
	if *raw.MemSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bitmap snapshot: memSize %d is negative", *raw.MemSize)
	}

	var states tags
	if len(raw.Bitmap) > 0 && !bytes.Equal(raw.Bitmap, []byte("null")) {
		if err := json.Unmarshal(raw.Bitmap, &states); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bitmap snapshot: bitmap")
		}
	}
	return &Bitmap{MemSize: *raw.MemSize, States: states}, nil
}

func decodeBuddy(raw *jsonSnapshot) (*Buddy, error) {
	if raw.BlocksLayer0 == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "buddy snapshot: missing blocksLayer0")
	}
	if *raw.BlocksLayer0 < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "buddy snapshot: blocksLayer0 %d is negative", *raw.BlocksLayer0)
	}

	var layers map[string]tags
	if err := json.Unmarshal(raw.Bitmap, &layers); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "buddy snapshot: bitmap must map layer index to tags")
	}

	indices := make([]int, 0, len(layers))
	byIndex := make(map[int][]State, len(layers))
	for key, states := range layers {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, errors.New(errors.ErrCodeInvalidLayer, "buddy snapshot: layer key %q is not a non-negative integer", key)
		}
		if _, dup := byIndex[idx]; dup {
			return nil, errors.New(errors.ErrCodeInvalidLayer, "buddy snapshot: layer %d given twice", idx)
		}
		byIndex[idx] = states
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([][]State, len(indices))
	for i, idx := range indices {
		if idx != i {
			return nil, errors.New(errors.ErrCodeInvalidLayer, "buddy snapshot: layer %d missing (layers must be numbered 0..%d)", i, len(indices)-1)
		}
		out[i] = byIndex[idx]
	}
	return &Buddy{BlocksLayer0: *raw.BlocksLayer0, Layers: out}, nil
}

func decodeLinkedList(raw *jsonSnapshot) (*LinkedList, error) {
	if raw.BlockList == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "linked list snapshot: missing blockList")
	}
	blocks := make([]Block, len(raw.BlockList))
	for i, b := range raw.BlockList {
		if b.ID == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "linked list snapshot: block at index %d has no id", i)
		}
		blocks[i] = Block{
			ID:   *b.ID,
			Base: b.Base,
			Size: b.Size,
			Type: State(b.Type),
			Prev: b.Prev,
			Next: b.Next,
		}
	}
	return &LinkedList{Blocks: blocks}, nil
}
