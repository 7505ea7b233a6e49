package eheapq

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/fridex/fext-wip/internal/codec"
)

// snapshotMagic identifies the snapshot format; the trailing digit is
// the format version.
var snapshotMagic = [8]byte{'e', 'h', 'e', 'a', 'p', 'q', '.', '1'}

// ErrSnapshot indicates a malformed or unsupported snapshot stream.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrSnapshot struct {
	Reason string
	cause  error
}

func (e *ErrSnapshot) Error() string {
	return fmt.Sprintf("invalid snapshot: %s", e.Reason)
}

func (e *ErrSnapshot) Unwrap() error { return e.cause }

type snapshotOptions struct {
	compression string
}

// SnapshotOption configures Snapshot.
type SnapshotOption func(*snapshotOptions)

// WithCompression selects the compression codec by its stable name:
// "none", "zstd" (the default) or "lz4".
func WithCompression(name string) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = name
	}
}

// snapshot is the persisted heap state. Items are stored in
// backing-sequence order, so heap order survives a roundtrip under the
// same comparator. The last/max caches are not persisted.
type snapshot[T any] struct {
	Size  uint64
	Items []T
}

// Snapshot writes the heap state to w: the format magic, the
// compression codec name, then a compressed gob stream of the capacity
// and the backing sequence.
func (h *Heap[T]) Snapshot(w io.Writer, opts ...SnapshotOption) error {
	o := snapshotOptions{compression: "zstd"}
	for _, opt := range opts {
		opt(&o)
	}

	comp, ok := codec.ByName(o.compression)
	if !ok {
		return &ErrSnapshot{Reason: fmt.Sprintf("unknown compression %q", o.compression)}
	}

	header := append([]byte(nil), snapshotMagic[:]...)
	header = binary.AppendUvarint(header, uint64(len(comp.Name())))
	header = append(header, comp.Name()...)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	cw, err := comp.Compress(w)
	if err != nil {
		return fmt.Errorf("open %s stream: %w", comp.Name(), err)
	}

	if err := gob.NewEncoder(cw).Encode(snapshot[T]{
		Size:  h.size,
		Items: h.items,
	}); err != nil {
		_ = cw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("close %s stream: %w", comp.Name(), err)
	}

	h.logger.Debug("snapshot written",
		"length", len(h.items),
		"compression", comp.Name(),
	)

	return nil
}

// Restore replaces the heap state with one read from r. The position
// index is rebuilt from the decoded sequence and the heap order
// invariant is re-verified under the current comparator, so restoring
// a snapshot written under a different ordering fails instead of
// silently corrupting the heap. The heap is left unchanged on any
// error. After a successful restore the last/max caches are unset.
func (h *Heap[T]) Restore(r io.Reader) error {
	br := bufio.NewReader(r)

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return &ErrSnapshot{Reason: "short header", cause: err}
	}
	if magic != snapshotMagic {
		return &ErrSnapshot{Reason: fmt.Sprintf("bad magic %q", magic[:])}
	}

	nameLen, err := binary.ReadUvarint(br)
	if err != nil {
		return &ErrSnapshot{Reason: "short header", cause: err}
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return &ErrSnapshot{Reason: "short header", cause: err}
	}

	comp, ok := codec.ByName(string(name))
	if !ok {
		return &ErrSnapshot{Reason: fmt.Sprintf("unknown compression %q", name)}
	}

	cr, err := comp.Decompress(br)
	if err != nil {
		return &ErrSnapshot{Reason: fmt.Sprintf("open %s stream", comp.Name()), cause: err}
	}
	defer cr.Close()

	var snap snapshot[T]
	if err := gob.NewDecoder(cr).Decode(&snap); err != nil {
		return &ErrSnapshot{Reason: "decode", cause: err}
	}

	if uint64(len(snap.Items)) > snap.Size {
		return &ErrSnapshot{Reason: "length exceeds capacity"}
	}

	index := make(map[T]int, len(snap.Items))
	for i, item := range snap.Items {
		if _, ok := index[item]; ok {
			return &ErrSnapshot{Reason: "duplicate member"}
		}
		index[item] = i
	}

	for i := 1; i < len(snap.Items); i++ {
		less, err := h.cmp(snap.Items[i], snap.Items[(i-1)/2])
		if err != nil {
			return err
		}
		if less {
			return &ErrSnapshot{Reason: "heap order violated"}
		}
	}

	var zero T
	h.items = snap.Items
	h.index = index
	h.size = snap.Size
	h.last, h.lastSet = zero, false
	h.max, h.maxSet = zero, false

	h.logger.Info("snapshot restored",
		"length", len(h.items),
		"compression", comp.Name(),
	)

	return nil
}
