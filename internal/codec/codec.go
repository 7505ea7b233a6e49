// Package codec centralizes the compression codecs used by persisted
// heap snapshots.
//
// Codec selection is a breaking-change boundary: snapshots store the
// codec name in their header, so names must stay stable across
// releases.
package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor frames a byte stream for persistence.
// Implementations must be safe for concurrent use.
type Compressor interface {
	// Name returns the stable identifier stored in snapshot headers.
	Name() string
	// Compress wraps w; the returned writer must be closed to flush.
	Compress(w io.Writer) (io.WriteCloser, error)
	// Decompress wraps r for reading a stream produced by Compress.
	Decompress(r io.Reader) (io.ReadCloser, error)
}

// ByName returns a built-in compressor by its stable name.
func ByName(name string) (Compressor, bool) {
	switch name {
	case "none":
		return None{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// None passes bytes through unframed.
type None struct{}

// Name implements Compressor.
func (None) Name() string { return "none" }

// Compress implements Compressor.
func (None) Compress(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Decompress implements Compressor.
func (None) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Zstd frames the stream with klauspost zstd at the default level.
type Zstd struct{}

// Name implements Compressor.
func (Zstd) Name() string { return "zstd" }

// Compress implements Compressor.
func (Zstd) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// Decompress implements Compressor.
func (Zstd) Decompress(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return zr.IOReadCloser(), nil
}

// LZ4 frames the stream with the lz4 block format.
type LZ4 struct{}

// Name implements Compressor.
func (LZ4) Name() string { return "lz4" }

// Compress implements Compressor.
func (LZ4) Compress(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

// Decompress implements Compressor.
func (LZ4) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
