// Package input reads and writes simulator logs and world snapshots, compressed or not.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdin names standard input (or output) in place of a path.
const Stdin = "-"

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Read returns the contents of path, or of stdin for "-". Zstandard and gzip streams are
// detected by their magic bytes and decompressed.
func Read(path string, stdin io.Reader) ([]byte, error) {
	if path == Stdin {
		data, err := Decode(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Decode reads r to the end, decompressing it when it starts with a known magic number.
func Decode(r io.Reader) ([]byte, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	case bytes.HasPrefix(head, gzipMagic):
		dec, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	default:
		return io.ReadAll(br)
	}
}

// Write stores data at path, or on stdout for "-". A ".zst" or ".gz" suffix selects
// compression.
func Write(path string, data []byte, stdout io.Writer) error {
	if path == Stdin {
		_, err := stdout.Write(data)
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, data, path); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Encode writes data to w, compressed according to the suffix of name.
func Encode(w io.Writer, data []byte, name string) error {
	switch {
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case strings.HasSuffix(name, ".gz"):
		enc := gzip.NewWriter(w)
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	default:
		_, err := w.Write(data)
		return err
	}
}

// Compressed reports whether name carries a compression suffix Encode understands.
func Compressed(name string) bool {
	for _, ext := range []string{".zst", ".zstd", ".gz"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
