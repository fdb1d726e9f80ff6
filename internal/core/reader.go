package core

// reader.go prepares raw price-list bytes for CSV parsing:
//
//   - CountingReader: tracks bytes read for the load report
//   - skipBOM: removes the UTF-8 BOM (0xEF 0xBB 0xBF) Windows editors add
//   - Encoding: decodes legacy Cyrillic code pages into UTF-8
//
// Use WrapForReading to apply the transforms in the correct order.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding is the declared text encoding of price-list files.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1251 Encoding = "windows-1251"
	EncodingKOI8R       Encoding = "koi8-r"
)

var errInvalidEncoding = errors.New("encoding error: file is not valid UTF-8")

// ParseEncoding resolves a configured encoding name.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1251", "cp1251":
		return EncodingWindows1251, nil
	case "koi8-r", "koi8r":
		return EncodingKOI8R, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// charmap returns the legacy code page, or nil for UTF-8.
func (e Encoding) charmap() *charmap.Charmap {
	switch e {
	case EncodingWindows1251:
		return charmap.Windows1251
	case EncodingKOI8R:
		return charmap.KOI8R
	default:
		return nil
	}
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 BOM if present.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// WrapForReading decodes r into UTF-8 according to enc.
//
// The order matters:
// 1. Legacy code pages are decoded first (they have no BOM)
// 2. The BOM is stripped from UTF-8 input
func WrapForReading(r io.Reader, enc Encoding) io.Reader {
	if cm := enc.charmap(); cm != nil {
		return transform.NewReader(r, cm.NewDecoder())
	}
	return skipBOM(r)
}
