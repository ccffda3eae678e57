// Package textenc turns the bytes of a KeyValues file into UTF-8 before
// parsing. Files written by some tools are UTF-16 with a byte order mark, or
// use a legacy single-byte code page.
package textenc

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode returns data as UTF-8.
//
// With a nil enc, a UTF-8 byte order mark is sliced off without copying, a
// UTF-16 byte order mark selects a UTF-16 decoder, and anything else is
// returned unchanged. A non-nil enc always decodes. copied reports whether
// the result lives in new memory rather than in data.
func Decode(data []byte, enc encoding.Encoding) (out []byte, copied bool, err error) {
	if enc == nil {
		switch {
		case bytes.HasPrefix(data, bomUTF8):
			return data[len(bomUTF8):], false, nil
		case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
			enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
		default:
			return data, false, nil
		}
	}
	out, _, err = transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return nil, false, fmt.Errorf("textenc: %w", err)
	}
	return out, true, nil
}

// Lookup returns the encoding registered under name, such as "utf-16le",
// "windows-1252" or "latin1". "cp437" selects the IBM code page 437.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("textenc: unknown encoding %q", name)
	}
	return enc, nil
}
