// Package charset maps terminal character sets onto the bytes that cross the
// simulated wire.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var byName = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"windows-1252": charmap.Windows1252,
}

// Lookup returns the encoding registered under name (case-insensitive). An
// empty name means UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	if enc, ok := byName[strings.ToLower(name)]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("charset: unknown character set %q", name)
}

// Encode converts s to wire bytes.
func Encode(enc encoding.Encoding, s string) ([]byte, error) {
	b, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	return b, err
}

// Decode converts wire bytes to a string.
func Decode(enc encoding.Encoding, p []byte) (string, error) {
	b, _, err := transform.Bytes(enc.NewDecoder(), p)
	return string(b), err
}
