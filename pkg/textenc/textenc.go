// Package textenc decodifica archivos de texto en charsets de un byte (exportaciones de hojas de cálculo
// antiguas) a UTF-8.
package textenc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnsupportedCharset el charset solicitado no está soportado.
var ErrUnsupportedCharset = errors.New("charset no soportado")

var charsets = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"koi8-r":       charmap.KOI8R,
}

// NewReader envuelve r para que entregue UTF-8. "", "utf-8" y "utf8" devuelven r sin cambios.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r, nil
	}
	enc, ok := charsets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, charset)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
