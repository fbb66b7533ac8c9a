package textenc_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/socks-api/pkg/textenc"
)

func decode(t *testing.T, raw []byte, charset string) string {
	t.Helper()
	r, err := textenc.NewReader(bytes.NewReader(raw), charset)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestNewReader_UTF8SinCambios(t *testing.T) {
	for _, cs := range []string{"", "utf-8", "UTF8", " utf-8 "} {
		assert.Equal(t, "añil,80,3", decode(t, []byte("añil,80,3"), cs), cs)
	}
}

func TestNewReader_Windows1251(t *testing.T) {
	// "синий" en cp1251
	raw := []byte{0xF1, 0xE8, 0xED, 0xE8, 0xE9, ',', '5', '0', ',', '1'}
	assert.Equal(t, "синий,50,1", decode(t, raw, "windows-1251"))
	assert.Equal(t, "синий,50,1", decode(t, raw, "CP1251"))
}

func TestNewReader_Latin1(t *testing.T) {
	raw := []byte{'a', 0xF1, 'i', 'l'}
	assert.Equal(t, "añil", decode(t, raw, "latin1"))
}

func TestNewReader_CharsetNoSoportado(t *testing.T) {
	_, err := textenc.NewReader(strings.NewReader("x"), "ebcdic")
	require.Error(t, err)
	assert.ErrorIs(t, err, textenc.ErrUnsupportedCharset)
}
