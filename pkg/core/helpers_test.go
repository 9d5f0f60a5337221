package core

import (
	"bytes"
	stdzlib "compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 辅助工具
// -----------------------------------------------------------------------------

// deflate compresses raw with the standard library, so the tests also pin
// interoperability with any other zlib producer (git included).
func deflate(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := stdzlib.NewWriter(&buf)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// inflate is the inverse of deflate.
func inflate(t *testing.T, compressed []byte) []byte {
	t.Helper()
	r, err := stdzlib.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer r.Close()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	return raw
}

func mustSeal(t *testing.T, c *Codec, kind ObjectType, payload []byte) *Sealed {
	t.Helper()
	s, err := c.Seal(kind, payload)
	require.NoError(t, err)
	return s
}
