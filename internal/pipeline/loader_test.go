package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<!DOCTYPE html>
<html><head><title>US1234567A</title></head>
<body><article><dl><dt>Inventor</dt><dd itemprop="inventor">Ada</dd></dl></article></body>
</html>`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := gzip.NewWriter(buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoaderLoad(t *testing.T) {
	path := writeFile(t, "page.html", []byte(pageHTML))

	input, err := NewLoader(1<<20).Load(context.Background(), path)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(pageHTML))
	assert.Equal(t, path, input.Source)
	assert.Equal(t, pageHTML, string(input.HTML))
	assert.Equal(t, hex.EncodeToString(sum[:]), input.Digest)
	assert.True(t, strings.HasPrefix(input.ContentType, "text/html"))
}

func TestLoaderGzip(t *testing.T) {
	plain := writeFile(t, "page.html", []byte(pageHTML))
	packed := writeFile(t, "page.html.gz", gzipped(t, []byte(pageHTML)))

	l := NewLoader(1 << 20)
	a, err := l.Load(context.Background(), plain)
	require.NoError(t, err)
	b, err := l.Load(context.Background(), packed)
	require.NoError(t, err)

	assert.Equal(t, a.Digest, b.Digest)
	assert.Equal(t, pageHTML, string(b.HTML))
}

func TestLoaderFragment(t *testing.T) {
	src := `<article><h2>Abstract</h2><div itemprop="abstract">text</div></article>`

	input, err := NewLoader(1<<20).LoadBytes("fragment", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, string(input.HTML))
}

func TestLoaderCharset(t *testing.T) {
	src := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body><article>caf\xe9</article></body></html>")

	input, err := NewLoader(1<<20).LoadBytes("latin1", src)
	require.NoError(t, err)
	assert.Contains(t, string(input.HTML), "café")
}

func TestLoaderErrors(t *testing.T) {
	big := gzipped(t, []byte(strings.Repeat(pageHTML, 100)))
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	tests := []struct {
		name     string
		maxBytes int64
		data     []byte
		err      error
	}{
		{"binary", 1 << 20, png, ErrUnsupportedInput},
		{"too large", 16, []byte(pageHTML), ErrInputTooLarge},
		{"gzip too large", int64(len(big)) + 1, big, ErrInputTooLarge},
		{"gzip binary", 1 << 20, gzipped(t, png), ErrUnsupportedInput},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeFile(t, "input", test.data)
			_, err := NewLoader(test.maxBytes).Load(context.Background(), path)
			require.ErrorIs(t, err, test.err)
		})
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(1<<20).Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderStdin(t *testing.T) {
	l := NewLoader(1 << 20)
	l.stdin = strings.NewReader(pageHTML)

	input, err := l.Load(context.Background(), StdinSource)
	require.NoError(t, err)
	assert.Equal(t, StdinSource, input.Source)
	assert.Equal(t, pageHTML, string(input.HTML))
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(1<<20).Load(ctx, writeFile(t, "page.html", []byte(pageHTML)))
	require.ErrorIs(t, err, context.Canceled)
}
