package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/net/html/charset"
)

var (
	// ErrUnsupportedInput is returned for inputs that are not text
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrInputTooLarge is returned for inputs above the configured size
	ErrInputTooLarge = errors.New("input too large")
)

// StdinSource is the source name that reads from the loader's stdin
const StdinSource = "-"

// Loader reads saved patent pages from files or stdin
type Loader struct {
	maxBytes int64
	stdin    io.Reader
}

// NewLoader creates a new Loader reading at most maxBytes per input
func NewLoader(maxBytes int64) *Loader {
	return &Loader{
		maxBytes: maxBytes,
		stdin:    os.Stdin,
	}
}

// Input is a loaded page, decoded to UTF-8
type Input struct {
	Source      string
	ContentType string
	HTML        []byte
	Digest      string
}

// Load reads and decodes the page at path. Gzip compressed pages are
// decompressed first.
func (l *Loader) Load(ctx context.Context, path string) (*Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r io.Reader
	if path == StdinSource {
		r = l.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := l.readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return l.decode(path, data)
}

// LoadBytes decodes an in-memory page
func (l *Loader) LoadBytes(source string, data []byte) (*Input, error) {
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, l.maxBytes)
	}
	return l.decode(source, data)
}

func (l *Loader) decode(source string, data []byte) (*Input, error) {
	mtype := mimetype.Detect(data)
	if mtype.Is("application/gzip") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer func() { _ = zr.Close() }()

		if data, err = l.readLimited(zr); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		mtype = mimetype.Detect(data)
	}

	if !isText(mtype) {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedInput, source, mtype.String())
	}

	r, err := charset.NewReader(bytes.NewReader(data), mtype.String())
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	sum := sha256.Sum256(decoded)
	return &Input{
		Source:      source,
		ContentType: mtype.String(),
		HTML:        decoded,
		Digest:      hex.EncodeToString(sum[:]),
	}, nil
}

// readLimited reads r, failing when it holds more than maxBytes
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, l.maxBytes)
	}
	return data, nil
}

// isText reports whether the detected type is text/plain or one of its
// descendants, HTML included
func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
