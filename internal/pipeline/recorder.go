package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// warningRecorder is a slog.Handler that keeps a copy of every warning
// before passing the record to the next handler.
type warningRecorder struct {
	next  slog.Handler
	attrs []slog.Attr
	log   *warningLog
}

type warningLog struct {
	mu      sync.Mutex
	entries []string
}

func newWarningRecorder(next slog.Handler) *warningRecorder {
	return &warningRecorder{
		next: next,
		log:  &warningLog{},
	}
}

// Enabled implements slog.Handler. Warnings are always recorded, even
// when the next handler drops them.
func (h *warningRecorder) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *warningRecorder) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.log.add(formatRecord(r, h.attrs))
	}
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *warningRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &warningRecorder{
		next:  h.next.WithAttrs(attrs),
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		log:   h.log,
	}
}

// WithGroup implements slog.Handler.
func (h *warningRecorder) WithGroup(name string) slog.Handler {
	return &warningRecorder{
		next:  h.next.WithGroup(name),
		attrs: h.attrs,
		log:   h.log,
	}
}

// Warnings returns the recorded warnings
func (h *warningRecorder) Warnings() []string {
	h.log.mu.Lock()
	defer h.log.mu.Unlock()
	return append([]string(nil), h.log.entries...)
}

func (l *warningLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func formatRecord(r slog.Record, attrs []slog.Attr) string {
	b := new(strings.Builder)
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		if a.Key == "source" {
			return true
		}
		fmt.Fprintf(b, " %s=%s", a.Key, a.Value.String())
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	r.Attrs(write)
	return b.String()
}
