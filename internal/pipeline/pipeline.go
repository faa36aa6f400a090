package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ppiankov/patentia/internal/cache"
	"github.com/ppiankov/patentia/internal/model"
	"github.com/ppiankov/patentia/internal/patent"
)

// Pipeline orchestrates loading, caching and parsing of patent pages
type Pipeline struct {
	loader   *Loader
	cache    cache.Cache // nil when caching is disabled
	renderer *Renderer
	logger   *slog.Logger
	config   *model.Config
	now      func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *slog.Logger) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		loader:   NewLoader(cfg.Input.MaxBytes),
		cache:    c,
		renderer: NewRenderer(cfg.Output.Indent),
		logger:   logger,
		config:   cfg,
		now:      time.Now,
	}
}

// ParseResult contains the outcome of one parse
type ParseResult struct {
	Document *model.Document
}

// ParseFile loads and parses the page at path ("-" for stdin)
func (p *Pipeline) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	input, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return p.ParseInput(ctx, input)
}

// ParseInput parses an already loaded page. Results are looked up in and
// stored to the cache by content digest.
func (p *Pipeline) ParseInput(ctx context.Context, input *Input) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cache.Key(input.Digest)
	if doc, ok := p.cached(key); ok {
		doc.Source = input.Source
		doc.Cached = true
		p.logger.Debug("cache hit", slog.String("source", input.Source), slog.String("digest", input.Digest))
		return &ParseResult{Document: doc}, nil
	}

	recorder := newWarningRecorder(p.logger.Handler())
	logger := slog.New(recorder).With(slog.String("source", input.Source))

	data, err := patent.ParseReader(bytes.NewReader(input.HTML), patent.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", input.Source, err)
	}

	doc := &model.Document{
		Source:   input.Source,
		Digest:   input.Digest,
		ParsedAt: p.now().UTC(),
		Warnings: recorder.Warnings(),
		Patent:   data,
	}
	p.store(key, doc)

	return &ParseResult{Document: doc}, nil
}

func (p *Pipeline) cached(key string) (*model.Document, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	doc := &model.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		p.logger.Warn("dropping unreadable cache entry", slog.String("key", key), slog.Any("err", err))
		_ = p.cache.Delete(key)
		return nil, false
	}
	return doc, true
}

func (p *Pipeline) store(key string, doc *model.Document) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		p.logger.Warn("cannot encode cache entry", slog.String("key", key), slog.Any("err", err))
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		p.logger.Warn("cannot store cache entry", slog.String("key", key), slog.Any("err", err))
	}
}

// RenderDocument writes the document as JSON to path ("-" for stdout)
// and prints a summary to stderr when enabled
func (p *Pipeline) RenderDocument(doc *model.Document, path string) error {
	if err := p.renderer.RenderJSON(doc, path); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	if p.config.Output.Verbose && path != StdoutTarget {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", path)
	}

	if p.config.Output.Summary {
		p.renderer.RenderSummary(doc, os.Stderr)
	}

	return nil
}
