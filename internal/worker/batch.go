package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ppiankov/patentia/internal/model"
	"github.com/ppiankov/patentia/internal/pipeline"
)

// Parser parses one input file
type Parser interface {
	ParseFile(ctx context.Context, path string) (*pipeline.ParseResult, error)
}

// ParseJob parses the file at Path
type ParseJob struct {
	Index   int
	Path    string
	Parser  Parser
	Timeout time.Duration
}

// Execute executes the parse job
func (j *ParseJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := j.Parser.ParseFile(ctx, j.Path)
	fr := &FileResult{
		Index:    j.Index,
		Path:     j.Path,
		Error:    err,
		Duration: time.Since(start),
	}
	if err == nil {
		fr.Document = result.Document
	}
	return fr
}

// FileResult is the outcome of parsing one file
type FileResult struct {
	Index    int
	Path     string
	Document *model.Document
	Error    error
	Duration time.Duration
}

// GetError returns the error from the parse result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor parses many files concurrently
type BatchProcessor struct {
	parser      Parser
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a new batch processor. A zero timeout leaves
// individual files unbounded.
func NewBatchProcessor(parser Parser, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// ProcessPaths parses the files and returns one result per path, in the
// order the paths were given. Files that never ran because ctx was
// cancelled carry the context error.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		job := &ParseJob{
			Index:   i,
			Path:    path,
			Parser:  b.parser,
			Timeout: b.timeout,
		}
		if !pool.Submit(job) {
			break
		}
	}

	ordered := make([]*FileResult, len(paths))
	for _, result := range pool.Wait() {
		fr := result.(*FileResult)
		ordered[fr.Index] = fr
	}

	for i, fr := range ordered {
		if fr == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &FileResult{Index: i, Path: paths[i], Error: err}
		}
	}

	return ordered
}

// ProcessFile reads paths from a list file and parses them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads input paths from a file, one per line. Blank
// lines and lines starting with # are skipped, duplicates are dropped and
// relative paths are resolved against the list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// ExpandInputs expands glob patterns in args. Plain paths are kept as
// given; a pattern matching nothing is an error. Duplicates are dropped.
func ExpandInputs(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			add(arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("expand %q: no matching files", arg)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}
