// package publish turns markdown drafts into essay pages and refreshes the essay index.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dakshmehta/site/essay"
	"go.uber.org/zap"
)

// ErrEmptySlug is returned for titles with no letters or digits to build a filename from.
var ErrEmptySlug = errors.New("title has no characters usable in a filename")

type Options struct {
	Title  string // overrides every other title source when set.
	Dir    string // essays directory; default essay.DefaultDir.
	Index  string // default essay.DefaultIndex.
	Now    func() time.Time
	Logger *zap.Logger
}

type Result struct {
	Path  string // the essay page written
	Page  Page
	Index essay.Result
}

// Publish renders the markdown file src into Dir/<slug>.html, then rebuilds the index.
func Publish(src string, opts Options) (Result, error) {
	if opts.Dir == "" {
		opts.Dir = essay.DefaultDir
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	md, err := os.ReadFile(src)
	if err != nil {
		return Result{}, fmt.Errorf("read draft: %w", err)
	}
	now := opts.Now()
	p, err := Draft(src, md, opts.Title, now)
	if err != nil {
		return Result{}, err
	}
	slug := Slug(p.Title)
	if slug == ".html" {
		return Result{}, fmt.Errorf("%q: %w", p.Title, ErrEmptySlug)
	}
	b, err := p.HTML(now.Year())
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create essays dir: %w", err)
	}
	dst := filepath.Join(opts.Dir, slug)
	if err := essay.WriteFile(dst, b); err != nil {
		return Result{}, fmt.Errorf("write essay: %w", err)
	}
	logger.Info("published", zap.String("src", src), zap.String("dst", dst), zap.String("title", p.Title))

	idx, err := essay.Build(essay.Options{Dir: opts.Dir, Index: opts.Index, Logger: logger})
	if err != nil {
		return Result{}, fmt.Errorf("update index after publishing %s: %w", dst, err)
	}
	return Result{Path: dst, Page: p, Index: idx}, nil
}
