// package essay builds essays.json, the index of every essay page the site serves.
package essay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultDir   = "essays"
	DefaultIndex = "essays.json"
)

// Entry is one record of the index.
type Entry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	File  string `json:"-"` // path on disk
}

// Scan lists the *.html files directly inside dir, in directory order, and derives an Entry for each.
// A missing dir has no essays. A file that can't be read gets its title from its filename.
func Scan(dir string, logger *zap.Logger) ([]Entry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dirents, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("essay dir not found", zap.String("dir", dir))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	prefix := filepath.ToSlash(dir)
	var entries []Entry
	for _, d := range dirents {
		name := d.Name()
		// same files a shell glob of *.html would pick up.
		if d.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".html" {
			continue
		}
		file := filepath.Join(dir, name)
		b, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("unreadable essay: falling back to filename", zap.String("file", file), zap.Error(err))
		}
		entries = append(entries, Entry{Title: Title(name, b), URL: path.Join(prefix, name), File: file})
	}
	return entries, nil
}

// Encode renders entries as a JSON array, one object per line:
//
//	[
//	    { "title": "T1", "url": "essays/f1.html" },
//	    { "title": "T2", "url": "essays/f2.html" }
//
//	]
func Encode(entries []Entry) []byte {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf(`    { "title": %s, "url": %s }`, quote(e.Title), quote(e.URL))
	}
	body := strings.Join(lines, ",\n")
	if body != "" {
		body += "\n"
	}
	return []byte("[\n" + body + "\n]\n")
}

// quote s as a JSON string, leaving <, > and & alone.
func quote(s string) string {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string can't fail
	return strings.TrimSuffix(buf.String(), "\n")
}

// Options for Build. Zero values fall back to DefaultDir, DefaultIndex and a no-op logger.
type Options struct {
	Dir    string // scanned for essays; also the prefix of every url.
	Index  string // where the index is written.
	Logger *zap.Logger
}

type Result struct {
	Index   string
	Entries []Entry
}

// Build scans opts.Dir and replaces opts.Index with a freshly encoded index.
// Only failing to write the index is an error: an unlistable directory just means no essays.
func Build(opts Options) (Result, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Index == "" {
		opts.Index = DefaultIndex
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := Scan(opts.Dir, logger)
	if err != nil {
		logger.Warn("can't list essays: writing an empty index", zap.Error(err))
		entries = nil
	}
	for _, e := range entries {
		logger.Debug("indexed", zap.String("title", e.Title), zap.String("url", e.URL))
	}
	if err := WriteFile(opts.Index, Encode(entries)); err != nil {
		return Result{}, fmt.Errorf("write index: %w", err)
	}
	logger.Info("wrote index", zap.String("index", opts.Index), zap.Int("essays", len(entries)))
	return Result{Index: opts.Index, Entries: entries}, nil
}
