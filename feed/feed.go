// package feed builds an RSS 2.0 feed of the site's essays.
//
// Each essay keeps the GUID and publication date it was first seen with: both live in a JSON cache next
// to an md5 of the page, so re-running the build only touches essays whose pages changed.
package feed

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dakshmehta/site/essay"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	DefaultOut      = "feed.xml"
	DefaultCacheDir = ".feedcache"
	DefaultSiteURL  = "https://dakshmehta.com"
)

// Item is the cached state of one essay in the feed.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	GUID        uuid.UUID `json:"guid"`
	PubDate     time.Time `json:"pub_date"`
}

type Options struct {
	Dir      string // essays directory on disk; default essay.DefaultDir.
	Path     string // the essays directory's path on the site; default essay.DefaultDir.
	Out      string // default DefaultOut.
	CacheDir string // default DefaultCacheDir.
	SiteURL  string // default DefaultSiteURL.
	Now      func() time.Time
	Logger   *zap.Logger
}

type Result struct {
	Items   []Item // newest first
	Changed int    // essays added, updated, or removed since the last build
	Written bool   // false if nothing changed and the feed was left alone
}

func (o *Options) defaults() {
	or := func(s *string, backup string) {
		if *s == "" {
			*s = backup
		}
	}
	or(&o.Dir, essay.DefaultDir)
	or(&o.Path, essay.DefaultDir)
	or(&o.Out, DefaultOut)
	or(&o.CacheDir, DefaultCacheDir)
	or(&o.SiteURL, DefaultSiteURL)
	o.SiteURL = strings.TrimSuffix(o.SiteURL, "/")
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Build refreshes the cache from the essays in opts.Dir and writes the feed.
func Build(opts Options) (Result, error) {
	opts.defaults()
	logger := opts.Logger
	now := opts.Now()

	entries, err := essay.Scan(opts.Dir, logger)
	if err != nil {
		return Result{}, err
	}
	itemsPath, sumsPath := filepath.Join(opts.CacheDir, "items.json"), filepath.Join(opts.CacheDir, "checksums.json")
	items, err := fromFile[map[string]Item](itemsPath, logger)
	if err != nil {
		return Result{}, err
	}
	checksums, err := fromFile[map[string][16]byte](sumsPath, logger)
	if err != nil {
		return Result{}, err
	}
	if items == nil {
		items = make(map[string]Item)
	}
	if checksums == nil {
		checksums = make(map[string][16]byte)
	}

	var changed int
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := filepath.Base(e.File)
		logger := logger.With(zap.String("essay", name))
		b, err := os.ReadFile(e.File)
		if err != nil {
			logger.Warn("unreadable essay: leaving it out of the feed", zap.Error(err))
			continue
		}
		seen[name] = true
		wantSum := md5.Sum(b)
		item, ok := items[name]
		if gotSum, sumOK := checksums[name]; ok && sumOK && gotSum == wantSum {
			logger.Debug("checksum match; skipping")
			continue
		}
		if !ok {
			item = Item{GUID: uuid.New(), PubDate: now}
			logger.Info("new essay", zap.Stringer("guid", item.GUID))
		} else {
			logger.Info("checksum mismatch: updating", zap.Stringer("guid", item.GUID))
		}
		item.Title = e.Title
		item.Link = opts.SiteURL + "/" + path.Join(opts.Path, name)
		item.Description = describe(b)
		items[name] = item
		checksums[name] = wantSum
		changed++
	}
	for name := range items {
		if !seen[name] {
			logger.Info("essay removed", zap.String("essay", name))
			delete(items, name)
			delete(checksums, name)
			changed++
		}
	}

	res := Result{Items: sorted(items), Changed: changed}
	if _, err := os.Stat(opts.Out); changed == 0 && err == nil {
		logger.Info("no changes; feed is up to date", zap.String("out", opts.Out))
		return res, nil
	}
	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return res, fmt.Errorf("create cache dir: %w", err)
	}
	if err := toFile(itemsPath, items); err != nil {
		return res, err
	}
	if err := toFile(sumsPath, checksums); err != nil {
		return res, err
	}
	b, err := Encode(Channel(opts.SiteURL, now), res.Items)
	if err != nil {
		return res, err
	}
	if err := essay.WriteFile(opts.Out, b); err != nil {
		return res, fmt.Errorf("write feed: %w", err)
	}
	res.Written = true
	logger.Info("wrote feed", zap.String("out", opts.Out), zap.Int("items", len(res.Items)), zap.Int("changed", changed))
	return res, nil
}

// sorted returns the items newest first, breaking ties by link.
func sorted(items map[string]Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b Item) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return strings.Compare(a.Link, b.Link)
	})
	return out
}

// describe returns the text of the essay's first paragraph, whitespace collapsed.
func describe(b []byte) string {
	node, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return ""
	}
	p := goquery.NewDocumentFromNode(node).Find(".content p").First()
	return strings.Join(strings.Fields(p.Text()), " ")
}

func toFile[T any](path string, t T) error {
	b, err := json.MarshalIndent(t, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := essay.WriteFile(path, b); err != nil {
		return fmt.Errorf("writing cache %s: %w", path, err)
	}
	return nil
}

func fromFile[T any](path string, logger *zap.Logger) (T, error) {
	var t T
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("cache file not found: first run?", zap.String("path", path))
		return t, nil
	} else if err != nil {
		return t, fmt.Errorf("read cache: %w", err)
	}
	if err := json.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse cache %s: %w", path, err)
	}
	return t, nil
}
