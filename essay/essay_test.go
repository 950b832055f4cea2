package essay_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dakshmehta/site/essay"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTitle(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct {
		name, file, html, want string
	}{
		{"suffix stripped", "a.html", `<html><head><title>My Essay - Daksh Mehta</title></head></html>`, "My Essay"},
		{"no suffix", "a.html", `<title>Plain Title</title>`, "Plain Title"},
		{"no title tag", "my-cool-essay.html", `<html><body><h1>hi</h1></body></html>`, "my cool essay"},
		{"empty file", "my-cool-essay.html", ``, "my cool essay"},
		{"first match wins", "a.html", `<title>One</title><title>Two</title>`, "One"},
		{"unclosed tag", "un-closed.html", `<title>never closed`, "un closed"},
		{"spans lines", "a.html", "<title>Two\nLines</title>", "Two\nLines"},
		{"suffix only at end", "a.html", `<title>Daksh Mehta - Daksh Mehta - Notes</title>`, "Daksh Mehta - Daksh Mehta - Notes"},
		{"character references", "a.html", `<title>Cats &amp; Dogs - Daksh Mehta</title>`, "Cats & Dogs"},
		{"empty title", "x-y.html", `<title></title>`, ""},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := essay.Title(tt.file, []byte(tt.html)); got != tt.want {
				t.Errorf("Title(%q, %q) = %q, want %q", tt.file, tt.html, got, tt.want)
			}
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	t.Parallel()
	for file, want := range map[string]string{
		"my-cool-essay.html":      "my cool essay",
		"essays/on-writing.html":  "on writing",
		"no_hyphens.html":         "no_hyphens",
		"--.html":                 "  ",
		"trailing-html-name.html": "trailing html name",
		"double.html.html":        "double.html",
	} {
		if got := essay.TitleFromFilename(file); got != want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", file, got, want)
		}
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()
	t.Run("empty", func(t *testing.T) {
		got := essay.Encode(nil)
		if want := "[\n\n]\n"; string(got) != want {
			t.Fatalf("Encode(nil) = %q, want %q", got, want)
		}
		var v []any
		if err := json.Unmarshal(got, &v); err != nil || len(v) != 0 {
			t.Fatalf("expected a valid empty array: %v %v", v, err)
		}
	})
	t.Run("entries", func(t *testing.T) {
		got := essay.Encode([]essay.Entry{
			{Title: "T1", URL: "essays/f1.html"},
			{Title: "T2", URL: "essays/f2.html"},
		})
		const want = "[\n" +
			`    { "title": "T1", "url": "essays/f1.html" },` + "\n" +
			`    { "title": "T2", "url": "essays/f2.html" }` + "\n" +
			"\n]\n"
		if string(got) != want {
			t.Fatalf("got\n%s\nwant\n%s", got, want)
		}
	})
	t.Run("escaping", func(t *testing.T) {
		in := []essay.Entry{{Title: `"Quoted" <b> & \ back` + "\n", URL: "essays/q.html"}}
		got := essay.Encode(in)
		if !bytes.Contains(got, []byte(`<b> & `)) {
			t.Errorf("html characters should be left alone: %s", got)
		}
		var out []essay.Entry
		if err := json.Unmarshal(got, &out); err != nil {
			t.Fatalf("invalid json %s: %v", got, err)
		}
		if out[0].Title != in[0].Title || out[0].URL != in[0].URL {
			t.Fatalf("got %+v, want %+v", out[0], in[0])
		}
	})
}

// writeEssays creates dir/essays with the given files and returns the essays dir.
func writeEssays(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "essays")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScan(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	dir := writeEssays(t, map[string]string{
		"b-second.html":  `<title>Second - Daksh Mehta</title>`,
		"a-first.html":   `no title here`,
		"c-third.html":   `<title>Third</title>`,
		"notes.md":       `# not html`,
		".hidden.html":   `<title>Hidden</title>`,
		"page.htm":       `<title>Wrong extension</title>`,
		"index.html.bak": `<title>Backup</title>`,
	})
	if err := os.Mkdir(filepath.Join(dir, "folder.html"), 0o755); err != nil {
		t.Fatal(err)
	}
	entries, err := essay.Scan(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []essay.Entry{
		{Title: "a first", File: filepath.Join(dir, "a-first.html")},
		{Title: "Second", File: filepath.Join(dir, "b-second.html")},
		{Title: "Third", File: filepath.Join(dir, "c-third.html")},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i := range want {
		want[i].URL = filepath.ToSlash(dir) + "/" + filepath.Base(want[i].File)
		if entries[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestScanMissingDir(t *testing.T) {
	t.Parallel()
	entries, err := essay.Scan(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil || len(entries) != 0 {
		t.Fatalf("Scan(missing) = %v, %v: want no entries and no error", entries, err)
	}
}

func TestScanUnreadableFile(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	dir := writeEssays(t, map[string]string{"ok.html": `<title>OK</title>`})
	// a dangling symlink is listed but can't be read.
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken-link.html")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	core, logs := observer.New(zapcore.WarnLevel)
	entries, err := essay.Scan(dir, zap.New(core))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Title != "broken link" || entries[1].Title != "OK" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if logs.FilterMessageSnippet("unreadable").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

// Build with the default relative paths, from inside a fresh working directory.
func TestBuildDefaults(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	root := filepath.Dir(writeEssays(t, map[string]string{
		"my-cool-essay.html": `<p>no title</p>`,
		"on-go.html":         `<html><head><title>On Go - Daksh Mehta</title></head></html>`,
	}))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	res, err := essay.Build(essay.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Index != essay.DefaultIndex || len(res.Entries) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	first, err := os.ReadFile(essay.DefaultIndex)
	if err != nil {
		t.Fatal(err)
	}
	const want = "[\n" +
		`    { "title": "my cool essay", "url": "essays/my-cool-essay.html" },` + "\n" +
		`    { "title": "On Go", "url": "essays/on-go.html" }` + "\n" +
		"\n]\n"
	if string(first) != want {
		t.Fatalf("got\n%s\nwant\n%s", first, want)
	}

	// idempotent: a second run writes the same bytes.
	if _, err := essay.Build(essay.Options{}); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(essay.DefaultIndex)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("second run differs:\n%s\n%s", first, second)
	}
}

func TestBuildReplacesStaleIndex(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	dir := writeEssays(t, map[string]string{"a.html": `<title>A</title>`, "b.html": `<title>B</title>`})
	index := filepath.Join(filepath.Dir(dir), "essays.json")
	if _, err := essay.Build(essay.Options{Dir: dir, Index: index}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "b.html")); err != nil {
		t.Fatal(err)
	}
	if _, err := essay.Build(essay.Options{Dir: dir, Index: index}); err != nil {
		t.Fatal(err)
	}
	var got []essay.Entry
	b, _ := os.ReadFile(index)
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("stale entries kept: %+v", got)
	}
}

func TestBuildMissingDir(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	root := t.TempDir()
	index := filepath.Join(root, "essays.json")
	res, err := essay.Build(essay.Options{Dir: filepath.Join(root, "essays"), Index: index})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 0 {
		t.Fatalf("expected no entries, got %+v", res.Entries)
	}
	b, err := os.ReadFile(index)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[\n\n]\n" {
		t.Fatalf("got %q", b)
	}
}

func TestBuildUnwritableIndex(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	dir := writeEssays(t, map[string]string{"a.html": `<title>A</title>`})
	index := filepath.Join(filepath.Dir(dir), "missing", "essays.json")
	if _, err := essay.Build(essay.Options{Dir: dir, Index: index}); err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
	if _, err := os.Stat(index); !os.IsNotExist(err) {
		t.Fatalf("expected no index, got %v", err)
	}
}

func TestWriteFileLeavesNoTempFiles(t *testing.T) {
	if testing.Short() {
		t.Skipf("SKIP %s: touches filesystem", t.Name())
	}
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.json")
	for _, content := range []string{"first", "second"} {
		if err := essay.WriteFile(dst, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if b, _ := os.ReadFile(dst); string(b) != "second" {
		t.Fatalf("got %q, want %q", b, "second")
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirents) != 1 {
		t.Fatalf("expected only out.json, got %v", dirents)
	}
}
