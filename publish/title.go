package publish

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerRE  = regexp.MustCompile(`(?m)^# (.+)$`)
	unslugRE  = regexp.MustCompile(`[^a-z0-9\s-]`)
	spacesRE  = regexp.MustCompile(`\s+`)
	titleCase = cases.Title(language.English)
)

// HeaderTitle finds the first level-one "# Title" header. If there is one, it returns the title
// and md with that header line removed.
func HeaderTitle(md []byte) (title string, rest []byte, ok bool) {
	m := headerRE.FindSubmatchIndex(md)
	if m == nil {
		return "", md, false
	}
	title = strings.TrimSpace(string(md[m[2]:m[3]]))
	end := m[1]
	if end < len(md) && md[end] == '\n' {
		end++
	}
	rest = append(append(make([]byte, 0, len(md)-(end-m[0])), md[:m[0]]...), md[end:]...)
	return title, rest, true
}

// FilenameTitle title-cases a draft's filename: "drafts/my_first-essay.md" => "My First Essay".
func FilenameTitle(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return titleCase.String(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
}

// Slug is the essay's filename for a title: lowercase, punctuation dropped, whitespace runs hyphenated.
// "Hello, World: Part 2" => "hello-world-part-2.html".
func Slug(title string) string {
	s := unslugRE.ReplaceAllString(strings.ToLower(title), "")
	return spacesRE.ReplaceAllString(s, "-") + ".html"
}
