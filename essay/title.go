package essay

import (
	"html"
	"path/filepath"
	"regexp"
	"strings"
)

// Author of every essay on the site.
const Author = "Daksh Mehta"

// Suffix is appended to every essay's <title> by the publisher; it's not part of the display title.
const Suffix = " - " + Author

// first <title>...</title> pair, non-greedy, across newlines.
var titleRE = regexp.MustCompile(`(?s)<title>(.*?)</title>`)

// TitleFromHTML returns the text between the first <title> and </title> tags, with Suffix trimmed
// and HTML character references decoded. ok is false if there's no such pair.
func TitleFromHTML(b []byte) (title string, ok bool) {
	m := titleRE.FindSubmatch(b)
	if m == nil {
		return "", false
	}
	return html.UnescapeString(strings.TrimSuffix(string(m[1]), Suffix)), true
}

// TitleFromFilename strips the .html extension and turns hyphens into spaces:
// "my-cool-essay.html" => "my cool essay".
func TitleFromFilename(name string) string {
	return strings.ReplaceAll(strings.TrimSuffix(filepath.Base(name), ".html"), "-", " ")
}

// Title picks the display title for the essay file name with contents b, preferring the <title> tag.
func Title(name string, b []byte) string {
	if title, ok := TitleFromHTML(b); ok {
		return title
	}
	return TitleFromFilename(name)
}
