package publish

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/dakshmehta/site/essay"
	"golang.org/x/text/unicode/norm"
)

//go:embed essay.html.tmpl
var pageTmpl string

var page = template.Must(template.New("essay").Parse(pageTmpl))

// Page is a draft ready to be laid out as an essay.
type Page struct {
	Title string
	Date  string
	Body  []byte // rendered HTML fragment
}

// Draft turns markdown source into a Page. The title is the first of:
// the explicit title, the frontmatter's title, the first "# " header (dropped from the body), or the filename.
// The date is the frontmatter's, or now's year.
func Draft(name string, md []byte, title string, now time.Time) (Page, error) {
	fm, md, err := SplitFrontmatter(norm.NFC.Bytes(bytes.ReplaceAll(md, []byte("\r\n"), []byte("\n"))))
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", name, err)
	}
	if title == "" {
		title = fm.Title
	}
	if header, rest, ok := HeaderTitle(md); ok && title == "" {
		title, md = header, rest
	}
	if title == "" {
		title = FilenameTitle(name)
	}
	date := fm.Date
	if date == "" {
		date = strconv.Itoa(now.Year())
	}
	body, err := Render(md)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", name, err)
	}
	return Page{Title: title, Date: date, Body: body}, nil
}

// HTML lays the page out with the site's essay template.
func (p Page) HTML(year int) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := page.Execute(buf, struct {
		Title, Suffix, Date, Author string
		Year                        int
		Body                        template.HTML
	}{
		Title:  p.Title,
		Suffix: essay.Suffix,
		Date:   p.Date,
		Author: essay.Author,
		Year:   year,
		Body:   template.HTML(p.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("execute essay template: %w", err)
	}
	return buf.Bytes(), nil
}
