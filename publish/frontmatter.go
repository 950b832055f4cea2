package publish

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the optional YAML block at the top of a draft.
type Frontmatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

var frontmatterRE = regexp.MustCompile(`(?s)\A---\n(.*?)---\n`)

// SplitFrontmatter separates a leading ---\n...---\n block from the markdown that follows it.
// Drafts without one come back unchanged, with a zero Frontmatter.
func SplitFrontmatter(md []byte) (Frontmatter, []byte, error) {
	var fm Frontmatter
	m := frontmatterRE.FindSubmatchIndex(md)
	if m == nil {
		return fm, md, nil
	}
	if err := yaml.Unmarshal(md[m[2]:m[3]], &fm); err != nil {
		return fm, md, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, md[m[1]:], nil
}
