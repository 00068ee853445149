// Package ingest loads Markdown sources into the vector store: parsing,
// chunking, and indexing into the documentation and learning corpora.
package ingest

import (
	"bufio"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source kinds, taken from the "kind" frontmatter key.
const (
	KindDocumentation = "documentation"
	KindLearning      = "learning"
)

// Document is a parsed Markdown source file.
type Document struct {
	// Title from frontmatter, falling back to the first h1.
	Title string

	// Kind selects the target corpus; defaults to documentation.
	Kind string

	// URL is where the resource lives, cited in learning-search answers.
	URL string

	// Tags from frontmatter, stored as chunk metadata.
	Tags []string

	// Body is the content after the frontmatter block.
	Body string

	// Sections is the body split by headings, in document order.
	Sections []Section
}

// Section is a heading and the content under it.
type Section struct {
	Level   int    // 1-6 for h1-h6
	Heading string // heading text without the marker
	Path    string // breadcrumb like "# Setup > ## Install"
	Content string
}

var (
	h1Pattern      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
)

// Parse turns raw Markdown into a Document. Frontmatter is optional; a
// malformed frontmatter block is skipped rather than failing the file.
func Parse(content string) *Document {
	doc := &Document{Kind: KindDocumentation}

	body := content
	if strings.HasPrefix(content, "---\n") {
		if end := strings.Index(content[4:], "\n---"); end > 0 {
			var meta struct {
				Title string   `yaml:"title"`
				Kind  string   `yaml:"kind"`
				URL   string   `yaml:"url"`
				Tags  []string `yaml:"tags"`
			}
			if err := yaml.Unmarshal([]byte(content[4:4+end]), &meta); err == nil {
				doc.Title = meta.Title
				doc.URL = meta.URL
				doc.Tags = meta.Tags
				if meta.Kind == KindLearning {
					doc.Kind = KindLearning
				}
			}
			body = strings.TrimPrefix(content[4+end+4:], "\n")
		}
	}

	doc.Body = body
	if doc.Title == "" {
		if match := h1Pattern.FindStringSubmatch(body); len(match) > 1 {
			doc.Title = strings.TrimSpace(match[1])
		}
	}
	doc.Sections = parseSections(body)
	return doc
}

// parseSections splits the body at headings, tracking the breadcrumb path.
func parseSections(body string) []Section {
	var sections []Section
	var path []string
	var levels []int

	var current *Section
	var content strings.Builder

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(content.String())
			sections = append(sections, *current)
			content.Reset()
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		match := headingPattern.FindStringSubmatch(line)
		if match == nil {
			if current != nil {
				content.WriteString(line)
				content.WriteString("\n")
			}
			continue
		}

		flush()
		level := len(match[1])
		heading := strings.TrimSpace(match[2])

		// Pop siblings and deeper levels off the breadcrumb.
		for len(levels) > 0 && levels[len(levels)-1] >= level {
			path = path[:len(path)-1]
			levels = levels[:len(levels)-1]
		}
		path = append(path, match[1]+" "+heading)
		levels = append(levels, level)

		current = &Section{
			Level:   level,
			Heading: heading,
			Path:    strings.Join(path, " > "),
		}
	}
	flush()

	return sections
}
