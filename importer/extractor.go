// Package importer turns outside documents (HTML articles, PDFs, plain
// text) into draft catalog entries an author can paste into a content file
// and edit. Extraction is authoring support only: drafts are printed, never
// written into the source tree.
package importer

import (
	"fmt"
	"strings"
)

// Draft is extracted material for one prospective entry.
type Draft struct {
	Title string // best-effort document title, may be empty
	Text  string // extracted plain text
}

// Extractor converts raw document bytes into a draft.
type Extractor interface {
	Extract(content []byte) (Draft, error)
}

// ForFile returns the extractor matching a filename extension.
// Unrecognized extensions fall back to plain text.
func ForFile(filename string) Extractor {
	ext := strings.ToLower(filename)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	switch ext {
	case "html", "htm":
		return HTMLExtractor{}
	case "pdf":
		return PDFExtractor{}
	default:
		return PlainTextExtractor{}
	}
}

// PlainTextExtractor passes content through unchanged, using the first
// line as the draft title when it looks like one.
type PlainTextExtractor struct{}

var _ Extractor = PlainTextExtractor{}

func (PlainTextExtractor) Extract(content []byte) (Draft, error) {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return Draft{}, fmt.Errorf("empty document")
	}

	title := ""
	if line, rest, ok := strings.Cut(text, "\n"); ok {
		line = strings.TrimSpace(line)
		// A short first line followed by a blank line reads as a title.
		if len(line) <= 80 && strings.HasPrefix(strings.TrimLeft(rest, " \t"), "\n") {
			title = line
			text = strings.TrimSpace(rest)
		}
	}
	return Draft{Title: title, Text: text}, nil
}

// DraftMarkdown formats a draft as a catalog entry skeleton in the
// authoring format: an optional section heading, the entry heading, the
// extracted text as body, and an empty code fence to fill in.
func DraftMarkdown(d Draft, section string) string {
	var b strings.Builder
	if section != "" {
		fmt.Fprintf(&b, "# %s\n\n", section)
	}
	title := d.Title
	if title == "" {
		title = "Untitled tip"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	if d.Text != "" {
		b.WriteString(strings.TrimSpace(d.Text))
		b.WriteString("\n\n")
	}
	b.WriteString("```\n```\n")
	return b.String()
}
