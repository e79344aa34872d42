// Package markdown loads tip catalogs from Markdown sources.
//
// The authoring format is plain Markdown: every H1 opens a section, every
// H2 under it opens an entry, prose under an H2 becomes the entry body,
// fenced code blocks become code samples, and fences whose info string is
// "output" become example outputs. Files in a directory are concatenated
// in lexical filename order, so a numeric prefix (01-lists.md, 02-seq.md)
// controls section order.
package markdown

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/nevindra/tipbook"
)

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a structured logger for the loader. When set, the loader
// emits debug logs per parsed file. If not set, no logs are emitted.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// Loader parses Markdown sources into a tipbook.Catalog.
type Loader struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// New creates a Loader. The underlying parser understands GFM extensions
// (tables, strikethrough) so authored content round-trips cleanly.
func New(opts ...Option) *Loader {
	ld := &Loader{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

// LoadDir parses every .md file in dir, in lexical filename order, and
// assembles the catalog. It fails with *tipbook.ErrMalformedContent if the
// directory holds no Markdown sources or any file violates the structural
// rules. No partial catalog is returned on failure.
func (ld *Loader) LoadDir(dir string) (*tipbook.Catalog, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, &tipbook.ErrMalformedContent{Source: dir, Reason: "no markdown sources"}
	}

	catalog := &tipbook.Catalog{}
	for _, name := range names {
		source, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		sections, err := ld.Parse(name, source)
		if err != nil {
			return nil, err
		}
		catalog.Sections = append(catalog.Sections, sections...)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	ld.logger.Debug("markdown: catalog loaded",
		"dir", dir, "files", len(names),
		"sections", len(catalog.Sections), "entries", catalog.TotalEntries())
	return catalog, nil
}

// LoadFile parses a single Markdown file into a catalog.
func (ld *Loader) LoadFile(path string) (*tipbook.Catalog, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sections, err := ld.Parse(filepath.Base(path), source)
	if err != nil {
		return nil, err
	}
	catalog := &tipbook.Catalog{Sections: sections}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Parse parses one Markdown source into sections. name is used in error
// messages only.
func (ld *Loader) Parse(name string, source []byte) ([]tipbook.Section, error) {
	doc := ld.md.Parser().Parse(text.NewReader(source))

	p := &fileParser{name: name, source: source}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := p.block(n); err != nil {
			return nil, err
		}
	}
	p.flushEntry()

	ld.logger.Debug("markdown: file parsed", "file", name, "sections", len(p.sections))
	return p.sections, nil
}

// fileParser accumulates sections while walking top-level blocks in order.
type fileParser struct {
	name   string
	source []byte

	sections []tipbook.Section
	entry    *tipbook.Entry
	body     []string // raw markdown blocks of the open entry
}

func (p *fileParser) block(n ast.Node) error {
	if h, ok := n.(*ast.Heading); ok && h.Level <= 2 {
		return p.heading(h)
	}

	// Inside an entry, fences split into samples and outputs; everything
	// else is body prose.
	if p.entry != nil {
		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			lang := string(fcb.Language(p.source))
			code := fenceContent(fcb, p.source)
			if lang == "output" {
				p.entry.Outputs = append(p.entry.Outputs, code)
			} else {
				p.entry.Samples = append(p.entry.Samples, tipbook.CodeSample{Language: lang, Code: code})
			}
			return nil
		}
		p.body = append(p.body, p.raw(n))
		return nil
	}

	// Between a section heading and its first entry: intro prose. A deeper
	// heading here means the author skipped the entry level.
	if len(p.sections) > 0 {
		sec := &p.sections[len(p.sections)-1]
		if h, ok := n.(*ast.Heading); ok {
			return &tipbook.ErrMalformedContent{
				Source: p.name,
				Line:   p.lineOf(h),
				Reason: fmt.Sprintf("heading %q in section %q skips the entry level",
					strings.TrimSpace(nodeText(h, p.source)), sec.Title),
			}
		}
		if sec.Intro != "" {
			sec.Intro += "\n\n"
		}
		sec.Intro += p.raw(n)
		return nil
	}

	return &tipbook.ErrMalformedContent{
		Source: p.name,
		Line:   p.lineOf(n),
		Reason: "content before any section heading",
	}
}

func (p *fileParser) heading(h *ast.Heading) error {
	title := strings.TrimSpace(nodeText(h, p.source))
	line := p.lineOf(h)

	switch h.Level {
	case 1:
		if title == "" {
			return &tipbook.ErrMalformedContent{Source: p.name, Line: line, Reason: "section heading with no title"}
		}
		p.flushEntry()
		p.sections = append(p.sections, tipbook.Section{Title: title})

	case 2:
		if title == "" {
			return &tipbook.ErrMalformedContent{Source: p.name, Line: line, Reason: "entry heading with no title"}
		}
		if len(p.sections) == 0 {
			return &tipbook.ErrMalformedContent{
				Source: p.name,
				Line:   line,
				Reason: fmt.Sprintf("entry %q appears before any section heading", title),
			}
		}
		p.flushEntry()
		sec := &p.sections[len(p.sections)-1]
		for _, e := range sec.Entries {
			if e.Title == title {
				return &tipbook.ErrMalformedContent{
					Source: p.name,
					Line:   line,
					Reason: fmt.Sprintf("duplicate entry title %q in section %q", title, sec.Title),
				}
			}
		}
		p.entry = &tipbook.Entry{
			ID:     tipbook.EntryID(sec.Title, title),
			Title:  title,
			Source: p.name,
			Line:   line,
		}
	}
	return nil
}

// flushEntry finalizes the open entry, if any, into the current section.
func (p *fileParser) flushEntry() {
	if p.entry == nil {
		return
	}
	p.entry.Body = strings.Join(p.body, "\n\n")
	sec := &p.sections[len(p.sections)-1]
	sec.Entries = append(sec.Entries, *p.entry)
	p.entry = nil
	p.body = nil
}

// raw returns the source text of a block node, extended left to the start
// of its first line so list markers and blockquote prefixes survive.
func (p *fileParser) raw(n ast.Node) string {
	if fcb, ok := n.(*ast.FencedCodeBlock); ok {
		// Reconstruct the fence: inner lines alone lose the markers.
		lang := string(fcb.Language(p.source))
		return "```" + lang + "\n" + fenceContent(fcb, p.source) + "```"
	}

	start, stop, ok := blockRange(n)
	if !ok {
		return ""
	}
	for start > 0 && p.source[start-1] != '\n' {
		start--
	}
	return strings.TrimRight(string(p.source[start:stop]), "\n")
}

// lineOf returns the 1-based line number of a block node, or 0 if the node
// carries no source segments.
func (p *fileParser) lineOf(n ast.Node) int {
	start, _, ok := blockRange(n)
	if !ok {
		return 0
	}
	return 1 + bytes.Count(p.source[:start], []byte{'\n'})
}

// blockRange returns the byte range a block node spans, recursing into
// container nodes (lists, blockquotes) whose own segment list is empty.
func blockRange(n ast.Node) (start, stop int, ok bool) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start, lines.At(lines.Len()-1).Stop, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cs, cstop, cok := blockRange(c)
		if !cok {
			continue
		}
		if !ok || cs < start {
			start = cs
		}
		if cstop > stop {
			stop = cstop
		}
		ok = true
	}
	return start, stop, ok
}

// fenceContent concatenates the inner lines of a fenced code block.
func fenceContent(fcb *ast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// nodeText collects the plain text content of a node and its children.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
