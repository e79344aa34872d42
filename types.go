package tipbook

import "fmt"

// Section is a named, ordered grouping of related tips. Order is
// significant: sections list and render in the order they were authored.
type Section struct {
	Title string
	// Intro is optional prose between the section heading and the first
	// entry. Raw Markdown.
	Intro   string
	Entries []Entry
}

// CodeSample is one fenced code block attached to an entry. Code is opaque
// text: it is never executed or type-checked by this system.
type CodeSample struct {
	Language string
	Code     string
}

// Entry is a single documented idiom or tip.
type Entry struct {
	// ID is a stable identifier assigned at load time, derived from the
	// section and entry titles (see EntryID).
	ID string
	// Title must be unique across the whole catalog; Catalog.Validate
	// enforces this after load.
	Title string
	// Body is the explanatory prose, raw Markdown, possibly multi-paragraph.
	Body string
	// Samples and Outputs keep authored order. Outputs are example
	// transcripts (fences tagged "output"), rendered distinctly from code.
	Samples []CodeSample
	Outputs []string

	// Source and Line locate the entry heading for author-facing errors.
	Source string
	Line   int
}

// Catalog is the root aggregate: an ordered sequence of sections.
// A Catalog is assembled once by a loader and never mutated afterwards,
// so it is safe to share across goroutines without locking.
type Catalog struct {
	Sections []Section
}

// TotalEntries returns the number of entries across all sections.
func (c *Catalog) TotalEntries() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Entries)
	}
	return n
}

// Validate checks that no two entries share an exact title across the
// whole catalog. This is a data-model invariant, independent of how titles
// slug: distinct titles that happen to collapse to the same anchor are a
// separate failure caught by GenerateTOC. Returns *ErrMalformedContent
// locating the second occurrence, or nil.
func (c *Catalog) Validate() error {
	seen := make(map[string]string, c.TotalEntries()) // entry title -> owning section
	for _, s := range c.Sections {
		for _, e := range s.Entries {
			if first, ok := seen[e.Title]; ok {
				return &ErrMalformedContent{
					Source: e.Source,
					Line:   e.Line,
					Reason: fmt.Sprintf("entry title %q in section %q already used in section %q",
						e.Title, s.Title, first),
				}
			}
			seen[e.Title] = s.Title
		}
	}
	return nil
}

// Lookup finds the entry whose title slugs to the given anchor.
// Returns the owning section, the entry, and whether it was found.
func (c *Catalog) Lookup(anchor string) (Section, Entry, bool) {
	for _, s := range c.Sections {
		for _, e := range s.Entries {
			if Anchor(e.Title) == anchor {
				return s, e, true
			}
		}
	}
	return Section{}, Entry{}, false
}
