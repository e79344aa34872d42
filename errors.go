package tipbook

import "fmt"

// ErrMalformedContent reports a structural violation in a content source,
// such as an entry heading with no title or an entry outside any section.
// Loading halts at the first violation; no partial catalog is returned.
type ErrMalformedContent struct {
	Source string // file the violation was found in
	Line   int    // 1-based line, 0 when unknown
	Reason string
}

func (e *ErrMalformedContent) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

// ErrEmptyAnchor reports a title whose derived anchor is empty, which would
// name a page ".html" and emit unlinkable id="" fragments. The title needs
// at least one letter or digit.
type ErrEmptyAnchor struct {
	Title string
}

func (e *ErrEmptyAnchor) Error() string {
	return fmt.Sprintf("title %q derives an empty anchor; add a letter or digit", e.Title)
}

// ErrDuplicateAnchor reports two titles that derive the same anchor slug.
// Anchors must be unique across the whole catalog or in-page navigation
// breaks, so outline generation halts and the author must rename one title.
type ErrDuplicateAnchor struct {
	Anchor string
	First  string // title that claimed the anchor first
	Second string // title that collided with it
}

func (e *ErrDuplicateAnchor) Error() string {
	return fmt.Sprintf("duplicate anchor %q: titles %q and %q collide; rename one",
		e.Anchor, e.First, e.Second)
}
