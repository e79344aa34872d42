package tipbook

// TOCItem is one line of a generated outline: a title, the anchor that
// links to it, and its depth (1 for sections, 2 for entries).
type TOCItem struct {
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
	Depth  int    `json:"depth"`
}

// GenerateTOC walks sections in order, then each section's entries in
// order, and derives an anchor-linked outline mirroring catalog order.
//
// Anchors must be non-empty and unique across the whole output. A title
// that slugs to nothing fails with *ErrEmptyAnchor; a collision fails with
// *ErrDuplicateAnchor naming both titles. No partial outline is returned
// on failure. An empty catalog yields an empty outline.
func GenerateTOC(c *Catalog) ([]TOCItem, error) {
	items := make([]TOCItem, 0, len(c.Sections)+c.TotalEntries())
	claimed := make(map[string]string, cap(items)) // anchor -> title

	add := func(title string, depth int) error {
		anchor := Anchor(title)
		if anchor == "" {
			return &ErrEmptyAnchor{Title: title}
		}
		if first, ok := claimed[anchor]; ok {
			return &ErrDuplicateAnchor{Anchor: anchor, First: first, Second: title}
		}
		claimed[anchor] = title
		items = append(items, TOCItem{Title: title, Anchor: anchor, Depth: depth})
		return nil
	}

	for _, s := range c.Sections {
		if err := add(s.Title, 1); err != nil {
			return nil, err
		}
		for _, e := range s.Entries {
			if err := add(e.Title, 2); err != nil {
				return nil, err
			}
		}
	}
	return items, nil
}
