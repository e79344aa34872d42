package search

import (
	"strings"
	"testing"

	"github.com/nevindra/tipbook"
)

func testCatalog() *tipbook.Catalog {
	return &tipbook.Catalog{Sections: []tipbook.Section{
		{
			Title: "Object creation",
			Entries: []tipbook.Entry{
				{
					Title: "Create an empty list of a given length",
					Body:  "Use vector() with mode list instead of growing inside a loop.",
					Samples: []tipbook.CodeSample{
						{Language: "r", Code: `x <- vector("list", 10)`},
					},
				},
				{
					Title: "Generate regular sequences",
					Body:  "Prefer seq_len and seq_along over the colon operator.",
				},
			},
		},
		{
			Title: "Cleanup hooks",
			Entries: []tipbook.Entry{
				{
					Title: "Run code on function exit",
					Body:  "on.exit registers cleanup to run when the caller returns.",
				},
			},
		},
	}}
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	idx := NewIndex(testCatalog())

	results := idx.Search("empty list length", 0)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Anchor != "create-an-empty-list-of-a-given-length" {
		t.Errorf("top result = %q, want the empty-list entry", results[0].Anchor)
	}
	if results[0].Section != "Object creation" {
		t.Errorf("section = %q", results[0].Section)
	}
	if results[0].Score <= 0 {
		t.Errorf("score = %f, want positive", results[0].Score)
	}
}

func TestSearchMatchesDottedIdentifiers(t *testing.T) {
	idx := NewIndex(testCatalog())

	results := idx.Search("on.exit", 0)
	if len(results) == 0 {
		t.Fatal("expected a hit for a dotted identifier")
	}
	if results[0].Anchor != "run-code-on-function-exit" {
		t.Errorf("top result = %q", results[0].Anchor)
	}
	// Parts should match too.
	if got := idx.Search("exit", 0); len(got) == 0 {
		t.Error("expected a hit for the identifier part")
	}
}

func TestSearchMatchesCodeSamples(t *testing.T) {
	idx := NewIndex(testCatalog())
	results := idx.Search("vector", 0)
	if len(results) == 0 {
		t.Fatal("expected code sample text to be searchable")
	}
	if !strings.Contains(results[0].Snippet, "vector") {
		t.Errorf("snippet = %q, want matched term in context", results[0].Snippet)
	}
}

func TestSearchNoResults(t *testing.T) {
	idx := NewIndex(testCatalog())
	if got := idx.Search("quaternion", 0); got != nil {
		t.Errorf("expected nil results, got %v", got)
	}
	if got := idx.Search("", 0); got != nil {
		t.Errorf("expected nil results for empty query, got %v", got)
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	idx := NewIndex(testCatalog())
	if got := idx.Search("the", 1); len(got) > 1 {
		t.Errorf("topK=1 returned %d results", len(got))
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	idx := NewIndex(&tipbook.Catalog{})
	if got := idx.Search("anything", 0); got != nil {
		t.Errorf("expected nil results on empty catalog, got %v", got)
	}
}
