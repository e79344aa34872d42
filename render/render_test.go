package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nevindra/tipbook"
)

func testCatalog() *tipbook.Catalog {
	return &tipbook.Catalog{Sections: []tipbook.Section{
		{
			Title: "Object creation",
			Intro: "Tips for creating common objects.",
			Entries: []tipbook.Entry{
				{
					Title:   "Create an empty list of a given length",
					Body:    "Use `vector()` instead of a loop.",
					Samples: []tipbook.CodeSample{{Language: "r", Code: "x <- vector(\"list\", 10)\n"}},
					Outputs: []string{"[[1]]\nNULL\n"},
				},
			},
		},
		{
			Title:   "Cleanup hooks",
			Entries: []tipbook.Entry{{Title: "Run code on function exit", Body: "Use on.exit."}},
		},
	}}
}

func renderAll(t *testing.T, dir string, opts ...Option) Result {
	t.Helper()
	c := testCatalog()
	toc, err := tipbook.GenerateTOC(c)
	if err != nil {
		t.Fatalf("GenerateTOC: %v", err)
	}
	res, err := New(dir, opts...).Render(context.Background(), c, toc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return res
}

func TestRenderWritesIndexAndSectionPages(t *testing.T) {
	dir := t.TempDir()
	res := renderAll(t, dir, WithSiteTitle("R Tips"))

	if res.Pages != 3 || res.Written != 3 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 3 pages all written", res)
	}

	index := readFile(t, filepath.Join(dir, "index.html"))
	if !strings.Contains(index, "R Tips") {
		t.Error("index should carry the site title")
	}
	if !strings.Contains(index, `object-creation.html#create-an-empty-list-of-a-given-length`) {
		t.Error("index nav should link entries into their section page")
	}

	sec := readFile(t, filepath.Join(dir, "object-creation.html"))
	if !strings.Contains(sec, `id="create-an-empty-list-of-a-given-length"`) {
		t.Error("entry heading should carry its anchor id")
	}
	if !strings.Contains(sec, "<code>vector()</code>") {
		t.Error("body markdown should render to HTML")
	}
	if !strings.Contains(sec, `class="language-r"`) {
		t.Error("code sample should carry its language class")
	}
	if !strings.Contains(sec, `class="output"`) {
		t.Error("example output should render distinctly from code")
	}
}

func TestRenderDeterministic(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	renderAll(t, a)
	renderAll(t, b)

	for _, name := range []string{"index.html", "object-creation.html", "cleanup-hooks.html"} {
		if readFile(t, filepath.Join(a, name)) != readFile(t, filepath.Join(b, name)) {
			t.Errorf("%s differs between identical renders", name)
		}
	}
}

func TestRenderIncrementalSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	store := &memStore{}

	first := renderAll(t, dir, WithStore(store))
	if first.Written != 3 {
		t.Fatalf("first build wrote %d pages, want 3", first.Written)
	}

	second := renderAll(t, dir, WithStore(store))
	if second.Skipped != 3 || second.Written != 0 {
		t.Errorf("second build = %+v, want all pages skipped", second)
	}

	third := renderAll(t, dir, WithStore(store), WithForce())
	if third.Written != 3 {
		t.Errorf("forced build = %+v, want all pages written", third)
	}

	if len(store.builds) != 3 {
		t.Errorf("recorded builds = %d, want 3", len(store.builds))
	}
	last := store.builds[len(store.builds)-1]
	if last.Sections != 2 || last.Entries != 2 {
		t.Errorf("recorded counts = %+v", last)
	}
}

func TestRenderRewritesDeletedPage(t *testing.T) {
	dir := t.TempDir()
	store := &memStore{}
	renderAll(t, dir, WithStore(store))

	// A page deleted out from under the manifest must be rewritten even
	// though its hash still matches.
	if err := os.Remove(filepath.Join(dir, "index.html")); err != nil {
		t.Fatal(err)
	}
	res := renderAll(t, dir, WithStore(store))
	if res.Written != 1 || res.Skipped != 2 {
		t.Errorf("result = %+v, want only the deleted page rewritten", res)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

// memStore is an in-memory BuildStore for renderer tests.
type memStore struct {
	builds []tipbook.Build
	pages  map[string][]tipbook.PageRecord
}

var _ tipbook.BuildStore = (*memStore)(nil)

func (m *memStore) Init(context.Context) error { return nil }

func (m *memStore) RecordBuild(_ context.Context, b tipbook.Build, pages []tipbook.PageRecord) error {
	if m.pages == nil {
		m.pages = make(map[string][]tipbook.PageRecord)
	}
	m.builds = append(m.builds, b)
	m.pages[b.ID] = pages
	return nil
}

func (m *memStore) LatestBuild(context.Context) (tipbook.Build, error) {
	if len(m.builds) == 0 {
		return tipbook.Build{}, tipbook.ErrNoBuilds
	}
	return m.builds[len(m.builds)-1], nil
}

func (m *memStore) Pages(_ context.Context, buildID string) ([]tipbook.PageRecord, error) {
	return m.pages[buildID], nil
}

func (m *memStore) Close() error { return nil }
