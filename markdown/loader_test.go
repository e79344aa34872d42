package markdown

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nevindra/tipbook"
)

const sampleSource = `# Object creation

Tips for creating common objects.

## Create an empty list of a given length

Use vector() instead of a loop.

` + "```r\nx <- vector(\"list\", 10)\n```\n\n```output\n[[1]]\nNULL\n```" + `

## Generate regular sequences

Prefer seq_len and seq_along over 1:n.

` + "```r\nseq_len(5)\n```" + `

# Cleanup hooks

## Run code on function exit

on.exit registers an expression to run when the caller returns.

` + "```r\non.exit(close(con), add = TRUE)\n```\n"

func TestParseStructure(t *testing.T) {
	ld := New()
	sections, err := ld.Parse("tips.md", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}

	obj := sections[0]
	if obj.Title != "Object creation" {
		t.Errorf("section title = %q", obj.Title)
	}
	if !strings.Contains(obj.Intro, "creating common objects") {
		t.Errorf("section intro = %q, want authored intro prose", obj.Intro)
	}
	if len(obj.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(obj.Entries))
	}

	first := obj.Entries[0]
	if first.Title != "Create an empty list of a given length" {
		t.Errorf("entry title = %q", first.Title)
	}
	if !strings.Contains(first.Body, "vector() instead of a loop") {
		t.Errorf("entry body = %q", first.Body)
	}
	if len(first.Samples) != 1 || first.Samples[0].Language != "r" {
		t.Fatalf("samples = %+v, want one r sample", first.Samples)
	}
	if !strings.Contains(first.Samples[0].Code, `vector("list", 10)`) {
		t.Errorf("sample code = %q", first.Samples[0].Code)
	}
	if len(first.Outputs) != 1 || !strings.Contains(first.Outputs[0], "NULL") {
		t.Fatalf("outputs = %+v, want captured output fence", first.Outputs)
	}

	if first.Source != "tips.md" || first.Line == 0 {
		t.Errorf("entry position = %s:%d, want recorded heading position", first.Source, first.Line)
	}

	if sections[1].Title != "Cleanup hooks" || len(sections[1].Entries) != 1 {
		t.Errorf("second section = %+v", sections[1])
	}
}

func TestParseOrderIsStable(t *testing.T) {
	ld := New()
	sections, err := ld.Parse("tips.md", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := []string{sections[0].Entries[0].Title, sections[0].Entries[1].Title}
	want := []string{"Create an empty list of a given length", "Generate regular sequences"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entry order = %v, want %v", got, want)
	}
}

func TestParseDeterministic(t *testing.T) {
	ld := New()
	a, err := ld.Parse("tips.md", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := ld.Parse("tips.md", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("parsing the same source twice must yield equal sections")
	}
}

func TestParseEntryBeforeSection(t *testing.T) {
	_, err := New().Parse("bad.md", []byte("## Orphan entry\n\nBody.\n"))
	var malformed *tipbook.ErrMalformedContent
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *ErrMalformedContent", err)
	}
	if malformed.Source != "bad.md" || malformed.Line != 1 {
		t.Errorf("position = %s:%d, want bad.md:1", malformed.Source, malformed.Line)
	}
	if !strings.Contains(malformed.Reason, "Orphan entry") {
		t.Errorf("reason = %q, want offending title named", malformed.Reason)
	}
}

func TestParseContentBeforeSection(t *testing.T) {
	_, err := New().Parse("bad.md", []byte("Stray prose first.\n\n# Section\n"))
	var malformed *tipbook.ErrMalformedContent
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *ErrMalformedContent", err)
	}
}

func TestParseDuplicateEntryTitleInSection(t *testing.T) {
	src := "# Lists\n\n## Setup\n\nOne.\n\n## Setup\n\nTwo.\n"
	_, err := New().Parse("dup.md", []byte(src))
	var malformed *tipbook.ErrMalformedContent
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *ErrMalformedContent", err)
	}
	if !strings.Contains(malformed.Reason, `"Setup"`) || !strings.Contains(malformed.Reason, `"Lists"`) {
		t.Errorf("reason = %q, want entry and section named", malformed.Reason)
	}
}

func TestParseHeadingSkipsEntryLevel(t *testing.T) {
	src := "# Lists\n\n### Skipped a level\n\n## Real entry\n\nBody.\n"
	_, err := New().Parse("skip.md", []byte(src))
	var malformed *tipbook.ErrMalformedContent
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *ErrMalformedContent", err)
	}
	if malformed.Source != "skip.md" || malformed.Line != 3 {
		t.Errorf("position = %s:%d, want skip.md:3", malformed.Source, malformed.Line)
	}
	if !strings.Contains(malformed.Reason, "Skipped a level") {
		t.Errorf("reason = %q, want offending heading named", malformed.Reason)
	}
}

func TestParseDeepHeadingsStayInBody(t *testing.T) {
	src := "# Lists\n\n## Tip\n\nIntro.\n\n### Variation\n\nMore.\n"
	sections, err := New().Parse("deep.md", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	body := sections[0].Entries[0].Body
	if !strings.Contains(body, "### Variation") {
		t.Errorf("body = %q, want deep heading kept as prose", body)
	}
}

func TestParseListMarkersSurviveInBody(t *testing.T) {
	src := "# Lists\n\n## Tip\n\n- first\n- second\n"
	sections, err := New().Parse("list.md", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	body := sections[0].Entries[0].Body
	if !strings.Contains(body, "- first") {
		t.Errorf("body = %q, want list markers preserved", body)
	}
}

func TestLoadDirOrdersByFilename(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("02-factors.md", "# Factors\n\n## Drop unused levels\n\nUse droplevels().\n")
	write("01-lists.md", "# Lists\n\n## Flatten a list\n\nUse unlist().\n")
	write("notes.txt", "ignored, not markdown")

	catalog, err := New().LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(catalog.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(catalog.Sections))
	}
	if catalog.Sections[0].Title != "Lists" || catalog.Sections[1].Title != "Factors" {
		t.Errorf("order = %q, %q; want lexical filename order",
			catalog.Sections[0].Title, catalog.Sections[1].Title)
	}
}

func TestLoadDirDuplicateTitleAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("01-lists.md", "# Lists\n\n## Setup\n\nOne.\n")
	write("02-factors.md", "# Factors\n\n## Setup\n\nTwo.\n")

	_, err := New().LoadDir(dir)
	var malformed *tipbook.ErrMalformedContent
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *ErrMalformedContent", err)
	}
	if malformed.Source != "02-factors.md" {
		t.Errorf("source = %q, want second occurrence located", malformed.Source)
	}
	if !strings.Contains(malformed.Reason, `"Lists"`) || !strings.Contains(malformed.Reason, `"Factors"`) {
		t.Errorf("reason = %q, want both sections named", malformed.Reason)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tips.md")
	if err := os.WriteFile(path, []byte(sampleSource), 0o644); err != nil {
		t.Fatal(err)
	}
	catalog, err := New().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(catalog.Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(catalog.Sections))
	}
	if src := catalog.Sections[0].Entries[0].Source; src != "tips.md" {
		t.Errorf("entry source = %q, want base filename", src)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := New().LoadDir(t.TempDir())
	var malformed *tipbook.ErrMalformedContent
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *ErrMalformedContent for empty dir", err)
	}
}

func TestLoadDirRoundTripEqual(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tips.md"), []byte(sampleSource), 0o644); err != nil {
		t.Fatal(err)
	}
	ld := New()
	a, err := ld.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	b, err := ld.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("loading the same directory twice must yield equal catalogs")
	}
}
