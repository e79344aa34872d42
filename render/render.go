// Package render emits the static HTML site for a loaded catalog: one
// index page carrying the outline, plus one page per section with anchor
// targets for every entry.
//
// Output is deterministic for a given catalog (no timestamps inside
// pages), which makes page content hashable: when a BuildStore is
// configured the renderer skips rewriting pages whose hash matches the
// previous build.
package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nevindra/tipbook"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithSiteTitle sets the title shown on the index page and in page <title>s.
func WithSiteTitle(title string) Option {
	return func(r *Renderer) { r.siteTitle = title }
}

// WithBaseURL sets the canonical base URL embedded in page headers.
// When empty, no canonical link is emitted.
func WithBaseURL(u string) Option {
	return func(r *Renderer) { r.baseURL = u }
}

// WithSourceDir labels recorded builds with the content directory they
// were built from.
func WithSourceDir(dir string) Option {
	return func(r *Renderer) { r.sourceDir = dir }
}

// WithLogger sets a structured logger for the renderer.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithStore sets the build manifest store enabling incremental rebuilds.
func WithStore(s tipbook.BuildStore) Option {
	return func(r *Renderer) { r.store = s }
}

// WithTracer sets a tracer for render spans.
func WithTracer(tr tipbook.Tracer) Option {
	return func(r *Renderer) { r.tracer = tr }
}

// WithForce makes Render rewrite every page even when hashes match.
func WithForce() Option {
	return func(r *Renderer) { r.force = true }
}

// Renderer writes the static site into an output directory.
type Renderer struct {
	outDir    string
	siteTitle string
	baseURL   string
	sourceDir string
	force     bool

	md     goldmark.Markdown
	tmpl   *template.Template
	logger *slog.Logger
	store  tipbook.BuildStore
	tracer tipbook.Tracer
}

// Result summarizes one render pass.
type Result struct {
	Pages   int // total pages in the site
	Written int // pages written this pass
	Skipped int // pages skipped as unchanged
}

// New creates a Renderer targeting outDir.
func New(outDir string, opts ...Option) *Renderer {
	r := &Renderer{
		outDir:    outDir,
		siteTitle: "Tips",
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		tmpl:      template.Must(template.New("site").Parse(siteTemplates)),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render writes the index page and one page per section. toc drives the
// index navigation; it must come from tipbook.GenerateTOC on the same
// catalog so anchors agree.
func (r *Renderer) Render(ctx context.Context, c *tipbook.Catalog, toc []tipbook.TOCItem) (Result, error) {
	ctx, span := tipbook.StartSpan(ctx, r.tracer, "render",
		tipbook.StringAttr("out_dir", r.outDir),
		tipbook.IntAttr("sections", len(c.Sections)))
	defer span.End()

	pages, err := r.buildPages(c, toc)
	if err != nil {
		span.Error(err)
		return Result{}, err
	}

	previous := r.previousHashes(ctx)

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		span.Error(err)
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	res := Result{Pages: len(pages)}
	records := make([]tipbook.PageRecord, 0, len(pages))
	started := tipbook.NowUnix()

	for _, pg := range pages {
		hash := hashBytes(pg.content)
		records = append(records, tipbook.PageRecord{Path: pg.path, ContentHash: hash})

		target := filepath.Join(r.outDir, pg.path)
		if !r.force && previous[pg.path] == hash && fileExists(target) {
			res.Skipped++
			span.Event("render.page.skipped", tipbook.StringAttr("path", pg.path))
			continue
		}
		if err := os.WriteFile(target, pg.content, 0o644); err != nil {
			span.Error(err)
			return Result{}, fmt.Errorf("write %s: %w", pg.path, err)
		}
		res.Written++
		span.Event("render.page.written", tipbook.StringAttr("path", pg.path))
	}

	if err := r.recordBuild(ctx, c, res, records, started); err != nil {
		span.Error(err)
		return Result{}, err
	}

	r.logger.Info("render: site built",
		"out_dir", r.outDir, "pages", res.Pages,
		"written", res.Written, "skipped", res.Skipped)
	return res, nil
}

// page is one output file with its rendered bytes.
type page struct {
	path    string
	content []byte
}

func (r *Renderer) buildPages(c *tipbook.Catalog, toc []tipbook.TOCItem) ([]page, error) {
	nav := buildNav(toc)

	var pages []page

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index", indexView{
		SiteTitle: r.siteTitle,
		BaseURL:   r.baseURL,
		Nav:       nav,
	}); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	pages = append(pages, page{path: "index.html", content: append([]byte(nil), buf.Bytes()...)})

	for _, sec := range c.Sections {
		view, err := r.sectionView(sec)
		if err != nil {
			return nil, err
		}
		buf.Reset()
		if err := r.tmpl.ExecuteTemplate(&buf, "section", view); err != nil {
			return nil, fmt.Errorf("render section %q: %w", sec.Title, err)
		}
		pages = append(pages, page{path: view.Page, content: append([]byte(nil), buf.Bytes()...)})
	}

	return pages, nil
}

func (r *Renderer) sectionView(sec tipbook.Section) (sectionView, error) {
	anchor := tipbook.Anchor(sec.Title)
	view := sectionView{
		SiteTitle: r.siteTitle,
		BaseURL:   r.baseURL,
		Title:     sec.Title,
		Anchor:    anchor,
		Page:      anchor + ".html",
	}

	intro, err := r.markdownHTML(sec.Intro)
	if err != nil {
		return sectionView{}, fmt.Errorf("section %q intro: %w", sec.Title, err)
	}
	view.Intro = intro

	for _, e := range sec.Entries {
		body, err := r.markdownHTML(e.Body)
		if err != nil {
			return sectionView{}, fmt.Errorf("entry %q: %w", e.Title, err)
		}
		view.Entries = append(view.Entries, entryView{
			Title:   e.Title,
			Anchor:  tipbook.Anchor(e.Title),
			Body:    body,
			Samples: e.Samples,
			Outputs: e.Outputs,
		})
	}
	return view, nil
}

// markdownHTML renders authored Markdown prose to HTML. Authored catalog
// content is trusted, so the result is embedded without re-escaping.
func (r *Renderer) markdownHTML(md string) (template.HTML, error) {
	if md == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// previousHashes returns path -> content hash of the latest recorded
// build, or nil when no store is configured or no build exists yet.
func (r *Renderer) previousHashes(ctx context.Context) map[string]string {
	if r.store == nil {
		return nil
	}
	last, err := r.store.LatestBuild(ctx)
	if err != nil {
		return nil
	}
	records, err := r.store.Pages(ctx, last.ID)
	if err != nil {
		return nil
	}
	hashes := make(map[string]string, len(records))
	for _, rec := range records {
		hashes[rec.Path] = rec.ContentHash
	}
	return hashes
}

func (r *Renderer) recordBuild(ctx context.Context, c *tipbook.Catalog, res Result, records []tipbook.PageRecord, started int64) error {
	if r.store == nil {
		return nil
	}
	b := tipbook.Build{
		ID:         tipbook.NewID(),
		SourceDir:  r.sourceDir,
		StartedAt:  started,
		FinishedAt: tipbook.NowUnix(),
		Sections:   len(c.Sections),
		Entries:    c.TotalEntries(),
		Written:    res.Written,
		Skipped:    res.Skipped,
	}
	for i := range records {
		records[i].BuildID = b.ID
	}
	if err := r.store.RecordBuild(ctx, b, records); err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
