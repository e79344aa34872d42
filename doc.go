// Package tipbook turns a directory of Markdown tip collections into a
// validated catalog, a navigable outline, and a rendered static site.
//
// A catalog is an ordered list of sections, each holding ordered entries:
// short documented idioms with explanatory prose, code samples, and example
// outputs. Content is authored as plain Markdown (H1 = section, H2 = entry)
// and assembled once per build; the catalog is immutable after load.
//
// # Quick Start
//
//	loader := markdown.New()
//	catalog, err := loader.LoadDir("content")
//	if err != nil { ... }
//
//	toc, err := tipbook.GenerateTOC(catalog)
//	if err != nil { ... }
//
//	r := render.New("public", render.WithSiteTitle("R Tips"))
//	res, err := r.Render(ctx, catalog, toc)
//
// # Core pieces
//
// The root package defines the data model and pure algorithms:
//
//   - [Catalog], [Section], [Entry] — the content model
//   - [GenerateTOC], [Anchor] — outline and slug derivation
//   - [ErrMalformedContent], [ErrDuplicateAnchor] — the two author-facing
//     failure modes; both are fatal and produce no partial results
//   - [BuildStore], [Tracer] — seams for persistence and telemetry
//
// Implementations live in subpackages: markdown (goldmark-based loader),
// render (HTML emission), search (BM25 keyword index), store/sqlite (build
// manifests), importer (HTML/PDF draft extraction), observer (OTEL).
//
// See cmd/tipbook for the command-line frontend.
package tipbook
