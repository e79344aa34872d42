// Binary tipbook builds a static tips site from a directory of Markdown
// catalog sources: it validates the section/entry structure, derives the
// anchor outline, renders HTML pages, and answers keyword searches.
//
// Usage:
//
//	tipbook build  [-config tipbook.toml] [-source DIR] [-out DIR] [-force]
//	tipbook check  [-config tipbook.toml] [-source DIR]
//	tipbook toc    [-config tipbook.toml] [-source DIR] [-json]
//	tipbook search [-config tipbook.toml] [-source DIR] [-k N] QUERY
//	tipbook import [-section TITLE] [-o FILE] FILE
//	tipbook version
package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/nevindra/tipbook"
	"github.com/nevindra/tipbook/internal/config"
	"github.com/nevindra/tipbook/markdown"
)

const version = "0.2.0"

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "toc":
		err = runTOC(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "version":
		fmt.Println("tipbook " + version)
	case "help", "-h", "--help":
		usage()
	default:
		log.Printf("unknown command %q", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Print(fatalMessage(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `tipbook — static tips-catalog builder

Commands:
  build    load, validate, and render the site (incremental)
  check    validate content structure and anchors, print stats
  toc      print the anchor outline (text or -json)
  search   query the catalog by keyword
  import   draft a catalog entry from an HTML, PDF, or text document
  version  print the version
`)
}

// fatalMessage keeps the two author-facing error kinds front and center;
// anything else passes through unchanged.
func fatalMessage(err error) string {
	var malformed *tipbook.ErrMalformedContent
	if errors.As(err, &malformed) {
		return "content error: " + malformed.Error()
	}
	var dup *tipbook.ErrDuplicateAnchor
	if errors.As(err, &dup) {
		return "anchor conflict: " + dup.Error()
	}
	var empty *tipbook.ErrEmptyAnchor
	if errors.As(err, &empty) {
		return "anchor error: " + empty.Error()
	}
	return err.Error()
}

// loadCatalog loads and outlines the configured source directory.
func loadCatalog(cfg config.Config, logger *slog.Logger) (*tipbook.Catalog, []tipbook.TOCItem, error) {
	loader := markdown.New(markdown.WithLogger(logger))
	catalog, err := loader.LoadDir(cfg.Site.SourceDir)
	if err != nil {
		return nil, nil, err
	}
	toc, err := tipbook.GenerateTOC(catalog)
	if err != nil {
		return nil, nil, err
	}
	return catalog, toc, nil
}

// newLogger builds the CLI logger. Verbose enables debug output.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
