package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nevindra/tipbook/importer"
)

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	section := fs.String("section", "", "section title for the draft heading")
	out := fs.String("o", "", "write the draft to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: tipbook import [flags] FILE")
	}
	path := fs.Arg(0)

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	draft, err := importer.ForFile(path).Extract(content)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	md := importer.DraftMarkdown(draft, *section)
	if *out == "" {
		fmt.Print(md)
		return nil
	}
	if err := os.WriteFile(*out, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	fmt.Printf("draft written to %s\n", *out)
	return nil
}
