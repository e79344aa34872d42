package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/nevindra/tipbook/search"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	topK := fs.Int("k", 0, "maximum results (0 = config value)")
	bf, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: tipbook search [flags] QUERY")
	}
	if *topK <= 0 {
		*topK = bf.cfg.Search.TopK
	}

	catalog, _, err := loadCatalog(bf.cfg, newLogger(bf.verbose))
	if err != nil {
		return err
	}

	results := search.NewIndex(catalog).Search(query, *topK)
	if len(results) == 0 {
		fmt.Printf("no results for %q\n", query)
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s — %s  (#%s, score %.2f)\n", i+1, r.Section, r.Title, r.Anchor, r.Score)
		if r.Snippet != "" {
			fmt.Println(indent(r.Snippet, "   "))
		}
		fmt.Println()
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
