// Package search implements a BM25-scored keyword index over a tip catalog.
//
// The index is built once from a loaded catalog and queried in memory.
// Queries are tokenized into terms and scored using Okapi BM25 with a
// title boost, so multi-word queries like "empty list length" match the
// right entry rather than requiring an exact substring.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/nevindra/tipbook"
)

// BM25 tuning parameters.
const (
	bm25K1     = 1.2
	bm25B      = 0.75
	titleBoost = 2.0 // multiplier for terms found in the entry title
)

// DefaultTopK caps result counts when callers pass a non-positive topK.
const DefaultTopK = 10

// Result is a single search hit.
type Result struct {
	Section string  // owning section title
	Title   string  // entry title
	Anchor  string  // anchor slug for linking
	Score   float64 // BM25 score, higher is more relevant
	Snippet string  // best matching window of the entry text
}

// Index is an inverted index over catalog entries.
type Index struct {
	docs       []document
	postings   map[string][]posting
	titleTerms map[string]map[int]bool // term -> doc set (terms in titles)
	docLens    []int
	avgDL      float64
}

// document is one indexed entry with its searchable text flattened.
type document struct {
	section string
	title   string
	anchor  string
	text    string
}

// posting records a term's frequency in a single document.
type posting struct {
	doc  int
	freq int
}

// NewIndex builds an index over every entry in the catalog. Title, body,
// code samples, and outputs all contribute searchable text.
func NewIndex(c *tipbook.Catalog) *Index {
	idx := &Index{
		postings:   make(map[string][]posting),
		titleTerms: make(map[string]map[int]bool),
	}

	for _, sec := range c.Sections {
		for _, e := range sec.Entries {
			idx.docs = append(idx.docs, document{
				section: sec.Title,
				title:   e.Title,
				anchor:  tipbook.Anchor(e.Title),
				text:    flatten(e),
			})
		}
	}

	totalLen := 0
	idx.docLens = make([]int, len(idx.docs))
	for i, d := range idx.docs {
		tokens := tokenize(d.text)
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)

		tf := make(map[string]int)
		for _, t := range tokens {
			tf[t]++
		}
		for term, freq := range tf {
			idx.postings[term] = append(idx.postings[term], posting{doc: i, freq: freq})
		}

		for _, t := range tokenize(d.title) {
			if idx.titleTerms[t] == nil {
				idx.titleTerms[t] = make(map[int]bool)
			}
			idx.titleTerms[t][i] = true
		}
	}

	if len(idx.docs) > 0 {
		idx.avgDL = float64(totalLen) / float64(len(idx.docs))
	}
	return idx
}

// Search finds entries matching the query, ranked by BM25 score.
// Returns up to topK results (DefaultTopK when topK <= 0).
func (idx *Index) Search(query string, topK int) []Result {
	if topK <= 0 {
		topK = DefaultTopK
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var unique []string
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}

	n := float64(len(idx.docs))
	scores := make(map[int]float64)

	for _, term := range unique {
		posts, ok := idx.postings[term]
		if !ok {
			continue
		}

		df := float64(len(posts))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1.0)

		for _, p := range posts {
			dl := float64(idx.docLens[p.doc])
			tf := float64(p.freq)
			tfNorm := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(dl/idx.avgDL)))

			score := idf * tfNorm
			if idx.titleTerms[term][p.doc] {
				score *= titleBoost
			}

			scores[p.doc] += score
		}
	}

	if len(scores) == 0 {
		return nil
	}

	results := make([]Result, 0, len(scores))
	for doc, score := range scores {
		d := idx.docs[doc]
		results = append(results, Result{
			Section: d.section,
			Title:   d.title,
			Anchor:  d.anchor,
			Score:   score,
			Snippet: extractSnippet(d.text, seen),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Anchor < results[j].Anchor
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// flatten joins an entry's searchable parts into one text blob.
func flatten(e tipbook.Entry) string {
	var b strings.Builder
	b.WriteString(e.Title)
	b.WriteString("\n")
	b.WriteString(e.Body)
	for _, s := range e.Samples {
		b.WriteString("\n")
		b.WriteString(s.Code)
	}
	for _, out := range e.Outputs {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

// extractSnippet finds the most relevant window of text for the given
// query terms: the best 5-line window by distinct-term hits, expanded
// with one line of context on each side.
func extractSnippet(content string, queryTerms map[string]bool) string {
	lines := strings.Split(content, "\n")

	lineScores := make([]int, len(lines))
	for i, line := range lines {
		seen := make(map[string]bool)
		for _, t := range tokenize(line) {
			if queryTerms[t] && !seen[t] {
				lineScores[i]++
				seen[t] = true
			}
		}
	}

	const windowSize = 5
	bestStart, bestScore := 0, 0
	for i := 0; i < len(lines); i++ {
		score := 0
		end := min(i+windowSize, len(lines))
		for j := i; j < end; j++ {
			score += lineScores[j]
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	start := max(bestStart-1, 0)
	end := min(bestStart+windowSize+1, len(lines))
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// tokenize splits text into lowercase search tokens. Hyphenated and
// dotted words are indexed both whole ("on.exit", "run-length") and as
// parts, so either form matches.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		word := strings.Trim(buf.String(), "-.")
		buf.Reset()
		if len(word) < 2 {
			return
		}
		tokens = append(tokens, word)
		for _, sep := range []string{"-", "."} {
			if strings.Contains(word, sep) {
				for _, part := range strings.Split(word, sep) {
					if len(part) >= 2 {
						tokens = append(tokens, part)
					}
				}
			}
		}
	}

	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			buf.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
