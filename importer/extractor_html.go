package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-shiori/go-readability"
)

var _ Extractor = HTMLExtractor{}

// HTMLExtractor pulls the readable article out of an HTML page, dropping
// navigation, ads, and boilerplate.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(content []byte) (Draft, error) {
	if len(content) == 0 {
		return Draft{}, fmt.Errorf("empty HTML content")
	}
	article, err := readability.FromReader(bytes.NewReader(content), nil)
	if err != nil {
		return Draft{}, fmt.Errorf("parse html: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return Draft{}, fmt.Errorf("no readable content")
	}
	return Draft{
		Title: strings.TrimSpace(article.Title),
		Text:  text,
	}, nil
}
