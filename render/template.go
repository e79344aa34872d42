package render

import (
	"html/template"

	"github.com/nevindra/tipbook"
)

// indexView feeds the index template.
type indexView struct {
	SiteTitle string
	BaseURL   string
	Nav       []navSection
}

// sectionView feeds the section template.
type sectionView struct {
	SiteTitle string
	BaseURL   string
	Title     string
	Anchor    string
	Page      string
	Intro     template.HTML
	Entries   []entryView
}

type entryView struct {
	Title   string
	Anchor  string
	Body    template.HTML
	Samples []tipbook.CodeSample
	Outputs []string
}

// navSection is one depth-1 outline item with its depth-2 children.
type navSection struct {
	Title   string
	Anchor  string
	Page    string
	Entries []navItem
}

type navItem struct {
	Title  string
	Anchor string
	Page   string
}

// buildNav groups a flat outline into per-section navigation. Depth-1
// items open a section; depth-2 items link into the open section's page.
func buildNav(toc []tipbook.TOCItem) []navSection {
	var nav []navSection
	for _, item := range toc {
		switch item.Depth {
		case 1:
			nav = append(nav, navSection{
				Title:  item.Title,
				Anchor: item.Anchor,
				Page:   item.Anchor + ".html",
			})
		case 2:
			if len(nav) == 0 {
				continue
			}
			sec := &nav[len(nav)-1]
			sec.Entries = append(sec.Entries, navItem{
				Title:  item.Title,
				Anchor: item.Anchor,
				Page:   sec.Page,
			})
		}
	}
	return nav
}

// siteTemplates holds every page template. Pages carry no timestamps so
// identical catalogs always render to identical bytes.
const siteTemplates = `
{{define "head"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.SiteTitle}}</title>
{{if .BaseURL}}<link rel="canonical" href="{{.BaseURL}}">
{{end}}<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.55; }
nav ul { list-style: none; padding-left: 0; }
nav ul ul { list-style: disc; padding-left: 1.5rem; }
pre { background: #f6f8fa; padding: .75rem; overflow-x: auto; border-radius: 4px; }
pre.output { background: #fffbe6; border-left: 3px solid #e0c44c; }
a { color: #0969da; text-decoration: none; }
a:hover { text-decoration: underline; }
header a.home { color: inherit; }
</style>
</head>
<body>{{end}}

{{define "index"}}{{template "head" .}}
<header><h1>{{.SiteTitle}}</h1></header>
<nav>
<ul>
{{range .Nav}}<li><a href="{{.Page}}#{{.Anchor}}">{{.Title}}</a>
{{if .Entries}}<ul>
{{range .Entries}}<li><a href="{{.Page}}#{{.Anchor}}">{{.Title}}</a></li>
{{end}}</ul>{{end}}
</li>
{{end}}</ul>
</nav>
</body>
</html>
{{end}}

{{define "section"}}{{template "head" .}}
<header><a class="home" href="index.html">{{.SiteTitle}}</a></header>
<h1 id="{{.Anchor}}">{{.Title}}</h1>
{{.Intro}}
{{range .Entries}}<article>
<h2 id="{{.Anchor}}">{{.Title}}</h2>
{{.Body}}
{{range .Samples}}<pre><code{{with .Language}} class="language-{{.}}"{{end}}>{{.Code}}</code></pre>
{{end}}{{range .Outputs}}<pre class="output"><code>{{.}}</code></pre>
{{end}}</article>
{{end}}</body>
</html>
{{end}}
`
