package web

import (
	_ "embed"
	"html/template"
	"sync"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed help.md
var helpMarkdown []byte

var (
	helpOnce sync.Once
	helpHTML template.HTML
)

// helpPanel returns the "How to use this app" text as sanitized HTML.
func helpPanel() template.HTML {
	helpOnce.Do(func() {
		helpHTML = renderMarkdown(helpMarkdown)
	})
	return helpHTML
}

func renderMarkdown(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	raw := markdown.ToHTML(md, p, r)

	// #nosec G203 -- sanitized by bluemonday
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(raw))
}
