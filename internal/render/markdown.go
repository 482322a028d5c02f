package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Markdown turns section copy into sanitized HTML. Backend copy is plain
// text in practice, which comes out as a single paragraph.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts src. On a conversion error the escaped source is returned
// so the copy is never lost.
func (m *Markdown) Render(src string) template.HTML {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(strings.TrimSpace(string(m.policy.SanitizeBytes(buf.Bytes()))))
}

// titleCase turns a section key such as "differentiators" into a label.
// Casers are stateful, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ReplaceAll(s, "-", " "), "_", " "))
}
