package echoportal

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/brainbuddy/portal/core/normalize"
)

//go:embed templates/*.html
var templateFS embed.FS

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type renderer struct {
	templates *template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() *renderer {
	t := template.New("").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
		"add1":     func(i int) int { return i + 1 },
	})
	return &renderer{
		templates: template.Must(t.ParseFS(templateFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// renderMarkdown converts an answer to HTML after the single unescape pass.
// A conversion failure degrades to escaped preformatted text, never an error.
func renderMarkdown(s string) template.HTML {
	text := normalize.Unescape(s)
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML(fmt.Sprintf("<pre>%s</pre>", template.HTMLEscapeString(text)))
	}
	return template.HTML(buf.String())
}
