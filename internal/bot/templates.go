package bot

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", WrapUserError(MsgFailedRender, fmt.Errorf("render %s: %w", name, err))
	}
	return buf.String(), nil
}

// HelpMessage returns the help message HTML.
func HelpMessage() string {
	text, err := renderTemplate("help", nil)
	if err != nil {
		panic(err)
	}
	return text
}
