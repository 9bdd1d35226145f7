package results

import (
	_ "embed"
	"html/template"
	"io"
)

//go:embed panel.html.tmpl
var panelTmpl string

var panel = template.Must(template.New("panel").Parse(panelTmpl))

// RenderPanel writes the results panel fragment for v.
func RenderPanel(w io.Writer, v View) error {
	return panel.Execute(w, v)
}
