// Package viz renders a decoded Model into a standalone HTML document that
// embeds the Model as JSON. The interactive SVG renderer itself is an
// external collaborator (front-end JS/CSS); this package only proves the
// embedding contract is satisfiable.
package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/opendb-tools/sqliteviz/sqlite"
)

var page = template.Must(template.New("viz").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>sqliteviz: {{.FileName}}</title>
</head>
<body>
  <script id="sqliteviz-model" type="application/json">{{.ModelJSON}}</script>
  <script src="sqliteviz-renderer.js"></script>
</body>
</html>
`))

type pageData struct {
	FileName  string
	ModelJSON template.JS
}

// Render writes a standalone HTML document embedding model as JSON into w.
func Render(w *bytes.Buffer, model *sqlite.Model) error {
	blob, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	data := pageData{
		FileName:  model.DatabaseInfo.FileName,
		ModelJSON: template.JS(blob),
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	return nil
}
