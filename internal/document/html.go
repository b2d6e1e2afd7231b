package document

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/preview.html.tmpl
var previewSource string

var previewTemplate = template.Must(template.New("preview").Parse(previewSource))

// WriteHTML writes doc as a standalone HTML page for on-screen preview.
// User supplied text is escaped by html/template.
func WriteHTML(w io.Writer, doc Document) error {
	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, doc); err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
