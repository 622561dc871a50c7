package dashboard

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

// Renderer renders a named page template with the given data.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer. Without override it
// serves the embedded pages; a directory FS rooted above "templates" can be
// passed to iterate on markup without rebuilding. Templates are always read
// through the FS, never from the working directory.
func NewTemplateRenderer(override ...fs.FS) (Renderer, error) {
	var source fs.FS = embeddedTemplates
	if len(override) > 0 && override[0] != nil {
		source = override[0]
	}
	root, err := fs.Sub(source, "templates")
	if err != nil {
		return nil, fmt.Errorf("dashboard: templates root: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(root),
		template.WithExtension(".html"),
	)
}
