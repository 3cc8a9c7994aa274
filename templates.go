package tagvars

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/*.yaml
var embeddedTemplates embed.FS

// ExampleTemplatesFS exposes the bundled example templates and their
// context data (templates/context.yaml).
func ExampleTemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
