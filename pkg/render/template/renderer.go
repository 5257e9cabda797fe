package template

import (
	"io"
)

// TemplateRenderer renders a named template against a data context. When
// writers are supplied the output is also copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
