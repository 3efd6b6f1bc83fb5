package report

import (
	"fmt"
	"strings"
	"text/template"
)

// Renderer binds a data graph into a user-authored template. Rendering is a
// pure function; the template source is parsed fresh on every call because
// user templates change independently of process lifetime.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render parses and executes the template against the model. Templates are
// user-authored and are not validated ahead of time; a parse failure or a
// reference to an undefined field is fatal to the generation request.
func (r *Renderer) Render(source string, model map[string]any) (string, error) {
	tpl, err := template.New("report").Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: parse: %v", ErrTemplate, err)
	}
	var buf strings.Builder
	if err := tpl.Execute(&buf, model); err != nil {
		return "", fmt.Errorf("%w: execute: %v", ErrTemplate, err)
	}
	return buf.String(), nil
}
