package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderDeterministic(t *testing.T) {
	renderer := NewRenderer()
	source := `Report: {{.Name}}{{range .Claims}} {{.ClaimNumber}}={{.Amount}}{{end}}`
	model := map[string]any{
		"Name": "Monthly Claims",
		"Claims": []map[string]any{
			{"ClaimNumber": "CLM-1", "Amount": "$120.50"},
			{"ClaimNumber": "CLM-2", "Amount": "$80.00"},
		},
	}

	first, err := renderer.Render(source, model)
	require.NoError(t, err)
	second, err := renderer.Render(source, model)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "Report: Monthly Claims CLM-1=$120.50 CLM-2=$80.00", first)
}

func TestRenderParseFailureIsTemplateError(t *testing.T) {
	renderer := NewRenderer()
	_, err := renderer.Render(`{{range .Claims}`, map[string]any{})
	require.ErrorIs(t, err, ErrTemplate)
}

func TestRenderUndefinedFieldIsTemplateError(t *testing.T) {
	renderer := NewRenderer()
	_, err := renderer.Render(`{{.NoSuchField}}`, map[string]any{"Name": "x"})
	require.ErrorIs(t, err, ErrTemplate)
}

func TestRenderEmptyCollections(t *testing.T) {
	renderer := NewRenderer()
	out, err := renderer.Render(`{{range .Quotes}}{{.QuoteNumber}}{{end}}`, map[string]any{
		"Quotes": []map[string]any{},
	})
	require.NoError(t, err)
	require.Equal(t, "", out)
}
