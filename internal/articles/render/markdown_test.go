package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRenderer_Render(t *testing.T) {
	r := NewMarkdownRenderer()

	got, err := r.Render("Вступление.\n\n## Как зажечь свечу\n\n- шаг один\n- шаг два\n\n### Details\n\n~~old~~ text")
	require.NoError(t, err)

	assert.Contains(t, got.HTML, "<p>Вступление.</p>")
	assert.Contains(t, got.HTML, "<li>шаг один</li>")
	assert.Contains(t, got.HTML, "<del>old</del>")
	require.Len(t, got.Headings, 2)
	assert.Equal(t, 2, got.Headings[0].Level)
	assert.Equal(t, "Как зажечь свечу", got.Headings[0].Text)
	assert.Equal(t, "details", got.Headings[1].ID)
}

func TestMarkdownRenderer_DropsRawHTML(t *testing.T) {
	got, err := NewMarkdownRenderer().Render("<script>alert(1)</script>\n\ntext")
	require.NoError(t, err)
	assert.NotContains(t, got.HTML, "<script>")
	assert.Contains(t, got.HTML, "<p>text</p>")
}

func TestMarkdownRenderer_HeadingTextWithInlineMarkup(t *testing.T) {
	tests := map[string]struct {
		content string
		want    string
	}{
		"bold":           {content: "## **Важно**", want: "Важно"},
		"code span":      {content: "## `code`", want: "code"},
		"mixed":          {content: "## **Важно** о `фитиле`", want: "Важно о фитиле"},
		"emphasis inner": {content: "### Свеча *для* сна", want: "Свеча для сна"},
		"link":           {content: "## [Каталог](https://example.com) свечей", want: "Каталог свечей"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewMarkdownRenderer().Render(tc.content)
			require.NoError(t, err)
			require.Len(t, got.Headings, 1)
			assert.Equal(t, tc.want, got.Headings[0].Text)
		})
	}
}
