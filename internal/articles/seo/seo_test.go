package seo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DenisKhanov/CandleArticles/internal/articles/textutil"
	"github.com/stretchr/testify/assert"
)

func TestBuilder_Title(t *testing.T) {
	b := NewBuilder("Candles")

	assert.Equal(t, "Short title | Candles", b.Title("Short title"))

	exact := strings.Repeat("ж", 50)
	assert.Equal(t, exact+" | Candles", b.Title(exact))

	long := strings.Repeat("ж", 51)
	got := b.Title(long)
	assert.Equal(t, strings.Repeat("ж", 50)+"...", got)
	assert.Equal(t, 53, utf8.RuneCountInString(got))
}

func TestNewBuilder_DefaultSiteName(t *testing.T) {
	assert.Equal(t, DefaultSiteName, NewBuilder("").SiteName)
	assert.Equal(t, "Тишина | "+DefaultSiteName, BuildSeoMetadata("Тишина", "").Title)
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "Title body text", Description("# Title\n\n**body**   text"))

	exact := strings.Repeat("a", 160)
	assert.Equal(t, exact, Description(exact))

	long := strings.Repeat("б", 161)
	got := Description(long)
	assert.Equal(t, strings.Repeat("б", 157)+"...", got)
	assert.Equal(t, 160, utf8.RuneCountInString(got))
}

func TestBuildSeoMetadata(t *testing.T) {
	md := NewBuilder("Site").Build("Практика благодарности", "## Раздел\n\nТекст статьи.")

	assert.Equal(t, "Практика благодарности | Site", md.Title)
	assert.Equal(t, "Раздел Текст статьи.", md.Description)
	assert.Equal(t, textutil.ExtractKeywords("Практика благодарности", ""), md.Keywords)
	assert.Subset(t, md.Keywords, textutil.BaseKeywords)
}
