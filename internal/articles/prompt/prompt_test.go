package prompt

import (
	"strings"
	"testing"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_Deterministic(t *testing.T) {
	a := Compose("Практика благодарности", models.CandleGratitude, models.LanguageRU)
	b := Compose("Практика благодарности", models.CandleGratitude, models.LanguageRU)
	assert.Equal(t, a, b)
}

func TestCompose_Language(t *testing.T) {
	ru := Compose("Тишина", "", models.LanguageRU)
	assert.Contains(t, ru, "«Тишина»")
	assert.Contains(t, ru, "1200–1800 слов")
	assert.NotContains(t, ru, "призыв к действию")

	en := Compose("Silence", "", models.LanguageEN)
	assert.Contains(t, en, `"Silence"`)
	assert.Contains(t, en, "1200–1800 words")

	assert.Equal(t, ru, Compose("Тишина", "", ""), "unknown language falls back to russian")
}

func TestCompose_CallToAction(t *testing.T) {
	for _, lang := range []models.Language{models.LanguageRU, models.LanguageEN} {
		for _, ct := range []models.CandleType{models.CandleCalm, models.CandleSupport, models.CandleMemory, models.CandleGratitude, models.CandleFocus} {
			label, ok := CandleLabel(ct, lang)
			require.True(t, ok, "%s/%s", lang, ct)
			assert.Contains(t, Compose("topic", ct, lang), label)
		}
	}

	got := Compose("topic", models.CandleMemory, models.LanguageEN)
	assert.True(t, strings.HasSuffix(got, `light a "memory candle" on our site. No pressure and no advertising clichés.`))
}

func TestFor(t *testing.T) {
	custom := "  Напиши про {{topic}} как есть\n"
	got, err := For(models.NewCustomPromptRequest(custom, "ignored"))
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	got, err = For(models.NewStandardRequest(" Фокус ", models.CandleFocus, models.LanguageRU))
	require.NoError(t, err)
	assert.Equal(t, Compose("Фокус", models.CandleFocus, models.LanguageRU), got)

	_, err = For(models.GenerationRequest{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestClassification(t *testing.T) {
	content := strings.Repeat("ё", 800)
	got := Classification("Заголовок", content)

	for _, c := range models.Categories {
		assert.Contains(t, got, "- "+string(c)+":")
	}
	assert.Contains(t, got, "Title: Заголовок")
	assert.Contains(t, got, "Content: "+strings.Repeat("ё", 500))
	assert.NotContains(t, got, strings.Repeat("ё", 501))
}
