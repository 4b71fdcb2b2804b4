// Package prompt composes the instructions sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/DenisKhanov/CandleArticles/internal/articles/textutil"
)

// candleLabels holds the human readable name of every candle type per language.
var candleLabels = map[models.Language]map[models.CandleType]string{
	models.LanguageRU: {
		models.CandleCalm:      "свеча спокойствия",
		models.CandleSupport:   "свеча поддержки",
		models.CandleMemory:    "свеча памяти",
		models.CandleGratitude: "свеча благодарности",
		models.CandleFocus:     "свеча концентрации",
	},
	models.LanguageEN: {
		models.CandleCalm:      "calm candle",
		models.CandleSupport:   "support candle",
		models.CandleMemory:    "memory candle",
		models.CandleGratitude: "gratitude candle",
		models.CandleFocus:     "focus candle",
	},
}

const instructionRU = `Ты опытный автор и редактор сервиса символических свечей онлайн: люди зажигают виртуальную свечу как знак спокойствия, поддержки, памяти, благодарности или концентрации.

Напиши полноценную SEO-статью на тему: «%s».

Требования к структуре:
- Один заголовок первого уровня (# ) в самом начале, он же название статьи.
- Разделы с заголовками второго (## ) и третьего (### ) уровня.
- Объём 1200–1800 слов.
- Только Markdown, без HTML и без обрамления в блок кода.
- Короткие абзацы, списки там, где они помогают читателю.

Требования к тону:
- Тёплый, бережный и спокойный тон, без эзотерики и обещаний чудес.
- Никаких медицинских или психологических диагнозов и советов вместо специалиста.
- Пиши на русском языке, обращайся к читателю на «вы».`

const instructionEN = `You are an experienced writer and editor for an online symbolic candle service: people light a virtual candle as a sign of calm, support, memory, gratitude or focus.

Write a complete SEO article on the topic: "%s".

Structure requirements:
- Exactly one level-one heading (# ) at the very beginning, used as the article title.
- Sections with level-two (## ) and level-three (### ) headings.
- Length of 1200–1800 words.
- Markdown only, no HTML and no code fence around the document.
- Short paragraphs, lists wherever they help the reader.

Tone requirements:
- Warm, gentle and calm, no esotericism and no promises of miracles.
- No medical or psychological diagnoses and no advice replacing a professional.
- Write in English and address the reader directly.`

const ctaRU = "\n\nВ конце статьи добавь мягкий призыв к действию: предложи читателю зажечь «%s» на нашем сайте. Без давления и без рекламных клише."

const ctaEN = "\n\nClose the article with a soft call to action inviting the reader to light a \"%s\" on our site. No pressure and no advertising clichés."

// Compose builds the standard generation instruction. It is deterministic.
func Compose(topic string, candleType models.CandleType, language models.Language) string {
	instruction, cta := instructionRU, ctaRU
	if language == models.LanguageEN {
		instruction, cta = instructionEN, ctaEN
	} else {
		language = models.LanguageRU
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(instruction, topic))
	if label, ok := candleLabels[language][candleType]; ok {
		sb.WriteString(fmt.Sprintf(cta, label))
	}
	return sb.String()
}

// CandleLabel returns the localized label of a candle type.
func CandleLabel(candleType models.CandleType, language models.Language) (string, bool) {
	label, ok := candleLabels[language][candleType]
	return label, ok
}

// For resolves the instruction of a request. Custom prompts are returned untouched.
func For(req models.GenerationRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	switch src := req.Source.(type) {
	case models.CustomPrompt:
		return src.Text, nil
	case models.StandardPrompt:
		return Compose(strings.TrimSpace(src.Topic), src.CandleType, src.Language), nil
	}
	return "", fmt.Errorf("unsupported prompt source %T", req.Source)
}

const classificationExcerptLength = 500

// Classification builds the instruction for the category classifier.
func Classification(title, content string) string {
	var sb strings.Builder
	sb.WriteString("Classify the article into exactly one category. Valid categories:\n")
	sb.WriteString("- faq: answers to common questions\n")
	sb.WriteString("- guides: step-by-step guides and practices\n")
	sb.WriteString("- seo: search-oriented overviews and collections\n")
	sb.WriteString("- news: news and announcements\n")
	sb.WriteString("Reply with the category slug only.\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", title))
	sb.WriteString(fmt.Sprintf("Content: %s", textutil.Truncate(content, classificationExcerptLength, "")))
	return sb.String()
}
