package models

import (
	"strings"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
)

// CandleType is a thematic tag used to color the call-to-action of an article.
type CandleType string

const (
	CandleCalm      CandleType = "calm"
	CandleSupport   CandleType = "support"
	CandleMemory    CandleType = "memory"
	CandleGratitude CandleType = "gratitude"
	CandleFocus     CandleType = "focus"
)

// Valid reports whether c is one of the known candle types.
func (c CandleType) Valid() bool {
	switch c {
	case CandleCalm, CandleSupport, CandleMemory, CandleGratitude, CandleFocus:
		return true
	}
	return false
}

// Language of the generated article.
type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

// DefaultLanguage is used when the caller does not specify one.
const DefaultLanguage = LanguageRU

// PromptSource is either a StandardPrompt or a CustomPrompt.
type PromptSource interface {
	promptSource()
}

// StandardPrompt asks the composer to build an instruction for Topic.
type StandardPrompt struct {
	Topic      string
	CandleType CandleType // empty when no call-to-action is wanted
	Language   Language
}

// CustomPrompt is a fully resolved instruction sent to the model verbatim.
// Topic is optional and only serves as a fallback title.
type CustomPrompt struct {
	Text  string
	Topic string
}

func (StandardPrompt) promptSource() {}
func (CustomPrompt) promptSource()   {}

// GenerationRequest is the input of the generation pipeline.
type GenerationRequest struct {
	Source PromptSource
}

// NewStandardRequest builds a request for the standard prompt mode.
func NewStandardRequest(topic string, candleType CandleType, language Language) GenerationRequest {
	if language == "" {
		language = DefaultLanguage
	}
	return GenerationRequest{Source: StandardPrompt{Topic: topic, CandleType: candleType, Language: language}}
}

// NewCustomPromptRequest builds a request for the template mode.
func NewCustomPromptRequest(text, topic string) GenerationRequest {
	return GenerationRequest{Source: CustomPrompt{Text: text, Topic: topic}}
}

// NewGenerationRequest validates raw caller input and picks the prompt mode.
// A non-blank customPrompt wins; topic then only serves as a title fallback.
func NewGenerationRequest(topic, candleType, language, customPrompt string) (GenerationRequest, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(language)))
	if lang == "" {
		lang = DefaultLanguage
	}
	if lang != LanguageRU && lang != LanguageEN {
		return GenerationRequest{}, apperrors.Validation("unsupported language %q, expected ru or en", language)
	}

	ct := CandleType(strings.ToLower(strings.TrimSpace(candleType)))
	if ct != "" && !ct.Valid() {
		return GenerationRequest{}, apperrors.Validation("unknown candle type %q", candleType)
	}

	if strings.TrimSpace(customPrompt) != "" {
		return NewCustomPromptRequest(customPrompt, strings.TrimSpace(topic)), nil
	}
	req := NewStandardRequest(strings.TrimSpace(topic), ct, lang)
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate checks that the request resolves to a usable instruction.
func (r GenerationRequest) Validate() error {
	switch src := r.Source.(type) {
	case StandardPrompt:
		if strings.TrimSpace(src.Topic) == "" {
			return apperrors.Validation("topic is required when no custom prompt is given")
		}
	case CustomPrompt:
		if strings.TrimSpace(src.Text) == "" {
			return apperrors.Validation("custom prompt is empty")
		}
	default:
		return apperrors.Validation("either topic or custom prompt is required")
	}
	return nil
}

// Topic returns the topic of the request, if any.
func (r GenerationRequest) Topic() string {
	switch src := r.Source.(type) {
	case StandardPrompt:
		return strings.TrimSpace(src.Topic)
	case CustomPrompt:
		return strings.TrimSpace(src.Topic)
	}
	return ""
}

// Language returns the language of the request; custom prompts report the default.
func (r GenerationRequest) Language() Language {
	if src, ok := r.Source.(StandardPrompt); ok && src.Language != "" {
		return src.Language
	}
	return DefaultLanguage
}
