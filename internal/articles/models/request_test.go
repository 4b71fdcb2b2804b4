package models

import (
	"encoding/json"
	"testing"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationRequest(t *testing.T) {
	tests := map[string]struct {
		topic, candleType, language, customPrompt string
		want                                      PromptSource
		wantErr                                   bool
	}{
		"standard with defaults": {
			topic: "Практика благодарности",
			want:  StandardPrompt{Topic: "Практика благодарности", Language: LanguageRU},
		},
		"standard with candle type": {
			topic: " Focus at work ", candleType: "Focus", language: "EN",
			want: StandardPrompt{Topic: "Focus at work", CandleType: CandleFocus, Language: LanguageEN},
		},
		"custom prompt wins over topic": {
			topic: "hint", customPrompt: "Write about candles",
			want: CustomPrompt{Text: "Write about candles", Topic: "hint"},
		},
		"custom prompt is kept verbatim": {
			customPrompt: "  spaced prompt \n",
			want:         CustomPrompt{Text: "  spaced prompt \n"},
		},
		"nothing given":             {wantErr: true},
		"blank topic":               {topic: "   ", wantErr: true},
		"unknown language":          {topic: "x", language: "de", wantErr: true},
		"unknown candle type":       {topic: "x", candleType: "joy", wantErr: true},
		"blank custom, blank topic": {customPrompt: "  ", topic: " ", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := NewGenerationRequest(tc.topic, tc.candleType, tc.language, tc.customPrompt)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, req.Source)
		})
	}
}

func TestGenerationRequest_Validate(t *testing.T) {
	assert.Error(t, GenerationRequest{}.Validate())
	assert.Error(t, NewStandardRequest("", "", LanguageRU).Validate())
	assert.Error(t, NewCustomPromptRequest(" ", "topic").Validate())
	assert.NoError(t, NewCustomPromptRequest("prompt", "").Validate())
}

func TestGenerationRequest_Accessors(t *testing.T) {
	req := NewStandardRequest("Topic", CandleCalm, "")
	assert.Equal(t, "Topic", req.Topic())
	assert.Equal(t, LanguageRU, req.Language())

	custom := NewCustomPromptRequest("prompt", " hint ")
	assert.Equal(t, "hint", custom.Topic())
	assert.Equal(t, DefaultLanguage, custom.Language())
}

func TestCategorySlug_JSON(t *testing.T) {
	data, err := json.Marshal(GeneratedArticle{Title: "t", ReadingTime: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category_slug":null`)

	data, err = json.Marshal(GeneratedArticle{CategorySlug: CategoryGuides})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category_slug":"guides"`)

	var decoded GeneratedArticle
	require.NoError(t, json.Unmarshal([]byte(`{"category_slug":null}`), &decoded))
	assert.Equal(t, CategorySlug(""), decoded.CategorySlug)
}
