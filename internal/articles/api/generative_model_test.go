package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestOpenAICompatibleAPI_GenerateTextMsg(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"deepseek-chat",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"# Заголовок\n\nТекст"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleAPI("deepseek", "key", srv.URL+"/", 0, 0.7)
	text, err := client.GenerateTextMsg(context.Background(), "deepseek-chat", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "# Заголовок\n\nТекст", text)
	assert.Equal(t, "deepseek-chat", gotModel)
}

func TestOpenAICompatibleAPI_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleAPI("openrouter", "key", srv.URL+"/", 0, 0.7)
	_, err := client.GenerateTextMsg(context.Background(), "some/model", "prompt")
	require.Error(t, err)

	var failure *apperrors.ProviderFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "openrouter", failure.Provider)
	assert.Equal(t, "some/model", failure.Model)
	assert.Equal(t, http.StatusTooManyRequests, failure.StatusCode)
}

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("# Title\n"), genai.Text("body")}}},
		},
	}
	assert.Equal(t, "# Title\nbody", geminiText(resp))
	assert.Empty(t, geminiText(&genai.GenerateContentResponse{}))
	assert.Empty(t, geminiText(nil))
}

func TestGeminiFailure(t *testing.T) {
	gerr := &googleapi.Error{Code: 429, Message: "Resource has been exhausted", Body: `{"error":{"status":"RESOURCE_EXHAUSTED"}}`}
	err := geminiFailure("gemini-2.5-flash", gerr)

	var failure *apperrors.ProviderFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 429, failure.StatusCode)
	assert.Equal(t, "RESOURCE_EXHAUSTED", failure.Code)
	assert.Equal(t, "gemini-2.5-flash", failure.Model)

	plain := geminiFailure("gemini-2.5-flash", errors.New("dial tcp: timeout"))
	require.ErrorAs(t, plain, &failure)
	assert.Zero(t, failure.StatusCode)
}
