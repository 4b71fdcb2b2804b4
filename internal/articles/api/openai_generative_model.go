package api

import (
	"context"
	"errors"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"
)

// OpenAICompatibleAPI работает с любым провайдером, поддерживающим OpenAI Chat Completions
// (OpenAI, DeepSeek, OpenRouter).
type OpenAICompatibleAPI struct {
	client      openai.Client // Клиент для взаимодействия с API
	provider    string        // Имя провайдера для ошибок и логов
	maxTokens   int           // Максимальное количество токенов (опционально)
	temperature float32       // Температура для управления креативностью (опционально)
}

// NewOpenAICompatibleAPI создает клиент; пустой baseURL означает api.openai.com
func NewOpenAICompatibleAPI(provider, apiKey, baseURL string, maxTokens int, temperature float32) *OpenAICompatibleAPI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICompatibleAPI{
		client:      openai.NewClient(opts...),
		provider:    provider,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// GenerateTextMsg генерирует текст моделью modelName на основе переданного запроса
func (o *OpenAICompatibleAPI) GenerateTextMsg(ctx context.Context, modelName, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(text),
		},
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}
	if o.temperature >= 0 && o.temperature <= 2 {
		params.Temperature = openai.Float(float64(o.temperature))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		err = o.failure(modelName, err)
		logrus.WithError(err).WithField("model", modelName).Debugf("%s request failed", o.provider)
		return "", err
	}

	// Проверяем наличие ответа
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAICompatibleAPI) failure(modelName string, err error) error {
	failure := &apperrors.ProviderFailure{Provider: o.provider, Model: modelName, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		failure.StatusCode = apiErr.StatusCode
		failure.Code = apiErr.Code
	}
	return failure
}
