package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// GeminiAPI представляет структуру для работы с Gemini API
type GeminiAPI struct {
	client      *genai.Client // Клиент для взаимодействия с API
	maxTokens   int           // Максимальное количество токенов (опционально)
	temperature float32       // Температура для управления креативностью (опционально)
}

// NewGeminiAPI создает новый экземпляр GeminiAPI. Модель выбирается при каждом вызове.
func NewGeminiAPI(ctx context.Context, apiKey string, maxTokens int, temperature float32) (*GeminiAPI, error) {
	// Инициализируем клиент
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAPI{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

// GenerateTextMsg генерирует текст моделью modelName на основе переданного запроса
func (g *GeminiAPI) GenerateTextMsg(ctx context.Context, modelName, text string) (string, error) {
	model := g.client.GenerativeModel(modelName)

	// Настраиваем параметры модели (опционально)
	if g.maxTokens > 0 {
		maxToken := int32(g.maxTokens)
		model.MaxOutputTokens = &maxToken
	}
	if g.temperature >= 0 && g.temperature <= 1 {
		temperature := g.temperature
		model.Temperature = &temperature
	}

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		err = geminiFailure(modelName, err)
		logrus.WithError(err).WithField("model", modelName).Debug("Gemini request failed")
		return "", err
	}
	return geminiText(resp), nil
}

// Close освобождает соединения клиента
func (g *GeminiAPI) Close() error {
	return g.client.Close()
}

// geminiText склеивает текстовые части первого кандидата
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func geminiFailure(modelName string, err error) error {
	failure := &apperrors.ProviderFailure{Provider: providerGemini, Model: modelName, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		failure.StatusCode = gerr.Code
		failure.Code = googleStatus(gerr)
	}
	return failure
}

// googleStatus достает канонический статус ("RESOURCE_EXHAUSTED") из тела ответа
func googleStatus(gerr *googleapi.Error) string {
	for _, status := range []string{"RESOURCE_EXHAUSTED", "UNAVAILABLE", "PERMISSION_DENIED", "INVALID_ARGUMENT"} {
		if strings.Contains(gerr.Body, status) || strings.Contains(gerr.Message, status) {
			return status
		}
	}
	return ""
}
