package generative

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DenisKhanov/CandleArticles/internal/articles/api"
	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/DenisKhanov/CandleArticles/internal/articles/service"
)

// DevelopmentEnv is the APP_ENV value of a local setup.
const DevelopmentEnv = "development"

// Settings configure a provider client.
type Settings struct {
	Name        string  // Provider name (gemini, openai, deepseek, openrouter)
	APIKey      string  // Provider API key
	BaseURL     string  // Overrides the provider endpoint, OpenAI compatible providers only
	MaxTokens   int     // Output token limit, 0 keeps the provider default
	Temperature float32 // Sampling temperature, negative keeps the provider default
	AppEnv      string  // Deployment environment, used for configuration hints
}

// generativeCreator defines a function to create a GenerativeModel
type generativeCreator func(ctx context.Context, s Settings) (service.GenerativeModel, error)

func openAICompatible(defaultBaseURL string) generativeCreator {
	return func(_ context.Context, s Settings) (service.GenerativeModel, error) {
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		return api.NewOpenAICompatibleAPI(s.Name, s.APIKey, baseURL, s.MaxTokens, s.Temperature), nil
	}
}

// generativeRegistry stores registered implementations
var generativeRegistry = map[string]generativeCreator{
	"gemini": func(ctx context.Context, s Settings) (service.GenerativeModel, error) {
		return api.NewGeminiAPI(ctx, s.APIKey, s.MaxTokens, s.Temperature)
	},
	"openai":     openAICompatible(""),
	"deepseek":   openAICompatible("https://api.deepseek.com/v1/"),
	"openrouter": openAICompatible("https://openrouter.ai/api/v1/"),
}

// defaultLadders lists models from most to least capable for every provider
var defaultLadders = map[string][]string{
	"gemini":     {"gemini-2.5-flash", "gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-1.5-flash"},
	"openai":     {"gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"},
	"deepseek":   {"deepseek-chat"},
	"openrouter": {"google/gemini-2.5-flash", "deepseek/deepseek-chat", "meta-llama/llama-3.3-70b-instruct"},
}

// Providers returns the registered provider names.
func Providers() []string {
	names := make([]string, 0, len(generativeRegistry))
	for name := range generativeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultLadder returns the model ladder used when GENERATIVE_MODELS is not set.
func DefaultLadder(provider string) []string {
	return append([]string(nil), defaultLadders[provider]...)
}

// ModelFactory creates a GenerativeModel implementation based on the GENERATIVE_NAME setting.
// A missing API key is a configuration error raised before any request is made.
func ModelFactory(ctx context.Context, s Settings) (service.GenerativeModel, error) {
	creator, exists := generativeRegistry[s.Name]
	if !exists {
		return nil, apperrors.New(apperrors.KindConfiguration,
			fmt.Sprintf("unsupported GENERATIVE_NAME: %q (expected one of %s)", s.Name, strings.Join(Providers(), ", ")))
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, missingKey(s)
	}

	model, err := creator(ctx, s)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindConfiguration, fmt.Sprintf("failed to create %s client", s.Name))
	}
	return model, nil
}

func missingKey(s Settings) error {
	hint := "configure it in the deployment secrets"
	if s.AppEnv == DevelopmentEnv {
		hint = "add it to articles.env"
	}
	return apperrors.New(apperrors.KindConfiguration,
		fmt.Sprintf("GENERATIVE_API_KEY for provider %s is not set: %s", s.Name, hint))
}
