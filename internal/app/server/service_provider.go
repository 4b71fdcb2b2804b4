// Package server provides dependency injection and service management for the article service.
// It initializes and provides access to the generator, the article store and the HTTP handler.
package server

import (
	"context"
	"fmt"
	"io"
	"sync"

	apihttp "github.com/DenisKhanov/CandleArticles/internal/articles/api/http"
	"github.com/DenisKhanov/CandleArticles/internal/articles/config"
	"github.com/DenisKhanov/CandleArticles/internal/articles/infra/generative"
	"github.com/DenisKhanov/CandleArticles/internal/articles/notify"
	"github.com/DenisKhanov/CandleArticles/internal/articles/render"
	"github.com/DenisKhanov/CandleArticles/internal/articles/repository"
	"github.com/DenisKhanov/CandleArticles/internal/articles/service"
	"github.com/DenisKhanov/CandleArticles/internal/articles/templates"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// ServiceProvider manages dependency injection for the article service.
// It lazily initializes components as needed.
type ServiceProvider struct {
	config *config.Config

	model     service.GenerativeModel
	generator *service.Generator
	store     *repository.ArticleRepository
	notifier  *notify.TelegramNotifier
	templates *templates.Store
	handler   *apihttp.Handler

	modelErr     error
	generatorErr error
	storeErr     error
	notifierErr  error
	templatesErr error
	handlerErr   error

	modelOnce     sync.Once // Ensures thread-safe provider client initialization
	generatorOnce sync.Once // Ensures thread-safe generator initialization
	storeOnce     sync.Once // Ensures thread-safe store initialization
	notifierOnce  sync.Once // Ensures thread-safe notifier initialization
	templatesOnce sync.Once // Ensures thread-safe template store initialization
	handlerOnce   sync.Once // Ensures thread-safe handler initialization
}

// NewServiceProvider creates a new instance of ServiceProvider with the specified configuration.
func NewServiceProvider(cfg *config.Config) *ServiceProvider {
	return &ServiceProvider{config: cfg}
}

// GenerativeModel returns the provider client selected by GENERATIVE_NAME.
func (s *ServiceProvider) GenerativeModel(ctx context.Context) (service.GenerativeModel, error) {
	s.modelOnce.Do(func() {
		s.model, s.modelErr = generative.ModelFactory(ctx, generative.Settings{
			Name:        s.config.GenerativeName,
			APIKey:      s.config.GenerativeAPIKey,
			BaseURL:     s.config.GenerativeBaseURL,
			MaxTokens:   s.config.MaxTokens,
			Temperature: float32(s.config.Temperature),
			AppEnv:      s.config.AppEnv,
		})
		if s.modelErr == nil {
			logrus.WithField("provider", s.config.GenerativeName).Info("Generative model client initialized lazily")
		}
	})
	return s.model, s.modelErr
}

// Generator returns the generation pipeline with its category classifier.
func (s *ServiceProvider) Generator(ctx context.Context) (*service.Generator, error) {
	s.generatorOnce.Do(func() {
		model, err := s.GenerativeModel(ctx)
		if err != nil {
			s.generatorErr = err
			return
		}

		ladder := s.config.ModelLadder(generative.DefaultLadder(s.config.GenerativeName))
		classifier := service.NewCategoryClassifier(model, s.config.ClassifierModelName(ladder), s.config.ClassificationTimeout())
		s.generator, s.generatorErr = service.NewGenerator(model, ladder,
			service.WithClassifier(classifier),
			service.WithCallTimeout(s.config.GenerationTimeout()),
			service.WithSiteName(s.config.SiteName),
		)
		if s.generatorErr == nil {
			logrus.WithField("ladder", ladder).Info("Generator initialized lazily")
		}
	})
	return s.generator, s.generatorErr
}

// ArticleStore returns the Postgres store, or nil when DATABASE_DSN is empty.
func (s *ServiceProvider) ArticleStore(ctx context.Context) (*repository.ArticleRepository, error) {
	s.storeOnce.Do(func() {
		if s.config.DatabaseDSN == "" {
			logrus.Info("DATABASE_DSN is empty, saving articles is disabled")
			return
		}
		pool, err := pgxpool.New(ctx, s.config.DatabaseDSN)
		if err != nil {
			s.storeErr = fmt.Errorf("connect to database: %w", err)
			return
		}
		store := repository.NewArticleRepository(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			s.storeErr = err
			return
		}
		s.store = store
		logrus.Info("Article store initialized lazily")
	})
	return s.store, s.storeErr
}

// Notifier returns the Telegram notifier, or nil when it is not configured.
func (s *ServiceProvider) Notifier() (*notify.TelegramNotifier, error) {
	s.notifierOnce.Do(func() {
		if s.config.TelegramBotToken == "" || s.config.TelegramChatID == 0 {
			return
		}
		s.notifier, s.notifierErr = notify.NewTelegramNotifier(s.config.TelegramBotToken, s.config.TelegramChatID)
		if s.notifierErr == nil {
			logrus.Info("Telegram notifier initialized lazily")
		}
	})
	return s.notifier, s.notifierErr
}

// Templates returns the prompt template store, or nil when PROMPT_TEMPLATES_PATH is empty.
// The store follows changes of the file until ctx is done.
func (s *ServiceProvider) Templates(ctx context.Context) (*templates.Store, error) {
	s.templatesOnce.Do(func() {
		if s.config.PromptTemplatesPath == "" {
			return
		}
		store, err := templates.Load(s.config.PromptTemplatesPath)
		if err != nil {
			s.templatesErr = err
			return
		}
		if err := store.Watch(ctx); err != nil {
			logrus.WithError(err).Warn("Prompt templates will not be reloaded on change")
		}
		s.templates = store
		logrus.WithField("path", s.config.PromptTemplatesPath).Info("Prompt templates loaded")
	})
	return s.templates, s.templatesErr
}

// Handler returns the HTTP handler of the article API.
func (s *ServiceProvider) Handler(ctx context.Context) (*apihttp.Handler, error) {
	s.handlerOnce.Do(func() {
		s.handler, s.handlerErr = s.newHandler(ctx)
		if s.handlerErr == nil {
			logrus.Info("HTTP handler initialized lazily")
		}
	})
	return s.handler, s.handlerErr
}

func (s *ServiceProvider) newHandler(ctx context.Context) (*apihttp.Handler, error) {
	generator, err := s.Generator(ctx)
	if err != nil {
		return nil, err
	}

	var opts []apihttp.HandlerOption
	store, err := s.ArticleStore(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append(opts, apihttp.WithStore(store))
	}

	notifier, err := s.Notifier()
	if err != nil {
		logrus.WithError(err).Warn("Telegram notifier disabled")
	} else if notifier != nil {
		opts = append(opts, apihttp.WithNotifier(notifier))
	}

	source, err := s.Templates(ctx)
	if err != nil {
		return nil, err
	}
	if source != nil {
		opts = append(opts, apihttp.WithTemplates(source))
	}

	return apihttp.NewHandler(generator, render.NewMarkdownRenderer(), opts...), nil
}

// Ready reports whether the dependencies needed to serve requests are reachable.
func (s *ServiceProvider) Ready(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

// Close releases the provider client and the database pool.
func (s *ServiceProvider) Close() {
	if closer, ok := s.model.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close generative model client")
		}
	}
	if s.store != nil {
		s.store.Close()
	}
}
