package http

import (
	"context"
	"net/http"

	"github.com/DenisKhanov/CandleArticles/internal/articles/api/http/middleware"
	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/DenisKhanov/CandleArticles/internal/articles/render"
	"github.com/DenisKhanov/CandleArticles/internal/articles/repository"
	"github.com/DenisKhanov/CandleArticles/internal/articles/templates"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Generator runs the article pipeline.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (models.GeneratedArticle, error)
}

// Renderer turns markdown into HTML.
type Renderer interface {
	Render(content string) (render.Result, error)
}

// ArticleStore persists generated articles.
type ArticleStore interface {
	Save(ctx context.Context, article models.GeneratedArticle) (repository.SavedArticle, error)
}

// Notifier is told about every saved article.
type Notifier interface {
	ArticleSaved(article models.GeneratedArticle, id string) error
}

// TemplateSource resolves named prompts.
type TemplateSource interface {
	Resolve(name, topic string) (string, error)
	List() []templates.Template
}

type Handler struct {
	generator Generator
	renderer  Renderer
	store     ArticleStore
	notifier  Notifier
	templates TemplateSource
}

// HandlerOption attaches an optional dependency.
type HandlerOption func(*Handler)

func WithStore(store ArticleStore) HandlerOption {
	return func(h *Handler) { h.store = store }
}

func WithNotifier(notifier Notifier) HandlerOption {
	return func(h *Handler) { h.notifier = notifier }
}

func WithTemplates(source TemplateSource) HandlerOption {
	return func(h *Handler) { h.templates = source }
}

func NewHandler(generator Generator, renderer Renderer, opts ...HandlerOption) *Handler {
	h := &Handler{generator: generator, renderer: renderer}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter builds the gin engine serving the article API.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.LogrusLog(), middleware.Metrics())
	h.Register(router.Group("/api"))
	return router
}

// Register mounts the handler routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/articles/generate", h.GenerateArticle)
	r.GET("/templates", h.ListTemplates)
}

type generateRequest struct {
	Topic        string `json:"topic"`
	CandleType   string `json:"candle_type"`
	Language     string `json:"language"`
	CustomPrompt string `json:"custom_prompt"`
	Template     string `json:"template"`
	Save         bool   `json:"save"`
}

type generateResponse struct {
	models.GeneratedArticle
	ContentHTML string           `json:"content_html"`
	Outline     []render.Heading `json:"outline,omitempty"`
	ID          string           `json:"id,omitempty"`
}

type errorResponse struct {
	Error     string         `json:"error"`
	Kind      apperrors.Kind `json:"kind"`
	Detail    string         `json:"detail,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// GenerateArticle handles POST /api/articles/generate.
func (h *Handler) GenerateArticle(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, apperrors.Wrap(err, apperrors.KindValidation, "request body must be a JSON object"))
		return
	}

	req, err := h.buildRequest(body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	article, err := h.generator.Generate(ctx, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := generateResponse{GeneratedArticle: article}
	if rendered, err := h.renderer.Render(article.Content); err != nil {
		logrus.WithError(err).WithField("slug", article.Slug).Warn("Failed to render article preview")
	} else {
		resp.ContentHTML = rendered.HTML
		resp.Outline = rendered.Headings
	}

	if body.Save {
		saved, err := h.save(ctx, article)
		if err != nil {
			h.writeError(c, err)
			return
		}
		resp.Slug = saved.Slug
		resp.ID = saved.ID.String()
		h.notify(resp.GeneratedArticle, resp.ID)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildRequest(body generateRequest) (models.GenerationRequest, error) {
	customPrompt := body.CustomPrompt
	if body.Template != "" {
		if h.templates == nil {
			return models.GenerationRequest{}, apperrors.Validation("prompt templates are not configured")
		}
		if customPrompt != "" {
			return models.GenerationRequest{}, apperrors.Validation("custom_prompt and template cannot be combined")
		}
		resolved, err := h.templates.Resolve(body.Template, body.Topic)
		if err != nil {
			return models.GenerationRequest{}, err
		}
		customPrompt = resolved
	}
	return models.NewGenerationRequest(body.Topic, body.CandleType, body.Language, customPrompt)
}

func (h *Handler) save(ctx context.Context, article models.GeneratedArticle) (repository.SavedArticle, error) {
	if h.store == nil {
		return repository.SavedArticle{}, apperrors.New(apperrors.KindConfiguration, "article store is not configured, set DATABASE_DSN")
	}
	saved, err := h.store.Save(ctx, article)
	if err != nil {
		return repository.SavedArticle{}, apperrors.Wrap(err, apperrors.KindStorage, "failed to save article")
	}
	return saved, nil
}

func (h *Handler) notify(article models.GeneratedArticle, id string) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.ArticleSaved(article, id); err != nil {
		logrus.WithError(err).WithField("id", id).Warn("Article notification failed")
	}
}

// ListTemplates handles GET /api/templates.
func (h *Handler) ListTemplates(c *gin.Context) {
	list := []templates.Template{}
	if h.templates != nil {
		list = h.templates.List()
	}
	c.JSON(http.StatusOK, gin.H{"templates": list})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	_ = c.Error(err)

	resp := errorResponse{
		Error:     appErr.Message,
		Kind:      appErr.Kind,
		RequestID: c.GetString(middleware.RequestIDKey),
	}
	if appErr.Kind == apperrors.KindProvider && appErr.Err != nil {
		resp.Detail = appErr.Err.Error()
	}
	c.JSON(appErr.HTTPStatus, resp)
}
