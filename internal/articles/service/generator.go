// Package service implements the article generation pipeline: prompt resolution, the model call
// with rate-limit retries down a model ladder, output normalization and category classification.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/DenisKhanov/CandleArticles/internal/articles/metrics"
	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/DenisKhanov/CandleArticles/internal/articles/prompt"
	"github.com/DenisKhanov/CandleArticles/internal/articles/seo"
	"github.com/DenisKhanov/CandleArticles/internal/articles/slug"
	"github.com/DenisKhanov/CandleArticles/internal/articles/textutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GenerativeModel is a text completion client able to address any model of its provider.
type GenerativeModel interface {
	GenerateTextMsg(ctx context.Context, modelName, text string) (string, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

const (
	DefaultMaxRetries  = 3
	DefaultBaseDelay   = time.Second
	DefaultCallTimeout = 60 * time.Second

	placeholderTitle = "Новая статья"
)

// modelAttempt tracks the walk down the model ladder during one Generate call.
type modelAttempt struct {
	modelIndex int
	retryCount int
	lastError  error
}

// Generator turns a GenerationRequest into a GeneratedArticle. It keeps no state between
// calls and is safe for concurrent use.
type Generator struct {
	model       GenerativeModel
	classifier  *CategoryClassifier
	ladder      []string
	maxRetries  int
	baseDelay   time.Duration
	callTimeout time.Duration
	sleep       Sleeper
	seo         seo.Builder
	slugs       slug.Generator
}

// Option configures a Generator.
type Option func(*Generator)

// WithClassifier attaches the category classifier.
func WithClassifier(c *CategoryClassifier) Option {
	return func(g *Generator) { g.classifier = c }
}

// WithSleeper replaces the backoff sleep.
func WithSleeper(s Sleeper) Option {
	return func(g *Generator) { g.sleep = s }
}

// WithCallTimeout bounds every model call.
func WithCallTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.callTimeout = d
		}
	}
}

// WithBaseDelay sets the first backoff delay; retry n waits base*2^n.
func WithBaseDelay(d time.Duration) Option {
	return func(g *Generator) { g.baseDelay = d }
}

// WithMaxRetries sets how many rate limited calls are retried.
func WithMaxRetries(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithSiteName sets the suffix of short SEO titles.
func WithSiteName(name string) Option {
	return func(g *Generator) { g.seo = seo.NewBuilder(name) }
}

// WithSlugGenerator replaces the slug generator.
func WithSlugGenerator(s slug.Generator) Option {
	return func(g *Generator) { g.slugs = s }
}

// NewGenerator creates a Generator over model using ladder, most capable model first.
func NewGenerator(model GenerativeModel, ladder []string, opts ...Option) (*Generator, error) {
	if model == nil {
		return nil, errors.New("generative model is required")
	}
	if len(ladder) == 0 {
		return nil, errors.New("model ladder must contain at least one model")
	}
	g := &Generator{
		model:       model,
		ladder:      append([]string(nil), ladder...),
		maxRetries:  DefaultMaxRetries,
		baseDelay:   DefaultBaseDelay,
		callTimeout: DefaultCallTimeout,
		sleep:       sleepContext,
		seo:         seo.NewBuilder(""),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Ladder returns a copy of the model ladder.
func (g *Generator) Ladder() []string {
	return append([]string(nil), g.ladder...)
}

// Generate runs the whole pipeline for req.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) (models.GeneratedArticle, error) {
	start := time.Now()
	article, err := g.generate(ctx, req)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	result := "success"
	if err != nil {
		result = string(apperrors.AsAppError(err).Kind)
	}
	metrics.GenerationsTotal.WithLabelValues(result).Inc()
	return article, err
}

func (g *Generator) generate(ctx context.Context, req models.GenerationRequest) (models.GeneratedArticle, error) {
	instruction, err := prompt.For(req)
	if err != nil {
		return models.GeneratedArticle{}, err
	}

	raw, err := g.invoke(ctx, instruction)
	if err != nil {
		return models.GeneratedArticle{}, err
	}
	return g.buildArticle(ctx, req, raw)
}

// invoke calls the model, retrying rate limited calls with exponential backoff.
// Every retry also moves one step down the ladder until its last model.
func (g *Generator) invoke(ctx context.Context, instruction string) (string, error) {
	var attempt modelAttempt
	for {
		attempt.modelIndex = min(attempt.retryCount, len(g.ladder)-1)
		modelName := g.ladder[attempt.modelIndex]
		log := logrus.WithFields(logrus.Fields{
			"model":   modelName,
			"attempt": attempt.retryCount + 1,
		})

		if err := ctx.Err(); err != nil {
			return "", cancelled(err)
		}

		text, err := g.call(ctx, modelName, instruction)
		if err == nil {
			metrics.ModelAttemptsTotal.WithLabelValues(modelName, "success").Inc()
			log.Debug("Model call succeeded")
			return text, nil
		}
		attempt.lastError = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			metrics.ModelAttemptsTotal.WithLabelValues(modelName, "cancelled").Inc()
			return "", cancelled(ctxErr)
		}

		if !IsRateLimited(err) {
			metrics.ModelAttemptsTotal.WithLabelValues(modelName, "error").Inc()
			log.WithError(err).Error("Model call failed")
			return "", apperrors.Wrap(err, apperrors.KindProvider, "AI provider request failed")
		}

		metrics.ModelAttemptsTotal.WithLabelValues(modelName, "rate_limited").Inc()
		if attempt.retryCount >= g.maxRetries {
			log.WithError(attempt.lastError).Error("Rate limit retries exhausted")
			return "", apperrors.Wrap(attempt.lastError, apperrors.KindRateLimit, apperrors.RateLimitMessage)
		}

		delay := g.baseDelay * time.Duration(1<<attempt.retryCount)
		metrics.RateLimitRetriesTotal.WithLabelValues(modelName).Inc()
		log.WithError(err).Warnf("Model is rate limited, retrying in %v", delay)
		if err := g.sleep(ctx, delay); err != nil {
			return "", cancelled(err)
		}
		attempt.retryCount++
	}
}

func (g *Generator) call(ctx context.Context, modelName, instruction string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()
	return g.model.GenerateTextMsg(callCtx, modelName, instruction)
}

func (g *Generator) buildArticle(ctx context.Context, req models.GenerationRequest, raw string) (models.GeneratedArticle, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return models.GeneratedArticle{}, apperrors.New(apperrors.KindEmptyOutput,
			"model returned empty text, check the prompt template")
	}

	content = unwrapFence(content)
	title := textutil.ExtractTitle(content)
	if title == "" {
		title = req.Topic()
	}
	if title == "" {
		title = placeholderTitle
	}

	content = unwrapFence(stripLeadingHeading(content, title))
	if content == "" {
		return models.GeneratedArticle{}, apperrors.New(apperrors.KindEmptyOutput,
			"article body is empty after cleanup, check the prompt template")
	}

	var (
		excerpt     string
		readingTime int
		meta        seo.Metadata
		articleSlug string
	)
	var eg errgroup.Group
	eg.Go(func() error {
		excerpt = textutil.Excerpt(content)
		readingTime = textutil.ReadingTime(content)
		return nil
	})
	eg.Go(func() error {
		meta = g.seo.Build(title, content)
		return nil
	})
	eg.Go(func() error {
		articleSlug = g.slugs.Slugify(title)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return models.GeneratedArticle{}, err
	}
	if articleSlug == "" {
		return models.GeneratedArticle{}, apperrors.New(apperrors.KindEmptyOutput,
			fmt.Sprintf("could not derive a slug from title %q", title))
	}

	return models.GeneratedArticle{
		Title:          title,
		Content:        content,
		Excerpt:        excerpt,
		SeoTitle:       meta.Title,
		SeoDescription: meta.Description,
		SeoKeywords:    meta.Keywords,
		ReadingTime:    readingTime,
		Slug:           articleSlug,
		CategorySlug:   g.classifier.Classify(ctx, title, content),
	}, nil
}

var (
	fenceOpen  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n")
	fenceClose = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// unwrapFence removes a code fence wrapped around the whole document. The closing fence
// is removed only when it is unbalanced, so a trailing code block of the article survives.
func unwrapFence(content string) string {
	s := strings.TrimSpace(content)
	if loc := fenceOpen.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}
	if strings.Count(s, "```")%2 == 1 {
		if loc := fenceClose.FindStringIndex(s); loc != nil {
			s = s[:loc[0]]
		}
	}
	return strings.TrimSpace(s)
}

// stripLeadingHeading drops a heading on the first line of content. Only a heading at the very
// start is removed; an H1 after a preamble stays in the body.
func stripLeadingHeading(content, title string) string {
	if !strings.HasPrefix(content, "#") {
		return content
	}
	line, rest, _ := strings.Cut(content, "\n")
	if !isTitleHeading(line, title) {
		logrus.WithField("heading", strings.TrimSpace(line)).Debug("Dropping leading heading that does not carry the title")
	}
	return rest
}

// isTitleHeading reports whether line is "#...# title" with optional surrounding blanks.
func isTitleHeading(line, title string) bool {
	text := strings.TrimLeft(line, "#")
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	text, ok := strings.CutPrefix(text, title)
	return ok && strings.Trim(text, " \t\r") == ""
}

func cancelled(err error) error {
	return apperrors.Wrap(err, apperrors.KindCancelled, "generation cancelled")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
