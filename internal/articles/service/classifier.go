package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DenisKhanov/CandleArticles/internal/articles/metrics"
	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/DenisKhanov/CandleArticles/internal/articles/prompt"
	"github.com/sirupsen/logrus"
)

// DefaultClassificationTimeout bounds the classification call.
const DefaultClassificationTimeout = 20 * time.Second

// CategoryClassifier labels finished articles with a category. It never fails: every
// error collapses to models.DefaultCategory.
type CategoryClassifier struct {
	model     GenerativeModel
	modelName string
	timeout   time.Duration
}

// NewCategoryClassifier creates a classifier calling modelName on model.
func NewCategoryClassifier(model GenerativeModel, modelName string, timeout time.Duration) *CategoryClassifier {
	if timeout <= 0 {
		timeout = DefaultClassificationTimeout
	}
	return &CategoryClassifier{model: model, modelName: modelName, timeout: timeout}
}

// Classify returns the category of the article. A nil classifier returns no category.
func (c *CategoryClassifier) Classify(ctx context.Context, title, content string) models.CategorySlug {
	if c == nil {
		return ""
	}
	category, err := c.classify(ctx, title, content)
	if err != nil {
		metrics.ClassificationFallbacksTotal.Inc()
		logrus.WithError(err).WithField("model", c.modelName).Warn("Category classification failed, using default category")
		return models.DefaultCategory
	}
	return category
}

func (c *CategoryClassifier) classify(ctx context.Context, title, content string) (category models.CategorySlug, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classification panicked: %v", r)
		}
	}()
	if c.model == nil {
		return "", fmt.Errorf("classifier has no model")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	answer, err := c.model.GenerateTextMsg(callCtx, c.modelName, prompt.Classification(title, content))
	if err != nil {
		return "", fmt.Errorf("classification call: %w", err)
	}
	return ParseCategory(answer), nil
}

// ParseCategory finds the first valid slug mentioned in a free text answer.
func ParseCategory(answer string) models.CategorySlug {
	lower := strings.ToLower(answer)
	for _, category := range models.Categories {
		if strings.Contains(lower, string(category)) {
			return category
		}
	}
	return models.DefaultCategory
}
