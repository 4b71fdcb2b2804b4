// Package repository stores generated articles in Postgres.
package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schema string

const (
	maxSlugSuffix    = 100
	maxInsertRetries = 3
	uniqueViolation  = "23505"
)

const existsQuery = `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)`

const insertQuery = `INSERT INTO articles (id, title, slug, content, excerpt, seo_title, seo_description, seo_keywords, reading_time, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, (SELECT id FROM categories WHERE slug = $10))`

// ErrSlugSpaceExhausted is returned when every suffixed form of a slug is taken.
var ErrSlugSpaceExhausted = errors.New("no free slug suffix left")

// PgxIface is the part of pgxpool.Pool the repository uses.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// SavedArticle identifies a stored article.
type SavedArticle struct {
	ID   uuid.UUID
	Slug string
}

// ArticleRepository writes articles into the articles table.
type ArticleRepository struct {
	pool  PgxIface
	newID func() uuid.UUID
}

func NewArticleRepository(pool PgxIface) *ArticleRepository {
	return &ArticleRepository{pool: pool, newID: uuid.New}
}

// EnsureSchema creates the tables and seeds the categories when they are missing.
func (r *ArticleRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (r *ArticleRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Save inserts article. A taken slug gets the first free "-2", "-3", ... suffix.
func (r *ArticleRepository) Save(ctx context.Context, article models.GeneratedArticle) (SavedArticle, error) {
	var lastErr error
	for attempt := 0; attempt < maxInsertRetries; attempt++ {
		slug, err := r.uniqueSlug(ctx, article.Slug)
		if err != nil {
			return SavedArticle{}, err
		}

		id := r.newID()
		_, err = r.pool.Exec(ctx, insertQuery,
			id,
			article.Title,
			slug,
			article.Content,
			article.Excerpt,
			article.SeoTitle,
			article.SeoDescription,
			article.SeoKeywords,
			article.ReadingTime,
			categoryArg(article.CategorySlug),
		)
		if err == nil {
			logrus.WithFields(logrus.Fields{"id": id, "slug": slug}).Info("Article saved")
			return SavedArticle{ID: id, Slug: slug}, nil
		}

		// Another writer took the slug between the check and the insert.
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			return SavedArticle{}, fmt.Errorf("insert article: %w", err)
		}
		lastErr = err
	}
	return SavedArticle{}, fmt.Errorf("insert article: %w", lastErr)
}

func (r *ArticleRepository) uniqueSlug(ctx context.Context, base string) (string, error) {
	for n := 1; n <= maxSlugSuffix; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}

		var exists bool
		if err := r.pool.QueryRow(ctx, existsQuery, candidate).Scan(&exists); err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("slug %q: %w", base, ErrSlugSpaceExhausted)
}

func categoryArg(category models.CategorySlug) any {
	if category == "" {
		return nil
	}
	return string(category)
}

// Close releases the pool.
func (r *ArticleRepository) Close() {
	r.pool.Close()
}
