// Package seo derives search engine metadata for generated articles.
package seo

import (
	"unicode/utf8"

	"github.com/DenisKhanov/CandleArticles/internal/articles/textutil"
)

// DefaultSiteName is appended to short titles.
const DefaultSiteName = "Свеча онлайн"

const (
	maxTitleLength       = 50
	maxDescriptionLength = 160
	descriptionCut       = 157
)

// Metadata is the title/description/keywords triad stored with an article.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
}

// Builder builds Metadata for a site.
type Builder struct {
	SiteName string
}

// NewBuilder returns a Builder, falling back to DefaultSiteName.
func NewBuilder(siteName string) Builder {
	if siteName == "" {
		siteName = DefaultSiteName
	}
	return Builder{SiteName: siteName}
}

// BuildSeoMetadata uses DefaultSiteName.
func BuildSeoMetadata(title, content string) Metadata {
	return NewBuilder("").Build(title, content)
}

// Build derives the metadata triad; the three fields are independent of each other.
func (b Builder) Build(title, content string) Metadata {
	return Metadata{
		Title:       b.Title(title),
		Description: Description(content),
		Keywords:    textutil.ExtractKeywords(title, content),
	}
}

// Title truncates long titles, short ones get the site name suffix.
func (b Builder) Title(title string) string {
	if utf8.RuneCountInString(title) > maxTitleLength {
		return textutil.Truncate(title, maxTitleLength, "...")
	}
	return title + " | " + b.SiteName
}

// Description is the plain text of content limited to 160 characters.
func Description(content string) string {
	plain := textutil.StripMarkdown(content)
	if utf8.RuneCountInString(plain) > maxDescriptionLength {
		return textutil.Truncate(plain, descriptionCut, "...")
	}
	return plain
}
