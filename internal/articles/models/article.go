package models

import "encoding/json"

// CategorySlug identifies an article category in the article store.
// The zero value means "no category" and is encoded as JSON null.
type CategorySlug string

const (
	CategoryFAQ    CategorySlug = "faq"
	CategoryGuides CategorySlug = "guides"
	CategorySEO    CategorySlug = "seo"
	CategoryNews   CategorySlug = "news"
)

// DefaultCategory is assigned whenever classification fails.
const DefaultCategory = CategoryFAQ

// Categories lists the valid slugs in the order the classifier checks them.
var Categories = []CategorySlug{CategoryFAQ, CategoryGuides, CategorySEO, CategoryNews}

// MarshalJSON encodes the empty slug as null.
func (c CategorySlug) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON accepts null as the empty slug.
func (c *CategorySlug) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = CategorySlug(s)
	return nil
}

// GeneratedArticle is the persist-ready result of one pipeline run.
type GeneratedArticle struct {
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	Excerpt        string       `json:"excerpt"`
	SeoTitle       string       `json:"seo_title"`
	SeoDescription string       `json:"seo_description"`
	SeoKeywords    []string     `json:"seo_keywords"`
	ReadingTime    int          `json:"reading_time"`
	Slug           string       `json:"slug"`
	CategorySlug   CategorySlug `json:"category_slug"`
}
