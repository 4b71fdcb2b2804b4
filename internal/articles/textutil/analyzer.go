// Package textutil contains pure helpers for analyzing markdown article text.
package textutil

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	wordsPerMinute   = 200
	excerptMaxLength = 150
	maxKeywords      = 10
	maxTitleKeywords = 3
	minKeywordLength = 4
	ellipsis         = "..."
)

// BaseKeywords open every keyword list.
var BaseKeywords = []string{"символическая свеча", "зажечь свечу онлайн", "виртуальная свеча"}

var stopWords = map[string]struct{}{
	// ru
	"и": {}, "в": {}, "во": {}, "на": {}, "с": {}, "со": {}, "по": {}, "для": {}, "как": {}, "что": {},
	"это": {}, "или": {}, "но": {}, "от": {}, "до": {}, "за": {}, "из": {}, "о": {}, "об": {}, "при": {},
	"чтобы": {}, "когда": {}, "если": {}, "почему": {}, "также": {}, "через": {}, "после": {}, "перед": {},
	"свой": {}, "свою": {}, "ваш": {}, "вашей": {}, "вашего": {},
	// en
	"the": {}, "and": {}, "for": {}, "with": {}, "how": {}, "what": {}, "why": {}, "from": {}, "your": {},
	"that": {}, "this": {}, "about": {}, "into": {}, "when": {}, "will": {}, "they": {}, "them": {},
	"their": {}, "there": {}, "which": {}, "while": {},
}

var (
	fencedBlock   = regexp.MustCompile("(?s)```.*```")
	fenceMarker   = regexp.MustCompile("```")
	inlineCode    = regexp.MustCompile("`[^`]*`")
	markdownChars = regexp.MustCompile(`[#*\[\]()]`)
	newlines      = regexp.MustCompile(`\n+`)
	spaces        = regexp.MustCompile(`\s+`)
)

// ReadingTime estimates reading time in minutes, never less than one.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}

// ExtractTitle returns the text of the first "# " line, or "" when there is none.
func ExtractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// Excerpt returns up to 150 characters of plain text, followed by "..." when cut.
func Excerpt(content string) string {
	plain := fencedBlock.ReplaceAllString(content, "")
	plain = fenceMarker.ReplaceAllString(plain, "")
	plain = inlineCode.ReplaceAllString(plain, "")
	plain = markdownChars.ReplaceAllString(plain, "")
	plain = newlines.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(spaces.ReplaceAllString(plain, " "))

	if plain == "" {
		plain = strings.TrimSpace(spaces.ReplaceAllString(content, " "))
	}
	return Truncate(plain, excerptMaxLength, ellipsis)
}

// ExtractKeywords returns the base keywords followed by up to three significant title words.
// content is reserved for content based extraction.
func ExtractKeywords(title, _ string) []string {
	keywords := make([]string, 0, len(BaseKeywords)+maxTitleKeywords)
	keywords = append(keywords, BaseKeywords...)

	taken := 0
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if taken == maxTitleKeywords {
			break
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if utf8.RuneCountInString(word) < minKeywordLength {
			continue
		}
		keywords = append(keywords, word)
		taken++
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// StripMarkdown removes markdown punctuation and collapses whitespace.
func StripMarkdown(content string) string {
	plain := markdownChars.ReplaceAllString(content, "")
	return strings.TrimSpace(spaces.ReplaceAllString(plain, " "))
}

// Truncate cuts s to limit characters and appends suffix when it was longer.
func Truncate(s string, limit int, suffix string) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + suffix
}
