package notify

import (
	"errors"
	"testing"

	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

var article = models.GeneratedArticle{
	Title:        "Практика благодарности",
	Slug:         "praktika-blagodarnosti",
	Excerpt:      "Благодарность меняет взгляд на привычные вещи.",
	ReadingTime:  3,
	CategorySlug: models.CategoryGuides,
}

func TestFormatArticleMessage(t *testing.T) {
	msg := formatArticleMessage(article, "42")
	assert.Contains(t, msg, "Практика благодарности\n")
	assert.Contains(t, msg, "slug: praktika-blagodarnosti\n")
	assert.Contains(t, msg, "категория: guides\n")
	assert.Contains(t, msg, "время чтения: 3 мин\n")
	assert.Contains(t, msg, "id: 42\n")

	noCategory := article
	noCategory.CategorySlug = ""
	assert.Contains(t, formatArticleMessage(noCategory, "1"), "категория: -\n")
}

func TestTelegramNotifier_ArticleSaved(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, -100500)

	require.NoError(t, n.ArticleSaved(article, "42"))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100500), msg.ChatID)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Contains(t, msg.Text, "praktika-blagodarnosti")
}

func TestTelegramNotifier_SendError(t *testing.T) {
	n := NewNotifier(&fakeSender{err: errors.New("chat not found")}, 1)
	assert.EqualError(t, n.ArticleSaved(article, "42"), "chat not found")
}
