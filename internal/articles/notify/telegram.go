// Package notify sends admin notifications about newly saved articles.
package notify

import (
	"fmt"
	"strings"

	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of tgbotapi.BotAPI used by the notifier.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts a short summary of every saved article into an admin chat.
type TelegramNotifier struct {
	sender Sender
	chatID int64
}

// NewTelegramNotifier creates a notifier with a bot authorized by token.
// Arguments:
//   - token: the Telegram bot token.
//   - chatID: the chat receiving notifications.
//
// Returns an error if the bot cannot be authorized.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	return NewNotifier(bot, chatID), nil
}

// NewNotifier creates a notifier over an existing sender.
func NewNotifier(sender Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID}
}

// ArticleSaved sends the notification about a stored article.
// Arguments:
//   - article: the generated article.
//   - id: the identifier assigned by the article store.
//
// Returns an error if the message fails to send.
func (n *TelegramNotifier) ArticleSaved(article models.GeneratedArticle, id string) error {
	msg := tgbotapi.NewMessage(n.chatID, formatArticleMessage(article, id))
	msg.DisableWebPagePreview = true
	if _, err := n.sender.Send(msg); err != nil {
		logrus.WithError(err).Errorf("Failed to send article notification to chat %d", n.chatID)
		return err
	}
	return nil
}

func formatArticleMessage(article models.GeneratedArticle, id string) string {
	category := string(article.CategorySlug)
	if category == "" {
		category = "-"
	}

	var sb strings.Builder
	sb.WriteString("🕯 Новая статья сохранена\n\n")
	sb.WriteString(article.Title + "\n")
	sb.WriteString(fmt.Sprintf("slug: %s\n", article.Slug))
	sb.WriteString(fmt.Sprintf("категория: %s\n", category))
	sb.WriteString(fmt.Sprintf("время чтения: %d мин\n", article.ReadingTime))
	sb.WriteString(fmt.Sprintf("id: %s\n\n", id))
	sb.WriteString(article.Excerpt)
	return sb.String()
}
