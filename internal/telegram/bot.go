package telegram

import (
	"fmt"
	"strings"

	"go-upwork-automation/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendJob posts one new listing card to the configured chat.
func (b *Bot) SendJob(job models.JobRecord) error {
	msgText := fmt.Sprintf("📋 *%s*\n", b.escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🔗 [View Job](%s)\n", job.URL)

	if job.Budget != "" {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(job.Budget))
	}

	if job.ClientCountry != "" {
		verified := ""
		if job.ClientVerified {
			verified = " ✓"
		}
		msgText += fmt.Sprintf("🌍 %s%s\n", b.escapeMarkdown(job.ClientCountry), verified)
	}

	if job.ExperienceLevel != "" {
		msgText += fmt.Sprintf("🎓 %s\n", b.escapeMarkdown(job.ExperienceLevel))
	}

	if job.ProposalsTier != "" {
		msgText += fmt.Sprintf("👥 Proposals: %s\n", b.escapeMarkdown(job.ProposalsTier))
	}

	msgText += fmt.Sprintf("🔖 Source: %s\n", b.escapeMarkdown(job.FeedSource))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.URL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
