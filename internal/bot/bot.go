package bot

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkozlov/finance_assistant/internal/charts"
	"github.com/dkozlov/finance_assistant/internal/insights"
	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/session"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *session.Manager
	ledger   *ledger.Ledger
	reports  *insights.Service
	charts   *charts.ChartGenerator
}

func NewBot(token string, sessions *session.Manager, l *ledger.Ledger, reports *insights.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		sessions: sessions,
		ledger:   l,
		reports:  reports,
		charts:   charts.NewChartGenerator(),
	}, nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	if update.Message == nil || update.Message.Text == "" {
		return nil
	}

	if update.Message.IsCommand() {
		return b.handleCommand(update.Message)
	}
	return b.handleMessage(update.Message)
}

// Start runs the bot in long polling mode.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if err := b.handleUpdate(update); err != nil {
			// Log and keep polling.
			fmt.Printf("Error handling update: %v\n", err)
		}
	}

	return nil
}

// HandleWebhook is the entry point for webhook deployments.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	return b.handleUpdate(update)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.api.Send(msg)
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.api.Send(msg)
}
