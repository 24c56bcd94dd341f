package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands are sugar over the conversational interface: each one maps to
// a message the session manager already understands, so command and
// free-text users get identical behavior.
func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		b.handleText(message, "hello")
	case "help":
		b.handleText(message, "help")
	case "balance":
		b.handleText(message, "balance summary")
	case "budget":
		b.handleText(message, "budget status")
	case "report":
		b.handleReport(message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	b.handleText(message, message.Text)
	return nil
}

func (b *Bot) handleText(message *tgbotapi.Message, text string) {
	reply := b.sessions.Handle(context.Background(), message.From.ID, text)
	b.send(message.Chat.ID, reply)
}

// handleReport sends the monthly report text followed by the charts.
// Chart failures degrade to text only.
func (b *Bot) handleReport(message *tgbotapi.Message) {
	ctx := context.Background()
	userID := message.From.ID

	report, err := b.reports.MonthlyReport(ctx, userID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Couldn't build the report, please try again later")
		return
	}
	b.send(message.Chat.ID, report)

	now := time.Now()
	summary, err := b.ledger.SpendingSummary(ctx, userID, now.Month(), now.Year())
	if err != nil {
		return
	}
	if png, err := b.charts.GenerateCategoryPieChart(summary); err == nil && png != nil {
		b.sendPhoto(message.Chat.ID, "categories.png", png)
	} else if err != nil {
		fmt.Printf("Error rendering pie chart: %v\n", err)
	}

	daily, err := b.ledger.DailySpending(ctx, userID, now.Month(), now.Year())
	if err != nil {
		return
	}
	if png, err := b.charts.GenerateSpendingTrendChart(daily); err == nil && png != nil {
		b.sendPhoto(message.Chat.ID, "trend.png", png)
	} else if err != nil {
		fmt.Printf("Error rendering trend chart: %v\n", err)
	}
}

func (b *Bot) sendPhoto(chatID int64, name string, png []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: png,
	})
	b.api.Send(photo)
}
