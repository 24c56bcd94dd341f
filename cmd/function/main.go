package main

import (
	"context"

	"github.com/dkozlov/finance_assistant/internal/bot"
	"github.com/dkozlov/finance_assistant/internal/config"
	"github.com/dkozlov/finance_assistant/internal/insights"
	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/llm"
	"github.com/dkozlov/finance_assistant/internal/onboarding"
	"github.com/dkozlov/finance_assistant/internal/repository"
	"github.com/dkozlov/finance_assistant/internal/router"
	"github.com/dkozlov/finance_assistant/internal/session"
)

// Request is the incoming API Gateway payload.
type Request struct {
	Body string `json:"body"`
}

// Response is the API Gateway reply.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler processes one webhook update per invocation. Serverless runs
// need Supabase configured: the in-memory store would lose all state
// between invocations.
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(err)
	}

	var completer llm.Completer = llm.Disabled{}
	if cfg.HasOpenAI() {
		completer = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	l := ledger.New(repo)
	reports := insights.NewService(l)
	r := router.New(l, completer, reports)
	machine := onboarding.NewMachine(l, completer)
	sessions := session.NewManager(session.NewMemoryStore(), l, machine, r)

	b, err := bot.NewBot(cfg.TelegramToken, sessions, l, reports)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Entry point for local builds.
}
