package main

import (
	"log"

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

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var repo repository.Repository
	if cfg.HasSupabase() {
		repo, err = repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("SUPABASE_URL/SUPABASE_KEY not set, using in-memory storage")
		repo = repository.NewMemoryRepository()
	}

	var completer llm.Completer = llm.Disabled{}
	if cfg.HasOpenAI() {
		completer = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set, semantic fallbacks disabled")
	}

	l := ledger.New(repo)
	reports := insights.NewService(l)
	r := router.New(l, completer, reports)
	machine := onboarding.NewMachine(l, completer)
	sessions := session.NewManager(session.NewMemoryStore(), l, machine, r)

	b, err := bot.NewBot(cfg.TelegramToken, sessions, l, reports)
	if err != nil {
		log.Fatal(err)
	}

	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
}
