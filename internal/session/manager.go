package session

import (
	"context"
	"log"
	"strings"

	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/model"
	"github.com/dkozlov/finance_assistant/internal/onboarding"
	"github.com/dkozlov/finance_assistant/internal/router"
)

// Manager is the single entry point for free-text messages. It owns the
// session store and decides per message whether the user is still in
// setup or gets routed by intent.
type Manager struct {
	store   Store
	ledger  *ledger.Ledger
	machine *onboarding.Machine
	router  *router.Router
}

func NewManager(store Store, l *ledger.Ledger, machine *onboarding.Machine, r *router.Router) *Manager {
	return &Manager{
		store:   store,
		ledger:  l,
		machine: machine,
		router:  r,
	}
}

// Handle processes one message and returns the reply text. It never
// returns an error to the transport; failures become guidance replies.
func (m *Manager) Handle(ctx context.Context, userID int64, text string) string {
	session, ok := m.store.Get(userID)
	if !ok {
		session = m.restore(ctx, userID)
		m.store.Put(userID, session)
	}

	if session.State != model.StateActive {
		result := m.machine.Handle(ctx, userID, session.State, session.BudgetCursor, text)
		session.State = result.State
		session.BudgetCursor = result.Cursor
		session.Remember(text, "onboarding")
		m.store.Put(userID, session)
		return result.Reply
	}

	intent := m.router.Classify(ctx, text)
	reply, tag := m.router.Dispatch(ctx, intent, text, userID)

	// Two unclear turns in a row means the conversation is going in
	// circles; break out with something concrete to do.
	if strings.HasPrefix(tag, "general") && strings.HasPrefix(session.LastTag(), "general") {
		reply = redirectText
		tag = "general_redirect"
	}

	session.Remember(text, tag)
	// Written back through the Store seam: implementations that serialize
	// by value must see every mutation.
	m.store.Put(userID, session)
	return reply
}

// restore rebuilds a session from the ledger after a restart or
// eviction. The stored data decides the state: a cached state string is
// never trusted over what is actually configured.
func (m *Manager) restore(ctx context.Context, userID int64) *Session {
	hasBalance, budgetCount, err := m.ledger.SetupStatus(ctx, userID)
	if err != nil {
		log.Printf("restoring session for user %d: %v", userID, err)
		return &Session{State: model.StateNew}
	}

	switch {
	case hasBalance && budgetCount >= 2:
		return &Session{State: model.StateActive}
	case hasBalance:
		return &Session{
			State:        model.StateAwaitingBudgets,
			BudgetCursor: m.machine.DeriveCursor(ctx, userID),
		}
	default:
		// No balance or budgets to derive from. The cached state is what
		// distinguishes a brand new user from one already asked for their
		// balance; without it the balance answer would be swallowed by a
		// repeated welcome.
		state, err := m.ledger.UserState(ctx, userID)
		if err != nil {
			log.Printf("reading cached state for user %d: %v", userID, err)
		}
		if state == model.StateAwaitingBalance {
			return &Session{State: model.StateAwaitingBalance}
		}
		return &Session{State: model.StateNew}
	}
}

const redirectText = `Let's try something concrete! 💡

📝 Log an expense: "Spent $20 on groceries"
💰 See your month: /balance
🎯 Set a budget: "Set budget for Food & Dining $500"

Which one sounds useful?`
