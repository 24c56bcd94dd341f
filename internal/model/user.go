package model

import "time"

// UserState is the onboarding position of a user. It is a closed enum so
// transition handling can be exhaustively switched.
type UserState int

const (
	StateNew UserState = iota
	StateAwaitingBalance
	StateAwaitingBudgets
	StateActive
)

func (s UserState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAwaitingBalance:
		return "awaiting_balance"
	case StateAwaitingBudgets:
		return "awaiting_budgets"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// ParseUserState maps a stored state string back to the enum. Unknown
// values come back as StateNew so a corrupted row restarts onboarding
// rather than wedging the user.
func ParseUserState(s string) UserState {
	switch s {
	case "awaiting_balance":
		return StateAwaitingBalance
	case "awaiting_budgets":
		return StateAwaitingBudgets
	case "active":
		return StateActive
	default:
		return StateNew
	}
}

// UserProfile is the persisted per-user row: balance plus the cached
// onboarding state. The ledger contents remain the source of truth for
// whether setup is complete; State is a cache of that fact.
type UserProfile struct {
	UserID    int64     `json:"user_id"`
	Balance   float64   `json:"balance"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContextEntry is one turn of conversation kept in the session ring.
type ContextEntry struct {
	Message     string
	ResponseTag string
	Timestamp   time.Time
}
