package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	// Create creates a new user. A username conflict yields
	// ErrDuplicateUsername.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username. An unknown username
	// yields ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ListIDs retrieves every user id (used by the reconciliation audit)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// LedgerRepository defines the interface for the append-only transaction
// ledger and the cash balance it governs. Every successful write is
// committed before the call returns.
type LedgerRepository interface {
	// AppendTransaction persists one immutable ledger entry
	AppendTransaction(ctx context.Context, txn *Transaction) error

	// ListTransactions returns a user's full ledger ordered by execution
	// time, insertion order breaking ties
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// GetBalance reads the user's current cash balance
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// AdjustBalance applies a signed delta to the user's cash balance.
	// A delta that would drive the balance negative yields
	// ErrInsufficientFunds with no mutation.
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error

	// ExecuteTrade applies the cash delta and appends the ledger entry as
	// one atomic unit. The user's row is locked for the duration, and the
	// funds check (buys) or position check (sells) is re-run under that
	// lock, so concurrent trades for the same user serialize.
	ExecuteTrade(ctx context.Context, txn *Transaction, cashDelta decimal.Decimal) error

	// Credit atomically adds a positive amount to the balance and appends
	// the matching cash event
	Credit(ctx context.Context, event *CashEvent) error

	// AppendCashEvent persists one cash event without touching the balance
	// (used for the opening deposit, where Create already seeded the cash)
	AppendCashEvent(ctx context.Context, event *CashEvent) error

	// Positions derives the per-symbol net holdings for a user, omitting
	// symbols whose sum is zero
	Positions(ctx context.Context, userID uuid.UUID) ([]*Position, error)

	// PositionShares derives the net holding of a single symbol
	PositionShares(ctx context.Context, userID uuid.UUID, symbol string) (int64, error)

	// ListCashEvents returns a user's cash events ordered by creation time
	ListCashEvents(ctx context.Context, userID uuid.UUID) ([]*CashEvent, error)
}
