package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// LedgerRepositoryImpl implements the LedgerRepository interface
type LedgerRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// AppendTransaction persists one immutable ledger entry
func (r *LedgerRepositoryImpl) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, user_id, symbol, name, shares, price, transacted
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.db.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Symbol,
		txn.Name,
		txn.Shares,
		txn.Price,
		txn.Transacted,
	)

	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// ListTransactions returns a user's full ledger ordered by execution time
func (r *LedgerRepositoryImpl) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, name, shares, price, transacted
		FROM transactions
		WHERE user_id = $1
		ORDER BY transacted ASC, seq ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn := &domain.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Symbol,
			&txn.Name,
			&txn.Shares,
			&txn.Price,
			&txn.Transacted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// GetBalance reads the user's current cash balance
func (r *LedgerRepositoryImpl) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT cash FROM users WHERE id = $1`

	var cash decimal.Decimal
	err := r.db.QueryRow(ctx, query, userID).Scan(&cash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	return cash, nil
}

// AdjustBalance applies a signed delta to the user's cash balance. The guard
// in the WHERE clause makes a negative result impossible: zero rows updated
// means the delta would overdraw and nothing was mutated.
func (r *LedgerRepositoryImpl) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE users
		SET cash = cash + $1, updated_at = NOW()
		WHERE id = $2 AND cash + $1 >= 0
	`

	tag, err := r.db.Exec(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// ExecuteTrade applies the cash delta and appends the ledger entry in one
// database transaction. The user's row is locked first, so concurrent trades
// for the same user serialize and the funds/position checks cannot race.
func (r *LedgerRepositoryImpl) ExecuteTrade(ctx context.Context, txn *domain.Transaction, cashDelta decimal.Decimal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin trade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the user row; every trade for this user queues behind this
	var cash decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, txn.UserID).Scan(&cash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	if cash.Add(cashDelta).IsNegative() {
		return domain.ErrInsufficientFunds
	}

	// Sells must not drive the derived position negative; re-check the sum
	// under the lock
	if txn.Shares < 0 {
		var held int64
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(shares), 0)
			FROM transactions
			WHERE user_id = $1 AND symbol = $2
		`, txn.UserID, txn.Symbol).Scan(&held)
		if err != nil {
			return fmt.Errorf("failed to check position: %w", err)
		}

		if held+txn.Shares < 0 {
			return domain.ErrInsufficientShares
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET cash = cash + $1, updated_at = NOW()
		WHERE id = $2
	`, cashDelta, txn.UserID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, symbol, name, shares, price, transacted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, txn.ID, txn.UserID, txn.Symbol, txn.Name, txn.Shares, txn.Price, txn.Transacted)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// Credit atomically adds the amount to the balance and appends the cash event
func (r *LedgerRepositoryImpl) Credit(ctx context.Context, event *domain.CashEvent) error {
	if !event.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin credit transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET cash = cash + $1, updated_at = NOW()
		WHERE id = $2
	`, event.Amount, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cash_events (id, user_id, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.UserID, event.Kind, event.Amount, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append cash event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit credit: %w", err)
	}

	return nil
}

// AppendCashEvent persists one cash event without touching the balance
func (r *LedgerRepositoryImpl) AppendCashEvent(ctx context.Context, event *domain.CashEvent) error {
	query := `
		INSERT INTO cash_events (id, user_id, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Kind,
		event.Amount,
		event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append cash event: %w", err)
	}

	return nil
}

// Positions derives the per-symbol net holdings for a user. Symbols whose
// signed shares sum to zero drop out of the result.
func (r *LedgerRepositoryImpl) Positions(ctx context.Context, userID uuid.UUID) ([]*domain.Position, error) {
	query := `
		SELECT symbol, MAX(name) AS name, SUM(shares) AS shares
		FROM transactions
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		pos := &domain.Position{}
		if err := rows.Scan(&pos.Symbol, &pos.Name, &pos.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// PositionShares derives the net holding of a single symbol
func (r *LedgerRepositoryImpl) PositionShares(ctx context.Context, userID uuid.UUID, symbol string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(shares), 0)
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`

	var shares int64
	err := r.db.QueryRow(ctx, query, userID, symbol).Scan(&shares)
	if err != nil {
		return 0, fmt.Errorf("failed to get position shares: %w", err)
	}

	return shares, nil
}

// ListCashEvents returns a user's cash events ordered by creation time
func (r *LedgerRepositoryImpl) ListCashEvents(ctx context.Context, userID uuid.UUID) ([]*domain.CashEvent, error) {
	query := `
		SELECT id, user_id, kind, amount, created_at
		FROM cash_events
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CashEvent
	for rows.Next() {
		event := &domain.CashEvent{}
		err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.Kind,
			&event.Amount,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash events: %w", err)
	}

	return events, nil
}
