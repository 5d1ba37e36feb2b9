package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// TradingService is the transaction engine: it validates buy/sell/credit
// intents and applies them to the ledger. Every operation is all-or-nothing;
// the atomic part is delegated to the ledger store so the per-user
// check-then-act sequence cannot interleave.
type TradingService struct {
	ledgerRepo domain.LedgerRepository
	quotes     domain.QuoteProvider
}

// NewTradingService creates a new TradingService
func NewTradingService(ledgerRepo domain.LedgerRepository, quotes domain.QuoteProvider) *TradingService {
	return &TradingService{
		ledgerRepo: ledgerRepo,
		quotes:     quotes,
	}
}

// Buy purchases shares at the current quote, debiting cash and appending a
// positive ledger entry atomically
func (s *TradingService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	// Share count is validated before anything talks to the quote provider
	if shares <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))

	txn := &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     quote.Symbol,
		Name:       quote.Name,
		Shares:     shares,
		Price:      quote.Price,
		Transacted: time.Now().Truncate(time.Second),
	}

	if err := s.ledgerRepo.ExecuteTrade(ctx, txn, cost.Neg()); err != nil {
		return nil, err
	}

	log.Printf("[OK] BUY %d %s @ %s for user %s", shares, quote.Symbol, quote.Price, userID)
	return txn, nil
}

// Sell disposes shares at the current quote, crediting the proceeds and
// appending a negative ledger entry atomically. The position sufficiency
// check runs inside the store's critical region, so two concurrent sells of
// the same holding cannot both pass it.
func (s *TradingService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	if shares <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	// Early reject for the common case; the authoritative check is redone
	// under the row lock
	held, err := s.ledgerRepo.PositionShares(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	if held < shares {
		return nil, domain.ErrInsufficientShares
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))

	txn := &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     quote.Symbol,
		Name:       quote.Name,
		Shares:     -shares,
		Price:      quote.Price,
		Transacted: time.Now().Truncate(time.Second),
	}

	if err := s.ledgerRepo.ExecuteTrade(ctx, txn, proceeds); err != nil {
		return nil, err
	}

	log.Printf("[OK] SELL %d %s @ %s for user %s", shares, quote.Symbol, quote.Price, userID)
	return txn, nil
}

// Credit adds a non-trade cash top-up to the balance, recorded as an
// auditable cash event
func (s *TradingService) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.CashEvent, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	event := &domain.CashEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.CashEventCredit,
		Amount:    amount,
		CreatedAt: time.Now().Truncate(time.Second),
	}

	if err := s.ledgerRepo.Credit(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("[OK] CREDIT %s for user %s", amount, userID)
	return event, nil
}

// Quote resolves a symbol to its current quote
func (s *TradingService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return s.quotes.Lookup(ctx, symbol)
}

// History returns the user's full ordered transaction ledger
func (s *TradingService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	txns, err := s.ledgerRepo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return txns, nil
}
