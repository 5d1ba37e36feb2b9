package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// PositionService derives holdings and portfolio valuations from the ledger.
// It is a pure read layer: nothing is cached between calls, because a quote
// from one request must never leak into another.
type PositionService struct {
	ledgerRepo domain.LedgerRepository
	quotes     domain.QuoteProvider
}

// NewPositionService creates a new PositionService
func NewPositionService(ledgerRepo domain.LedgerRepository, quotes domain.QuoteProvider) *PositionService {
	return &PositionService{
		ledgerRepo: ledgerRepo,
		quotes:     quotes,
	}
}

// Positions returns the user's current non-zero holdings
func (s *PositionService) Positions(ctx context.Context, userID uuid.UUID) ([]*domain.Position, error) {
	return s.ledgerRepo.Positions(ctx, userID)
}

// PositionShares returns the user's net holding of one symbol
func (s *PositionService) PositionShares(ctx context.Context, userID uuid.UUID, symbol string) (int64, error) {
	return s.ledgerRepo.PositionShares(ctx, userID, symbol)
}

// Portfolio values every holding at its live quote and totals the result.
// Each symbol is quoted exactly once, so a row's displayed price and its
// contribution to the total always agree. Any quote failure fails the whole
// valuation; a partial total is worse than an explicit error.
func (s *PositionService) Portfolio(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	positions, err := s.ledgerRepo.Positions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive positions: %w", err)
	}

	cash, err := s.ledgerRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	holdings := make([]domain.Holding, 0, len(positions))
	stockValue := decimal.Zero

	for _, pos := range positions {
		quote, err := s.quotes.Lookup(ctx, pos.Symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to value %s: %w", pos.Symbol, err)
		}

		total := quote.Price.Mul(decimal.NewFromInt(pos.Shares))
		holdings = append(holdings, domain.Holding{
			Symbol: pos.Symbol,
			Name:   pos.Name,
			Shares: pos.Shares,
			Price:  quote.Price,
			Total:  total,
		})
		stockValue = stockValue.Add(total)
	}

	return &domain.Portfolio{
		Holdings:   holdings,
		Cash:       cash,
		StockValue: stockValue,
		GrandTotal: cash.Add(stockValue),
	}, nil
}
