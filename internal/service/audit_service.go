package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// AuditService re-derives cash balances from the ledger and reports drift.
// The stored balance must always equal the sum of cash events plus the cash
// effect of every trade; anything else means a write skipped the ledger.
type AuditService struct {
	userRepo   domain.UserRepository
	ledgerRepo domain.LedgerRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(userRepo domain.UserRepository, ledgerRepo domain.LedgerRepository) *AuditService {
	return &AuditService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
	}
}

// DeriveBalance recomputes one user's balance purely from the ledger
func (s *AuditService) DeriveBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	events, err := s.ledgerRepo.ListCashEvents(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list cash events: %w", err)
	}

	derived := decimal.Zero
	for _, event := range events {
		derived = derived.Add(event.Amount)
	}

	txns, err := s.ledgerRepo.ListTransactions(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list transactions: %w", err)
	}

	for _, txn := range txns {
		derived = derived.Add(txn.CashEffect())
	}

	return derived, nil
}

// CheckUser compares one user's stored balance against the ledger-derived
// value and returns the drift (zero when the books balance)
func (s *AuditService) CheckUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	stored, err := s.ledgerRepo.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	derived, err := s.DeriveBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return stored.Sub(derived), nil
}

// CheckAll audits every account and logs any drift. Returns the number of
// accounts that failed reconciliation.
func (s *AuditService) CheckAll(ctx context.Context) (int, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	failed := 0
	for _, id := range ids {
		drift, err := s.CheckUser(ctx, id)
		if err != nil {
			log.Printf("ERROR: Audit failed for user %s: %v", id, err)
			failed++
			continue
		}

		if !drift.IsZero() {
			log.Printf("ERROR: Balance drift for user %s: stored-derived=%s", id, drift)
			failed++
		}
	}

	if failed == 0 {
		log.Printf("[OK] Ledger audit passed for %d account(s)", len(ids))
	}

	return failed, nil
}
