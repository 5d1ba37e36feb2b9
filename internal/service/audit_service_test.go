package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

type stubUsers struct {
	ids []uuid.UUID
}

func (s *stubUsers) Create(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUsers) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.ids, nil
}

func seedAccount(ledger *stubLedger, userID uuid.UUID, deposit string) {
	ledger.balances[userID] = decimal.RequireFromString(deposit)
	ledger.events[userID] = append(ledger.events[userID], &domain.CashEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.CashEventDeposit,
		Amount:    decimal.RequireFromString(deposit),
		CreatedAt: time.Now(),
	})
}

func TestAuditBalancedAccount(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	seedAccount(ledger, userID, "10000.00")

	// A buy and a sell, with the balance kept in step with the ledger
	ledger.addTxn(userID, "AAPL", "Apple Inc", 10, "150.00")
	ledger.balances[userID] = ledger.balances[userID].Sub(decimal.RequireFromString("1500.00"))
	ledger.addTxn(userID, "AAPL", "Apple Inc", -4, "160.00")
	ledger.balances[userID] = ledger.balances[userID].Add(decimal.RequireFromString("640.00"))

	audit := NewAuditService(&stubUsers{ids: []uuid.UUID{userID}}, ledger)

	drift, err := audit.CheckUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckUser failed: %v", err)
	}
	if !drift.IsZero() {
		t.Errorf("drift = %s, want 0", drift)
	}

	failed, err := audit.CheckAll(context.Background())
	if err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}
	if failed != 0 {
		t.Errorf("CheckAll reported %d failures, want 0", failed)
	}
}

func TestAuditDetectsDrift(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	seedAccount(ledger, userID, "10000.00")

	// Cash mutated with no ledger trace
	ledger.balances[userID] = ledger.balances[userID].Add(decimal.RequireFromString("99.00"))

	audit := NewAuditService(&stubUsers{ids: []uuid.UUID{userID}}, ledger)

	drift, err := audit.CheckUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckUser failed: %v", err)
	}
	if !drift.Equal(decimal.RequireFromString("99.00")) {
		t.Errorf("drift = %s, want 99.00", drift)
	}

	failed, err := audit.CheckAll(context.Background())
	if err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}
	if failed != 1 {
		t.Errorf("CheckAll reported %d failures, want 1", failed)
	}
}

func TestDeriveBalanceSumsEventsAndTrades(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	seedAccount(ledger, userID, "10000.00")
	ledger.events[userID] = append(ledger.events[userID], &domain.CashEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.CashEventCredit,
		Amount:    decimal.RequireFromString("500.00"),
		CreatedAt: time.Now(),
	})
	ledger.addTxn(userID, "NFLX", "Netflix Inc", 2, "321.50")

	audit := NewAuditService(&stubUsers{ids: []uuid.UUID{userID}}, ledger)

	derived, err := audit.DeriveBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("DeriveBalance failed: %v", err)
	}
	want := decimal.RequireFromString("9857.00") // 10000 + 500 - 643
	if !derived.Equal(want) {
		t.Errorf("derived = %s, want %s", derived, want)
	}
}
