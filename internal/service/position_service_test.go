package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// stubLedger is a canned-data LedgerRepository for read-path tests
type stubLedger struct {
	balances map[uuid.UUID]decimal.Decimal
	txns     map[uuid.UUID][]*domain.Transaction
	events   map[uuid.UUID][]*domain.CashEvent
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		balances: make(map[uuid.UUID]decimal.Decimal),
		txns:     make(map[uuid.UUID][]*domain.Transaction),
		events:   make(map[uuid.UUID][]*domain.CashEvent),
	}
}

func (s *stubLedger) addTxn(userID uuid.UUID, symbol, name string, shares int64, price string) {
	s.txns[userID] = append(s.txns[userID], &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     symbol,
		Name:       name,
		Shares:     shares,
		Price:      decimal.RequireFromString(price),
		Transacted: time.Now(),
	})
}

func (s *stubLedger) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	s.txns[txn.UserID] = append(s.txns[txn.UserID], txn)
	return nil
}

func (s *stubLedger) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.txns[userID], nil
}

func (s *stubLedger) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.balances[userID], nil
}

func (s *stubLedger) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	next := s.balances[userID].Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	s.balances[userID] = next
	return nil
}

func (s *stubLedger) ExecuteTrade(ctx context.Context, txn *domain.Transaction, cashDelta decimal.Decimal) error {
	if err := s.AdjustBalance(ctx, txn.UserID, cashDelta); err != nil {
		return err
	}
	return s.AppendTransaction(ctx, txn)
}

func (s *stubLedger) Credit(ctx context.Context, event *domain.CashEvent) error {
	s.balances[event.UserID] = s.balances[event.UserID].Add(event.Amount)
	s.events[event.UserID] = append(s.events[event.UserID], event)
	return nil
}

func (s *stubLedger) AppendCashEvent(ctx context.Context, event *domain.CashEvent) error {
	s.events[event.UserID] = append(s.events[event.UserID], event)
	return nil
}

func (s *stubLedger) Positions(ctx context.Context, userID uuid.UUID) ([]*domain.Position, error) {
	sums := make(map[string]int64)
	names := make(map[string]string)
	var order []string
	for _, txn := range s.txns[userID] {
		if _, seen := sums[txn.Symbol]; !seen {
			order = append(order, txn.Symbol)
		}
		sums[txn.Symbol] += txn.Shares
		names[txn.Symbol] = txn.Name
	}

	var out []*domain.Position
	for _, symbol := range order {
		if sums[symbol] > 0 {
			out = append(out, &domain.Position{Symbol: symbol, Name: names[symbol], Shares: sums[symbol]})
		}
	}
	return out, nil
}

func (s *stubLedger) PositionShares(ctx context.Context, userID uuid.UUID, symbol string) (int64, error) {
	var held int64
	for _, txn := range s.txns[userID] {
		if txn.Symbol == symbol {
			held += txn.Shares
		}
	}
	return held, nil
}

func (s *stubLedger) ListCashEvents(ctx context.Context, userID uuid.UUID) ([]*domain.CashEvent, error) {
	return s.events[userID], nil
}

// stubQuotes serves fixed prices and can fail per symbol
type stubQuotes struct {
	prices  map[string]string
	failing map[string]error
	calls   map[string]int
}

func newStubQuotes(prices map[string]string) *stubQuotes {
	return &stubQuotes{
		prices:  prices,
		failing: make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (s *stubQuotes) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	s.calls[symbol]++
	if err, ok := s.failing[symbol]; ok {
		return nil, err
	}
	price, ok := s.prices[symbol]
	if !ok {
		return nil, domain.ErrInvalidSymbol
	}
	return &domain.Quote{Symbol: symbol, Name: symbol + " Inc", Price: decimal.RequireFromString(price)}, nil
}

func TestPositionsOmitClosedHoldings(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	ledger.addTxn(userID, "AAPL", "Apple Inc", 10, "150.00")
	ledger.addTxn(userID, "NFLX", "Netflix Inc", 5, "320.00")
	ledger.addTxn(userID, "NFLX", "Netflix Inc", -5, "330.00")

	svc := NewPositionService(ledger, newStubQuotes(nil))
	positions, err := svc.Positions(context.Background(), userID)
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}

	if len(positions) != 1 || positions[0].Symbol != "AAPL" || positions[0].Shares != 10 {
		t.Errorf("positions = %v, want only AAPL x10", positions)
	}
}

func TestPortfolioValuesEachSymbolWithOneQuote(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	ledger.balances[userID] = decimal.RequireFromString("8500.00")
	ledger.addTxn(userID, "AAPL", "Apple Inc", 10, "150.00")

	quotes := newStubQuotes(map[string]string{"AAPL": "160.00"})
	svc := NewPositionService(ledger, quotes)

	portfolio, err := svc.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}

	if len(portfolio.Holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(portfolio.Holdings))
	}

	row := portfolio.Holdings[0]
	if !row.Price.Equal(decimal.RequireFromString("160.00")) {
		t.Errorf("row price = %s, want 160.00", row.Price)
	}
	// Row total and grand total must come from the same quote
	if !row.Total.Equal(row.Price.Mul(decimal.NewFromInt(row.Shares))) {
		t.Errorf("row total %s disagrees with price*shares", row.Total)
	}
	if !portfolio.StockValue.Equal(decimal.RequireFromString("1600.00")) {
		t.Errorf("stock value = %s, want 1600.00", portfolio.StockValue)
	}
	if !portfolio.GrandTotal.Equal(decimal.RequireFromString("10100.00")) {
		t.Errorf("grand total = %s, want 10100.00", portfolio.GrandTotal)
	}
	if quotes.calls["AAPL"] != 1 {
		t.Errorf("AAPL quoted %d times in one valuation, want 1", quotes.calls["AAPL"])
	}
}

func TestPortfolioFailsWhollyWhenAnyQuoteFails(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	ledger.balances[userID] = decimal.RequireFromString("1000.00")
	ledger.addTxn(userID, "AAPL", "Apple Inc", 10, "150.00")
	ledger.addTxn(userID, "NFLX", "Netflix Inc", 5, "320.00")

	quotes := newStubQuotes(map[string]string{"AAPL": "160.00"})
	quotes.failing["NFLX"] = domain.ErrQuoteUnavailable
	svc := NewPositionService(ledger, quotes)

	portfolio, err := svc.Portfolio(context.Background(), userID)
	if !errors.Is(err, domain.ErrQuoteUnavailable) {
		t.Fatalf("Portfolio error = %v, want ErrQuoteUnavailable", err)
	}
	if portfolio != nil {
		t.Errorf("got partial portfolio %v, want nil", portfolio)
	}
}

func TestPortfolioIsIdempotentWithoutMutation(t *testing.T) {
	ledger := newStubLedger()
	userID := uuid.New()
	ledger.balances[userID] = decimal.RequireFromString("8500.00")
	ledger.addTxn(userID, "AAPL", "Apple Inc", 10, "150.00")

	svc := NewPositionService(ledger, newStubQuotes(map[string]string{"AAPL": "160.00"}))

	first, err := svc.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("first Portfolio failed: %v", err)
	}
	second, err := svc.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("second Portfolio failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated valuation differs: %v vs %v", first, second)
	}
}
