package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one immutable ledger entry. Shares is signed: positive for
// a buy, negative for a sell. Price is the unit price snapshotted at
// execution time and is never re-quoted.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Shares     int64           `json:"shares"`
	Price      decimal.Decimal `json:"price"`
	Transacted time.Time       `json:"transacted"`
}

// CashEffect returns the signed change this entry applies to the user's cash
// balance: negative for buys, positive for sells.
func (t *Transaction) CashEffect() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares)).Neg()
}

// CashEventKind constants
const (
	CashEventDeposit = "DEPOSIT"
	CashEventCredit  = "CREDIT"
)

// CashEvent is an append-only record of a non-trade cash movement. The
// opening deposit at registration and every later credit get one, so the
// balance stays fully derivable from the ledger.
type CashEvent struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Position is the derived net holding of one symbol for one user. It is
// never stored; it is the sum of signed shares over the ledger.
type Position struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
}

// Holding is a position decorated with the live quote used for valuation.
// Price and Total come from the same quote fetch, so a row and its
// contribution to the portfolio total can never disagree.
type Holding struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
}

// Portfolio is the full valuation view for one user.
type Portfolio struct {
	Holdings   []Holding       `json:"holdings"`
	Cash       decimal.Decimal `json:"cash"`
	StockValue decimal.Decimal `json:"stock_value"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
