package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is a symbol's current name and price as reported by the external
// pricing collaborator.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// QuoteProvider defines the interface for looking up live quotes
type QuoteProvider interface {
	// Lookup resolves a ticker symbol to its current quote. An unknown
	// symbol yields ErrInvalidSymbol; a provider outage or a nonsensical
	// price yields ErrQuoteUnavailable.
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
