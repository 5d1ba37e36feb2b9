package dto

// TradeRequest represents a buy or sell request. Shares arrives as a string
// (forms submit text) and is parsed and validated at the boundary.
type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Shares string `json:"shares" validate:"required"`
}

// CreditRequest represents a cash top-up request
type CreditRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// TransactionOutput represents one ledger entry in API responses
type TransactionOutput struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Shares     int64  `json:"shares"`
	Price      string `json:"price"`
	Transacted string `json:"transacted"`
}

// CashEventOutput represents one cash event in API responses
type CashEventOutput struct {
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}
