package dto

// QuoteOutput represents a live quote in API responses
type QuoteOutput struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}

// HoldingOutput represents one valued position row
type HoldingOutput struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
	Price  string `json:"price"`
	Total  string `json:"total"`
}

// PortfolioOutput represents the full portfolio view
type PortfolioOutput struct {
	Holdings   []HoldingOutput `json:"holdings"`
	Cash       string          `json:"cash"`
	StockValue string          `json:"stock_value"`
	GrandTotal string          `json:"grand_total"`
}
