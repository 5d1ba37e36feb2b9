package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// QuoteClient implements QuoteProvider against an IEX-style quote API
type QuoteClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewQuoteClient creates a new quote API client
func NewQuoteClient(baseURL, apiKey string) domain.QuoteProvider {
	return &QuoteClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// quoteResponse mirrors the provider payload. Price arrives as a JSON number
// and is kept as a raw string so it converts to decimal without a float hop.
type quoteResponse struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	LatestPrice json.Number `json:"latestPrice"`
}

// Lookup resolves a ticker symbol to its current quote
func (c *QuoteClient) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}

	endpoint := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	// The provider answers 404 for unknown symbols; anything else non-200
	// is an outage, not a bad symbol
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrInvalidSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status=%d", domain.ErrQuoteUnavailable, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var payload quoteResponse
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode payload: %v", domain.ErrQuoteUnavailable, err)
	}

	price, err := decimal.NewFromString(payload.LatestPrice.String())
	if err != nil || !price.IsPositive() {
		// A missing or zero price is unusable; never confuse it with "not found"
		return nil, fmt.Errorf("%w: bad price %q for %s", domain.ErrQuoteUnavailable, payload.LatestPrice, symbol)
	}

	return &domain.Quote{
		Symbol: strings.ToUpper(payload.Symbol),
		Name:   payload.CompanyName,
		Price:  price,
	}, nil
}
