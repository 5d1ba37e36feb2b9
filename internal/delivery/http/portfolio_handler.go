package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"papertrade/internal/delivery/http/dto"
	"papertrade/internal/middleware"
	"papertrade/internal/service"
	"papertrade/internal/usecase"
)

// PortfolioHandler handles read-only portfolio and history requests
type PortfolioHandler struct {
	positionService *service.PositionService
	tradingService  *usecase.TradingService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(positionService *service.PositionService, tradingService *usecase.TradingService) *PortfolioHandler {
	return &PortfolioHandler{
		positionService: positionService,
		tradingService:  tradingService,
	}
}

// GetPortfolio returns the user's holdings valued at live quotes
// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	portfolio, err := h.positionService.Portfolio(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	holdings := make([]dto.HoldingOutput, 0, len(portfolio.Holdings))
	for _, holding := range portfolio.Holdings {
		holdings = append(holdings, dto.HoldingOutput{
			Symbol: holding.Symbol,
			Name:   holding.Name,
			Shares: holding.Shares,
			Price:  holding.Price.StringFixed(2),
			Total:  holding.Total.StringFixed(2),
		})
	}

	return SuccessResponse(c, dto.PortfolioOutput{
		Holdings:   holdings,
		Cash:       portfolio.Cash.StringFixed(2),
		StockValue: portfolio.StockValue.StringFixed(2),
		GrandTotal: portfolio.GrandTotal.StringFixed(2),
	})
}

// GetHistory returns the user's full transaction ledger
// GET /api/history
func (h *PortfolioHandler) GetHistory(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	txns, err := h.tradingService.History(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load history", err)
	}

	out := make([]dto.TransactionOutput, 0, len(txns))
	for _, txn := range txns {
		out = append(out, dto.TransactionOutput{
			Symbol:     txn.Symbol,
			Name:       txn.Name,
			Shares:     txn.Shares,
			Price:      txn.Price.StringFixed(2),
			Transacted: txn.Transacted.Format(time.DateTime),
		})
	}

	return SuccessResponse(c, out)
}

// GetQuote resolves a symbol to its current quote
// GET /api/quote/:symbol
func (h *PortfolioHandler) GetQuote(c echo.Context) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.tradingService.Quote(ctx, c.Param("symbol"))
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.QuoteOutput{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price.StringFixed(2),
	})
}
