package http

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"papertrade/internal/delivery/http/dto"
	"papertrade/internal/domain"
	"papertrade/internal/middleware"
	"papertrade/internal/usecase"
)

// TradeHandler handles buy/sell/credit requests
type TradeHandler struct {
	tradingService *usecase.TradingService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradingService *usecase.TradingService) *TradeHandler {
	return &TradeHandler{tradingService: tradingService}
}

// Buy executes a share purchase
// POST /api/trade/buy
func (h *TradeHandler) Buy(c echo.Context) error {
	return h.trade(c, h.tradingService.Buy)
}

// Sell executes a share sale
// POST /api/trade/sell
func (h *TradeHandler) Sell(c echo.Context) error {
	return h.trade(c, h.tradingService.Sell)
}

func (h *TradeHandler) trade(c echo.Context, apply func(context.Context, uuid.UUID, string, int64) (*domain.Transaction, error)) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	// Form input is text; reject anything that is not a positive integer
	// before the engine (or the quote provider) sees it
	shares, err := strconv.ParseInt(req.Shares, 10, 64)
	if err != nil || shares <= 0 {
		return DomainErrorResponse(c, domain.ErrInvalidAmount)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	txn, err := apply(ctx, userID, req.Symbol, shares)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.TransactionOutput{
		Symbol:     txn.Symbol,
		Name:       txn.Name,
		Shares:     txn.Shares,
		Price:      txn.Price.StringFixed(2),
		Transacted: txn.Transacted.Format(time.DateTime),
	})
}

// Credit adds cash to the user's balance
// POST /api/trade/credit
func (h *TradeHandler) Credit(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.CreditRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return DomainErrorResponse(c, domain.ErrInvalidAmount)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event, err := h.tradingService.Credit(ctx, userID, amount)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.CashEventOutput{
		Kind:      event.Kind,
		Amount:    event.Amount.StringFixed(2),
		CreatedAt: event.CreatedAt.Format(time.DateTime),
	})
}
