package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "papertrade/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	TradeHandler     *TradeHandler
	PortfolioHandler *PortfolioHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "papertrade-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	// Authenticated routes
	user := api.Group("", custommiddleware.AuthMiddleware)
	{
		user.GET("/portfolio", config.PortfolioHandler.GetPortfolio)
		user.GET("/history", config.PortfolioHandler.GetHistory)
		user.GET("/quote/:symbol", config.PortfolioHandler.GetQuote)
		user.POST("/trade/buy", config.TradeHandler.Buy)
		user.POST("/trade/sell", config.TradeHandler.Sell)
		user.POST("/trade/credit", config.TradeHandler.Credit)
	}
}
