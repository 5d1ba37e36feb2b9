package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"papertrade/internal/usecase"
)

// The engine is wired with nil collaborators on purpose: these requests must
// be rejected at the boundary, before anything downstream is touched.
func newTradeContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/trade/buy", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uuid.New())
	return c, rec
}

func TestBuyRejectsNonNumericShares(t *testing.T) {
	handler := NewTradeHandler(usecase.NewTradingService(nil, nil))

	for _, shares := range []string{"abc", "-3", "0", "1.5"} {
		c, rec := newTradeContext(t, `{"symbol":"AAPL","shares":"`+shares+`"}`)
		if err := handler.Buy(c); err != nil {
			t.Fatalf("shares=%q: handler returned error: %v", shares, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("shares=%q: status = %d, want 400", shares, rec.Code)
		}
	}
}

func TestCreditRejectsNonNumericAmount(t *testing.T) {
	handler := NewTradeHandler(usecase.NewTradingService(nil, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/trade/credit", strings.NewReader(`{"amount":"xyz"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uuid.New())

	if err := handler.Credit(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
