package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"trade_edu_backend/internal/config"
	"trade_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestParseQuoteResponse(t *testing.T) {
	now := time.Now()
	body := []byte(`{"quotes":[
		{"symbol":"AAPL","name":"Apple Inc.","price":227.52,"change":0.87,"change_percent":0.38},
		{"symbol":"SPY","name":"SPDR S&P 500 ETF","price":512.30,"change":1.24,"change_percent":0.24}
	]}`)

	quotes, err := parseQuoteResponse(body, now)
	if err != nil {
		t.Fatalf("parseQuoteResponse: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" || quotes[0].Price != 227.52 {
		t.Errorf("first quote = %+v", quotes[0])
	}
	if quotes[1].ChangePercent != 0.24 {
		t.Errorf("ChangePercent = %v, want 0.24", quotes[1].ChangePercent)
	}
	if !quotes[0].UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", quotes[0].UpdatedAt, now)
	}

	if _, err := parseQuoteResponse([]byte("not json"), now); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func newTestMarketService(baseURL string) *MarketService {
	logger.Log = zap.NewNop()
	cfg := &config.MarketConfig{
		BaseURL:         baseURL,
		CacheTTLSeconds: 60,
		TimeoutSeconds:  2,
	}
	return NewMarketService(cfg, nil)
}

func TestGetQuotesFromUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quotes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbols"); got != "AAPL,SPY" {
			t.Errorf("symbols = %q, want %q", got, "AAPL,SPY")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":[
			{"symbol":"AAPL","name":"Apple Inc.","price":227.52,"change":0.87,"change_percent":0.38},
			{"symbol":"SPY","name":"SPDR S&P 500 ETF","price":512.30,"change":1.24,"change_percent":0.24}
		]}`))
	}))
	defer server.Close()

	svc := newTestMarketService(server.URL)
	quotes := svc.GetQuotes(context.Background(), []string{"AAPL", "SPY"})
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", quotes[0].Symbol)
	}
}

func TestGetQuotesFallbackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestMarketService(server.URL)
	quotes := svc.GetQuotes(context.Background(), []string{"AAPL"})
	if len(quotes) != 1 {
		t.Fatalf("got %d fallback quotes, want 1", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" {
		t.Errorf("fallback Symbol = %q, want AAPL", quotes[0].Symbol)
	}
}

func TestGetQuotesFallbackForUnknownSymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestMarketService(server.URL)
	// 兜底数据里没有的符号：退回完整兜底列表
	quotes := svc.GetQuotes(context.Background(), []string{"ZZZZ"})
	if len(quotes) != len(FallbackQuotes()) {
		t.Errorf("got %d quotes, want full fallback list of %d", len(quotes), len(FallbackQuotes()))
	}
}

func TestGetQuotesEmptySymbols(t *testing.T) {
	svc := newTestMarketService("http://127.0.0.1:0")
	quotes := svc.GetQuotes(context.Background(), nil)
	if len(quotes) == 0 {
		t.Fatal("expected default quotes for empty symbol list")
	}
}
