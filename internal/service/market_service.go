package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"trade_edu_backend/internal/config"
	"trade_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const marketCacheKeyPrefix = "market:quote:"

// Quote 行情快照，供前端行情组件使用
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MarketService 从上游行情接口取报价，redis 做短 TTL 缓存，
// 上游不可用时退回内置的静态兜底数据
type MarketService struct {
	Cfg    *config.MarketConfig
	Redis  *redis.Client
	Client *http.Client
}

func NewMarketService(cfg *config.MarketConfig, rdb *redis.Client) *MarketService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MarketService{
		Cfg:    cfg,
		Redis:  rdb,
		Client: &http.Client{Timeout: timeout},
	}
}

// 上游接口的响应格式
type quoteResponse struct {
	Quotes []struct {
		Symbol        string  `json:"symbol"`
		Name          string  `json:"name"`
		Price         float64 `json:"price"`
		Change        float64 `json:"change"`
		ChangePercent float64 `json:"change_percent"`
	} `json:"quotes"`
}

func parseQuoteResponse(data []byte, now time.Time) ([]Quote, error) {
	var resp quoteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse quote response: %w", err)
	}

	quotes := make([]Quote, len(resp.Quotes))
	for i, q := range resp.Quotes {
		quotes[i] = Quote{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
			UpdatedAt:     now,
		}
	}
	return quotes, nil
}

// GetQuotes 按符号列表取行情：缓存命中直接返回，
// 未命中则请求上游并回填缓存，上游失败退回兜底数据。
func (s *MarketService) GetQuotes(ctx context.Context, symbols []string) []Quote {
	if len(symbols) == 0 {
		return FallbackQuotes()
	}

	if cached, ok := s.readCache(ctx, symbols); ok {
		return cached
	}

	quotes, err := s.fetchQuotes(ctx, symbols)
	if err != nil {
		logger.Log.Warn("market upstream unavailable, serving fallback quotes", zap.Error(err))
		return fallbackFor(symbols)
	}

	s.writeCache(ctx, quotes)
	return quotes
}

func (s *MarketService) fetchQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/quotes?symbols=%s",
		strings.TrimRight(s.Cfg.BaseURL, "/"),
		url.QueryEscape(strings.Join(symbols, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market upstream returned %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseQuoteResponse(buf, time.Now())
}

func (s *MarketService) cacheTTL() time.Duration {
	ttl := time.Duration(s.Cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return ttl
}

// readCache 只有全部符号都命中才算命中，避免返回残缺列表
func (s *MarketService) readCache(ctx context.Context, symbols []string) ([]Quote, bool) {
	if s.Redis == nil {
		return nil, false
	}

	quotes := make([]Quote, 0, len(symbols))
	for _, sym := range symbols {
		val, err := s.Redis.Get(ctx, marketCacheKeyPrefix+strings.ToUpper(sym)).Result()
		if err == redis.Nil {
			return nil, false
		}
		if err != nil {
			logger.Log.Warn("market cache read failed", zap.Error(err))
			return nil, false
		}
		var q Quote
		if err := json.Unmarshal([]byte(val), &q); err != nil {
			return nil, false
		}
		quotes = append(quotes, q)
	}
	return quotes, true
}

func (s *MarketService) writeCache(ctx context.Context, quotes []Quote) {
	if s.Redis == nil {
		return
	}

	for _, q := range quotes {
		data, err := json.Marshal(q)
		if err != nil {
			continue
		}
		if err := s.Redis.Set(ctx, marketCacheKeyPrefix+strings.ToUpper(q.Symbol), data, s.cacheTTL()).Err(); err != nil {
			logger.Log.Warn("market cache write failed", zap.Error(err))
			return
		}
	}
}

// 兜底行情：上游故障时前端组件仍能渲染
var fallbackQuotes = []Quote{
	{Symbol: "SPY", Name: "SPDR S&P 500 ETF", Price: 512.30, Change: 1.24, ChangePercent: 0.24},
	{Symbol: "QQQ", Name: "Invesco QQQ Trust", Price: 437.85, Change: -2.11, ChangePercent: -0.48},
	{Symbol: "AAPL", Name: "Apple Inc.", Price: 227.52, Change: 0.87, ChangePercent: 0.38},
	{Symbol: "EURUSD", Name: "Euro / US Dollar", Price: 1.0873, Change: 0.0012, ChangePercent: 0.11},
	{Symbol: "BTCUSD", Name: "Bitcoin / US Dollar", Price: 64210.00, Change: -310.50, ChangePercent: -0.48},
}

func FallbackQuotes() []Quote {
	quotes := make([]Quote, len(fallbackQuotes))
	copy(quotes, fallbackQuotes)
	now := time.Now()
	for i := range quotes {
		quotes[i].UpdatedAt = now
	}
	return quotes
}

func fallbackFor(symbols []string) []Quote {
	want := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		want[strings.ToUpper(s)] = true
	}

	var quotes []Quote
	for _, q := range FallbackQuotes() {
		if want[q.Symbol] {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) == 0 {
		return FallbackQuotes()
	}
	return quotes
}
