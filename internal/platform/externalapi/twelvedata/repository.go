package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	candleentity "stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/candles/usecase"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
	"stock_evaluator/internal/platform/breaker"
	"stock_evaluator/internal/platform/externalapi/twelvedata/dto"
)

// Limiter は全リクエストで共有するレートリミッタです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// Option は TwelveDataMarket の任意設定です。
type Option func(*TwelveDataMarket)

// WithLimiter は各リクエスト前に待機するリミッタを設定します。
func WithLimiter(l Limiter) Option {
	return func(t *TwelveDataMarket) { t.limiter = l }
}

// WithBreaker はリクエストを包むサーキットブレーカーを設定します。
func WithBreaker(b *breaker.Breaker) Option {
	return func(t *TwelveDataMarket) { t.breaker = b }
}

// TwelveDataMarket はTwelve Data外部APIから時系列とメタデータを取得します。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	limiter Limiter
	breaker *breaker.Breaker
}

// TwelveDataMarketが各リポジトリを実装していることをコンパイル時に検証します。
var (
	_ usecase.MarketRepository      = (*TwelveDataMarket)(nil)
	_ repository.SeriesRepository   = (*TwelveDataMarket)(nil)
	_ repository.MetadataRepository = (*TwelveDataMarket)(nil)
)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client, opts ...Option) *TwelveDataMarket {
	t := &TwelveDataMarket{cfg: cfg, client: client}
	for _, o := range opts {
		o(t)
	}
	return t
}

// GetTimeSeries はTwelve Data APIから時系列株価データを新しい順で取得します。
// 出来高を持たない系列（指数など）の出来高は0になります。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]candleentity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "time_series", q, &body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	candles := make([]candleentity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		c, err := toCandle(v)
		if err != nil {
			return nil, err
		}
		c.Symbol = symbol
		c.Interval = interval
		candles = append(candles, c)
	}
	return candles, nil
}

// GetMetadata は /statistics と /profile を取得して1つの Metadata にまとめます。
// 片方だけ失敗した場合はログに出して取得できた側の値を返し、両方失敗した場合のみエラーを返します。
func (t *TwelveDataMarket) GetMetadata(ctx context.Context, symbol string) (entity.Metadata, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var meta entity.Metadata

	var stats dto.StatisticsResponse
	statsErr := t.get(ctx, "statistics", q, &stats)
	if statsErr == nil && stats.Status == "error" {
		statsErr = fmt.Errorf("twelvedata: %s", stats.Message)
	}
	if statsErr == nil {
		s := stats.Statistics
		meta.MarketCap = s.Valuations.MarketCapitalization
		meta.ForwardPE = s.Valuations.ForwardPE
		meta.PriceToBook = s.Valuations.PriceToBookMRQ
		meta.ProfitMargin = s.Financials.ProfitMargin
		meta.RevenueGrowth = s.Financials.IncomeStatement.QuarterlyRevenueGrowth
		meta.DebtToEquity = s.Financials.BalanceSheet.TotalDebtToEquityMRQ
		meta.Beta = s.StockPriceSummary.Beta
	}

	var profile dto.ProfileResponse
	profileErr := t.get(ctx, "profile", q, &profile)
	if profileErr == nil && profile.Status == "error" {
		profileErr = fmt.Errorf("twelvedata: %s", profile.Message)
	}
	if profileErr == nil {
		meta.Sector = profile.Sector
		meta.Industry = profile.Industry
	}

	switch {
	case statsErr != nil && profileErr != nil:
		return entity.Metadata{}, fmt.Errorf("metadata %s: %w", symbol, errors.Join(statsErr, profileErr))
	case statsErr != nil:
		slog.Warn("statistics unavailable, using profile only", "symbol", symbol, "error", statsErr)
	case profileErr != nil:
		slog.Warn("profile unavailable, using statistics only", "symbol", symbol, "error", profileErr)
	}
	return meta, nil
}

// get はレートリミッタとブレーカーを通して GET リクエストを送り、JSONを out にデコードします。
// 4xx はブレーカーの失敗として数えません。
func (t *TwelveDataMarket) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s/%s?%s", t.cfg.BaseURL, endpoint, q.Encode())

	var clientErr error
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		res, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			if err := res.Body.Close(); err != nil {
				slog.Warn("failed to close response body", "error", err)
			}
		}()

		if res.StatusCode >= 500 {
			return fmt.Errorf("twelvedata http %d", res.StatusCode)
		}
		if res.StatusCode >= 400 {
			clientErr = fmt.Errorf("twelvedata http %d", res.StatusCode)
			return nil
		}
		return json.NewDecoder(res.Body).Decode(out)
	}

	var err error
	if t.breaker != nil {
		err = t.breaker.Do(call)
	} else {
		err = call()
	}
	if err != nil {
		return fmt.Errorf("twelvedata %s: %w", endpoint, err)
	}
	return clientErr
}

func toCandle(v dto.TimeSeriesValue) (candleentity.Candle, error) {
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return candleentity.Candle{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}
	o, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return candleentity.Candle{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return candleentity.Candle{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return candleentity.Candle{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return candleentity.Candle{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return candleentity.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return candleentity.Candle{Time: tm, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
