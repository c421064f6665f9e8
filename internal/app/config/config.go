// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// 環境変数が未設定の場合のデフォルト値です。
const (
	DefaultReferenceSymbol    = "SPY"
	DefaultMarketTimezone     = "America/New_York"
	DefaultEvaluatorTimeout   = 60 * time.Second
	DefaultSynthesisTimeout   = 60 * time.Second
	DefaultRequestTimeout     = 3 * time.Minute
	DefaultEvaluatorMaxTokens = 1024
	DefaultSynthesisMaxTokens = 150
	DefaultHTTPAddr           = ":8080"
	DefaultCostPerToken       = "0.00015"
)

// ConfigError は設定の読み込みまたは検証の失敗を示します。
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Logging はログ出力の設定です。
type Logging struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

// Config は評価サービス（CLI・HTTPサーバー）の設定です。
type Config struct {
	Logging

	// GeminiAPIKey はプロセス起動時に1度だけ読み込む生成バックエンドの認証情報です。
	GeminiAPIKey string `validate:"required"`
	GeminiModel  string

	ReferenceSymbol string `validate:"required,max=16"`
	MarketTimezone  string `validate:"required,timezone"`

	EvaluatorTimeout   time.Duration `validate:"gte=1s,lte=10m"`
	SynthesisTimeout   time.Duration `validate:"gte=1s,lte=10m"`
	RequestTimeout     time.Duration `validate:"gte=1s,lte=30m"`
	EvaluatorMaxTokens int32         `validate:"gte=16,lte=8192"`
	SynthesisMaxTokens int32         `validate:"gte=16,lte=8192"`

	CostPerToken decimal.Decimal
	HTTPAddr     string `validate:"required"`

	// JWTSecret が空でなければ HTTP API の /v1 配下に HS256 系の JWT 認証を要求します。
	JWTSecret string `validate:"omitempty,min=16"`
}

// Location は MarketTimezone を読み込んだ *time.Location を返します。
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IngestConfig は価格系列の事前取り込みジョブの設定です。
type IngestConfig struct {
	Logging

	ReferenceSymbol string `validate:"required,max=16"`
	// IngestSymbols はDBのウォッチリストに加えて取り込む銘柄です。
	IngestSymbols []string
	Timeout       time.Duration `validate:"gte=1s"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load は環境変数から Config を読み込んで検証します。
// GEMINI_API_KEY が空の場合は GEMINI_API_KEY_FILE が指すファイルから読み込みます。
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		Logging:            loadLogging(),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		ReferenceSymbol:    strings.ToUpper(getenv("REFERENCE_SYMBOL", DefaultReferenceSymbol)),
		MarketTimezone:     getenv("MARKET_TZ", DefaultMarketTimezone),
		HTTPAddr:           getenv("HTTP_ADDR", DefaultHTTPAddr),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		EvaluatorTimeout:   duration("EVALUATOR_TIMEOUT", DefaultEvaluatorTimeout, &errs),
		SynthesisTimeout:   duration("SYNTHESIS_TIMEOUT", DefaultSynthesisTimeout, &errs),
		RequestTimeout:     duration("REQUEST_TIMEOUT", DefaultRequestTimeout, &errs),
		EvaluatorMaxTokens: int32Value("EVALUATOR_MAX_TOKENS", DefaultEvaluatorMaxTokens, &errs),
		SynthesisMaxTokens: int32Value("SYNTHESIS_MAX_TOKENS", DefaultSynthesisMaxTokens, &errs),
	}

	key, err := loadAPIKey()
	if err != nil {
		errs = append(errs, err)
	}
	cfg.GeminiAPIKey = key

	rate, err := decimal.NewFromString(getenv("COST_PER_TOKEN", DefaultCostPerToken))
	if err != nil {
		errs = append(errs, fmt.Errorf("COST_PER_TOKEN: %w", err))
	}
	cfg.CostPerToken = rate

	if err := validate.Struct(cfg); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, &ConfigError{Err: errors.Join(errs...)}
	}
	return cfg, nil
}

// LoadIngest は環境変数から IngestConfig を読み込んで検証します。
func LoadIngest() (IngestConfig, error) {
	var errs []error
	cfg := IngestConfig{
		Logging:         loadLogging(),
		ReferenceSymbol: strings.ToUpper(getenv("REFERENCE_SYMBOL", DefaultReferenceSymbol)),
		IngestSymbols:   splitList(os.Getenv("INGEST_SYMBOLS")),
		Timeout:         duration("INGEST_TIMEOUT", 10*time.Minute, &errs),
	}
	if err := validate.Struct(cfg); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return IngestConfig{}, &ConfigError{Err: errors.Join(errs...)}
	}
	return cfg, nil
}

func loadLogging() Logging {
	return Logging{
		Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getenv("LOG_FORMAT", "text")),
	}
}

func loadAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key, nil
	}
	path := os.Getenv("GEMINI_API_KEY_FILE")
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("GEMINI_API_KEY_FILE: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func int32Value(key string, def int32, errs *[]error) int32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return int32(n)
}

// splitList はカンマ区切りの値を分割し、空要素を除きます。
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
