package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv は設定に関係する環境変数を空にします。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GEMINI_API_KEY_FILE", "GEMINI_MODEL", "REFERENCE_SYMBOL", "MARKET_TZ",
		"EVALUATOR_TIMEOUT", "SYNTHESIS_TIMEOUT", "REQUEST_TIMEOUT", "EVALUATOR_MAX_TOKENS",
		"SYNTHESIS_MAX_TOKENS", "COST_PER_TOKEN", "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT",
		"INGEST_SYMBOLS", "INGEST_TIMEOUT", "JWT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", " secret ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.Equal(t, DefaultReferenceSymbol, cfg.ReferenceSymbol)
	assert.Equal(t, DefaultEvaluatorTimeout, cfg.EvaluatorTimeout)
	assert.Equal(t, int32(DefaultEvaluatorMaxTokens), cfg.EvaluatorMaxTokens)
	assert.Equal(t, int32(DefaultSynthesisMaxTokens), cfg.SynthesisMaxTokens)
	assert.Equal(t, "0.00015", cfg.CostPerToken.String())
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "America/New_York", cfg.Location().String())
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("REFERENCE_SYMBOL", "qqq")
	t.Setenv("EVALUATOR_TIMEOUT", "15s")
	t.Setenv("SYNTHESIS_MAX_TOKENS", "300")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("JWT_SECRET", " 0123456789abcdef0123 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "QQQ", cfg.ReferenceSymbol)
	assert.Equal(t, 15*time.Second, cfg.EvaluatorTimeout)
	assert.Equal(t, int32(300), cfg.SynthesisMaxTokens)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "0123456789abcdef0123", cfg.JWTSecret)
}

func TestLoad_APIKeyFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
	t.Setenv("GEMINI_API_KEY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GeminiAPIKey)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing credential", map[string]string{}},
		{"unreadable credential file", map[string]string{"GEMINI_API_KEY_FILE": "__missing__"}},
		{"unparsable timeout", map[string]string{"GEMINI_API_KEY": "k", "EVALUATOR_TIMEOUT": "soon"}},
		{"timeout out of range", map[string]string{"GEMINI_API_KEY": "k", "SYNTHESIS_TIMEOUT": "1h"}},
		{"token budget too small", map[string]string{"GEMINI_API_KEY": "k", "EVALUATOR_MAX_TOKENS": "1"}},
		{"unknown log level", map[string]string{"GEMINI_API_KEY": "k", "LOG_LEVEL": "loud"}},
		{"unknown time zone", map[string]string{"GEMINI_API_KEY": "k", "MARKET_TZ": "Mars/Olympus"}},
		{"bad cost rate", map[string]string{"GEMINI_API_KEY": "k", "COST_PER_TOKEN": "cheap"}},
		{"short jwt secret", map[string]string{"GEMINI_API_KEY": "k", "JWT_SECRET": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			var ce *ConfigError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestLoadIngest(t *testing.T) {
	clearEnv(t)
	t.Setenv("INGEST_SYMBOLS", "aapl, msft,,nvda ")

	cfg, err := LoadIngest()
	require.NoError(t, err)
	assert.Equal(t, []string{"aapl", "msft", "nvda"}, cfg.IngestSymbols)
	assert.Equal(t, DefaultReferenceSymbol, cfg.ReferenceSymbol)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(Logging{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "symbol", "AAPL")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "AAPL", line["symbol"])
}
