package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
env: test
gateway:
  baseURL: https://api.example.com
  wsURL: wss://api.example.com/ws/public
  apiKey: k
  apiSecret: s
  timeoutSeconds: 5
instrument:
  id: btc_usdt_spot
  midPrice: "30000"
  quantity: "0.015"
  pricePrecision: 2
  qtyPrecision: 2
  minSpread: 0.001
  maxSpread: 0.01
  maxCancels: 2
loop:
  delaySeconds: 5
metrics:
  addr: ":9100"
logging:
  level: info
  format: json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "btc_usdt_spot", cfg.Instrument.ID)
	assert.True(t, cfg.Instrument.MidPriceDecimal().Equal(decimal.NewFromInt(30000)))
	assert.True(t, cfg.Instrument.QuantityDecimal().Equal(decimal.RequireFromString("0.015")))
	assert.Equal(t, int32(2), cfg.Instrument.PricePrecision)
	assert.Equal(t, 2, cfg.Instrument.MaxCancels)
	assert.Equal(t, 5, cfg.Loop.DelaySeconds)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name        string
		mutate      string
		replacement string
	}{
		{"missing env", "env: test", "env: \"\""},
		{"bad instrument", "id: btc_usdt_spot", "id: btcusdt"},
		{"bad mid", `midPrice: "30000"`, `midPrice: "zero"`},
		{"negative mid", `midPrice: "30000"`, `midPrice: "-1"`},
		{"zero qty", `quantity: "0.015"`, `quantity: "0"`},
		{"spread order", "maxSpread: 0.01", "maxSpread: 0.0001"},
		{"zero delay", "delaySeconds: 5", "delaySeconds: 0"},
		{"no key", "apiKey: k", "apiKey: \"\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Contains(t, validYAML, tc.mutate, "fixture mismatch")
			body := strings.Replace(validYAML, tc.mutate, tc.replacement, 1)
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BW_API_KEY", "env-key")
	t.Setenv("BW_API_SECRET", "env-secret")
	cfg, err := LoadWithEnvOverrides(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gateway.APIKey)
	assert.Equal(t, "env-secret", cfg.Gateway.APISecret)
}
