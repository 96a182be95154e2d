package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "trims and drops blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_INT", "not-a-number")
	t.Setenv("STOREFRONT_TEST_BOOL", "true")
	t.Setenv("STOREFRONT_TEST_DUR", "90m")
	t.Setenv("STOREFRONT_TEST_STR", "value")

	assert.Equal(t, 7, EnvIntDefault("STOREFRONT_TEST_INT", 7))
	assert.True(t, EnvBoolDefault("STOREFRONT_TEST_BOOL", false))
	assert.Equal(t, 90*time.Minute, EnvDurationDefault("STOREFRONT_TEST_DUR", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("STOREFRONT_TEST_MISSING", time.Hour))
	assert.Equal(t, "value", EnvDefault("STOREFRONT_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("STOREFRONT_TEST_MISSING", "def"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "products", cfg.ESIndex)
}
