package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "pagsync", cfg.Name)
	require.Equal(t, BrokerKafka, cfg.Broker)
	require.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "pagbank.process.order", cfg.Kafka.Topic)
	require.Empty(t, cfg.Kafka.DLQTopic)
	require.Equal(t, 5*time.Minute, cfg.Sweep.Every)
	require.Equal(t, 500, cfg.Sweep.BatchSize)
	require.Equal(t, 5*time.Second, cfg.PagBank.Timeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: pagsync-test
broker: memory
kafka:
  brokers: [k1:9092, k2:9092]
sweep:
  every: 1m
  batch_size: 50
expiry:
  policy_file: /etc/pagsync/expiry.yaml
`), 0o600))

	t.Setenv("PAGSYNC_SWEEP_BATCH_SIZE", "75")
	t.Setenv("PAGSYNC_PAGBANK_TOKEN", "secret")
	t.Setenv("PAGSYNC_KAFKA_DLQ_TOPIC", "pagbank.process.order.dlq")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pagsync-test", cfg.Name)
	require.Equal(t, BrokerMemory, cfg.Broker)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, time.Minute, cfg.Sweep.Every)
	require.Equal(t, 75, cfg.Sweep.BatchSize)
	require.Equal(t, "secret", cfg.PagBank.Token)
	require.Equal(t, "pagbank.process.order.dlq", cfg.Kafka.DLQTopic)
	require.Equal(t, "/etc/pagsync/expiry.yaml", cfg.Expiry.PolicyFile)
}

func TestLoad_Invalid(t *testing.T) {
	var tests = []struct {
		name string
		yaml string
	}{
		{name: "unknown broker", yaml: "broker: rabbit\n"},
		{name: "zero sweep interval", yaml: "sweep:\n  every: 0s\n"},
		{name: "broken yaml", yaml: "sweep: [\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "pagsync.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
