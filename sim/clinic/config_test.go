package clinic

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Runs)
	assert.Equal(t, 120.0, cfg.Horizon)
	assert.Equal(t, 1, cfg.Capacity)
	require.Len(t, cfg.Streams, 2)
	assert.Equal(t, StreamConfig{Name: StreamWeightLoss, InterArrivalMean: 8, ServiceMean: 10}, cfg.Streams[0])
	assert.Equal(t, StreamConfig{Name: StreamTest, InterArrivalMean: 10, ServiceMean: 3}, cfg.Streams[1])
}

func TestParseConfig_PartialKeepsDefaults(t *testing.T) {
	// GIVEN a file that only overrides runs and seed
	cfg, err := ParseConfig([]byte("runs: 5\nseed: 7\n"))

	// THEN the other fields keep their defaults
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Runs)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 120.0, cfg.Horizon)
	assert.Len(t, cfg.Streams, 2)
}

func TestParseConfig_ReplacesStreams(t *testing.T) {
	yaml := `
streams:
  - name: walk_in
    inter_arrival_mean: 4
    service_mean: 2
`
	cfg, err := ParseConfig([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, cfg.Streams, 1)
	assert.Equal(t, "walk_in", cfg.Streams[0].Name)
	assert.Equal(t, 4.0, cfg.Streams[0].InterArrivalMean)
}

func TestParseConfig_UnknownFieldRejected(t *testing.T) {
	// GIVEN a typo in a field name
	_, err := ParseConfig([]byte("horizn: 60\n"))

	// THEN strict decoding rejects it
	assert.Error(t, err)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 2\nhorizon: 60\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Capacity)
	assert.Equal(t, 60.0, cfg.Horizon)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero horizon allowed", func(c *Config) { c.Horizon = 0 }, false},
		{"zero runs", func(c *Config) { c.Runs = 0 }, true},
		{"negative horizon", func(c *Config) { c.Horizon = -1 }, true},
		{"NaN horizon", func(c *Config) { c.Horizon = math.NaN() }, true},
		{"infinite horizon", func(c *Config) { c.Horizon = math.Inf(1) }, true},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, true},
		{"no streams", func(c *Config) { c.Streams = nil }, true},
		{"unnamed stream", func(c *Config) { c.Streams[0].Name = "" }, true},
		{"duplicate stream", func(c *Config) { c.Streams[1].Name = c.Streams[0].Name }, true},
		{"zero inter-arrival", func(c *Config) { c.Streams[0].InterArrivalMean = 0 }, true},
		{"negative service", func(c *Config) { c.Streams[1].ServiceMean = -3 }, true},
		{"NaN service", func(c *Config) { c.Streams[1].ServiceMean = math.NaN() }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
