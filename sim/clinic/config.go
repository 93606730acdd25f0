package clinic

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Stream names used by the default configuration.
const (
	StreamWeightLoss = "weight_loss"
	StreamTest       = "test"
)

// StreamConfig parameterizes one patient arrival stream.
type StreamConfig struct {
	Name             string  `yaml:"name"`
	InterArrivalMean float64 `yaml:"inter_arrival_mean"` // minutes between arrivals
	ServiceMean      float64 `yaml:"service_mean"`       // minutes with the nurse
}

// Config is the experiment configuration.
// Loaded from YAML via LoadConfig(path).
type Config struct {
	Runs     int            `yaml:"runs"`
	Horizon  float64        `yaml:"horizon"` // simulated minutes per replication
	Seed     int64          `yaml:"seed"`
	Capacity int            `yaml:"capacity"` // number of nurses
	Streams  []StreamConfig `yaml:"streams"`
}

// DefaultConfig returns the clinic model: 100 runs of 120 minutes, one
// nurse, weight-loss patients every 8 minutes for 10-minute consults and
// test patients every 10 minutes for 3-minute tests.
func DefaultConfig() Config {
	return Config{
		Runs:     100,
		Horizon:  120,
		Seed:     42,
		Capacity: 1,
		Streams: []StreamConfig{
			{Name: StreamWeightLoss, InterArrivalMean: 8, ServiceMean: 10},
			{Name: StreamTest, InterArrivalMean: 10, ServiceMean: 3},
		},
	}
}

// LoadConfig reads a YAML experiment file. Fields missing from the file keep
// their DefaultConfig values; unknown fields are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading experiment config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig with strict field checking.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing experiment config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before any replication runs.
func (c *Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", c.Runs)
	}
	if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) || c.Horizon < 0 {
		return fmt.Errorf("horizon must be a finite non-negative number, got %v", c.Horizon)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be >= 1, got %d", c.Capacity)
	}
	if len(c.Streams) == 0 {
		return fmt.Errorf("at least one stream required")
	}
	seen := make(map[string]bool, len(c.Streams))
	for i, s := range c.Streams {
		if s.Name == "" {
			return fmt.Errorf("streams[%d]: name required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("streams[%d]: duplicate stream name %q", i, s.Name)
		}
		seen[s.Name] = true
		if err := validateFinitePositive(fmt.Sprintf("streams[%d].inter_arrival_mean", i), s.InterArrivalMean); err != nil {
			return err
		}
		if err := validateFinitePositive(fmt.Sprintf("streams[%d].service_mean", i), s.ServiceMean); err != nil {
			return err
		}
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) || val <= 0 {
		return fmt.Errorf("%s must be a finite positive number, got %v", name, val)
	}
	return nil
}
