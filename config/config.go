package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunables of the instrumentation core that are shared by
// the periodic collector and the default instrument settings.
type Config struct {
	// CollectionInterval is how often the background collector snapshots
	// the registry.
	CollectionInterval time.Duration `mapstructure:"collection_interval"`

	// DefaultBuckets are the histogram bucket bounds used when a call site
	// has no better domain knowledge.
	DefaultBuckets []float64 `mapstructure:"default_buckets"`

	// SummaryMaxAge and SummaryAgeBuckets configure the sliding window of
	// summary quantile estimation.
	SummaryMaxAge     time.Duration `mapstructure:"summary_max_age"`
	SummaryAgeBuckets int           `mapstructure:"summary_age_buckets"`

	// SnapshotHistory is how many recent collection outcomes the collector
	// keeps for inspection.
	SnapshotHistory int `mapstructure:"snapshot_history"`

	LogLevel string `mapstructure:"log_level"`
}

// DefaultObjectives returns the summary quantile objectives used when a call
// site configures none: the median within 5%, the 90th percentile within 1%,
// the 95th within 0.5% and the 99th within 0.1%.
func DefaultObjectives() map[float64]float64 {
	return map[float64]float64{
		0.5:  0.05,
		0.9:  0.01,
		0.95: 0.005,
		0.99: 0.001,
	}
}

// Load reads a pulse.yaml from the given path, applies PULSE_* environment
// overrides, and falls back to defaults for anything unset. A missing config
// file is not an error; a malformed one is.
func Load(path string) (config Config, err error) {
	v := viper.New()
	v.SetDefault("collection_interval", 10*time.Second)
	v.SetDefault("default_buckets", []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10})
	v.SetDefault("summary_max_age", 10*time.Minute)
	v.SetDefault("summary_age_buckets", 5)
	v.SetDefault("snapshot_history", 100)
	v.SetDefault("log_level", "info")

	v.AddConfigPath(path)
	v.SetConfigName("pulse")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PULSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
