package pulse

import (
	"go.uber.org/zap"

	"github.com/fllarpy/pulse/config"
	"github.com/fllarpy/pulse/domain"
)

// SummaryOptsFromConfig builds summary options from the configured sliding
// window, using the default quantile objectives.
func SummaryOptsFromConfig(cfg *config.Config) SummaryOpts {
	return SummaryOpts{
		Objectives: config.DefaultObjectives(),
		MaxAge:     cfg.SummaryMaxAge,
		AgeBuckets: cfg.SummaryAgeBuckets,
	}
}

// NewHistogramFromConfig constructs and registers a histogram family with
// the configured default bucket bounds. Call sites that know their value
// distribution should use Registry.NewHistogram with explicit bounds.
func NewHistogramFromConfig(r *Registry, cfg *config.Config, name, help string) (*HistogramFamily, error) {
	return r.NewHistogram(name, help, cfg.DefaultBuckets)
}

// NewSummaryFromConfig constructs and registers a summary family with the
// default objectives over the configured sliding window.
func NewSummaryFromConfig(r *Registry, cfg *config.Config, name, help string) (*SummaryFamily, error) {
	return r.NewSummary(name, help, SummaryOptsFromConfig(cfg))
}

// NewLogger builds a production zap logger at the configured level, ready to
// hand to WithLogger and the exporter sinks. An unknown level name is a
// configuration error.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, domain.NewConfigError("invalid log level %q", cfg.LogLevel)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	return zcfg.Build()
}
