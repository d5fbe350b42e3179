package pulse

import (
	"regexp"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fllarpy/pulse/domain"
	"github.com/fllarpy/pulse/domain/metrics"
)

// FamilyCollector is the registry-facing surface of a metric family. Every
// Family[T] implements it; applications may register their own
// implementations for metrics computed at collection time.
type FamilyCollector interface {
	Name() string
	Help() string
	Kind() metrics.Kind
	Collect() metrics.FamilySnapshot
}

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// Registry owns an append-only set of metric families for the lifetime of
// the process and produces point-in-time snapshots of all of them. Families
// are never removed once registered, matching scrape-based monitoring
// semantics.
type Registry struct {
	logger *zap.Logger

	mu       sync.RWMutex
	families []FamilyCollector
	byName   map[string]FamilyCollector
}

var _ domain.Collectable = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes registration and collection events to the given logger.
// The default is a nop logger, so library users pay nothing unless they opt
// in.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry. Ownership stays with the composing
// application, which hands the registry to both mutation call sites and the
// collection trigger; see Default for the assembly-layer convenience
// instance.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: zap.NewNop(),
		byName: make(map[string]FamilyCollector),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds a family to the registry. A second family under an already
// used metric name is a configuration error, since name collisions would
// corrupt every future collection; kind mismatches are called out explicitly.
func (r *Registry) Register(f FamilyCollector) error {
	name := f.Name()
	if !metricNameRe.MatchString(name) {
		return domain.NewConfigError("invalid metric name %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byName[name]; ok {
		if prev.Kind() != f.Kind() {
			return domain.NewConfigError(
				"metric name %q already registered as kind %s, cannot register as kind %s",
				name, prev.Kind(), f.Kind())
		}
		return domain.NewConfigError("metric name %q already registered", name)
	}
	r.byName[name] = f
	r.families = append(r.families, f)

	r.logger.Debug("registered metric family",
		zap.String("name", name),
		zap.String("kind", string(f.Kind())))
	return nil
}

// MustRegister registers each family and panics on the first error. Meant
// for program assembly time, where a misconfigured metric should fail fast.
func (r *Registry) MustRegister(families ...FamilyCollector) {
	for _, f := range families {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
}

// NewCounter constructs a counter family and registers it in one call.
func (r *Registry) NewCounter(name, help string) (*CounterFamily, error) {
	f := NewCounterFamily(name, help)
	if err := r.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// NewGauge constructs a gauge family and registers it in one call.
func (r *Registry) NewGauge(name, help string) (*GaugeFamily, error) {
	f := NewGaugeFamily(name, help)
	if err := r.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// NewHistogram constructs a histogram family and registers it in one call.
func (r *Registry) NewHistogram(name, help string, bounds []float64) (*HistogramFamily, error) {
	f, err := NewHistogramFamily(name, help, bounds)
	if err != nil {
		return nil, err
	}
	if err := r.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// NewSummary constructs a summary family and registers it in one call.
func (r *Registry) NewSummary(name, help string, opts SummaryOpts) (*SummaryFamily, error) {
	f, err := NewSummaryFamily(name, help, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Collect snapshots every registered family, in registration order.
// Families are collected concurrently; each instrument's state is copied
// atomically, but the overall snapshot is not atomic across instruments.
func (r *Registry) Collect() []metrics.FamilySnapshot {
	r.mu.RLock()
	families := make([]FamilyCollector, len(r.families))
	copy(families, r.families)
	r.mu.RUnlock()

	out := make([]metrics.FamilySnapshot, len(families))
	var g errgroup.Group
	for i, f := range families {
		i, f := i, f
		g.Go(func() error {
			out[i] = f.Collect()
			return nil
		})
	}
	_ = g.Wait() // family collection itself cannot fail

	r.logger.Debug("collected metric families", zap.Int("families", len(out)))
	return out
}
