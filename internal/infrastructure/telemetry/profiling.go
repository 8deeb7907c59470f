package telemetry

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profiling label keys. Values must stay low cardinality so Pyroscope can
// index them: route patterns, not raw paths; tenant IDs, not user IDs.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelTenantID   = "tenant_id"
	ProfilingLabelOperation  = "operation"
)

// maxProfilingLabelValueLength caps label values before they reach Pyroscope
const maxProfilingLabelValueLength = 128

// highCardinalityProfilingLabels are label keys sanitizeProfilingLabels drops
// outright, whatever the caller passed.
var highCardinalityProfilingLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"invoice_id": true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// ProfilerConfig holds Pyroscope continuous profiling settings
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string // e.g. "http://pyroscope:4040"
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
}

// Profiler wraps the Pyroscope agent with lifecycle management. When
// profiling is disabled it is a no-op so callers never branch.
type Profiler struct {
	agent   *pyroscope.Profiler
	logger  *zap.Logger
	mu      sync.Mutex
	stopped bool
}

// NewProfiler starts continuous profiling against the configured Pyroscope
// server. CPU, allocation and goroutine profiles are always collected.
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}

	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler enabled but server address is empty")
	}

	appName := cfg.ApplicationName
	if appName == "" {
		appName = "square15-backend"
	}

	agent, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   appName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            nil,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	p.agent = agent
	logger.Info("Continuous profiling started",
		zap.String("application_name", appName),
		zap.String("server_address", cfg.ServerAddress),
		zap.Int("gomaxprocs", runtime.GOMAXPROCS(0)),
	)
	return p, nil
}

// Stop flushes and stops the profiling agent. Safe to call more than once.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.agent == nil || p.stopped {
		return nil
	}
	p.stopped = true

	if err := p.agent.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.logger.Info("Continuous profiling stopped")
	return nil
}

// WithProfilingLabels runs fn with the given pprof labels attached, so
// profiles can be sliced by route, method or tenant in the Pyroscope UI.
// The labels map is copied; callers may reuse it afterwards.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeProfilingLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeProfilingLabels drops empty and high-cardinality entries, truncates
// long values, normalises keys to snake_case and returns a deterministic
// key/value slice.
func sanitizeProfilingLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	copied := make(map[string]string, len(labels))
	maps.Copy(copied, labels)

	keys := make([]string, 0, len(copied))
	for k := range copied {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(copied)*2)
	for _, key := range keys {
		value := copied[key]
		if key == "" || value == "" || highCardinalityProfilingLabels[key] {
			continue
		}
		if len(value) > maxProfilingLabelValueLength {
			value = value[:maxProfilingLabelValueLength]
		}
		sanitized := sanitizeProfilingLabelKey(key)
		if sanitized == "" {
			continue
		}
		pairs = append(pairs, sanitized, value)
	}
	return pairs
}

// sanitizeProfilingLabelKey normalises a key to lowercase snake_case and
// strips anything that is not alphanumeric or underscore.
func sanitizeProfilingLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			out = append(out, c)
		}
	}
	return string(out)
}
