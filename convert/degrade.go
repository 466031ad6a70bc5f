package convert

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"

	"github.com/tsawler/deckjson/model"
)

// State is the degradation controller's position in its four-state model.
type State int

const (
	StateNormal State = iota
	StateWarn
	StateDegrade
	StateCritical
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateWarn:
		return "warn"
	case StateDegrade:
		return "degrade"
	case StateCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ResourceExhaustionError aborts a conversion from the critical state. It
// is the engine's only fatal runtime condition; no partial document
// accompanies it.
type ResourceExhaustionError struct {
	Usage uint64
	Limit uint64
}

func (e *ResourceExhaustionError) Error() string {
	return fmt.Sprintf("conversion aborted: memory usage %s exceeded the critical threshold of the %s limit",
		humanize.Bytes(e.Usage), humanize.Bytes(e.Limit))
}

// Thresholds configures the degradation state boundaries. The percentage
// bounds apply against SoftLimit; HardLimit is an absolute byte ceiling
// that forces critical regardless of percentages (0 disables it).
type Thresholds struct {
	SoftLimit   uint64
	WarnPct     float64
	DegradePct  float64
	CriticalPct float64
	HardLimit   uint64
}

// DefaultThresholds returns the standard 70/85/95 split over a 512 MiB
// soft ceiling.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SoftLimit:   512 << 20,
		WarnPct:     70,
		DegradePct:  85,
		CriticalPct: 95,
	}
}

// MemorySampler reports current memory usage in bytes.
type MemorySampler func() uint64

func heapSampler() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// degradeAction identifies a one-shot mitigation.
type degradeAction int

const (
	actionWarnPressure degradeAction = iota
	actionEvictCaches
	actionSkipExtras
	actionReduceQuality
	actionReduceConcurrency
)

// Actions are the mitigation hooks the controller fires in escalation
// order, each at most once per run. A nil hook is skipped but still
// counted as fired. Concurrency reduction has no hook: the engine is
// single-threaded, so it is recorded as a hint for the external pool.
type Actions struct {
	EvictCaches   func()
	SkipExtras    func()
	ReduceQuality func()
}

// Controller tracks memory pressure for one conversion run. It is owned by
// a single goroutine and never blocks or coordinates across runs.
type Controller struct {
	thresholds  Thresholds
	sample      MemorySampler
	warn        func(model.Warning)
	actions     Actions
	state       State
	fired       map[degradeAction]bool
	transitions []string
}

// NewController builds a controller. A nil sampler uses the process heap;
// a nil warn discards warnings.
func NewController(t Thresholds, sample MemorySampler, warn func(model.Warning), actions Actions) *Controller {
	if sample == nil {
		sample = heapSampler
	}
	if warn == nil {
		warn = func(model.Warning) {}
	}
	return &Controller{
		thresholds: t,
		sample:     sample,
		warn:       warn,
		actions:    actions,
		fired:      make(map[degradeAction]bool),
	}
}

// State returns the current degradation state.
func (c *Controller) State() State { return c.state }

// Transitions returns the state transition log for this run.
func (c *Controller) Transitions() []string { return c.transitions }

// Check samples memory, transitions the state machine, and applies any
// newly due mitigations. The only error it returns is
// *ResourceExhaustionError from the critical state.
func (c *Controller) Check() error {
	usage := c.sample()
	next := c.classify(usage)
	if next != c.state {
		c.transitions = append(c.transitions,
			fmt.Sprintf("%s -> %s at %s", c.state, next, humanize.Bytes(usage)))
		c.state = next
	}

	switch c.state {
	case StateWarn:
		c.warnPressure(usage)
	case StateDegrade:
		c.warnPressure(usage)
		c.mitigate()
	case StateCritical:
		limit := c.thresholds.SoftLimit
		if c.thresholds.HardLimit > 0 && usage >= c.thresholds.HardLimit {
			limit = c.thresholds.HardLimit
		}
		return &ResourceExhaustionError{Usage: usage, Limit: limit}
	}
	return nil
}

// mitigate escalates one step at a time: each call applies the next action
// still pending, then stops if pressure fell back below the degrade bound.
func (c *Controller) mitigate() {
	steps := []struct {
		action  degradeAction
		hook    func()
		code    model.WarnCode
		message string
	}{
		{actionEvictCaches, c.actions.EvictCaches, model.WarnCachesEvicted,
			"style and layout caches evicted to relieve memory pressure"},
		{actionSkipExtras, c.actions.SkipExtras, model.WarnExtrasSkipped,
			"transition and notes extraction disabled to relieve memory pressure"},
		{actionReduceQuality, c.actions.ReduceQuality, model.WarnQualityReduced,
			"media payloads are no longer inlined, references kept"},
		{actionReduceConcurrency, nil, model.WarnConcurrencyHint,
			"reduce concurrent conversions in the worker pool"},
	}
	for _, step := range steps {
		if c.fired[step.action] {
			continue
		}
		c.fired[step.action] = true
		if step.hook != nil {
			step.hook()
		}
		c.warn(model.Warning{Code: step.code, Message: step.message})
		if !c.usageAbove(c.thresholds.DegradePct) {
			return
		}
	}
}

func (c *Controller) warnPressure(usage uint64) {
	if c.fired[actionWarnPressure] {
		return
	}
	c.fired[actionWarnPressure] = true
	c.warn(model.Warning{
		Code: model.WarnMemoryPressure,
		Message: fmt.Sprintf("memory usage reached %s of a %s ceiling",
			humanize.Bytes(usage), humanize.Bytes(c.thresholds.SoftLimit)),
	})
}

func (c *Controller) classify(usage uint64) State {
	if c.thresholds.HardLimit > 0 && usage >= c.thresholds.HardLimit {
		return StateCritical
	}
	if c.thresholds.SoftLimit == 0 {
		return StateNormal
	}
	pct := float64(usage) / float64(c.thresholds.SoftLimit) * 100
	switch {
	case pct >= c.thresholds.CriticalPct:
		return StateCritical
	case pct >= c.thresholds.DegradePct:
		return StateDegrade
	case pct >= c.thresholds.WarnPct:
		return StateWarn
	default:
		return StateNormal
	}
}

// usageAbove re-samples so a later mitigation only fires while pressure
// persists.
func (c *Controller) usageAbove(pct float64) bool {
	if c.thresholds.SoftLimit == 0 {
		return false
	}
	return float64(c.sample())/float64(c.thresholds.SoftLimit)*100 >= pct
}
