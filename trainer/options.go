package trainer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quarryml/quarry/callbacks"
	"github.com/quarryml/quarry/internal/logger"
	"github.com/quarryml/quarry/internal/term"
)

// Options is the flag bag resolved once when a Trainer is built. It is not
// consulted again after resolution.
type Options struct {
	// Callbacks are pre-built callback instances supplied by the caller.
	Callbacks []callbacks.Callback

	// EnableCheckpointing appends a default ModelCheckpoint when no
	// checkpoint callback was supplied. Setting it to false while a
	// checkpoint callback is present is a misconfiguration.
	EnableCheckpointing bool

	// EnableProgressBar selects and attaches a progress display.
	EnableProgressBar bool

	// ProgressRefreshRate overrides the plain display's update cadence.
	// nil means unset; 0 disables the display entirely.
	//
	// Deprecated: pass a ProgressBar with the desired refresh rate in
	// Callbacks instead.
	ProgressRefreshRate *int

	// ProcessPosition offsets the plain display's line.
	//
	// Deprecated: pass a ProgressBar with the desired position in
	// Callbacks instead.
	ProcessPosition int

	// StochasticWeightAvg prepends a default weight-averaging callback.
	//
	// Deprecated: pass a StochasticWeightAveraging instance in Callbacks
	// instead.
	StochasticWeightAvg bool

	// AccumulateGradBatches sets the gradient accumulation schedule. nil
	// defaults to 1 batch per optimizer step.
	AccumulateGradBatches *GradBatches

	// WeightsSummary selects the model summary mode ("top" or "full").
	// nil disables the summary.
	WeightsSummary *string

	// MaxTime bounds the total training time. nil means unbounded.
	MaxTime *MaxTime

	// DefaultRootDir is where run artifacts land when no explicit path is
	// given. Defaults to the working directory.
	DefaultRootDir string

	// WeightsSavePath is where checkpoints are written. Defaults to
	// DefaultRootDir.
	WeightsSavePath string

	// Env overrides display capability detection. nil probes the process
	// environment.
	Env *term.Environment

	// Logger receives deprecation warnings and resolution notices. nil
	// uses the default stderr logger.
	Logger logger.Logger
}

// DefaultOptions returns the options a bare Trainer is built with:
// checkpointing and the progress display enabled, everything else unset.
func DefaultOptions() Options {
	return Options{
		EnableCheckpointing: true,
		EnableProgressBar:   true,
	}
}

// Supported model summary modes and their maximum nesting depths.
const (
	SummaryTop  = "top"
	SummaryFull = "full"
)

func summaryMaxDepth(mode string) (int, error) {
	switch mode {
	case SummaryTop:
		return 1, nil
	case SummaryFull:
		return callbacks.MaxDepthFull, nil
	default:
		return 0, fmt.Errorf("%w: weights summary mode can be %q or %q, got %q",
			ErrMisconfiguration, SummaryTop, SummaryFull, mode)
	}
}

// GradBatches is the gradient accumulation setting: either a flat batch
// count applied from epoch 0, or an epoch-to-count schedule.
type GradBatches struct {
	flat     *int
	schedule map[int]int
}

// FlatGradBatches accumulates n batches per optimizer step for the whole
// run.
func FlatGradBatches(n int) *GradBatches {
	return &GradBatches{flat: &n}
}

// ScheduledGradBatches changes the accumulation count at the given epochs.
func ScheduledGradBatches(schedule map[int]int) *GradBatches {
	return &GradBatches{schedule: schedule}
}

// Scheduling normalizes the setting to an epoch-to-count map.
func (g *GradBatches) Scheduling() map[int]int {
	if g.flat != nil {
		return map[int]int{0: *g.flat}
	}
	out := make(map[int]int, len(g.schedule))
	for epoch, n := range g.schedule {
		out[epoch] = n
	}
	return out
}

// UnmarshalYAML accepts an integer or an epoch-to-count mapping. Any other
// node kind is a misconfiguration.
func (g *GradBatches) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("%w: accumulate_grad_batches should be an int or a map, got %q",
				ErrMisconfiguration, node.Value)
		}
		g.flat = &n
		return nil
	case yaml.MappingNode:
		var schedule map[int]int
		if err := node.Decode(&schedule); err != nil {
			return fmt.Errorf("%w: accumulate_grad_batches mapping must be epoch->count: %v",
				ErrMisconfiguration, err)
		}
		g.schedule = schedule
		return nil
	default:
		return fmt.Errorf("%w: accumulate_grad_batches should be an int or a map", ErrMisconfiguration)
	}
}

// MaxTime is a total training time budget. It can be built from a
// time.Duration, parsed from a string ("90m", "1h30m" or "DD:HH:MM:SS"),
// or assembled from named parts.
type MaxTime struct {
	d time.Duration
}

// MaxTimeDuration wraps an explicit duration.
func MaxTimeDuration(d time.Duration) *MaxTime {
	return &MaxTime{d: d}
}

// ParseMaxTime parses a Go duration string or a DD:HH:MM:SS clock string.
func ParseMaxTime(s string) (*MaxTime, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return &MaxTime{d: d}, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: max_time %q is neither a duration nor DD:HH:MM:SS",
			ErrMisconfiguration, s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: max_time %q is neither a duration nor DD:HH:MM:SS",
				ErrMisconfiguration, s)
		}
		vals[i] = v
	}
	d := time.Duration(vals[0])*24*time.Hour +
		time.Duration(vals[1])*time.Hour +
		time.Duration(vals[2])*time.Minute +
		time.Duration(vals[3])*time.Second
	return &MaxTime{d: d}, nil
}

// MaxTimeParts assembles a budget from named parts. Supported keys:
// weeks, days, hours, minutes, seconds.
func MaxTimeParts(parts map[string]int) (*MaxTime, error) {
	var d time.Duration
	for key, v := range parts {
		var unit time.Duration
		switch key {
		case "weeks":
			unit = 7 * 24 * time.Hour
		case "days":
			unit = 24 * time.Hour
		case "hours":
			unit = time.Hour
		case "minutes":
			unit = time.Minute
		case "seconds":
			unit = time.Second
		default:
			return nil, fmt.Errorf("%w: unknown max_time part %q", ErrMisconfiguration, key)
		}
		d += time.Duration(v) * unit
	}
	return &MaxTime{d: d}, nil
}

// Duration returns the resolved budget.
func (m *MaxTime) Duration() time.Duration { return m.d }

// UnmarshalYAML accepts a duration string or a parts mapping.
func (m *MaxTime) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseMaxTime(node.Value)
		if err != nil {
			return err
		}
		m.d = parsed.d
		return nil
	case yaml.MappingNode:
		var parts map[string]int
		if err := node.Decode(&parts); err != nil {
			return fmt.Errorf("%w: max_time mapping must be part->int: %v", ErrMisconfiguration, err)
		}
		parsed, err := MaxTimeParts(parts)
		if err != nil {
			return err
		}
		m.d = parsed.d
		return nil
	default:
		return fmt.Errorf("%w: max_time should be a string or a map", ErrMisconfiguration)
	}
}
