// Package callbacks provides the lifecycle-hook callbacks that can be
// attached to a training run: checkpointing, progress display, gradient
// accumulation scheduling, weight averaging, time-based stopping and model
// summaries. The trainer package resolves configuration flags into an
// ordered list of these.
package callbacks

// Kind identifies the variant of a callback. The trainer uses it to enforce
// uniqueness and ordering invariants without inspecting concrete types.
type Kind int

const (
	// KindCustom is the default for user-defined callbacks.
	KindCustom Kind = iota
	KindCheckpoint
	KindProgressBar
	KindGradAccumulation
	KindWeightAveraging
	KindTimer
	KindModelSummary
)

func (k Kind) String() string {
	switch k {
	case KindCheckpoint:
		return "checkpoint"
	case KindProgressBar:
		return "progress_bar"
	case KindGradAccumulation:
		return "grad_accumulation"
	case KindWeightAveraging:
		return "weight_averaging"
	case KindTimer:
		return "timer"
	case KindModelSummary:
		return "model_summary"
	default:
		return "custom"
	}
}

// LogFunc records a single scalar metric under a name.
type LogFunc func(name string, value float64)

// LogDictFunc records a batch of named scalar metrics.
type LogDictFunc func(values map[string]float64)

// Callback reacts to training lifecycle events. Implementations embed Base
// to pick up no-op hooks and log binding, and override what they need.
type Callback interface {
	Kind() Kind

	// BindLogFuncs attaches the model's logging entry points so the
	// callback can record metrics through the model.
	BindLogFuncs(log LogFunc, logDict LogDictFunc)

	OnTrainStart()
	OnEpochStart(epoch int)
	OnStepEnd(step int)
	OnEpochEnd(epoch int)
	OnTrainEnd()
}

// Base is a no-op Callback implementation for embedding.
type Base struct {
	log     LogFunc
	logDict LogDictFunc
}

func (b *Base) Kind() Kind { return KindCustom }

func (b *Base) BindLogFuncs(log LogFunc, logDict LogDictFunc) {
	b.log = log
	b.logDict = logDict
}

// Log records a metric through the bound model, if any.
func (b *Base) Log(name string, value float64) {
	if b.log != nil {
		b.log(name, value)
	}
}

// LogDict records a batch of metrics through the bound model, if any.
func (b *Base) LogDict(values map[string]float64) {
	if b.logDict != nil {
		b.logDict(values)
	}
}

func (b *Base) OnTrainStart()    {}
func (b *Base) OnEpochStart(int) {}
func (b *Base) OnStepEnd(int)    {}
func (b *Base) OnEpochEnd(int)   {}
func (b *Base) OnTrainEnd()      {}
