// Package trainer resolves training-run configuration into a canonical,
// ordered callback list. Flags such as checkpointing, progress display
// mode, gradient accumulation, weight averaging and time budgets are
// turned into callback instances once at setup; the resulting list is
// read-only for the rest of the run.
package trainer

import (
	"os"

	"github.com/quarryml/quarry/callbacks"
	"github.com/quarryml/quarry/internal/logger"
	"github.com/quarryml/quarry/internal/term"
)

// Model is the trainable unit a Trainer drives. It may contribute its own
// callbacks and provides the logging entry points callbacks record metrics
// through.
type Model interface {
	// ConfigureCallbacks returns callbacks the model wants attached. They
	// replace trainer callbacks of the same concrete type.
	ConfigureCallbacks() []callbacks.Callback

	// Log records a single named metric.
	Log(name string, value float64)

	// LogDict records a batch of named metrics.
	LogDict(values map[string]float64)
}

// Trainer holds the finalized callback list and the scalars derived during
// resolution.
type Trainer struct {
	// Callbacks is the resolved, ordered callback list. Checkpoint
	// callbacks are always the trailing elements.
	Callbacks []callbacks.Callback

	// AccumulateGradBatches is the accumulation factor for epoch 0.
	AccumulateGradBatches int

	// DefaultRootDir is the base directory for run artifacts.
	DefaultRootDir string

	// WeightsSavePath is the base directory for checkpoints.
	WeightsSavePath string

	// WeightsSummary is the active summary mode, empty when disabled.
	WeightsSummary string

	scheduler   callbacks.AccumulationScheduler
	progressBar callbacks.ProgressDisplay
	connector   *Connector
	log         logger.Logger
}

// New builds a Trainer by resolving opts into a callback list. It fails
// with an error wrapping ErrMisconfiguration when options contradict the
// supplied callbacks or each other.
func New(opts Options) (*Trainer, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	env := term.Detect()
	if opts.Env != nil {
		env = *opts.Env
	}

	t := &Trainer{log: log}
	t.connector = newConnector(t, env, log)
	if err := t.connector.onTrainerInit(opts); err != nil {
		return nil, err
	}
	return t, nil
}

// ProgressBar returns the active progress display, or nil when disabled.
func (t *Trainer) ProgressBar() callbacks.ProgressDisplay { return t.progressBar }

// AccumulationScheduler returns the active gradient accumulation
// scheduler.
func (t *Trainer) AccumulationScheduler() callbacks.AccumulationScheduler { return t.scheduler }

// CheckpointCallbacks returns the checkpoint callbacks, in order.
func (t *Trainer) CheckpointCallbacks() []callbacks.Callback {
	var out []callbacks.Callback
	for _, cb := range t.Callbacks {
		if cb.Kind() == callbacks.KindCheckpoint {
			out = append(out, cb)
		}
	}
	return out
}

// AttachModel merges the model's own callbacks into the trainer list and
// binds every callback's logging entry points to the model. Called once
// when the model is handed to the trainer, before training starts.
func (t *Trainer) AttachModel(m Model) {
	t.connector.attachModelCallbacks(m)
	t.connector.attachModelLoggingFunctions(m)
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
