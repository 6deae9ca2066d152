package trainer

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/quarryml/quarry/callbacks"
	"github.com/quarryml/quarry/internal/logger"
	"github.com/quarryml/quarry/internal/term"
)

// Connector turns a Trainer's options into its finalized callback list.
// Each resolution step is a function over the list that returns the
// updated list and any derived values, so the steps carry no hidden
// ordering dependencies beyond the ones spelled out in onTrainerInit.
type Connector struct {
	trainer *Trainer
	env     term.Environment
	log     logger.Logger
}

func newConnector(t *Trainer, env term.Environment, log logger.Logger) *Connector {
	return &Connector{trainer: t, env: env, log: log}
}

func (c *Connector) onTrainerInit(opts Options) error {
	t := c.trainer

	t.DefaultRootDir = opts.DefaultRootDir
	if t.DefaultRootDir == "" {
		t.DefaultRootDir = workingDir()
	}
	t.WeightsSavePath = opts.WeightsSavePath
	if t.WeightsSavePath == "" {
		t.WeightsSavePath = t.DefaultRootDir
	}

	cbs := make([]callbacks.Callback, len(opts.Callbacks))
	copy(cbs, opts.Callbacks)

	cbs, err := c.configureCheckpointing(cbs, opts.EnableCheckpointing)
	if err != nil {
		return err
	}

	cbs = c.configureWeightAveraging(cbs, opts.StochasticWeightAvg)
	cbs = c.configureTimer(cbs, opts.MaxTime)

	if opts.ProcessPosition != 0 {
		c.log.Warn("Options.ProcessPosition is deprecated; pass a ProgressBar with the desired position in Options.Callbacks instead",
			"process_position", opts.ProcessPosition)
	}
	if opts.ProgressRefreshRate != nil {
		c.log.Warn("Options.ProgressRefreshRate is deprecated; pass a ProgressBar with the desired refresh rate in Options.Callbacks instead",
			"refresh_rate", *opts.ProgressRefreshRate)
	}

	if opts.EnableProgressBar {
		cbs, t.progressBar, err = c.configureProgressBar(cbs, opts.ProgressRefreshRate, opts.ProcessPosition)
		if err != nil {
			return err
		}
	} else {
		t.progressBar = nil
	}

	cbs, err = c.configureModelSummary(cbs, opts.WeightsSummary)
	if err != nil {
		return err
	}

	cbs, scheduler, err := c.configureAccumulatedGradients(cbs, opts.AccumulateGradBatches)
	if err != nil {
		return err
	}
	t.scheduler = scheduler
	t.AccumulateGradBatches = scheduler.BatchesForEpoch(0)

	// Checkpoint callbacks must run last so a saved checkpoint reflects
	// every other callback's side effects for that step or epoch.
	t.Callbacks = reorderCallbacks(cbs)
	return nil
}

// configureCheckpointing appends a default ModelCheckpoint when enabled
// and none was supplied. Disabling checkpointing while a checkpoint
// callback is present is contradictory and fails.
func (c *Connector) configureCheckpointing(cbs []callbacks.Callback, enable bool) ([]callbacks.Callback, error) {
	has := hasKind(cbs, callbacks.KindCheckpoint)
	if has && !enable {
		return nil, fmt.Errorf("%w: checkpointing is disabled but a ModelCheckpoint was found in the callbacks list",
			ErrMisconfiguration)
	}
	if !has && enable {
		cbs = append(cbs, callbacks.NewModelCheckpoint(c.trainer.WeightsSavePath))
	}
	return cbs, nil
}

// configureWeightAveraging prepends a default averaging callback. It goes
// to the front so averaging observes every weight update the other
// callbacks trigger.
func (c *Connector) configureWeightAveraging(cbs []callbacks.Callback, enable bool) []callbacks.Callback {
	if !enable {
		return cbs
	}
	c.log.Warn("Options.StochasticWeightAvg is deprecated; pass a StochasticWeightAveraging instance in Options.Callbacks instead")
	if hasKind(cbs, callbacks.KindWeightAveraging) {
		return cbs
	}
	return append([]callbacks.Callback{callbacks.NewStochasticWeightAveraging()}, cbs...)
}

func (c *Connector) configureTimer(cbs []callbacks.Callback, maxTime *MaxTime) []callbacks.Callback {
	if maxTime == nil {
		return cbs
	}
	if hasKind(cbs, callbacks.KindTimer) {
		c.log.Info("ignoring Options.MaxTime, the callbacks list already contains a Timer")
		return cbs
	}
	return append(cbs, callbacks.NewTimer(maxTime.Duration(), callbacks.IntervalStep))
}

// configureProgressBar selects the progress display. An existing display
// is reused; more than one is ambiguous and fails. A refresh rate of 0
// disables the display. The rich variant is chosen when the environment
// supports it and no explicit refresh rate was requested.
func (c *Connector) configureProgressBar(cbs []callbacks.Callback, refreshRate *int, position int) ([]callbacks.Callback, callbacks.ProgressDisplay, error) {
	var displays []callbacks.ProgressDisplay
	for _, cb := range cbs {
		if cb.Kind() == callbacks.KindProgressBar {
			pd, ok := cb.(callbacks.ProgressDisplay)
			if !ok {
				return nil, nil, fmt.Errorf("%w: callback %T has the progress bar kind but does not implement ProgressDisplay",
					ErrMisconfiguration, cb)
			}
			displays = append(displays, pd)
		}
	}
	if len(displays) > 1 {
		return nil, nil, fmt.Errorf("%w: multiple progress bar callbacks were added, but only one progress display is supported",
			ErrMisconfiguration)
	}
	if len(displays) == 1 {
		return cbs, displays[0], nil
	}

	if refreshRate != nil && *refreshRate == 0 {
		return cbs, nil, nil
	}

	if c.env.RichAvailable {
		if refreshRate == nil {
			rich := callbacks.NewRichProgressBar()
			return append(cbs, rich), rich, nil
		}
		c.log.Warn("the rich progress display does not support a custom refresh rate; using the plain display",
			"refresh_rate", *refreshRate)
	}

	rate := 1
	switch {
	case refreshRate != nil:
		rate = *refreshRate
	case c.env.ConstrainedHost:
		// Frequent redraws crash hosted notebook terminals.
		rate = 20
	}
	pb := callbacks.NewProgressBar(rate, position)
	return append(cbs, pb), pb, nil
}

// configureModelSummary validates the summary mode and appends the
// summary variant matching the active display.
func (c *Connector) configureModelSummary(cbs []callbacks.Callback, mode *string) ([]callbacks.Callback, error) {
	if hasKind(cbs, callbacks.KindModelSummary) {
		return cbs, nil
	}
	if mode == nil {
		return cbs, nil
	}
	maxDepth, err := summaryMaxDepth(*mode)
	if err != nil {
		return nil, err
	}

	var summary callbacks.Callback
	if _, rich := c.trainer.progressBar.(*callbacks.RichProgressBar); rich {
		summary = callbacks.NewRichModelSummary(maxDepth)
	} else {
		summary = callbacks.NewModelSummary(maxDepth)
	}
	c.trainer.WeightsSummary = *mode
	return append(cbs, summary), nil
}

// configureAccumulatedGradients adopts an existing scheduler or builds one
// from the resolved setting. Supplying both is contradictory and fails.
func (c *Connector) configureAccumulatedGradients(cbs []callbacks.Callback, gb *GradBatches) ([]callbacks.Callback, callbacks.AccumulationScheduler, error) {
	for _, cb := range cbs {
		if cb.Kind() != callbacks.KindGradAccumulation {
			continue
		}
		if gb != nil {
			return nil, nil, fmt.Errorf("%w: both Options.AccumulateGradBatches and a GradientAccumulationScheduler callback were supplied; remove one of them",
				ErrMisconfiguration)
		}
		scheduler, ok := cb.(callbacks.AccumulationScheduler)
		if !ok {
			return nil, nil, fmt.Errorf("%w: callback %T has the grad accumulation kind but does not implement AccumulationScheduler",
				ErrMisconfiguration, cb)
		}
		return cbs, scheduler, nil
	}

	scheduling := map[int]int{0: 1}
	if gb != nil {
		scheduling = gb.Scheduling()
	}
	scheduler, err := callbacks.NewGradientAccumulationScheduler(scheduling)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMisconfiguration, err)
	}
	return append(cbs, scheduler), scheduler, nil
}

// attachModelCallbacks merges the model's callbacks into the trainer
// list. A model callback replaces every trainer callback of the same
// concrete type, then the checkpoint-last order is restored.
func (c *Connector) attachModelCallbacks(m Model) {
	modelCbs := m.ConfigureCallbacks()
	if len(modelCbs) == 0 {
		return
	}

	modelTypes := make(map[reflect.Type]bool, len(modelCbs))
	for _, cb := range modelCbs {
		modelTypes[reflect.TypeOf(cb)] = true
	}

	var overridden []string
	var kept []callbacks.Callback
	seen := make(map[reflect.Type]bool)
	for _, cb := range c.trainer.Callbacks {
		typ := reflect.TypeOf(cb)
		if modelTypes[typ] {
			if !seen[typ] {
				seen[typ] = true
				overridden = append(overridden, typeName(typ))
			}
			continue
		}
		kept = append(kept, cb)
	}

	if len(overridden) > 0 {
		sort.Strings(overridden)
		c.log.Info("callbacks returned by the model override existing trainer callbacks",
			"types", strings.Join(overridden, ", "))
	}

	c.trainer.Callbacks = reorderCallbacks(append(kept, modelCbs...))
}

// attachModelLoggingFunctions binds every callback's logging entry points
// to the model.
func (c *Connector) attachModelLoggingFunctions(m Model) {
	for _, cb := range c.trainer.Callbacks {
		cb.BindLogFuncs(m.Log, m.LogDict)
	}
}

// reorderCallbacks stable-partitions the list so checkpoint callbacks come
// last, preserving relative order within each group.
func reorderCallbacks(cbs []callbacks.Callback) []callbacks.Callback {
	out := make([]callbacks.Callback, 0, len(cbs))
	var checkpoints []callbacks.Callback
	for _, cb := range cbs {
		if cb.Kind() == callbacks.KindCheckpoint {
			checkpoints = append(checkpoints, cb)
		} else {
			out = append(out, cb)
		}
	}
	return append(out, checkpoints...)
}

func hasKind(cbs []callbacks.Callback, kind callbacks.Kind) bool {
	for _, cb := range cbs {
		if cb.Kind() == kind {
			return true
		}
	}
	return false
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
