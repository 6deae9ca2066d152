package callbacks

// ProgressDisplay is implemented by callbacks that render training
// progress. At most one progress display may be attached to a trainer.
type ProgressDisplay interface {
	Callback

	// RefreshRate is the number of steps between display updates.
	RefreshRate() int
}

// ProgressBar is the plain-text progress display. It updates every
// RefreshRate steps and works on any terminal.
type ProgressBar struct {
	Base

	refreshRate int
	position    int
}

// NewProgressBar returns a plain progress display updating every
// refreshRate steps. Position offsets the bar's line for setups that stack
// multiple process outputs on one terminal.
func NewProgressBar(refreshRate, position int) *ProgressBar {
	return &ProgressBar{refreshRate: refreshRate, position: position}
}

func (p *ProgressBar) Kind() Kind { return KindProgressBar }

func (p *ProgressBar) RefreshRate() int { return p.refreshRate }

// Position returns the line offset the bar renders at.
func (p *ProgressBar) Position() int { return p.position }
