package callbacks

import (
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ModelCheckpoint persists model state at intervals during training. The
// trainer guarantees checkpoint callbacks run after all other callbacks so
// a saved checkpoint reflects every other callback's side effects for that
// step or epoch.
type ModelCheckpoint struct {
	Base

	// DirPath is the directory checkpoints are written to. When empty the
	// trainer's weights save path is used.
	DirPath string

	// Filename is the checkpoint filename template. The run ID and epoch
	// are substituted at save time.
	Filename string

	// EveryNEpochs is the save cadence in epochs.
	EveryNEpochs int

	// SaveLast additionally maintains a "last" checkpoint alongside the
	// periodic ones.
	SaveLast bool

	runID string
}

// NewModelCheckpoint returns a checkpoint callback with a fresh run ID.
func NewModelCheckpoint(dirPath string) *ModelCheckpoint {
	return &ModelCheckpoint{
		DirPath:      dirPath,
		Filename:     "epoch={epoch}.ckpt",
		EveryNEpochs: 1,
		runID:        uuid.NewString(),
	}
}

func (c *ModelCheckpoint) Kind() Kind { return KindCheckpoint }

// RunID returns the identifier under which this run's checkpoints are
// grouped.
func (c *ModelCheckpoint) RunID() string { return c.runID }

// Dir returns the directory checkpoints for this run are written to.
func (c *ModelCheckpoint) Dir() string {
	return filepath.Join(c.DirPath, c.runID)
}

type checkpointMeta struct {
	RunID        string `json:"run_id"`
	DirPath      string `json:"dir_path"`
	Filename     string `json:"filename"`
	EveryNEpochs int    `json:"every_n_epochs"`
	SaveLast     bool   `json:"save_last"`
}

// Metadata encodes the checkpoint configuration as JSON, written alongside
// saved checkpoints so a run can be resumed with the same layout.
func (c *ModelCheckpoint) Metadata() ([]byte, error) {
	return json.Marshal(checkpointMeta{
		RunID:        c.runID,
		DirPath:      c.DirPath,
		Filename:     c.Filename,
		EveryNEpochs: c.EveryNEpochs,
		SaveLast:     c.SaveLast,
	})
}
