package trainer

import "errors"

// ErrMisconfiguration marks contradictory setup options. All resolution
// failures wrap it, so callers can match with errors.Is.
var ErrMisconfiguration = errors.New("trainer: misconfiguration")
