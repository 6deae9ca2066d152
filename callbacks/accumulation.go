package callbacks

import (
	"fmt"
	"sort"
)

// AccumulationScheduler is implemented by callbacks that decide how many
// batches' gradients are accumulated before each optimizer update.
type AccumulationScheduler interface {
	Callback

	// BatchesForEpoch returns the accumulation factor active at the given
	// epoch.
	BatchesForEpoch(epoch int) int
}

// GradientAccumulationScheduler changes the gradient accumulation factor
// per epoch. The scheduling map holds the epoch at which a factor takes
// effect; a factor stays active until a later epoch overrides it.
type GradientAccumulationScheduler struct {
	Base

	scheduling map[int]int
	epochs     []int
}

// NewGradientAccumulationScheduler validates and builds a scheduler from
// an epoch-to-factor map. Epochs must be non-negative and factors must be
// at least 1. If the map does not define epoch 0, a factor of 1 is implied
// there.
func NewGradientAccumulationScheduler(scheduling map[int]int) (*GradientAccumulationScheduler, error) {
	if len(scheduling) == 0 {
		return nil, fmt.Errorf("gradient accumulation scheduling is empty")
	}
	for epoch, factor := range scheduling {
		if epoch < 0 {
			return nil, fmt.Errorf("gradient accumulation epochs must be non-negative, got %d", epoch)
		}
		if factor < 1 {
			return nil, fmt.Errorf("gradient accumulation factor for epoch %d must be at least 1, got %d", epoch, factor)
		}
	}

	s := make(map[int]int, len(scheduling)+1)
	for epoch, factor := range scheduling {
		s[epoch] = factor
	}
	if _, ok := s[0]; !ok {
		s[0] = 1
	}

	epochs := make([]int, 0, len(s))
	for epoch := range s {
		epochs = append(epochs, epoch)
	}
	sort.Ints(epochs)

	return &GradientAccumulationScheduler{scheduling: s, epochs: epochs}, nil
}

func (s *GradientAccumulationScheduler) Kind() Kind { return KindGradAccumulation }

// BatchesForEpoch returns the factor defined at the largest scheduling
// epoch not greater than epoch.
func (s *GradientAccumulationScheduler) BatchesForEpoch(epoch int) int {
	factor := 1
	for _, e := range s.epochs {
		if e > epoch {
			break
		}
		factor = s.scheduling[e]
	}
	return factor
}

// Scheduling returns a copy of the resolved epoch-to-factor map.
func (s *GradientAccumulationScheduler) Scheduling() map[int]int {
	out := make(map[int]int, len(s.scheduling))
	for epoch, factor := range s.scheduling {
		out[epoch] = factor
	}
	return out
}
