package callbacks

// StochasticWeightAveraging maintains a running average of the model
// weights over the tail of training. The averaged weights typically
// generalize better than the final weights.
type StochasticWeightAveraging struct {
	Base

	// StartFraction is the point in training, as a fraction of total
	// epochs, at which averaging begins.
	StartFraction float64

	// AnnealEpochs is the number of epochs the learning rate is annealed
	// over once averaging starts.
	AnnealEpochs int
}

// NewStochasticWeightAveraging returns an averaging callback with the
// standard schedule: averaging over the last 20% of training with a
// 10-epoch anneal.
func NewStochasticWeightAveraging() *StochasticWeightAveraging {
	return &StochasticWeightAveraging{
		StartFraction: 0.8,
		AnnealEpochs:  10,
	}
}

func (s *StochasticWeightAveraging) Kind() Kind { return KindWeightAveraging }
