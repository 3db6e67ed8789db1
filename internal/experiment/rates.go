package experiment

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultLearningRate is used for models missing from the rate table.
const DefaultLearningRate = 0.0001

// ErrUnknownModel reports a model name missing from a strict rate table.
var ErrUnknownModel = errors.New("unknown model")

// Known model identifiers from the paper's baselines.
const (
	ModelTextCNN     = "textcnn"
	ModelBiGRU       = "bigru"
	ModelBERT        = "bert"
	ModelStyleLSTM   = "stylelstm"
	ModelDualEmotion = "dualemotion"
	ModelEANN        = "eann"
	ModelEDDFN       = "eddfn"
	ModelMDFEND      = "mdfend"
	ModelM3FEND      = "m3fend"
	ModelMMoE        = "mmoe"
	ModelMoSE        = "mose"
)

// PaperLearningRates returns a fresh copy of the recommended rates.
func PaperLearningRates() map[string]float64 {
	return map[string]float64{
		ModelTextCNN:     0.0007,
		ModelBiGRU:       0.0009,
		ModelBERT:        7e-5,
		ModelStyleLSTM:   0.0007,
		ModelDualEmotion: 0.0009,
		ModelEANN:        0.0001,
		ModelEDDFN:       0.0007,
		ModelMDFEND:      7e-5,
		ModelM3FEND:      0.0001,
		// No rate is published for mmoe and mose.
		ModelMMoE: 0.0001,
		ModelMoSE: 0.0001,
	}
}

// LearningRates is an immutable model to learning-rate table.
type LearningRates struct {
	rates    map[string]float64
	fallback float64
	strict   bool
}

// NewLearningRates copies rates into a lookup table. A non-positive fallback
// selects DefaultLearningRate. When strict is set, unknown models fail to resolve.
func NewLearningRates(rates map[string]float64, fallback float64, strict bool) LearningRates {
	copied := make(map[string]float64, len(rates))
	for model, rate := range rates {
		copied[model] = rate
	}
	if fallback <= 0 {
		fallback = DefaultLearningRate
	}
	return LearningRates{rates: copied, fallback: fallback, strict: strict}
}

// Resolve picks the learning rate for a model. An override always wins.
func (l LearningRates) Resolve(model string, override *float64) (float64, error) {
	if override != nil {
		return *override, nil
	}
	if rate, ok := l.rates[model]; ok {
		return rate, nil
	}
	if l.strict {
		return 0, fmt.Errorf("%w %q", ErrUnknownModel, model)
	}
	return l.fallback, nil
}

// Known reports whether the table has an explicit rate for model.
func (l LearningRates) Known(model string) bool {
	_, ok := l.rates[model]
	return ok
}

// Strict reports whether unknown models are rejected.
func (l LearningRates) Strict() bool {
	return l.strict
}

// Fallback returns the rate used for unknown models in permissive mode.
func (l LearningRates) Fallback() float64 {
	return l.fallback
}

// Models lists the known model names in sorted order.
func (l LearningRates) Models() []string {
	models := make([]string, 0, len(l.rates))
	for model := range l.rates {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
