package regress

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/features"
)

// Metrics holds holdout-only evaluation results for one model. Computing
// them on training data would bias both numbers optimistically, so the
// pipeline never does.
type Metrics struct {
	MSE float64 // mean squared error, non-negative
	R2  float64 // coefficient of determination, <= 1
}

// Predictor is the common fit surface of the linear model and the forest.
type Predictor interface {
	Predict(t *features.Table) ([]float64, error)
}

// Evaluate predicts on the holdout table and computes MSE and R².
// Returns domain.ErrDegenerateData when the holdout is empty or its target
// has zero variance (R² is undefined there, never NaN).
func Evaluate(model Predictor, holdout *features.Table) (Metrics, error) {
	if holdout.Len() == 0 {
		return Metrics{}, fmt.Errorf("%w: empty holdout partition", domain.ErrDegenerateData)
	}
	if err := checkTargetVariance(holdout.Target); err != nil {
		return Metrics{}, err
	}

	preds, err := model.Predict(holdout)
	if err != nil {
		return Metrics{}, err
	}

	mean := stat.Mean(holdout.Target, nil)
	var ssRes, ssTot float64
	for i, y := range holdout.Target {
		r := y - preds[i]
		ssRes += r * r
		d := y - mean
		ssTot += d * d
	}

	return Metrics{
		MSE: ssRes / float64(len(holdout.Target)),
		R2:  1 - ssRes/ssTot,
	}, nil
}

// checkTargetVariance rejects targets where every value is identical.
func checkTargetVariance(target []float64) error {
	if len(target) == 0 {
		return fmt.Errorf("%w: empty target", domain.ErrDegenerateData)
	}
	first := target[0]
	for _, v := range target[1:] {
		if v != first {
			return nil
		}
	}
	return fmt.Errorf("%w: target has zero variance", domain.ErrDegenerateData)
}
