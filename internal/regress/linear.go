// Package regress fits the two predictors of the analysis pipeline over an
// encoded feature table: an ordinary-least-squares linear model and a
// bagged ensemble of regression trees. Both are evaluated with the same
// holdout protocol.
package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/features"
)

// LinearModel is an OLS fit over the encoded features. Each categorical
// indicator coefficient is the estimated additive duration offset versus
// the reference method, holding amount and time of day fixed.
type LinearModel struct {
	Columns      []string  // feature layout seen at fit time
	Intercept    float64   // absorbs the reference category
	Coefficients []float64 // aligned with Columns
}

// FitLinear solves the least-squares problem over the training table.
// Returns domain.ErrDegenerateData when the system is unidentifiable:
// fewer rows than free parameters, a zero-variance target, or a singular
// design matrix.
func FitLinear(train *features.Table) (*LinearModel, error) {
	n := train.Len()
	p := len(train.Columns) + 1 // +1 intercept
	if n == 0 {
		return nil, fmt.Errorf("%w: empty training partition", domain.ErrDegenerateData)
	}
	if n < p {
		return nil, fmt.Errorf("%w: %d rows cannot identify %d parameters", domain.ErrDegenerateData, n, p)
	}
	if err := checkTargetVariance(train.Target); err != nil {
		return nil, err
	}

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range train.Rows {
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, train.Target[i])
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, fmt.Errorf("%w: singular design matrix: %v", domain.ErrDegenerateData, err)
	}

	coeffs := make([]float64, len(train.Columns))
	for j := range coeffs {
		coeffs[j] = beta.AtVec(j + 1)
	}

	return &LinearModel{
		Columns:      append([]string(nil), train.Columns...),
		Intercept:    beta.AtVec(0),
		Coefficients: coeffs,
	}, nil
}

// Predict returns predictions for every row of the table.
// Returns features.ErrEncodingMismatch if the table layout differs from
// the one seen at fit time.
func (m *LinearModel) Predict(t *features.Table) ([]float64, error) {
	fitTable := &features.Table{Columns: m.Columns}
	if err := fitTable.CheckCompatible(t); err != nil {
		return nil, err
	}

	out := make([]float64, t.Len())
	for i, row := range t.Rows {
		pred := m.Intercept
		for j, v := range row {
			pred += m.Coefficients[j] * v
		}
		out[i] = pred
	}
	return out, nil
}
