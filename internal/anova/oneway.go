// Package anova runs the one-way variance-ratio test for equality of mean
// transaction duration across payment methods.
package anova

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"mpesa-latency-lab/internal/domain"
)

// Result holds the test outcome. A p-value below a conventional threshold
// rejects the null hypothesis that mean duration does not depend on
// payment method.
type Result struct {
	FStatistic float64
	PValue     float64
	DFBetween  int // k - 1
	DFWithin   int // n - k
}

// OneWay tests equality of group means over durations grouped by payment
// method. Every method in domain.Methods() must be present with at least
// two observations; a degenerate grouping is rejected, not skipped.
// The test runs over the full dataset (train and holdout combined): it
// targets population-level group differences, not predictive
// generalization.
func OneWay(groups map[domain.PaymentMethod][]float64) (Result, error) {
	methods := domain.Methods()
	k := len(methods)
	if k < 2 {
		return Result{}, fmt.Errorf("%w: need at least two groups", domain.ErrDegenerateData)
	}

	n := 0
	grandSum := 0.0
	for _, m := range methods {
		obs := groups[m]
		if len(obs) < 2 {
			return Result{}, fmt.Errorf("%w: group %s has %d observations, need at least 2",
				domain.ErrDegenerateData, m, len(obs))
		}
		n += len(obs)
		for _, v := range obs {
			grandSum += v
		}
	}

	grandMean := grandSum / float64(n)

	var ssBetween, ssWithin float64
	for _, m := range methods {
		obs := groups[m]
		groupMean := stat.Mean(obs, nil)
		d := groupMean - grandMean
		ssBetween += float64(len(obs)) * d * d
		for _, v := range obs {
			r := v - groupMean
			ssWithin += r * r
		}
	}

	dfBetween := k - 1
	dfWithin := n - k
	if ssWithin == 0 {
		return Result{}, fmt.Errorf("%w: zero within-group variance", domain.ErrDegenerateData)
	}

	f := (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))
	fDist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}

	return Result{
		FStatistic: f,
		PValue:     fDist.Survival(f),
		DFBetween:  dfBetween,
		DFWithin:   dfWithin,
	}, nil
}
