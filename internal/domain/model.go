package domain

import (
	"fmt"
	"math"
	"time"
)

// MethodWeight pairs a payment method with its sampling probability.
type MethodWeight struct {
	Method PaymentMethod
	Weight float64
}

// GeneratorConfig holds every parameter of the synthetic transaction model.
// Two runs with equal configs and equal seeds produce identical datasets.
type GeneratorConfig struct {
	N           int       // number of records to generate
	Seed        uint64    // seed for the shared random source
	WindowStart time.Time // inclusive start of the simulation window
	WindowEnd   time.Time // exclusive end of the simulation window

	// Categorical distribution over payment methods. Weights must sum to 1.
	MethodWeights []MethodWeight

	// Log-normal amount distribution parameters.
	AmountMu    float64
	AmountSigma float64

	// User id range, inclusive on both ends.
	UserIDMin int
	UserIDMax int

	// Ground-truth duration model.
	AmountCoef    float64 // seconds per currency unit
	PeakBonus     float64 // seconds added during peak hours
	PeakHourStart int     // inclusive
	PeakHourEnd   int     // exclusive
	NoiseSigma    float64 // stddev of Gaussian noise, seconds
	DurationFloor float64 // minimum duration, seconds
}

// weightTolerance bounds the allowed drift of the weight sum from 1.
const weightTolerance = 1e-9

// DefaultConfig returns the canonical lab configuration: 10k transactions
// over January 2023, seed 42, method weights 0.4/0.3/0.2/0.1.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		N:           10000,
		Seed:        42,
		WindowStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
		MethodWeights: []MethodWeight{
			{Method: MethodDirectSend, Weight: 0.4},
			{Method: MethodTillNumber, Weight: 0.3},
			{Method: MethodPaybill, Weight: 0.2},
			{Method: MethodPochiLaBiashara, Weight: 0.1},
		},
		AmountMu:      6.5,
		AmountSigma:   0.75,
		UserIDMin:     1000,
		UserIDMax:     9999,
		AmountCoef:    0.002,
		PeakBonus:     5,
		PeakHourStart: 8,
		PeakHourEnd:   20,
		NoiseSigma:    3,
		DurationFloor: 5,
	}
}

// Validate checks the config before any sampling happens.
func (c GeneratorConfig) Validate() error {
	if c.N < 0 {
		return fmt.Errorf("%w: record count must be non-negative, got %d", ErrConfiguration, c.N)
	}
	if !c.WindowEnd.After(c.WindowStart) {
		return fmt.Errorf("%w: window end %s not after window start %s",
			ErrConfiguration, c.WindowEnd.Format(time.RFC3339), c.WindowStart.Format(time.RFC3339))
	}
	if len(c.MethodWeights) == 0 {
		return fmt.Errorf("%w: no method weights", ErrConfiguration)
	}
	seen := make(map[PaymentMethod]bool, len(c.MethodWeights))
	sum := 0.0
	for _, mw := range c.MethodWeights {
		if !mw.Method.Valid() {
			return fmt.Errorf("%w: unknown payment method %q", ErrConfiguration, mw.Method)
		}
		if seen[mw.Method] {
			return fmt.Errorf("%w: duplicate weight for method %s", ErrConfiguration, mw.Method)
		}
		seen[mw.Method] = true
		if mw.Weight <= 0 {
			return fmt.Errorf("%w: weight for %s must be positive, got %g", ErrConfiguration, mw.Method, mw.Weight)
		}
		sum += mw.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: method weights sum to %g, want 1", ErrConfiguration, sum)
	}
	if c.AmountSigma <= 0 {
		return fmt.Errorf("%w: amount sigma must be positive, got %g", ErrConfiguration, c.AmountSigma)
	}
	if c.UserIDMin > c.UserIDMax {
		return fmt.Errorf("%w: user id range [%d,%d] is empty", ErrConfiguration, c.UserIDMin, c.UserIDMax)
	}
	if c.PeakHourStart < 0 || c.PeakHourEnd > 24 || c.PeakHourStart >= c.PeakHourEnd {
		return fmt.Errorf("%w: peak hour range [%d,%d) is invalid", ErrConfiguration, c.PeakHourStart, c.PeakHourEnd)
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("%w: noise sigma must be non-negative, got %g", ErrConfiguration, c.NoiseSigma)
	}
	if c.DurationFloor <= 0 {
		return fmt.Errorf("%w: duration floor must be positive, got %g", ErrConfiguration, c.DurationFloor)
	}
	return nil
}

// IsPeakHour reports whether the given hour falls in the peak window.
func (c GeneratorConfig) IsPeakHour(hour int) bool {
	return hour >= c.PeakHourStart && hour < c.PeakHourEnd
}
