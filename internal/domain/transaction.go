package domain

import (
	"fmt"
	"time"
)

// PaymentMethod identifies one of the supported mobile-money transfer types.
// The set is closed: the generator, the feature encoder and the storage
// backends all rely on exactly these four values.
type PaymentMethod string

// Payment method constants.
const (
	MethodDirectSend      PaymentMethod = "DirectSend"
	MethodTillNumber      PaymentMethod = "TillNumber"
	MethodPaybill         PaymentMethod = "Paybill"
	MethodPochiLaBiashara PaymentMethod = "PochiLaBiashara"
)

// Methods returns all payment methods in canonical order.
// The order is part of the sampling contract: categorical draws walk the
// cumulative weights in this order.
func Methods() []PaymentMethod {
	return []PaymentMethod{
		MethodDirectSend,
		MethodTillNumber,
		MethodPaybill,
		MethodPochiLaBiashara,
	}
}

// ReferenceMethod is the category absorbed into the regression intercept.
// It receives no indicator column during encoding.
const ReferenceMethod = MethodDirectSend

// Valid reports whether m is one of the four supported methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodDirectSend, MethodTillNumber, MethodPaybill, MethodPochiLaBiashara:
		return true
	}
	return false
}

// ParseMethod converts a stored string into a PaymentMethod.
func ParseMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrConfiguration, s)
	}
	return m, nil
}

// BaseDuration returns the ground-truth mean processing time in seconds
// attributed to the method before amount, time-of-day and noise adjustments.
func (m PaymentMethod) BaseDuration() float64 {
	switch m {
	case MethodDirectSend:
		return 10
	case MethodTillNumber:
		return 15
	case MethodPaybill:
		return 20
	case MethodPochiLaBiashara:
		return 30
	}
	panic("domain: invalid payment method " + string(m))
}

// Transaction is one synthetic mobile-payment event. Records are created
// once by the generator and never mutated afterwards.
type Transaction struct {
	StartTime time.Time     // uniformly drawn within the simulation window, UTC
	EndTime   time.Time     // StartTime + Duration, derived
	Method    PaymentMethod // categorical, closed set
	Amount    float64       // currency value, log-normal, strictly positive
	UserID    int           // uniform over the id range, not part of the duration model
	TimeOfDay int           // hour component of StartTime, 0-23
	Duration  float64       // processing time in seconds, floor-clamped
}

// DurationDelta converts a duration in seconds into the time.Duration that
// is added to StartTime to produce EndTime. Both the generator and the
// invariants tests go through this single conversion so the
// end_time == start_time + duration identity holds exactly.
func DurationDelta(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
