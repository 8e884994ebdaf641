package sim

import (
	"fmt"
	"math"
	"sync"
)

// UniformSource produces uniform draws in [0, 1). *rand.Rand satisfies it.
type UniformSource interface {
	Float64() float64
}

// Exponential returns an exponential variate with the given rate (mean 1/rate).
//
// The uniform draw is mapped to (0, 1] before taking the logarithm, so the
// result is always finite and may be arbitrarily close to zero. Exactly one
// value is consumed from src.
//
// Panics if rate is not a positive finite number.
func Exponential(src UniformSource, rate float64) float64 {
	if !(rate > 0) || math.IsInf(rate, 1) {
		panic(fmt.Sprintf("Exponential: rate must be a positive finite number, got %v", rate))
	}
	u := 1 - src.Float64()
	return -math.Log(u) / rate
}

// LockedSource serializes access to a UniformSource so that a single stream
// can be shared by simulators running on different goroutines.
// The interleaving of draws between goroutines is not deterministic.
type LockedSource struct {
	mu  sync.Mutex
	src UniformSource
}

// NewLockedSource wraps src. src must not be used directly afterwards.
func NewLockedSource(src UniformSource) *LockedSource {
	if src == nil {
		panic("NewLockedSource: src must not be nil")
	}
	return &LockedSource{src: src}
}

// Float64 implements UniformSource.
func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
