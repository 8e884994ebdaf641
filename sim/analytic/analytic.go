// Package analytic provides closed-form steady-state measures for the M/M/1
// and M/M/1/K queues, used as reference values for simulated estimates.
package analytic

import (
	"bytes"
	"fmt"
	"math"
)

// MM1MeanInSystem returns rho/(1-rho), the mean number of packets in an M/M/1
// system. Returns +Inf when rho >= 1 (no steady state).
func MM1MeanInSystem(rho float64) float64 {
	if rho >= 1 {
		return math.Inf(1)
	}
	return rho / (1 - rho)
}

// MM1IdleProbability returns 1-rho, the probability an M/M/1 system is empty.
// Returns 0 when rho >= 1.
func MM1IdleProbability(rho float64) float64 {
	if rho >= 1 {
		return 0
	}
	return 1 - rho
}

// MM1K is an M/M/1/K queue. K is the maximum number of packets in the
// system, including the one in service. All measures are closed form, so
// cost does not grow with K.
type MM1K struct {
	Rho float64
	K   int
}

// NewMM1K returns the M/M/1/K queue for traffic intensity rho (> 0) and
// capacity k (>= 0).
func NewMM1K(rho float64, k int) *MM1K {
	if k < 0 {
		panic(fmt.Sprintf("NewMM1K: k must be >= 0, got %d", k))
	}
	if !(rho > 0) {
		panic(fmt.Sprintf("NewMM1K: rho must be > 0, got %v", rho))
	}
	return &MM1K{Rho: rho, K: k}
}

// Probability returns the stationary probability of n packets in the system.
// It is 0 outside 0..K.
func (m *MM1K) Probability(n int) float64 {
	if n < 0 || n > m.K {
		return 0
	}
	k := float64(m.K)
	switch {
	case m.Rho == 1:
		return 1 / (k + 1)
	case m.Rho < 1:
		p0 := (1 - m.Rho) / (1 - math.Pow(m.Rho, k+1))
		return p0 * math.Pow(m.Rho, float64(n))
	default:
		// Expand from the top with r = 1/rho so rho^K never overflows.
		r := 1 / m.Rho
		pk := (1 - r) / (1 - math.Pow(r, k+1))
		return pk * math.Pow(r, float64(m.K-n))
	}
}

// MeanInSystem returns the expected number of packets in the system.
func (m *MM1K) MeanInSystem() float64 {
	k := float64(m.K)
	switch {
	case m.Rho == 1:
		return k / 2
	case m.Rho < 1:
		return truncatedGeometricMean(m.Rho, k)
	default:
		// K - N is truncated geometric with ratio 1/rho.
		return k - truncatedGeometricMean(1/m.Rho, k)
	}
}

// truncatedGeometricMean is the mean of N on 0..k with P(N=n) proportional
// to x^n, for 0 < x < 1.
func truncatedGeometricMean(x, k float64) float64 {
	xk1 := math.Pow(x, k+1)
	return x/(1-x) - (k+1)*xk1/(1-xk1)
}

// IdleProbability returns the probability the system is empty.
func (m *MM1K) IdleProbability() float64 {
	return m.Probability(0)
}

// BlockingProbability returns P[K], the probability an arrival finds the
// buffer full and is dropped (PASTA).
func (m *MM1K) BlockingProbability() float64 {
	return m.Probability(m.K)
}

func (m *MM1K) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "MM1K: rho=%v; K=%d; L=%.4f; P0=%.4f; PK=%.4f", m.Rho, m.K,
		m.MeanInSystem(), m.IdleProbability(), m.BlockingProbability())
	return b.String()
}

// Measures are the reference steady-state values for one configuration.
// Stable is false for an unbounded queue with rho >= 1; the other fields are
// then zero.
type Measures struct {
	Stable          bool    `json:"stable"`
	MeanInSystem    float64 `json:"mean_in_system"`
	IdleProbability float64 `json:"idle_probability"`
	DropProbability float64 `json:"drop_probability"`
}

// Solve returns reference measures for traffic intensity rho. unbounded
// selects M/M/1; otherwise the M/M/1/K queue with capacity k is solved.
func Solve(rho float64, k int, unbounded bool) Measures {
	if unbounded {
		if rho >= 1 {
			return Measures{}
		}
		return Measures{
			Stable:          true,
			MeanInSystem:    MM1MeanInSystem(rho),
			IdleProbability: MM1IdleProbability(rho),
		}
	}
	m := NewMM1K(rho, k)
	return Measures{
		Stable:          true,
		MeanInSystem:    m.MeanInSystem(),
		IdleProbability: m.IdleProbability(),
		DropProbability: m.BlockingProbability(),
	}
}
