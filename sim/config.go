package sim

import (
	"errors"
	"fmt"
	"math"
)

// Unbounded is the Capacity sentinel for an infinite buffer (M/M/1).
const Unbounded = math.MaxInt

// DefaultObserverFactor is the ratio alpha/lambda used when a configuration
// is derived from a traffic intensity.
const DefaultObserverFactor = 5.0

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config groups the parameters of a single simulation run.
type Config struct {
	Horizon      float64 `json:"horizon"`       // simulated time in seconds (must be > 0)
	Alpha        float64 `json:"alpha"`         // observation rate, samples per second (must be > 0)
	Lambda       float64 `json:"lambda"`        // packet arrival rate, packets per second (must be > 0)
	PacketLength float64 `json:"packet_length"` // L: mean packet length in bits (must be > 0)
	LinkRate     float64 `json:"link_rate"`     // C: transmission rate in bits per second (must be > 0)
	Capacity     int     `json:"capacity"`      // K: max packets in system; Unbounded for an infinite buffer
	BatchSize    int     `json:"batch_size"`    // variates per timeline refill; <= 0 selects DefaultBatchSize
	Seed         int64   `json:"seed"`          // master seed for the run's random streams
}

// NewConfigForIntensity derives arrival and observation rates from a target
// traffic intensity rho = Lambda * PacketLength / LinkRate.
// alpha is observerFactor * lambda; observerFactor <= 0 selects DefaultObserverFactor.
func NewConfigForIntensity(horizon, rho, packetLength, linkRate float64, capacity int, observerFactor float64) Config {
	if observerFactor <= 0 {
		observerFactor = DefaultObserverFactor
	}
	lambda := rho * linkRate / packetLength
	return Config{
		Horizon:      horizon,
		Alpha:        observerFactor * lambda,
		Lambda:       lambda,
		PacketLength: packetLength,
		LinkRate:     linkRate,
		Capacity:     capacity,
	}
}

// ServiceRate returns mu = LinkRate / PacketLength, in packets per second.
func (c Config) ServiceRate() float64 {
	return c.LinkRate / c.PacketLength
}

// TrafficIntensity returns rho = Lambda / ServiceRate.
func (c Config) TrafficIntensity() float64 {
	return c.Lambda / c.ServiceRate()
}

// IsUnbounded reports whether the buffer is infinite.
func (c Config) IsUnbounded() bool {
	return c.Capacity == Unbounded
}

// Validate checks every parameter and returns all violations joined.
// Each violation wraps ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 1) {
			errs = append(errs, fmt.Errorf("%w: %s must be a positive finite number, got %v", ErrInvalidConfig, name, v))
		}
	}
	positive("horizon", c.Horizon)
	positive("alpha", c.Alpha)
	positive("lambda", c.Lambda)
	positive("packet length", c.PacketLength)
	positive("link rate", c.LinkRate)
	if c.PacketLength > 0 && c.LinkRate > 0 {
		// each factor can be valid while the ratio overflows or underflows
		positive("service rate", c.ServiceRate())
	}
	if c.Capacity < 0 {
		errs = append(errs, fmt.Errorf("%w: capacity must be >= 0, got %d", ErrInvalidConfig, c.Capacity))
	}
	return errors.Join(errs...)
}
