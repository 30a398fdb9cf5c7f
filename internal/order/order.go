package order

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Temperature is the storage class an order belongs to. It names the target
// shelf the order should sit on while waiting for pickup.
type Temperature string

const (
	Hot    Temperature = "hot"
	Cold   Temperature = "cold"
	Frozen Temperature = "frozen"
)

// ParseTemperature converts a wire string into a Temperature.
func ParseTemperature(s string) (Temperature, error) {
	switch Temperature(strings.ToLower(s)) {
	case Hot:
		return Hot, nil
	case Cold:
		return Cold, nil
	case Frozen:
		return Frozen, nil
	default:
		return "", fmt.Errorf("order: unknown temperature %q", s)
	}
}

// Order is one perishable order tracked by the kitchen.
//
// The value fields form a unit: remaining, PlacedAt, OnOverflow and DecayAt
// are only coherent immediately after a Transition, and all mutation happens
// under the write lock of the shelf holding the order. At any other time the
// current value must be derived from elapsed time via NormalizedValue, never
// read back from remaining.
type Order struct {
	Name      string
	Temp      Temperature
	ShelfLife float64 // seconds of freshness at decay rate zero
	DecayRate float64 // per-second decay coefficient on the target shelf

	remaining  float64 // residual value at the last transition
	placed     bool    // false until the first Transition
	PlacedAt   time.Time
	OnOverflow bool
	DecayAt    time.Time
}

// New builds a validated Order. Orders with a non-positive shelf life or a
// negative decay rate never reach the placement engine.
func New(name string, temp Temperature, shelfLife, decayRate float64) (*Order, error) {
	if name == "" {
		return nil, fmt.Errorf("order: name must not be empty")
	}
	switch temp {
	case Hot, Cold, Frozen:
	default:
		return nil, fmt.Errorf("order: unknown temperature %q", temp)
	}
	if shelfLife <= 0 {
		return nil, fmt.Errorf("order: shelf life %v must be positive", shelfLife)
	}
	if decayRate < 0 {
		return nil, fmt.Errorf("order: decay rate %v must not be negative", decayRate)
	}
	return &Order{Name: name, Temp: temp, ShelfLife: shelfLife, DecayRate: decayRate}, nil
}

// ID is the stable 64-bit FNV-1a hash of the order name, used as the cache
// key everywhere.
func (o *Order) ID() uint64 {
	h := fnv.New64a()
	h.Write([]byte(o.Name)) //nolint:errcheck
	return h.Sum64()
}

// effectiveRate is the decay coefficient at the shelf currently holding the
// order: doubled while on overflow.
func (o *Order) effectiveRate() float64 {
	if o.OnOverflow {
		return 2 * o.DecayRate
	}
	return o.DecayRate
}

// Transition records a shelf placement or move at time now and returns the
// projected latest delivery time in seconds under the new shelf's rate.
//
// The residual value loses elapsed*(1+rate) where rate is the effective rate
// at the shelf being left; the rate at the new shelf only shapes the
// projection, never the already-elapsed segment. A second Transition with
// zero elapsed time leaves the residual value unchanged.
func (o *Order) Transition(now time.Time, toOverflow bool) float64 {
	if !o.placed {
		o.remaining = o.ShelfLife
		o.placed = true
	} else {
		elapsed := now.Sub(o.PlacedAt).Seconds()
		o.remaining -= elapsed * (1 + o.effectiveRate())
	}
	o.PlacedAt = now
	o.OnOverflow = toOverflow

	latest := o.remaining / (1 + o.effectiveRate())
	o.DecayAt = now.Add(time.Duration(latest * float64(time.Second)))
	return latest
}

// NormalizedValue is the fraction of life remaining at time now, nominally in
// [0, 1]. Slight overshoot above 1.0 right after a Transition is tolerated
// by callers (floating-point timing).
func (o *Order) NormalizedValue(now time.Time) float64 {
	return o.DecayAt.Sub(now).Seconds() * (1 + o.effectiveRate()) / o.ShelfLife
}

// LatestDeliveryTime is the projected seconds until the order's value reaches
// zero under the current shelf's effective rate, measured from now.
func (o *Order) LatestDeliveryTime(now time.Time) float64 {
	return o.DecayAt.Sub(now).Seconds()
}

// RemainingValue reports the residual value recorded at the last transition.
// The boolean is false for an order that was never placed.
func (o *Order) RemainingValue() (float64, bool) {
	return o.remaining, o.placed
}
