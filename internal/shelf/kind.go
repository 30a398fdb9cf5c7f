package shelf

import (
	"fmt"
	"strings"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
)

// Kind names one holding area: the three temperature shelves plus the shared
// overflow shelf. Pending is not a shelf — it is the location-index sentinel
// for an accepted order that has not been placed yet.
type Kind string

const (
	Hot      Kind = "hot"
	Cold     Kind = "cold"
	Frozen   Kind = "frozen"
	Overflow Kind = "overflow"
	Pending  Kind = "pending"
)

// Kinds lists the physical shelves, overflow last.
func Kinds() []Kind {
	return []Kind{Hot, Cold, Frozen, Overflow}
}

// ParseKind converts a wire string into a shelf Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case Hot:
		return Hot, nil
	case Cold:
		return Cold, nil
	case Frozen:
		return Frozen, nil
	case Overflow:
		return Overflow, nil
	default:
		return "", fmt.Errorf("shelf: unknown kind %q", s)
	}
}

// TargetKind maps an order's temperature to the shelf it belongs on.
func TargetKind(t order.Temperature) Kind {
	switch t {
	case order.Hot:
		return Hot
	case order.Cold:
		return Cold
	default:
		return Frozen
	}
}
