package order

import (
	"math"
	"testing"
	"time"
)

func mustNew(t *testing.T, name string, temp Temperature, life, rate float64) *Order {
	t.Helper()
	o, err := New(name, temp, life, rate)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name      string
		orderName string
		temp      Temperature
		life      float64
		rate      float64
	}{
		{"empty name", "", Hot, 100, 0.5},
		{"unknown temperature", "soup", "lukewarm", 100, 0.5},
		{"zero shelf life", "soup", Hot, 0, 0.5},
		{"negative shelf life", "soup", Hot, -1, 0.5},
		{"negative decay rate", "soup", Hot, 100, -0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.orderName, tc.temp, tc.life, tc.rate); err == nil {
				t.Fatal("New: expected error, got nil")
			}
		})
	}
}

func TestID_Stable(t *testing.T) {
	a := mustNew(t, "Banana Split", Frozen, 20, 0.63)
	b := mustNew(t, "Banana Split", Frozen, 20, 0.63)
	if a.ID() != b.ID() {
		t.Errorf("ID: same name hashed to %d and %d", a.ID(), b.ID())
	}
	c := mustNew(t, "Kale Salad", Cold, 180, 0.54)
	if a.ID() == c.ID() {
		t.Errorf("ID: distinct names collided on %d", a.ID())
	}
}

func TestTransition_TargetShelf(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)

	latest := o.Transition(now, false)
	if got := math.Ceil(latest); got != 67 {
		t.Errorf("latest delivery time: ceil(%v) = %v, want 67", latest, got)
	}
}

func TestTransition_OverflowShelf(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)

	latest := o.Transition(now, true)
	if latest != 50 {
		t.Errorf("latest delivery time on overflow: got %v, want 50", latest)
	}
}

func TestTransition_OverflowThenTarget(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)

	o.Transition(now, true)
	// One second on the overflow shelf, then moved back to the target.
	latest := o.Transition(now.Add(time.Second), false)
	if got := math.Ceil(latest); got != 66 {
		t.Errorf("latest delivery time after move: ceil(%v) = %v, want 66", latest, got)
	}
}

func TestTransition_ZeroElapsedIdempotent(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)

	first := o.Transition(now, false)
	v1, _ := o.RemainingValue()
	second := o.Transition(now, false)
	v2, _ := o.RemainingValue()

	if math.Abs(first-second) > 1e-9 {
		t.Errorf("latest delivery time drifted on no-op transition: %v vs %v", first, second)
	}
	if math.Abs(v1-v2) > 1e-9 {
		t.Errorf("remaining value drifted on no-op transition: %v vs %v", v1, v2)
	}
}

func TestNormalizedValue_TargetShelf(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)
	o.Transition(now, false)

	if got := math.Ceil(o.NormalizedValue(now) * 1000); got != 1000 {
		t.Errorf("normalized value at placement: got %v‰, want 1000‰", got)
	}
	if got := math.Ceil(o.NormalizedValue(now.Add(time.Second)) * 1000); got != 985 {
		t.Errorf("normalized value after 1s: got %v‰, want 985‰", got)
	}
}

func TestNormalizedValue_OverflowShelf(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)
	o.Transition(now, true)

	if got := math.Ceil(o.NormalizedValue(now) * 1000); got != 1000 {
		t.Errorf("normalized value at placement: got %v‰, want 1000‰", got)
	}
	if got := math.Ceil(o.NormalizedValue(now.Add(time.Second)) * 1000); got != 980 {
		t.Errorf("normalized value after 1s: got %v‰, want 980‰", got)
	}
}

func TestLatestDeliveryTime_StrictlyDecreasing(t *testing.T) {
	now := time.Now()
	o := mustNew(t, "soup", Hot, 100, 0.5)
	o.Transition(now, false)

	prev := o.LatestDeliveryTime(now)
	for i := 1; i <= 5; i++ {
		cur := o.LatestDeliveryTime(now.Add(time.Duration(i) * time.Second))
		if cur >= prev {
			t.Fatalf("latest delivery time did not decrease: %v then %v", prev, cur)
		}
		prev = cur
	}
}
