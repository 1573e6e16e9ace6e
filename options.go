package colorsplash

// Step is the amount a single threshold command moves a bound by.
const Step = 15

// Thresholds is the (low, high) sensitivity pair handed to the edge
// detector. 0 <= Min <= Max <= 255 always holds.
type Thresholds struct {
	Min int
	Max int
}

// Bound selects one side of a Thresholds pair.
type Bound int

const (
	BoundMin Bound = iota
	BoundMax
)

// DefaultThresholds returns the pair a session starts with.
func DefaultThresholds() Thresholds {
	return Thresholds{Min: 120, Max: 210}
}

// NewThresholds builds a valid pair from arbitrary input: both values are
// clamped to [0,255] and swapped if out of order.
func NewThresholds(lo, hi int) Thresholds {
	lo = clampInt(lo, 0, 255)
	hi = clampInt(hi, 0, 255)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Thresholds{Min: lo, Max: hi}
}

// Adjust moves one bound by delta. A step that would take Min outside
// [0, Max] or Max outside [Min, 255] is rejected and t is returned as is.
func (t Thresholds) Adjust(b Bound, delta int) Thresholds {
	switch b {
	case BoundMin:
		if v := t.Min + delta; v >= 0 && v <= t.Max {
			t.Min = v
		}
	case BoundMax:
		if v := t.Max + delta; v >= t.Min && v <= 255 {
			t.Max = v
		}
	}
	return t
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Options struct {
	// Starting edge-detector thresholds.
	Thresholds Thresholds
	// Gaussian pre-blur for the edge detector. 0 disables it.
	Sigma float64
}

func DefaultOptions() Options {
	return Options{
		Thresholds: DefaultThresholds(),
		Sigma:      0,
	}
}
