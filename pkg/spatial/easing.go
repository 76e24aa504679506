package spatial

import "fmt"

// Easing is the timing curve of an animated move.
type Easing int

const (
	Linear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

// Apply maps normalized time t in [0,1] to animation progress in [0,1].
func (e Easing) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		u := -2*t + 2
		return 1 - u*u/2
	default:
		return t
	}
}

func (e Easing) String() string {
	switch e {
	case Linear:
		return "linear"
	case EaseIn:
		return "ease-in"
	case EaseOut:
		return "ease-out"
	case EaseInOut:
		return "ease-in-out"
	default:
		return fmt.Sprintf("easing(%d)", int(e))
	}
}
