package morph

import "math"

// EaseInOut matches CSS ease-in-out.
var EaseInOut = cubicBezier(0.42, 0, 0.58, 1)

// cubicBezier returns the easing function for control points (x1,y1) and
// (x2,y2), solving for the curve parameter by Newton-Raphson with a
// bisection fallback.
func cubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	sample := func(a, b, u float64) float64 {
		return 3*a*u*(1-u)*(1-u) + 3*b*u*u*(1-u) + u*u*u
	}
	slope := func(a, b, u float64) float64 {
		return 3*a*(1-u)*(1-u) + 6*(b-a)*u*(1-u) + 3*(1-b)*u*u
	}
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		u := t
		for i := 0; i < 8; i++ {
			x := sample(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sample(y1, y2, u)
			}
			d := slope(x1, x2, u)
			if math.Abs(d) < 1e-7 {
				break
			}
			u -= x / d
		}
		lo, hi := 0.0, 1.0
		u = t
		for i := 0; i < 20; i++ {
			x := sample(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return sample(y1, y2, u)
	}
}
