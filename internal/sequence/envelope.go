package sequence

// Keyframe represents a value at time T (seconds) with an easing function
// that applies to the segment starting at this keyframe.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a list of keyframes sorted by T; Eval(t) interpolates a value.
type Envelope struct {
	Keys []Keyframe `yaml:"keys" json:"keys"`
}

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smootherstep (cubic-ish) for ease="cubic"
func smootherstep(x float64) float64 {
	// 6x^5 - 15x^4 + 10x^3
	return x * x * x * (x*(x*6-15) + 10)
}

// Ease maps x in [0,1] through the named curve. Unknown names are linear.
func Ease(kind string, x float64) float64 {
	x = clamp01(x)
	switch kind {
	case "smooth":
		// classic smoothstep 3x^2 - 2x^3
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	default:
		return x
	}
}

// Eval returns the value of the envelope at time t (seconds).
// If there are no keys, returns 0; if one key, returns its value.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if n == 1 || t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	for i := 0; i < n-1; i++ {
		a := e.Keys[i]
		b := e.Keys[i+1]
		if t >= a.T && t <= b.T {
			den := b.T - a.T
			if den <= 0 {
				return b.V
			}
			u := Ease(a.Ease, (t-a.T)/den)
			return a.V + (b.V-a.V)*u
		}
	}
	return e.Keys[n-1].V
}

// Duration is the time of the last key.
func (e Envelope) Duration() float64 {
	if len(e.Keys) == 0 {
		return 0
	}
	return e.Keys[len(e.Keys)-1].T
}
