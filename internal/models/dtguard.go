package models

// DtBounds is the stable fixed-step range of a model. Step sizes outside
// the band make the fixed-step ODE blow up, so the guard clamps them and
// reports that it did: callers get warned, never silently corrected.
type DtBounds struct {
	Min, Max float64
}

var stableDt = map[string]DtBounds{
	ModelUnicycle: {Min: 0.005, Max: 0.05},
	ModelBicycle:  {Min: 0.002, Max: 0.02},
}

// StableDtBounds returns the stable step band for a model id.
func StableDtBounds(id string) (DtBounds, bool) {
	b, ok := stableDt[id]
	return b, ok
}

// EnforceDtBounds clamps dt into the model's stable band. The returned
// flag is true iff the input was outside the band. Unknown ids pass
// through unchanged.
func EnforceDtBounds(id string, dt float64) (float64, bool) {
	b, ok := stableDt[id]
	if !ok {
		return dt, false
	}
	if dt < b.Min {
		return b.Min, true
	}
	if dt > b.Max {
		return b.Max, true
	}
	return dt, false
}
