package scenario

// PIDGains configures the yaw-rate regulator used by closed-loop
// scenarios. OutMax clamps the steer command symmetrically.
type PIDGains struct {
	Kp, Ki, Kd float64
	OutMax     float64
}

// DefaultPIDGains is tuned for the bicycle model's steer-to-yaw-rate
// plant across the ordinary speed range.
func DefaultPIDGains() PIDGains {
	return PIDGains{Kp: 0.3, Ki: 0.6, Kd: 0.0, OutMax: 0.5}
}

type pid struct {
	gains    PIDGains
	target   float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func newPID(gains PIDGains, target float64) *pid {
	return &pid{gains: gains, target: target, first: true}
}

func (p *pid) compute(measured, t float64) float64 {
	err := p.target - measured

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.clamp(p.gains.Kp * err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.clamp(p.gains.Kp * err)
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt

	p.prevErr = err
	p.prevT = t

	return p.clamp(p.gains.Kp*err + p.gains.Ki*p.integral + p.gains.Kd*derivative)
}

func (p *pid) clamp(u float64) float64 {
	if p.gains.OutMax <= 0 {
		return u
	}
	if u > p.gains.OutMax {
		return p.gains.OutMax
	}
	if u < -p.gains.OutMax {
		return -p.gains.OutMax
	}
	return u
}
