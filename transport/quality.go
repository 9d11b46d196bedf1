package transport

// Quality is a display-only label derived from buffer health.
type Quality int

const (
	Poor Quality = iota
	Fair
	Good
	Excellent
)

func (q Quality) String() string {
	switch q {
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Fair:
		return "Fair"
	default:
		return "Poor"
	}
}

// Thresholds are the exclusive lower bounds, in buffer percent, of each label above Poor.
type Thresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultThresholds returns the >80 / >60 / >30 mapping.
func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 80, Good: 60, Fair: 30}
}

// Classify maps a buffer percentage to a label.
func (t Thresholds) Classify(percent float64) Quality {
	switch {
	case percent > t.Excellent:
		return Excellent
	case percent > t.Good:
		return Good
	case percent > t.Fair:
		return Fair
	default:
		return Poor
	}
}
