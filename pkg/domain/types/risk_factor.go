package types

// Probability is the 1-5 likelihood of a risk materializing
type Probability int

// Impact is the 1-5 severity of a materialized risk
type Impact int

const (
	MinRiskFactor = 1
	MaxRiskFactor = 5
)

// IsValid reports whether the probability is within [1,5]
func (p Probability) IsValid() bool {
	return p >= MinRiskFactor && p <= MaxRiskFactor
}

// Clamp bounds the probability to [1,5]
func (p Probability) Clamp() Probability {
	return Probability(clampFactor(int(p)))
}

// IsValid reports whether the impact is within [1,5]
func (i Impact) IsValid() bool {
	return i >= MinRiskFactor && i <= MaxRiskFactor
}

// Clamp bounds the impact to [1,5]
func (i Impact) Clamp() Impact {
	return Impact(clampFactor(int(i)))
}

func clampFactor(v int) int {
	if v < MinRiskFactor {
		return MinRiskFactor
	}
	if v > MaxRiskFactor {
		return MaxRiskFactor
	}
	return v
}
