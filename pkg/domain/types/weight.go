package types

// Weight is the criticality multiplier of a control (1-3). Zero means "not set".
type Weight int

const (
	DefaultWeight Weight = 1
	MinWeight     Weight = 1
	MaxWeight     Weight = 3
)

// IsValid reports whether the weight is unset or within [1,3]
func (w Weight) IsValid() bool {
	return w == 0 || (w >= MinWeight && w <= MaxWeight)
}

// Normalize returns the weight used for scoring: unset becomes DefaultWeight, others are clamped to [1,3].
func (w Weight) Normalize() Weight {
	switch {
	case w <= 0:
		return DefaultWeight
	case w > MaxWeight:
		return MaxWeight
	default:
		return w
	}
}
