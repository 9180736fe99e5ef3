package model

import (
	"math"

	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// FrameworkSummary aggregates the maturity of one framework's controls in one organization
type FrameworkSummary struct {
	FrameworkID       types.FrameworkID
	ControlCount      int
	AssessedCount     int
	AverageMaturity   float64
	AverageTarget     float64
	CompliancePercent float64
	ScoreClassCounts  map[types.RiskScoreClass]int
}

// RiskRegisterSummary counts risks per band before and after treatment
type RiskRegisterSummary struct {
	Total         int
	InherentBands map[types.RiskBand]int
	ResidualBands map[types.RiskBand]int
	Reduction     Trend
}

// Summary is the organization dashboard aggregate
type Summary struct {
	OrganizationID types.OrganizationID
	Frameworks     []*FrameworkSummary
	AttentionCount int
	Risks          RiskRegisterSummary
}

// TrendDirection is the sign of a change between two values
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Trend describes a change from one value to another, rounded to two decimals
type Trend struct {
	From         float64
	To           float64
	DeltaScore   float64
	DeltaPercent float64
	Direction    TrendDirection
}

const trendEpsilon = 0.00001

// ComputeTrend returns the change from prev to curr. DeltaPercent is 0 when prev is 0.
func ComputeTrend(prev, curr float64) Trend {
	d := curr - prev

	dir := TrendFlat
	if d > trendEpsilon {
		dir = TrendUp
	} else if d < -trendEpsilon {
		dir = TrendDown
	}

	dp := 0.0
	if math.Abs(prev) > trendEpsilon {
		dp = (d / prev) * 100.0
	}

	return Trend{
		From:         Round2(prev),
		To:           Round2(curr),
		DeltaScore:   Round2(d),
		DeltaPercent: Round2(dp),
		Direction:    dir,
	}
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
