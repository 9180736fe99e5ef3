package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/scoring"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

var scoreClassColors = map[types.RiskScoreClass]*color.Color{
	types.RiskScoreLow:      color.New(color.FgGreen),
	types.RiskScoreMedium:   color.New(color.FgYellow),
	types.RiskScoreHigh:     color.New(color.FgHiRed),
	types.RiskScoreCritical: color.New(color.FgRed, color.Bold),
}

var bandColors = map[types.RiskBand]*color.Color{
	types.RiskBandVeryLow:  color.New(color.FgGreen),
	types.RiskBandLow:      color.New(color.FgHiGreen),
	types.RiskBandMedium:   color.New(color.FgYellow),
	types.RiskBandHigh:     color.New(color.FgHiRed),
	types.RiskBandCritical: color.New(color.FgRed, color.Bold),
}

func cmdScore() *cli.Command {
	var current, target, weight int
	var probability, impact int

	return &cli.Command{
		Name:  "score",
		Usage: "Compute a control risk score and, with --probability and --impact, a risk level",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "current",
				Usage:       "Current maturity level (0-5)",
				Destination: &current,
			},
			&cli.IntFlag{
				Name:        "target",
				Usage:       "Target maturity level (0-5)",
				Destination: &target,
			},
			&cli.IntFlag{
				Name:        "weight",
				Usage:       "Control weight (1-3)",
				Value:       int(types.DefaultWeight),
				Destination: &weight,
			},
			&cli.IntFlag{
				Name:        "probability",
				Usage:       "Risk probability (1-5)",
				Destination: &probability,
			},
			&cli.IntFlag{
				Name:        "impact",
				Usage:       "Risk impact (1-5)",
				Destination: &impact,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer

			writeRiskScore(w, types.MaturityLevel(current), types.MaturityLevel(target), types.Weight(weight))

			if probability == 0 && impact == 0 {
				return nil
			}
			if probability == 0 || impact == 0 {
				return goerr.New("--probability and --impact must be given together")
			}
			writeRiskLevel(w, types.Probability(probability), types.Impact(impact))
			return nil
		},
	}
}

func writeRiskScore(w io.Writer, current, target types.MaturityLevel, weight types.Weight) {
	score := scoring.CalculateRiskScore(current, target, weight)
	class := scoring.ClassifyRiskScore(score)

	label := class.Label
	if c, ok := scoreClassColors[class.Level]; ok {
		label = c.Sprint(class.Label)
	}
	_, _ = fmt.Fprintf(w, "Risk score: %d %s (gap=%d, weight=%d)\n",
		score, label, scoring.MaturityGap(current, target), weight.Normalize())
}

func writeRiskLevel(w io.Writer, probability types.Probability, impact types.Impact) {
	result := scoring.EvaluateRiskLevel(probability, impact)

	label := result.Label
	if c, ok := bandColors[result.Band]; ok {
		label = c.Sprint(result.Label)
	}
	_, _ = fmt.Fprintf(w, "Risk level: %d %s (probability=%d, impact=%d)\n",
		result.Level, label, probability.Clamp(), impact.Clamp())
}
