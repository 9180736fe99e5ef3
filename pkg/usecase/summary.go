package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

type SummaryUseCase struct {
	repo    interfaces.Repository
	orgs    *model.OrganizationRegistry
	catalog *model.Catalog
}

// GetSummary aggregates maturity per framework and the risk register of an organization
func (uc *SummaryUseCase) GetSummary(ctx context.Context, orgID types.OrganizationID) (*model.Summary, error) {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}

	var (
		assessments []*model.Assessment
		risks       []*model.Risk
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		list, err := uc.repo.Assessment().List(egCtx, orgID)
		if err != nil {
			return goerr.Wrap(err, "failed to list assessments", goerr.V(OrganizationIDKey, orgID))
		}
		assessments = list
		return nil
	})
	eg.Go(func() error {
		list, err := uc.repo.Risk().List(egCtx, orgID)
		if err != nil {
			return goerr.Wrap(err, "failed to list risks", goerr.V(OrganizationIDKey, orgID))
		}
		risks = list
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	byControl := make(map[types.ControlID]*model.Assessment, len(assessments))
	for _, a := range assessments {
		byControl[a.ControlID] = a
	}

	summary := &model.Summary{
		OrganizationID: orgID,
		Frameworks:     make([]*model.FrameworkSummary, 0, len(org.Frameworks)),
		Risks:          summarizeRisks(risks),
	}
	for _, f := range org.Frameworks {
		if _, err := uc.catalog.Framework(f); err != nil {
			continue
		}
		fs, attention := summarizeFramework(f, uc.catalog.Controls(f), byControl)
		summary.Frameworks = append(summary.Frameworks, fs)
		summary.AttentionCount += attention
	}

	return summary, nil
}

func summarizeFramework(framework types.FrameworkID, controls []*model.Control, byControl map[types.ControlID]*model.Assessment) (*model.FrameworkSummary, int) {
	fs := &model.FrameworkSummary{
		FrameworkID:      framework,
		ControlCount:     len(controls),
		ScoreClassCounts: make(map[types.RiskScoreClass]int),
	}
	for _, class := range types.AllRiskScoreClasses() {
		fs.ScoreClassCounts[class] = 0
	}

	var (
		attention       int
		maturitySum     float64
		targetSum       float64
		maturityCount   int
		complianceSum   float64
		complianceCount int
	)
	for _, ctrl := range controls {
		assessment := byControl[ctrl.ID]
		sc := model.NewScoredControl(ctrl, assessment)
		fs.ScoreClassCounts[sc.Score.Classification.Level]++
		if needsAttention(sc) {
			attention++
		}

		if assessment == nil {
			continue
		}
		fs.AssessedCount++

		ratio, included := assessment.Status.ComplianceRatio()
		if !included {
			continue
		}
		maturitySum += float64(assessment.MaturityLevel)
		targetSum += float64(assessment.TargetMaturity)
		maturityCount++
		complianceSum += ratio
		complianceCount++
	}

	if maturityCount > 0 {
		fs.AverageMaturity = model.Round2(maturitySum / float64(maturityCount))
		fs.AverageTarget = model.Round2(targetSum / float64(maturityCount))
	}
	if complianceCount > 0 {
		fs.CompliancePercent = model.Round2(complianceSum / float64(complianceCount) * 100)
	}
	return fs, attention
}

func summarizeRisks(risks []*model.Risk) model.RiskRegisterSummary {
	rs := model.RiskRegisterSummary{
		Total:         len(risks),
		InherentBands: make(map[types.RiskBand]int),
		ResidualBands: make(map[types.RiskBand]int),
	}
	for _, band := range types.AllRiskBands() {
		rs.InherentBands[band] = 0
		rs.ResidualBands[band] = 0
	}

	var inherentSum, effectiveSum float64
	for _, r := range risks {
		inherent := r.InherentLevel()
		rs.InherentBands[inherent.Band]++
		if residual := r.ResidualLevel(); residual != nil {
			rs.ResidualBands[residual.Band]++
		}
		inherentSum += float64(inherent.Level)
		effectiveSum += float64(r.EffectiveLevel().Level)
	}

	rs.Reduction = model.ComputeTrend(inherentSum, effectiveSum)
	return rs
}
