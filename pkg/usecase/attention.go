package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/utils/errutil"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

type AttentionUseCase struct {
	orgs     *model.OrganizationRegistry
	control  *ControlUseCase
	notifier interfaces.AttentionNotifier
}

// SendAttentionDigests notifies every organization with a Slack channel about its controls needing attention.
// A failure for one organization does not stop the others; the number of sent digests is returned.
func (uc *AttentionUseCase) SendAttentionDigests(ctx context.Context) (int, error) {
	if uc.notifier == nil {
		return 0, goerr.New("attention notifier is not configured")
	}

	sent := 0
	var lastErr error
	for _, org := range uc.orgs.List() {
		if org.SlackChannel == "" {
			logging.From(ctx).Debug("skip attention digest, no channel", "organization_id", org.ID)
			continue
		}

		controls, err := uc.control.ListAttention(ctx, org.ID)
		if err != nil {
			errutil.Handle(ctx, err, "failed to list controls needing attention")
			lastErr = err
			continue
		}
		if len(controls) == 0 {
			continue
		}

		if err := uc.notifier.NotifyAttention(ctx, org, controls); err != nil {
			errutil.Handle(ctx, err, "failed to send attention digest")
			lastErr = err
			continue
		}
		sent++
	}

	if lastErr != nil && sent == 0 {
		return 0, goerr.Wrap(lastErr, "no attention digest could be sent")
	}
	return sent, nil
}
