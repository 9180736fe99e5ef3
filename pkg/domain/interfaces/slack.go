package interfaces

import (
	"context"

	"github.com/secmon-lab/aegis/pkg/domain/model"
)

// AttentionNotifier delivers a digest of controls that need attention
type AttentionNotifier interface {
	NotifyAttention(ctx context.Context, org *model.Organization, controls []*model.ScoredControl) error
}
