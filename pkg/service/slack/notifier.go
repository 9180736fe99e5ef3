package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/slack-go/slack"
)

const (
	// DefaultMaxDigestControls bounds the controls listed in one digest message.
	DefaultMaxDigestControls = 40

	// maxMessageBlocks is Slack's block limit for one message
	maxMessageBlocks = 50

	// digestFrameBlocks counts the header, summary, divider and footer blocks of a digest
	digestFrameBlocks = 4

	// MaxDigestControls is the largest limit that keeps a digest within maxMessageBlocks
	MaxDigestControls = maxMessageBlocks - digestFrameBlocks

	// maxSectionTextBytes keeps section text under Slack's 3000 character limit
	maxSectionTextBytes = 2900
)

// Notifier posts attention digests to the Slack channel of an organization
type Notifier struct {
	svc         Service
	baseURL     string
	maxControls int
}

var _ interfaces.AttentionNotifier = &Notifier{}

type NotifierOption func(*Notifier)

// WithBaseURL adds links to the organization's controls view
func WithBaseURL(baseURL string) NotifierOption {
	return func(n *Notifier) {
		n.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMaxDigestControls sets the number of controls listed before the digest is cut off.
// Limits above MaxDigestControls are lowered to it.
func WithMaxDigestControls(limit int) NotifierOption {
	return func(n *Notifier) {
		if limit > 0 {
			n.maxControls = min(limit, MaxDigestControls)
		}
	}
}

func NewNotifier(svc Service, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		svc:         svc,
		maxControls: DefaultMaxDigestControls,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyAttention posts one digest message. Organizations without a channel and empty digests are skipped.
func (n *Notifier) NotifyAttention(ctx context.Context, org *model.Organization, controls []*model.ScoredControl) error {
	if org.SlackChannel == "" || len(controls) == 0 {
		return nil
	}

	blocks := n.buildDigestBlocks(org, controls)
	fallback := fmt.Sprintf("%s: %d controls need attention", org.Name, len(controls))
	if _, err := n.svc.PostMessage(ctx, org.SlackChannel, blocks, fallback); err != nil {
		return goerr.Wrap(err, "failed to post attention digest",
			goerr.V("organization_id", org.ID), goerr.V("channel", org.SlackChannel))
	}
	return nil
}

func (n *Notifier) buildDigestBlocks(org *model.Organization, controls []*model.ScoredControl) []slack.Block {
	counts := make(map[types.RiskScoreClass]int)
	for _, c := range controls {
		counts[c.Score.Classification.Level]++
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "Controls needing attention: "+org.Name, true, false),
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%s %d critical  |  %s %d high",
					classEmoji(types.RiskScoreCritical), counts[types.RiskScoreCritical],
					classEmoji(types.RiskScoreHigh), counts[types.RiskScoreHigh]),
				false, false),
		),
		slack.NewDividerBlock(),
	}

	shown := controls
	if len(shown) > n.maxControls {
		shown = shown[:n.maxControls]
	}
	for _, c := range shown {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(formatControl(c), maxSectionTextBytes), false, false),
			nil, nil,
		))
	}

	footer := []string{}
	if rest := len(controls) - len(shown); rest > 0 {
		footer = append(footer, fmt.Sprintf("and %d more", rest))
	}
	if n.baseURL != "" {
		footer = append(footer, fmt.Sprintf(":link: <%s/organizations/%s/controls|Open controls>", n.baseURL, org.ID))
	}
	if len(footer) > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(footer, "  |  "), false, false),
		))
	}

	return blocks
}

func formatControl(c *model.ScoredControl) string {
	var current, target types.MaturityLevel
	if c.Assessment != nil {
		current = c.Assessment.MaturityLevel
		target = c.Assessment.TargetMaturity
	}
	return fmt.Sprintf("%s *%s* %s\nScore %d (%s)  |  Maturity %d/%d  |  Weight %d",
		classEmoji(c.Score.Classification.Level), c.Control.Code, c.Control.Name,
		c.Score.Score, c.Score.Classification.Label, current, target, c.Control.Weight.Normalize())
}

func classEmoji(class types.RiskScoreClass) string {
	switch class {
	case types.RiskScoreCritical:
		return ":red_circle:"
	case types.RiskScoreHigh:
		return ":large_orange_circle:"
	case types.RiskScoreMedium:
		return ":large_yellow_circle:"
	default:
		return ":large_green_circle:"
	}
}

// truncateToMaxBytes cuts s at a rune boundary so that the result fits in maxBytes
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "..."
	cut := maxBytes - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
