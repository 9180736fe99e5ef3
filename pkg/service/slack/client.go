package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api    *slack.Client
	apiURL string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithAPIURL overrides the Slack API endpoint, e.g. for a local test server
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{}
	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// PostMessage posts a Block Kit message to a channel
func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post Slack message", goerr.V("channelID", channelID))
	}
	return ts, nil
}
