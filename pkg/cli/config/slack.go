package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/service/slack"
	"github.com/secmon-lab/aegis/pkg/service/worker"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for attention alerts
type Slack struct {
	botToken       string
	apiURL         string
	baseURL        string
	digestInterval time.Duration
	maxControls    int
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (enables attention alerts)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("AEGIS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Override the Slack API endpoint",
			Category:    "Slack",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("AEGIS_SLACK_API_URL"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL linked from alerts (e.g., https://aegis.example.com)",
			Category:    "Slack",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("AEGIS_BASE_URL"),
		},
		&cli.DurationFlag{
			Name:        "digest-interval",
			Usage:       "Interval of the attention digest",
			Value:       worker.DefaultDigestInterval,
			Category:    "Slack",
			Destination: &x.digestInterval,
			Sources:     cli.EnvVars("AEGIS_DIGEST_INTERVAL"),
		},
		&cli.IntFlag{
			Name:        "digest-max-controls",
			Usage:       "Maximum number of controls listed in one alert (capped at 46)",
			Value:       slack.DefaultMaxDigestControls,
			Category:    "Slack",
			Destination: &x.maxControls,
			Sources:     cli.EnvVars("AEGIS_DIGEST_MAX_CONTROLS"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("base-url", x.baseURL),
		slog.Duration("digest-interval", x.digestInterval),
	)
}

// IsConfigured reports whether a bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// DigestInterval returns the interval of the attention digest worker
func (x *Slack) DigestInterval() time.Duration {
	return x.digestInterval
}

// Configure creates the attention notifier. It returns nil when no bot token is set.
func (x *Slack) Configure() (*slack.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	var opts []slack.Option
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}
	svc, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}

	return slack.NewNotifier(svc,
		slack.WithBaseURL(x.baseURL),
		slack.WithMaxDigestControls(x.maxControls),
	), nil
}
