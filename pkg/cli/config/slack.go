package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	slackSvc "github.com/secmon-lab/defectlens/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack configuration
type Slack struct {
	OAuthToken string
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack bot token used to post digests",
			Category:    "Slack",
			Sources:     cli.EnvVars("DEFECTLENS_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Default channel ID for digests",
			Category:    "Slack",
			Sources:     cli.EnvVars("DEFECTLENS_SLACK_CHANNEL"),
			Destination: &s.Channel,
		},
	}
}

// Configure creates the Slack client
func (s *Slack) Configure() (interfaces.SlackClient, error) {
	if !s.IsConfigured() {
		return nil, goerr.New("Slack is not configured. Please provide DEFECTLENS_SLACK_OAUTH_TOKEN")
	}
	return slackSvc.New(s.OAuthToken), nil
}

// ConfigureOptional creates a Slack client if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) interfaces.SlackClient {
	if !s.IsConfigured() {
		logger.Info("Slack not configured - digest endpoint is disabled")
		return nil
	}

	logger.Info("Configuring Slack client")
	return slackSvc.New(s.OAuthToken)
}

// IsConfigured checks if Slack is configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.Channel),
	)
}
