package app

import (
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/calendar"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/github"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/gmail"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/notion"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/slack"
	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// NewRegistry builds adapters for every provider whose OAuth application is
// configured. Each adapter gets its own HTTP client so retries and logs are
// attributed to the provider.
func NewRegistry(cfg *config.Config, logger *slog.Logger) *provider.Registry {
	client := func(typ domain.IntegrationType) *oauth.Client {
		return oauth.NewClient(typ, cfg.Sync.HTTPTimeout, logger, oauth.WithUserAgent(UserAgent()))
	}
	app := func(c config.OAuthClientConfig) provider.App {
		return provider.App{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURI:  c.RedirectURI,
			PageSize:     cfg.Sync.PageSize,
		}
	}

	var adapters []provider.Adapter
	p := cfg.Providers
	if p.Slack().Configured() {
		adapters = append(adapters, slack.New(client(domain.IntegrationSlack), logger, app(p.Slack())))
	}
	if p.Notion().Configured() {
		adapters = append(adapters, notion.New(client(domain.IntegrationNotion), logger, app(p.Notion())))
	}
	if p.Gmail().Configured() {
		adapters = append(adapters, gmail.New(client(domain.IntegrationGmail), logger, app(p.Gmail()), cfg.Sync.GmailKeywordList()))
	}
	if p.GitHub().Configured() {
		adapters = append(adapters, github.New(client(domain.IntegrationGitHub), logger, app(p.GitHub())))
	}
	if p.Calendar().Configured() {
		adapters = append(adapters, calendar.New(client(domain.IntegrationCalendar), logger, app(p.Calendar())))
	}

	return provider.NewRegistry(adapters...)
}
