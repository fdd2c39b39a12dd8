package wiring

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/printhooks/internal/infrastructure/config"
	"github.com/felixgeelhaar/printhooks/pkg/application"
	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/felixgeelhaar/printhooks/pkg/infrastructure/host"
	"github.com/felixgeelhaar/printhooks/pkg/infrastructure/push"
	"github.com/felixgeelhaar/printhooks/pkg/infrastructure/templates"
)

// AppServices exposes the application services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Config    *config.Config
	Logger    *slog.Logger
	Catalog   *templates.Catalog
	Profiles  *application.ProfileService
	TestFire  *application.TestFireService
	Host      *host.Client
	Hub       *notify.Hub
}

// BuildAppServices loads the config and draft under root, fetches the
// template catalog and wires the save-and-test workflow against the host.
// Logs are written to logOut.
func BuildAppServices(ctx context.Context, root string, logOut io.Writer) (*AppServices, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.LogLevel, logOut)

	workspace := NewWorkspace(root)
	if err := workspace.Repo.Initialize(); err != nil {
		return nil, err
	}

	loader := templates.NewLoader(TemplateSource(cfg), nil, cfg.Templates.FetchTimeout, logger)
	catalog := loader.Load(ctx)
	if catalog.Len() == 0 {
		logger.Warn("no templates available", "source", cfg.Templates.Source)
	}

	profiles, err := application.LoadProfileService(workspace.Repo, catalog, logger)
	if err != nil {
		return nil, err
	}

	client := host.NewClient(cfg.Host.URL, cfg.Host.APIKey, cfg.Host.PluginID, cfg.Host.Timeout)
	hub := notify.NewHub(cfg.Host.PluginID)
	testFire, err := application.NewTestFireService(profiles, client, client, hub, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build test-fire workflow: %w", err)
	}

	return &AppServices{
		Workspace: workspace,
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Profiles:  profiles,
		TestFire:  testFire,
		Host:      client,
		Hub:       hub,
	}, nil
}

// TemplateSource returns the catalog source selected by cfg.
func TemplateSource(cfg *config.Config) templates.Source {
	switch cfg.Templates.Source {
	case config.SourceDir:
		return templates.DirSource{Dir: cfg.Templates.Dir}
	case config.SourceHTTP:
		return templates.NewHTTPSource(cfg.Host.URL)
	default:
		return templates.EmbeddedSource{}
	}
}

// PushClient returns a push socket client for the configured host.
func (s *AppServices) PushClient() *push.Client {
	return push.NewClient(s.Config.Host.URL, s.Config.Host.PushAuth, s.Logger)
}
