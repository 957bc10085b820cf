// Command trawl is a streaming torrent search client.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/trawl/internal/adapters/driven/api"
	"github.com/custodia-labs/trawl/internal/adapters/driven/config/file"
	"github.com/custodia-labs/trawl/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/trawl/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/trawl/internal/adapters/driving/cli"
	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/services"
	"github.com/custodia-labs/trawl/internal/logger"
)

// version is set at build time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBuilder(build)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// build wires the driven adapters into the core services.
func build(opts cli.Options) (*cli.Services, func(), error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		dir, err = file.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}
	if opts.Server != "" {
		settings.Server.BaseURL = opts.Server
	}

	var (
		source  driven.SearchStreamSource = unconfigured{}
		backend driven.TorrentBackend     = unconfigured{}
	)
	if settings.Server.IsConfigured() {
		client, err := api.NewClient(api.Config{
			BaseURL:           settings.Server.BaseURL,
			SessionToken:      settings.Server.SessionToken,
			RequestsPerSecond: settings.Server.RequestsPerSecond,
		})
		if err != nil {
			return nil, nil, err
		}
		source, backend = client, client
	}

	var (
		sessionStore driven.SessionStore = memory.NewSessionStore()
		historyStore driven.HistoryStore = memory.NewHistoryStore()
		done                             = func() {}
	)
	if settings.Session.Persist {
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening session store: %w", err)
		}
		logger.Debug("Persisting session to %s", store.Path())
		sessionStore = store.SessionStore()
		historyStore = store.HistoryStore(settings.Session.HistorySize)
		done = func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing session store: %v", err)
			}
		}
	}

	return &cli.Services{
		Search:      services.NewSearchService(source),
		Collector:   services.NewCollectorService(source),
		Results:     services.NewResultService(),
		Session:     services.NewSessionService(sessionStore),
		Actions:     services.NewResultActionService(backend),
		History:     services.NewHistoryService(historyStore, settings.Session.HistorySize),
		Settings:    settingsService,
		ConfigWatch: configStore.Watch,
		LogFile:     filepath.Join(dir, "trawl.log"),
	}, done, nil
}

// unconfigured stands in for the backend until a server URL is set.
type unconfigured struct{}

var errNoServer = fmt.Errorf("%w: no server configured, run 'trawl settings set server <url>'",
	domain.ErrBackendUnavailable)

func (unconfigured) OpenSearchStream(context.Context, string) (io.ReadCloser, error) {
	return nil, errNoServer
}

func (unconfigured) AddMagnet(context.Context, string) error {
	return errNoServer
}

func (unconfigured) ResolveMagnet(context.Context, domain.ResultRecord) (string, error) {
	return "", errNoServer
}
