package cli

import (
	"context"

	"github.com/okian/evalhub/internal/adapters/scanner"
	service "github.com/okian/evalhub/internal/app"
	"github.com/okian/evalhub/internal/client"
	"github.com/okian/evalhub/internal/config"
	"github.com/okian/evalhub/pkg/logger"
)

func scannerOptions(c *config.Config) []scanner.Option {
	return []scanner.Option{
		scanner.WithManifestName(c.ManifestName),
		scanner.WithNotesName(c.NotesName),
		scanner.WithReservedPrefix(c.ReservedPrefix),
		scanner.WithReservedDirs(c.ReservedDirs),
		scanner.WithConcurrency(c.ScanConcurrency),
	}
}

func newService(c *config.Config) *service.Service {
	return service.New(
		service.WithLogger(logger.Named("service")),
		service.WithMode(c.Mode),
		service.WithEvalsRoot(c.EvalsRoot),
		service.WithSnapshotPath(c.SnapshotPath),
		service.WithScannerOptions(scannerOptions(c)...),
	)
}

// startService starts a service for a one-shot command; callers Stop it.
func startService(ctx context.Context) (*service.Service, error) {
	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func newClient(baseURL string) *client.Client {
	return client.New(baseURL, client.WithLogger(logger.Named("client")))
}
