package console

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Fetch is one independent side request, such as a reference list that
// fills a select.
type Fetch struct {
	Name string
	Run  func(ctx context.Context) error
}

// FetchAll runs every fetch concurrently and waits for all of them. A failing
// fetch never cancels its siblings; failures are logged and returned by name.
func FetchAll(ctx context.Context, logger *slog.Logger, fetches ...Fetch) map[string]error {
	errs := make([]error, len(fetches))
	var g errgroup.Group
	for i, f := range fetches {
		g.Go(func() error {
			errs[i] = f.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	failed := make(map[string]error)
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed[fetches[i].Name] = err
		if logger != nil {
			logger.Warn("reference fetch failed",
				slog.String("fetch", fetches[i].Name),
				slog.Any("error", err))
		}
	}
	return failed
}
