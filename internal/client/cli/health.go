package cli

import (
	"context"
	"fmt"
)

// healthService is the name the server reports its own status under.
const healthService = "lightbox"

func (a *App) Health(ctx context.Context) error {
	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	status, err := a.checkHealth(ctx, a.config.HealthAddr, healthService)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %s\n", a.config.HealthAddr, status)
	return nil
}
