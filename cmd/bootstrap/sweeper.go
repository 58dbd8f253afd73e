package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the expiry sweep on a fixed interval for the lifetime of
// the process. The HTTP trigger remains available for out-of-band runs; both
// paths share the same command and are safe to race.
func StartSweeper(lc fx.Lifecycle, sweeps commands.SweepCommands, cfg config.Config, logger *slog.Logger) {
	if cfg.Sweeper.Interval <= 0 {
		logger.Info("expiry sweeper disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Sweeper.Interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						result, err := sweeps.Sweep(ctx)
						if err != nil {
							logger.Error("expiry sweep failed", "error", err.Error())
							continue
						}
						if result.ExpiredCount > 0 {
							logger.Info("expiry sweep completed", "expired", result.ExpiredCount)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
