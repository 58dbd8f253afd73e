package components

import (
	"context"
	"log/slog"

	"cabin-booking/internal/handler/middleware"
	"cabin-booking/internal/infra/gateway"
	"cabin-booking/internal/infra/notifier"
	"cabin-booking/internal/infra/ratelimit"
	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewPaymentGateway,
		NewWebhookVerifier,
		NewNotifier,
		NewRequestLimiter,
	),
)

func NewPaymentGateway(cfg config.Config) commands.PaymentGateway {
	if cfg.Payment.IsMock() {
		return gateway.NewMockPaymentGateway()
	}
	return gateway.NewHTTPPaymentGateway(cfg.Payment)
}

func NewWebhookVerifier(cfg config.Config) commands.WebhookVerifier {
	return gateway.NewHMACVerifier(cfg.Payment.WebhookSecret)
}

func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) commands.Notifier {
	if len(cfg.Kafka.Brokers) == 0 {
		return notifier.NewNoopNotifier(logger)
	}

	kn := notifier.NewKafkaNotifier(cfg.Kafka, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return kn.Close()
		},
	})
	return kn
}

func NewRequestLimiter(client *redis.Client, cfg config.Config, logger *slog.Logger) middleware.RequestLimiter {
	return ratelimit.NewLimiter(client, logger, cfg.Limit.Requests, cfg.Limit.Window)
}
