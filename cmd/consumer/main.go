package main

import (
	"context"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/shorturls/internal/container"
	"github.com/serroba/shorturls/internal/messaging"
	"go.uber.org/zap"
)

// Delivers audit events from the Redis stream to the collector. Only needed
// when the server runs with --redis-addr; otherwise the server delivers them.
func main() {
	_ = godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		do.ProvideValue(injector, options)
		container.LoggerPackage(injector)
		container.RedisPackage(injector)
		container.BrokerPackage(injector)
		container.AuditPackage(injector)
		container.ConsumerGroupPackage(injector)

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			logger := do.MustInvoke[*zap.Logger](injector)

			if options.InProcessBroker() {
				logger.Fatal("the audit consumer needs --redis-addr")
			}

			if options.AuditCredential() == "" {
				logger.Warn("no audit token configured, collector will reject events")
			}

			group := do.MustInvoke[*messaging.ConsumerGroup](injector)
			if err := group.Start(ctx); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			<-ctx.Done()
		})

		hooks.OnStop(func() {
			logger := do.MustInvoke[*zap.Logger](injector)
			logger.Info("shutting down")
			cancel()

			if err := container.Shutdown(injector); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Run()
}
