package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/shorturls/internal/audit"
	"github.com/serroba/shorturls/internal/container"
	"github.com/serroba/shorturls/internal/messaging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	// A missing .env file is fine; flags and SERVICE_* variables still apply.
	_ = godotenv.Load()

	var injector *do.Injector

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector = do.New()
		container.Register(injector, options)

		var server *http.Server

		hooks.OnStart(func() {
			logger := do.MustInvoke[*zap.Logger](injector)

			// With the in-process broker this process also delivers audit events.
			if options.InProcessBroker() && options.AuditCredential() != "" {
				group := do.MustInvoke[*messaging.ConsumerGroup](injector)
				if err := group.Start(context.Background()); err != nil {
					logger.Fatal("failed to start audit consumers", zap.Error(err))
				}
			}

			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			trail := do.MustInvoke[*audit.Trail](injector)

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("base_url", options.ShortLinkBase()),
				zap.Bool("audit", trail.Enabled()),
				zap.Bool("in_process_broker", options.InProcessBroker()),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger := do.MustInvoke[*zap.Logger](injector)
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := container.Shutdown(injector); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		Run: func(_ *cobra.Command, _ []string) {
			api := do.MustInvoke[huma.API](injector)

			doc, err := api.OpenAPI().YAML()
			if err != nil {
				panic(err)
			}

			fmt.Println(string(doc))

			_ = injector.Shutdown()
		},
	})

	cli.Run()
}
