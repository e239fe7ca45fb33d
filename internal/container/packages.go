package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shorturls/internal/audit"
	"github.com/serroba/shorturls/internal/handlers"
	"github.com/serroba/shorturls/internal/health"
	"github.com/serroba/shorturls/internal/messaging"
	"github.com/serroba/shorturls/internal/shortener"
	"github.com/serroba/shorturls/internal/store"
	"go.uber.org/zap"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// ErrRedisNotConfigured is returned when a Redis-backed component is requested without an address.
var ErrRedisNotConfigured = errors.New("redis address not configured")

// RedisClient closes the shared client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the client.
func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// LoggerPackage provides the zap logger.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client. Invoking it without an address fails.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return nil, ErrRedisNotConfigured
		}

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// BrokerPackage provides the audit message broker and the publisher group
// that closes it. Redis streams are used when an address is configured.
func BrokerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.Broker, error) {
		opts := do.MustInvoke[*Options](i)
		logger := messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i))

		if opts.InProcessBroker() {
			return messaging.NewInProcessBroker(logger), nil
		}

		client := do.MustInvoke[*RedisClient](i)

		return messaging.NewRedisBroker(client.Client, opts.ConsumerGroup, logger)
	})

	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		broker := do.MustInvoke[*messaging.Broker](i)

		return messaging.NewPublisherGroup(broker.Publisher), nil
	})
}

// AuditPackage provides the audit trail and the collector client.
// Without a credential the trail discards every event.
func AuditPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*audit.Trail, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.AuditCredential() == "" {
			logger.Warn("no audit token configured, audit trail disabled")

			return audit.NewDisabledTrail(), nil
		}

		publishers := do.MustInvoke[*messaging.PublisherGroup](i)
		publish := messaging.NewPublishFunc[audit.Event](publishers.Publisher(), audit.Topic)

		trail := audit.NewTrail(publish, opts.AuditStack, opts.AuditBuffer, logger.Named("audit"))
		if err := trail.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("start audit trail: %w", err)
		}

		return trail, nil
	})

	do.Provide(i, func(i *do.Injector) (*audit.Collector, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return audit.NewCollector(context.Background(), opts.AuditEndpoint(), opts.AuditCredential(),
			logger.Named("collector")), nil
	})
}

// ConsumerGroupPackage provides the consumers delivering audit events to the collector.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		broker := do.MustInvoke[*messaging.Broker](i)
		collector := do.MustInvoke[*audit.Collector](i)

		group := messaging.NewConsumerGroup(broker.Subscriber, logger)
		group.Add(messaging.NewConsumer(broker.Subscriber, audit.Topic, collector.Handle, logger))

		return group, nil
	})
}

// StorePackage provides the in-memory link store.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})
}

// ServicePackage provides the link service.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("create code generator: %w", err)
		}

		return shortener.NewService(
			do.MustInvoke[*store.MemoryStore](i),
			generator,
			do.MustInvoke[*audit.Trail](i),
			shortener.WithDefaultValidity(opts.DefaultValidity),
			shortener.WithMaxAttempts(opts.MaxAttempts),
		), nil
	})
}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		return handlers.NewRouter(do.MustInvoke[*zap.Logger](i), do.MustInvoke[*audit.Trail](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		linkStore := do.MustInvoke[*store.MemoryStore](i)

		api := handlers.NewAPI(do.MustInvoke[*chi.Mux](i), "URL Shortener", APIVersion)

		urlHandler := handlers.NewURLHandler(do.MustInvoke[*shortener.Service](i), opts.ShortLinkBase(), logger)
		handlers.RegisterRoutes(api, urlHandler)

		checkers := map[string]health.Checker{"store": linkStore}
		if !opts.InProcessBroker() {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
		}

		health.RegisterRoutes(api, health.NewHandler(checkers))

		return api, nil
	})
}

// Register wires every package of the HTTP server.
func Register(i *do.Injector, options *Options) {
	do.ProvideValue(i, options)
	LoggerPackage(i)
	RedisPackage(i)
	BrokerPackage(i)
	AuditPackage(i)
	ConsumerGroupPackage(i)
	StorePackage(i)
	ServicePackage(i)
	HTTPPackage(i)
}

// Shutdown stops the audit pipeline in delivery order, then every other
// service. The trail drains into the broker before the consumers stop and
// the broker is closed.
func Shutdown(i *do.Injector) error {
	steps := []func(*do.Injector) error{
		do.Shutdown[*audit.Trail],
		do.Shutdown[*messaging.ConsumerGroup],
		do.Shutdown[*messaging.PublisherGroup],
	}

	var errs []error

	for _, step := range steps {
		if err := step(i); err != nil {
			errs = append(errs, err)
		}
	}

	if err := i.Shutdown(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
