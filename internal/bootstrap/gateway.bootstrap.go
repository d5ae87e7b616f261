package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ordergateway/internal/config"
	"ordergateway/internal/entity"
	httpHandler "ordergateway/internal/handler/gateway/http"
	"ordergateway/internal/infrastructure"
	"ordergateway/internal/service/broker"
	"ordergateway/internal/service/cache"
	"ordergateway/internal/service/events"
	"ordergateway/internal/service/gateway"
	"ordergateway/internal/util"
)

const defaultCacheTTL = 30 * time.Second

func StartGateway(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheStore, err := newCacheStore()
	util.ContinueOrFatal(err)

	registry := broker.NewRegistry()
	for name, brokerConfig := range config.Env.Brokers {
		if strings.TrimSpace(brokerConfig.BaseURL) == "" {
			registry.Register(entity.BrokerName(name), broker.NewPaperBroker(name))
			logrus.WithField("broker", name).Info("registered paper broker")
			continue
		}

		registry.Register(entity.BrokerName(name), broker.NewRESTBroker(name, brokerConfig))
		logrus.WithFields(logrus.Fields{
			"broker":   name,
			"base_url": brokerConfig.BaseURL,
		}).Info("registered broker")
	}

	publisher := events.Publisher(events.NoopPublisher{})
	closeNats := func(ctx context.Context) error { return nil }
	if strings.TrimSpace(config.Env.NatsJetstream.URL) != "" {
		nc, js, err := infrastructure.NewJetstream()
		util.ContinueOrFatal(err)

		jsPublisher, err := events.NewJetStreamPublisher(ctx, js)
		util.ContinueOrFatal(err)

		publisher = jsPublisher
		closeNats = func(ctx context.Context) error {
			return infrastructure.CloseJetstream(nc)
		}
	}

	gatewayService := gateway.NewService(registry, gateway.NewAuthGate(config.Env.AuthTokens), cacheStore, publisher)

	gatewayHTTPHandler := httpHandler.NewGatewayHTTPHandler(gatewayService)
	httpMux := http.NewServeMux()
	gatewayHTTPHandler.Register(httpMux)

	httpServer := infrastructure.NewHTTPServer(infrastructure.HTTPServerConfig{
		ShutdownTimeout: config.Env.GracefulShutdownTimeout,
	}, httpMux)

	go func() {
		err := httpServer.Start()
		if err != nil {
			logrus.Error(err)
		}
	}()
	logrus.WithField("brokers", registry.Names()).Info("order gateway started")

	wait := gracefulShutdown(ctx, config.Env.GracefulShutdownTimeout, map[string]operation{
		"http": func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
		"cache": func(ctx context.Context) error {
			cancel()
			return cacheStore.Close()
		},
		"nats connection": closeNats,
	})

	<-wait
}

func newCacheStore() (cache.Store, error) {
	ttl := config.Env.Cache.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	backend := strings.ToLower(strings.TrimSpace(config.Env.Cache.Backend))
	switch backend {
	case "", "memory":
		logrus.WithField("ttl", ttl.String()).Info("using in-memory order cache")
		return cache.NewMemoryStore(ttl), nil
	case "redis":
		logrus.WithField("ttl", ttl.String()).Info("using redis order cache")
		return cache.NewRedisStore(config.Env.Cache.Redis.CacheDSN, ttl)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}
}
