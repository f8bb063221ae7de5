// Command api-categories runs the read/write gRPC+GraphQL+HTTP surface
// (C1, C6, C7, C8): it serves QueryCategories/MutateCategories over gRPC,
// the mirrored GraphQL surface, and a health check, all on one port.
package main

import (
	"fmt"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/sellershut/categories/internal/bootstrap"
	"github.com/sellershut/categories/internal/cache"
	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/config"
	"github.com/sellershut/categories/internal/events"
	"github.com/sellershut/categories/internal/graphqlapi"
	"github.com/sellershut/categories/internal/grpcapi"
	"github.com/sellershut/categories/internal/httpserver"
	"github.com/sellershut/categories/internal/logging"
	"github.com/sellershut/categories/internal/store/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "api-categories",
	Short: "serves the categories gRPC, GraphQL and health surface",
	RunE:  run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Environment: cfg.AppEnvironment})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	lc := bootstrap.New(logger, true)

	var (
		store    *postgres.Store
		cacheCl  cache.Client
		nc       *nats.Conn
		js       nats.JetStreamContext
		svc      *category.Service
		grpcSrv  *grpc.Server
		httpSrv  *httpserver.Server
	)

	lc.RegisterInit(func() error {
		s, err := postgres.Open(postgres.Config{
			DSN:          cfg.DatabaseURL,
			MaxOpenConns: cfg.DatabasePoolMaxSize,
			MaxIdleConns: cfg.DatabasePoolMaxSize,
		})
		if err != nil {
			return err
		}
		if err := postgres.AutoMigrate(s.DB()); err != nil {
			return err
		}
		store = s
		return nil
	})

	lc.RegisterInit(func() error {
		c, err := cache.New(cache.Config{
			DSN:         cfg.RedisDSN,
			ClusterMode: cfg.RedisIsCluster,
			PoolSize:    cfg.RedisPoolMaxConnections,
		})
		if err != nil {
			return err
		}
		cacheCl = c
		return nil
	})

	lc.RegisterInit(func() error {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return err
		}
		stream, err := conn.JetStream()
		if err != nil {
			return err
		}
		nc, js = conn, stream
		return nil
	})

	lc.RegisterInit(func() error {
		pub := events.New(js, logger)
		svc = category.NewService(store, cacheCl, pub, cfg.QueryLimit,
			config.EntityCacheTTL, config.ListingCacheTTL, logger)
		return nil
	})

	lc.RegisterInit(func() error {
		grpcapi.RegisterCodec()
		grpcSrv = grpc.NewServer()
		grpcapi.Register(grpcSrv, svc)

		resolver := graphqlapi.NewResolver(svc)
		httpSrv = httpserver.New(httpserver.Config{
			Addr:        fmt.Sprintf(":%d", cfg.Port),
			Environment: cfg.AppEnvironment,
		}, grpcSrv, resolver, logger)
		return nil
	})

	lc.RegisterRun(func() error { return httpSrv.Run() })

	lc.RegisterCleanup(func() {
		if nc != nil {
			nc.Close()
		}
		if cacheCl != nil {
			_ = cacheCl.Close()
		}
	})

	if err := lc.Init(); err != nil {
		return err
	}
	return lc.Run()
}
