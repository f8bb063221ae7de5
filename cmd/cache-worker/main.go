// Command cache-worker runs the cache-update worker (C9): one durable
// JetStream pull consumer per entry in EVENT_PUBLISHING_SERVICES,
// translating events into the cache writes/evictions the API's read path
// depends on. It is the only process that ever writes to the cache.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sellershut/categories/internal/bootstrap"
	"github.com/sellershut/categories/internal/cache"
	"github.com/sellershut/categories/internal/config"
	"github.com/sellershut/categories/internal/logging"
	"github.com/sellershut/categories/internal/worker"
)

var rootCmd = &cobra.Command{
	Use:   "cache-worker",
	Short: "drives the durable cache-update consumers",
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
		cacheCl   cache.Client
		nc        *nats.Conn
		js        nats.JetStreamContext
		consumers []*worker.Consumer
	)

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
		for _, name := range cfg.EventPublishingServices {
			stream, ok := cfg.ServiceStreams[name]
			if !ok {
				return fmt.Errorf("no stream configuration for event-publishing service %q", name)
			}
			consumers = append(consumers, worker.NewConsumer(js, cacheCl, logger, worker.Config{
				StreamName:  stream.Name,
				DurableName: "CONSUMER_" + name,
				Subjects:    []string{stream.Subjects},
				TTL:         config.ListingCacheTTL,
				BatchSize:   10,
			}))
		}
		return nil
	})

	lc.RegisterRun(func() error {
		g, ctx := errgroup.WithContext(context.Background())
		for _, c := range consumers {
			c := c
			g.Go(func() error { return c.Run(ctx) })
		}
		return g.Wait()
	})

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
