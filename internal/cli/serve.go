package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/brandnav/pkg/cache"
	"github.com/mchmarny/brandnav/pkg/config"
	"github.com/mchmarny/brandnav/pkg/header"
	"github.com/mchmarny/brandnav/pkg/logger"
	"github.com/mchmarny/brandnav/pkg/menu"
	"github.com/mchmarny/brandnav/pkg/metric"
	"github.com/mchmarny/brandnav/pkg/server"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve header props and navigation trees over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.v, opts.configFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.Int("port", server.DefaultPort, "port to listen on")
	f.String("menus-dir", "./menus", "directory holding <menu>.yaml|json|toml files")
	f.Bool("watch", false, "reload menu files when they change")
	f.String("redis-addr", "", "share cached trees through redis at this address")
	f.String("tls-cert", "", "TLS certificate file, serves HTTPS together with --tls-key")
	f.String("tls-key", "", "TLS private key file")

	_ = opts.v.BindPFlag("server.port", f.Lookup("port"))
	_ = opts.v.BindPFlag("menus.dir", f.Lookup("menus-dir"))
	_ = opts.v.BindPFlag("menus.watch", f.Lookup("watch"))
	_ = opts.v.BindPFlag("cache.redis_addr", f.Lookup("redis-addr"))
	_ = opts.v.BindPFlag("server.tls_cert", f.Lookup("tls-cert"))
	_ = opts.v.BindPFlag("server.tls_key", f.Lookup("tls-key"))

	return cmd
}

// serve runs the HTTP server, and the menu watcher when enabled, until ctx
// is canceled.
func serve(ctx context.Context, cfg *config.Header) error {
	slog.Info("starting brandnav", "version", version, "commit", commit, "date", date)

	provider, err := menu.NewFileProvider(cfg.Menus.Dir)
	if err != nil {
		return err
	}

	c, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := header.NewService(cfg, provider,
		header.WithCache(c),
		header.WithTrailProvider(menu.PathTrail{}),
		header.WithMetrics(metric.NewHeader(reg)),
		header.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	srvOpts := []server.Option{
		server.WithPort(cfg.Server.Port),
		server.WithErrorLog(logger.NewLogLogger(slog.LevelError, false)),
		server.WithRegistry(reg),
		server.WithSimpleHealth(),
		server.WithRoutes(svc.Routes),
	}
	if cfg.Server.Metrics {
		srvOpts = append(srvOpts, server.WithPrometheusMetrics())
	}
	if cfg.Server.TLS() {
		srvOpts = append(srvOpts, server.WithTLS(server.TLSConfig{
			CertFile: cfg.Server.TLSCert,
			KeyFile:  cfg.Server.TLSKey,
		}))
	}
	srv := server.New(srvOpts...)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gCtx)
	})

	if cfg.Menus.Watch {
		g.Go(func() error {
			return provider.Watch(gCtx)
		})
	}

	return g.Wait()
}

// newCache picks the tree cache for the configuration.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch {
	case cfg.TTL == 0:
		slog.Info("tree cache disabled")
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("tree cache: %w", err)
		}
		slog.Info("using redis tree cache", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return c, nil
	default:
		slog.Info("using in-memory tree cache", "ttl", cfg.TTL)
		return cache.NewMemoryCache(), nil
	}
}
