package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/beetlebugorg/kml/internal/iconcache"
	"github.com/beetlebugorg/kml/internal/metrics"
	"github.com/beetlebugorg/kml/pkg/kml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	memoryCacheBytes = 64 << 20
	redisIconTTL     = 7 * 24 * time.Hour
)

// app holds what setup builds from flags and the environment.
type app struct {
	log     *zap.Logger
	opts    kml.ParseOptions
	metrics *http.Server
}

var cli app

// flagOrEnv returns the flag value when it was set on the command line,
// else the environment variable when present, else the flag default.
func flagOrEnv(cmd *cobra.Command, name, env string) string {
	f := cmd.Flag(name)
	if !f.Changed {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v
		}
	}
	return f.Value.String()
}

func setup(cmd *cobra.Command, args []string) error {
	log, err := newLogger(flagOrEnv(cmd, "log-level", "KML_LOG_LEVEL"), flagOrEnv(cmd, "log-format", "KML_LOG_FORMAT"))
	if err != nil {
		return err
	}
	cli.log = log

	flags := cmd.Flags()
	opts := kml.DefaultParseOptions()
	opts.Logger = log
	opts.Workers, _ = flags.GetInt("workers")
	opts.Seed, _ = flags.GetInt64("seed")
	opts.ValidateCoordinates, _ = flags.GetBool("validate")

	noFetch, _ := flags.GetBool("no-fetch")
	timeout, _ := flags.GetDuration("fetch-timeout")
	switch {
	case noFetch:
		opts.Fetcher = nil
	case timeout > 0:
		opts.Fetcher = kml.NewHTTPFetcher(timeout)
	}

	switch mode := strings.ToLower(flagOrEnv(cmd, "icon-cache", "KML_ICON_CACHE")); mode {
	case "memory":
		opts.Cache = kml.NewMemoryCache(memoryCacheBytes)
	case "redis":
		client := iconcache.OpenRedisFromEnv()
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			log.Warn("Redis unreachable, icon cache will miss", zap.Error(err))
		}
		opts.Cache = iconcache.NewRedis(client, iconcache.DefaultKeyPrefix, redisIconTTL, log)
	case "none", "":
		opts.Cache = nil
	default:
		return fmt.Errorf("unknown icon cache %q (want memory, redis or none)", mode)
	}
	opts.Progress = func(done, total int) {
		log.Debug("Icon fetch progress", zap.Int("done", done), zap.Int("total", total))
	}
	cli.opts = opts

	if addr := flagOrEnv(cmd, "metrics-addr", "KML_METRICS_ADDR"); addr != "" {
		cli.metrics = serveMetrics(addr, log)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if cli.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = cli.metrics.Shutdown(ctx)
	}
	if cli.log != nil {
		_ = cli.log.Sync()
	}
}

// newLogger builds a zap logger writing to stderr.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q (want console or json)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	log.Info("Serving metrics", zap.String("addr", addr))
	return srv
}

// load parses the file at path with the options built by setup.
func load(cmd *cobra.Command, path string) (*kml.Layer, error) {
	start := time.Now()
	layer, err := kml.NewParserWithOptions(cli.opts).ParseFile(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	cli.log.Info("Loaded document",
		zap.String("path", path),
		zap.Int("features", layer.FeatureCount()),
		zap.Duration("elapsed", time.Since(start)))
	return layer, nil
}
