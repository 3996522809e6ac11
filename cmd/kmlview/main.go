package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kmlview",
	Short: "Inspect, search and export KML/KMZ documents",
	Long: `kmlview parses KML and KMZ files, resolves their styles and icons,
and prints the resulting folder tree.

Icons referenced over https are fetched and cached; icons over plain http
are never fetched. Settings may also come from the environment or a .env
file in the working directory (KML_LOG_LEVEL, KML_LOG_FORMAT,
KML_ICON_CACHE, KML_METRICS_ADDR, REDIS_HOST, REDIS_PORT, REDIS_PASS,
REDIS_DB).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "warn", "Log level: debug, info, warn, error (env KML_LOG_LEVEL)")
	pf.String("log-format", "console", "Log format: console, json (env KML_LOG_FORMAT)")
	pf.String("icon-cache", "memory", "Icon cache: memory, redis, none (env KML_ICON_CACHE)")
	pf.Int("workers", 0, "Concurrent icon fetches (default: number of CPUs)")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090 (env KML_METRICS_ADDR)")
	pf.Bool("no-fetch", false, "Never fetch icons over the network")
	pf.Duration("fetch-timeout", 0, "Timeout for a single icon fetch (default 10s)")
	pf.Bool("validate", true, "Reject coordinates outside ±90/±180")
	pf.Int64("seed", 0, "Seed for random icon colors (default: time based)")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kmlview %s (commit %s, built %s)\n", version, commit, date)
	},
}
