// Command rivercall runs the vessel-call batch pipeline: movement-event feeds
// in, aligned berth stays and a matched trade manifest out.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/wsd3/rivercall/internal/adapter/http"
	"github.com/wsd3/rivercall/internal/config"
	"github.com/wsd3/rivercall/internal/observability"
	"github.com/wsd3/rivercall/internal/pipeline"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rivercall",
	Short: "Vessel-call batch pipeline",
	Long: `rivercall turns raw vessel movement feeds into berth-stay intervals and
matches them against a trade manifest.

A run ingests the movement CSVs, standardizes vessel identities, pairs
arrive/depart events into stay intervals, resolves each stay against the
berth dictionary, and annotates the manifest with the matched stays.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default rivercall.yaml)")
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(alignCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(genmockCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config and builds the pipeline with its observability.
func setup() (*config.Config, *slog.Logger, *pipeline.Pipeline, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	return cfg, logger, pipeline.New(cfg, logger, metrics), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one full batch: align intervals and match the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, p, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			res, err := p.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Println(pipeline.Summary(res))
			return nil
		},
	}
}

func alignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "align",
		Short: "Align and enrich stay intervals without matching a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, p, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			res, err := p.RunAlign(ctx)
			if err != nil {
				return err
			}
			fmt.Println(pipeline.Summary(res))
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rerun the batch whenever an input file changes",
		Long: `watch polls the input files and reruns the full batch on every change.
It also serves /healthz, /readyz, /metrics, and /lastrun for monitoring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, p, err := setup()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("interval") {
				interval = cfg.WatchInterval
			}

			ctx, stop := signalContext()
			defer stop()

			srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", "error", err)
				}
			}()

			err = p.Watch(ctx, interval)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				logger.Error("http server shutdown error", "error", shutdownErr)
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "poll interval")
	return cmd
}
