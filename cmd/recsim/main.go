// recsim 命令行入口：对历史评分数据做时序回放评测。
//
//	recsim simulate --config eval.yaml
//	recsim simulate --input ratings.csv --algorithm-file bias.yaml --output result.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/recsim/algo"
	"github.com/rushteam/recsim/config"
	"github.com/rushteam/recsim/core"
	"github.com/rushteam/recsim/dataset"
	"github.com/rushteam/recsim/filter"
	"github.com/rushteam/recsim/pkg/logging"
	"github.com/rushteam/recsim/pkg/metrics"
	"github.com/rushteam/recsim/replay"
	"github.com/rushteam/recsim/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recsim",
		Short:         "Temporal replay evaluation for recommender algorithms",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSimulateCmd())
	return root
}

func newSimulateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a rating stream against an evolving model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runSimulate(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "run config file (YAML)")
	cmd.Flags().StringSlice("input", nil, "rating input file(s)")
	cmd.Flags().String("output", "", "tabular output path (CSV, .gz supported)")
	cmd.Flags().String("extended-output", "", "extended output path (JSON lines)")
	cmd.Flags().String("algorithm-file", "", "algorithm spec file (YAML)")
	cmd.Flags().Int64("rebuild-period", 0, "model rebuild period in seconds")
	cmd.Flags().Int("list-size", 0, "recommendation list size")
	cmd.Flags().Int64("seed", 0, "random seed for decoy sampling")
	cmd.Flags().String("filter", "", "CEL filter expression over user/item/rating/timestamp")
	cmd.Flags().String("metrics-file", "", "write prometheus textfile metrics on exit")
	cmd.Flags().String("log-level", "", "log level: debug/info/warn/error")
	return cmd
}

// applyFlags 用显式传入的命令行参数覆盖配置文件。
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Input, _ = f.GetStringSlice("input")
	}
	if f.Changed("output") {
		cfg.Output, _ = f.GetString("output")
	}
	if f.Changed("extended-output") {
		cfg.ExtendedOutput, _ = f.GetString("extended-output")
	}
	if f.Changed("algorithm-file") {
		cfg.AlgorithmFile, _ = f.GetString("algorithm-file")
	}
	if f.Changed("rebuild-period") {
		cfg.RebuildPeriod, _ = f.GetInt64("rebuild-period")
	}
	if f.Changed("list-size") {
		cfg.ListSize, _ = f.GetInt("list-size")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("filter") {
		cfg.Filter, _ = f.GetString("filter")
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile, _ = f.GetString("metrics-file")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
}

func runSimulate(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(cfg.LogLevel)

	spec, err := cfg.AlgorithmSpec()
	if err != nil {
		return fmt.Errorf("load algorithm spec: %w", err)
	}
	builder, err := algo.Build(spec)
	if err != nil {
		return err
	}

	hist, err := dataset.Load(ctx, cfg.Input...)
	if err != nil {
		return err
	}

	ev := replay.New(hist, builder)
	ev.RebuildPeriod = cfg.RebuildPeriod
	ev.ListSize = cfg.ListSize
	ev.Seed = cfg.Seed
	ev.OutputPath = cfg.Output
	ev.ExtendedOutputPath = cfg.ExtendedOutput
	ev.Logger = logger
	ev.Metrics = metrics.NewRunMetrics()

	if cfg.Filter != "" {
		flt, err := filter.New(cfg.Filter)
		if err != nil {
			return err
		}
		ev.Filter = flt
	}

	if cfg.Checkpoint.Store != "" {
		st, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open checkpoint store: %w", err)
		}
		defer st.Close()
		ev.Checkpoint = &replay.Checkpoint{
			Store:    st,
			Key:      cfg.Checkpoint.Key,
			Interval: cfg.Checkpoint.Interval,
		}
	}

	result, err := ev.Run(ctx)

	if cfg.MetricsFile != "" {
		if merr := ev.Metrics.WriteTextfile(cfg.MetricsFile); merr != nil {
			logger.Warn().Err(merr).Msg("write metrics textfile failed")
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("events=%d observations=%d rmse=%.6f builds=%d\n",
		result.Events, result.Observations, result.RMSE, result.Builds)
	return nil
}

func openStore(cfg *config.Config) (core.Store, error) {
	switch cfg.Checkpoint.Store {
	case "redis":
		return store.NewRedisStore(cfg.Checkpoint.RedisAddr, cfg.Checkpoint.RedisDB)
	default:
		return store.NewMemoryStore(), nil
	}
}
