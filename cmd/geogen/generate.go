package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geogen/config"
	"geogen/dataset"
	"geogen/gen"
	"geogen/perf"
)

var (
	maxClauses  int
	threads     int
	samples     int
	timeoutSec  int
	seed        int64
	outPath     string
	outFormat   string
	profilePath string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dataset of construction problems with proofs",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntVar(&maxClauses, "max-clauses", 15, "upper bound on construction clauses per problem")
	f.IntVar(&threads, "threads", 5, "worker parallelism")
	f.IntVar(&samples, "samples", 10000, "number of samples to generate")
	f.IntVar(&timeoutSec, "timeout", 7200, "per-sample derivation budget in seconds")
	f.Int64Var(&seed, "seed", 0, "RNG seed, 0 means time-seeded")
	f.StringVar(&outPath, "out", "dataset.csv", "output dataset path")
	f.StringVar(&outFormat, "format", "csv", "dataset format (csv or jsonl)")
	f.StringVar(&profilePath, "profile", "", "write CPU and heap profiles with this path prefix")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if profilePath != "" {
		stopProfile, err := perf.Start(profilePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := stopProfile(); err != nil {
				logger.Warn("profile capture failed", zap.Error(err))
			}
		}()
	}

	rules, err := config.Rules()
	if err != nil {
		return err
	}

	g, err := gen.New(gen.Config{
		MaxClauses: maxClauses,
		Threads:    threads,
		Samples:    samples,
		Timeout:    time.Duration(timeoutSec) * time.Second,
		Seed:       seed,
		Rules:      rules,
	}, logger)
	if err != nil {
		return err
	}

	w, err := dataset.NewWriter(outPath, outFormat)
	if err != nil {
		return err
	}

	logger.Info("generation started",
		zap.Int("max_clauses", maxClauses),
		zap.Int("threads", threads),
		zap.Int("samples", samples),
		zap.Int("timeout_s", timeoutSec),
		zap.String("out", outPath))

	start := time.Now()
	stats, runErr := g.Run(ctx, w)
	if err := w.Close(); err != nil && runErr == nil {
		runErr = err
	}

	logger.Info("generation finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("stats", stats.String()))
	return runErr
}
