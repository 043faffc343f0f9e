package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/erazemk/najdeno/internal/notify"
)

var workerConcurrency int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued owner notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Redis.Addr == "" {
			return errors.New("NAJDENO_REDIS_ADDR is required for the worker")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		database, err := openDatabase(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer database.Close()

		server := asynq.NewServer(redisOpt(cfg.Redis), asynq.Config{
			Concurrency: workerConcurrency,
			Logger:      asynqLogger{},
		})
		processor := &notify.Processor{DB: database}

		go func() {
			<-ctx.Done()
			server.Shutdown()
		}()

		slog.Info("worker started", "redis", cfg.Redis.Addr, "concurrency", workerConcurrency)
		return server.Run(processor.Handler())
	},
}

func init() {
	workerCmd.Flags().IntVarP(&workerConcurrency, "concurrency", "c", 4, "number of notices delivered in parallel")
	rootCmd.AddCommand(workerCmd)
}

// asynqLogger sends asynq's own logs through slog.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { slog.Debug(fmt.Sprint(args...), "component", "asynq") }
func (asynqLogger) Info(args ...any) { slog.Info(fmt.Sprint(args...), "component", "asynq") }
func (asynqLogger) Warn(args ...any) { slog.Warn(fmt.Sprint(args...), "component", "asynq") }
func (asynqLogger) Error(args ...any) { slog.Error(fmt.Sprint(args...), "component", "asynq") }

func (asynqLogger) Fatal(args ...any) {
	slog.Error(fmt.Sprint(args...), "component", "asynq")
	os.Exit(1)
}
