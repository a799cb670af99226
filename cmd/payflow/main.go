package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"payflow/config"
	"payflow/internal/app"
	"payflow/internal/core/domain"
	"payflow/internal/service"
	"payflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "payflow",
		Short:        "Cross-border payment saga orchestrator",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(serveCmd(), tokenCmd(), hashPasswordCmd(), dlqCmd(), poolsCmd(), rebalanceCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
			log.Info().
				Str("mode", cfg.Server.Mode).
				Int("port", cfg.Server.Port).
				Str("storage", cfg.Storage.Driver).
				Msg("Starting payflow")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
}

// withApp builds the application for a one-shot operator command. Logs go
// to stderr so stdout carries only the command's JSON output.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) (any, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cfg.Log.Level, os.Stderr)
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn().Msg("storage.driver is memory; operator commands see an empty, process-local state")
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := fn(ctx, a)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token without a password, for bootstrap and scripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			return withApp(cmd, func(_ context.Context, a *app.App) (any, error) {
				token, expiry, err := a.Tokens.Generate(subject)
				if err != nil {
					return nil, err
				}
				return map[string]any{"token": token, "expiry": expiry.Unix()}, nil
			})
		},
	}
	cmd.Flags().String("subject", "cli", "token subject recorded in operator audit logs")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print an argon2id hash for admin.operators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.NewArgon2HashService(service.DefaultArgon2Params).Hash(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func dlqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and act on dead letter queue tasks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List failed tasks, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return a.Admin.ListDLQ(ctx, limit)
			})
		},
	}
	list.Flags().Int("limit", 50, "maximum tasks to list")
	cmd.AddCommand(list)

	actions := []struct {
		use   string
		short string
		fn    func(*service.AdminService, context.Context, uuid.UUID) (*domain.FailedTask, error)
	}{
		{"retry", "Mark a task for retry", (*service.AdminService).RetryDLQ},
		{"resolve", "Mark a task recovered after manual reconciliation", (*service.AdminService).ResolveDLQ},
		{"archive", "Archive a task that will not be retried", (*service.AdminService).ArchiveDLQ},
	}
	for _, act := range actions {
		cmd.AddCommand(&cobra.Command{
			Use:   act.use + " <task-id>",
			Short: act.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid task id %q: %w", args[0], err)
				}
				return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
					return act.fn(a.Admin, ctx, id)
				})
			},
		})
	}
	return cmd
}

func poolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Liquidity pool operations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status <pool-id>",
		Short: "Show balances, utilization and the rebalance recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return a.Admin.GetPoolStatus(ctx, args[0])
			})
		},
	})
	return cmd
}

func rebalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Rebalance operations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Evaluate every pool and execute recommended rebalances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return a.Admin.TriggerRebalanceScan(ctx)
			})
		},
	})
	return cmd
}
