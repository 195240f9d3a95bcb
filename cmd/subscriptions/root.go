package main

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/subscriptions/internal/config"
	"github.com/smallbiznis/subscriptions/internal/migration"
	"github.com/smallbiznis/subscriptions/internal/observability"
	"github.com/smallbiznis/subscriptions/internal/server"
	"github.com/smallbiznis/subscriptions/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrateTimeout = 5 * time.Minute

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "subscriptions",
		Short:         "Subscription plans, variations and subscriptions over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config.Module,
				observability.Module,
				db.Module,
				migration.Module,
				server.Module,
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create every table and index",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(cmd.Context(), "up", migration.Up)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop every table",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(cmd.Context(), "down", migration.Down)
			},
		},
	)
	return cmd
}

func runMigration(ctx context.Context, direction string, apply func(*gorm.DB, string) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB, dbCfg db.Config, log *zap.Logger) error {
			if err := apply(conn, dbCfg.Type); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			log.Info("migration applied", zap.String("direction", direction), zap.String("db_type", dbCfg.Type))
			return nil
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return app.Stop(stopCtx)
}
