package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jesseg-dev/portfolio-site/config"
	"github.com/jesseg-dev/portfolio-site/internal/bootstrap"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
	"github.com/jesseg-dev/portfolio-site/internal/seed"
	"github.com/jesseg-dev/portfolio-site/internal/storage/postgres"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Maintenance commands for the portfolio site",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logging.Init(cfg.App.Environment, cfg.App.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	root.AddCommand(
		newMigrateCmd(func() *config.Config { return cfg }),
		newSeedCmd(func() *config.Config { return cfg }),
		newSetPasswordCmd(func() *config.Config { return cfg }),
	)
	return root
}

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if err := requirePostgres(c); err != nil {
				return err
			}
			ctx := cmd.Context()

			pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: c.Database.DatabaseDSN(), MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()
			db := postgres.NewConnection(pool)
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			v, err := postgres.Version(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", v)
			return nil
		},
	}
}

func newSeedCmd(cfg func() *config.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and sample projects if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if err := requirePostgres(c); err != nil {
				return err
			}
			if file == "" {
				file = c.Admin.SeedFile
			}
			fixtures, err := seed.Load(file)
			if err != nil {
				return err
			}

			return withServices(cmd.Context(), c, func(svcs *bootstrap.Services) error {
				res, err := svcs.Seeder.Run(cmd.Context(), bootstrap.SeedAdmin(c), fixtures)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin created: %t, projects created: %d, skipped: %d\n",
					res.AdminCreated, res.ProjectsCreated, res.ProjectsSkipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (defaults to SEED_FILE or the built-in samples)")
	return cmd
}

func newSetPasswordCmd(cfg func() *config.Config) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace an admin password and sign out all of its sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if err := requirePostgres(c); err != nil {
				return err
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			if email == "" {
				email = c.Admin.Email
			}

			return withServices(cmd.Context(), c, func(svcs *bootstrap.Services) error {
				if err := svcs.Auth.SetPassword(cmd.Context(), email, password); err != nil {
					return fmt.Errorf("set password for %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// requirePostgres rejects commands that would only touch a throwaway memory store.
func requirePostgres(c *config.Config) error {
	if c.Database.Store != config.StorePostgres {
		return fmt.Errorf("PROJECT_STORE is %q; maintenance commands need %q", c.Database.Store, config.StorePostgres)
	}
	return nil
}

func withServices(ctx context.Context, c *config.Config, fn func(*bootstrap.Services) error) error {
	res, err := bootstrap.Open(ctx, c)
	if err != nil {
		return err
	}
	defer res.Close()

	if err := res.Migrate(ctx); err != nil {
		return err
	}

	svcs, err := bootstrap.NewServices(c, res.DB, res.Redis)
	if err != nil {
		return err
	}
	return fn(svcs)
}
