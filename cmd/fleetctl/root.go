package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/seed"
	"taxifrota/service"
	"taxifrota/storage"
)

type cliEnv struct {
	log     logger.ILogger
	open    func(ctx context.Context) (storage.IStorage, error)
	migrate func(up bool) error
}

func newRootCommand(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Maintenance tasks for the taxi fleet back office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand(env))
	cmd.AddCommand(newSeedCommand(env))
	cmd.AddCommand(newResetCommand(env))
	cmd.AddCommand(newCreateAdminCommand(env))
	return cmd
}

func newMigrateCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply all pending migrations, or roll back the last one",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "up":
				return env.migrate(true)
			case "down":
				return env.migrate(false)
			}
			return fmt.Errorf("unknown direction %q, use up or down", args[0])
		},
	}
}

func newSeedCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter vehicle catalog and hero banners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), env, func(stg storage.IStorage) error {
				results, err := seed.Run(cmd.Context(), stg, env.log)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range results {
					if r.Skipped() {
						fmt.Fprintf(out, "%s: %d already present, skipped\n", r.Collection, r.Existing)
						continue
					}
					fmt.Fprintf(out, "%s: %d inserted\n", r.Collection, r.Inserted)
				}
				return nil
			})
		},
	}
}

func newResetCommand(env *cliEnv) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete drivers, applications, evaluations, rentals, notifications and history",
		Long: `Delete all operational records. The vehicle catalog, articles,
banners and admin users are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			return withStorage(cmd.Context(), env, func(stg storage.IStorage) error {
				if err := stg.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "operational data removed")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newCreateAdminCommand(env *cliEnv) *cobra.Command {
	in := service.CreateUserInput{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a panel user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), env, func(stg storage.IStorage) error {
				u, err := service.New(stg, env.log).Auth().CreateUser(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", u.Email, u.Role, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&in.Role, "role", models.RoleAdmin, "admin or operator")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func withStorage(ctx context.Context, env *cliEnv, fn func(stg storage.IStorage) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stg, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer stg.Close()
	return fn(stg)
}
