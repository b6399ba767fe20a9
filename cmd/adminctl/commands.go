package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/SundayYogurt/herohq/config"
	"github.com/SundayYogurt/herohq/internal/database"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// opener is replaced in tests.
type opener func(dsn string) (*gorm.DB, error)

func newRootCmd(cfg config.Config) *cobra.Command {
	return buildRoot(cfg, database.Open)
}

func buildRoot(cfg config.Config, open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "adminctl",
		Short:        "Operator tasks for Hero HQ",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "Postgres connection string")

	connect := func() (*gorm.DB, error) {
		db, err := open(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("database connection error: %w", err)
		}
		return db, nil
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})
	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			return database.Status(cmd.Context(), db)
		},
	})

	var limit int
	audit := &cobra.Command{
		Use:   "audit",
		Short: "Show recent moderation actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			entries, err := repository.NewAuditRepository(db).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s %s\n",
					e.CreatedAt.UTC().Format(time.RFC3339), e.ActorID, e.Action, e.Entity, e.EntityID)
			}
			return nil
		},
	}
	audit.Flags().IntVar(&limit, "limit", 20, "number of entries")

	root.AddCommand(migrate, audit,
		roleCmd("promote", "Grant the admin role to an account", domain.RoleAdmin, connect),
		roleCmd("demote", "Return an account to the user role", domain.RoleUser, connect),
	)
	return root
}

func roleCmd(use, short, role string, connect func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			email := strings.ToLower(strings.TrimSpace(args[0]))
			if err := repository.NewUserRepository(db).SetRole(cmd.Context(), email, role); err != nil {
				return fmt.Errorf("%s %s: %w", use, email, err)
			}
			note := "role=" + role
			if err := repository.NewAuditRepository(db).Record(cmd.Context(), &domain.AuditLog{
				ActorID:  domain.ActorCLI,
				Action:   domain.AuditRoleChanged,
				Entity:   domain.AuditEntityUser,
				EntityID: email,
				Note:     &note,
			}); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", email, role)
			return nil
		},
	}
}
