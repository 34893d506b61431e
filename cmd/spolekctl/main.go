package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/db"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

var dsn string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "spolekctl",
		Short: "Administrative helper for the club registry",
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DB_DSN"), "postgres connection string")

	root.AddCommand(migrateCmd(), seedCmd(), createUserCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func requireDSN() error {
	if dsn == "" {
		return errors.New("--dsn or DB_DSN is required")
	}
	return nil
}

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDSN(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			return db.Migrate(ctx, dsn, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", db.DefaultMigrationsDir, "migrations source directory")
	return cmd
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert fixture data from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDSN(); err != nil {
				return err
			}
			if file == "" {
				return errors.New("--file is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			orm, err := db.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close(orm)

			return db.Seed(ctx, orm, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the fixtures YAML file")
	return cmd
}

func createUserCmd() *cobra.Command {
	var username, name, surname, role, email string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a user identity for audit attribution and chairmanship",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDSN(); err != nil {
				return err
			}
			if username == "" || email == "" {
				return errors.New("--username and --email are required")
			}
			switch role {
			case models.RoleAdmin, models.RoleChairman, models.RoleReadOnly, models.RolePublic:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			orm, err := db.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close(orm)

			user := models.User{
				ID:       uuid.NewString(),
				Username: username,
				Name:     name,
				Surname:  surname,
				Role:     role,
				Active:   true,
				Email:    email,
			}
			if err := orm.WithContext(ctx).Create(&user).Error; err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "unique username")
	cmd.Flags().StringVar(&name, "name", "", "given name")
	cmd.Flags().StringVar(&surname, "surname", "", "surname")
	cmd.Flags().StringVar(&role, "role", models.RoleReadOnly, "Admin, Chairman, ReadOnly, or Public")
	cmd.Flags().StringVar(&email, "email", "", "unique email address")
	return cmd
}
