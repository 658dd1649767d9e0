package main

import (
	"fmt"
	"os"
	"strconv"

	"doctor-booking/cmd/bootstrap"
	"doctor-booking/config"
	"doctor-booking/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "doctor-booking",
		Short: "Doctor appointment scheduling and booking API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			// Initialize application with all dependencies
			app, err := bootstrap.New()
			if err != nil {
				logrus.Fatalf("Failed to initialize application: %v", err)
			}

			// Run the application
			app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := database.MigrateUp(cfg.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Migrations applied successfully.")
			return nil
		},
	})

	// migrate down [steps]
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cfg.DB, steps); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			fmt.Printf("Rolled back %d migration(s).\n", steps)
			return nil
		},
	})

	return cmd
}
