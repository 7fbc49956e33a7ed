package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"daily_report_app_go/config"
	"daily_report_app_go/db"
	"daily_report_app_go/logging"
	"daily_report_app_go/models"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Administrative tasks for the daily report database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(createUserCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDB loads configuration, installs the logger and migrates the database.
// The returned func releases both.
func openDB() (func(), error) {
	cfg := config.Load()

	_, flush, err := logging.Install(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		flush()
		return nil, err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		db.Close()
		flush()
		return nil, err
	}
	return func() {
		if err := db.Close(); err != nil {
			zap.L().Warn("failed to close database", zap.Error(err))
		}
		flush()
	}, nil
}
