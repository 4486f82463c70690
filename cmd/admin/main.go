package main

import (
	"fmt"
	"os"
	"time"

	"smartalert/backend/internal/config"
	"smartalert/backend/internal/storage"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "SmartAlert maintenance commands",
	Long:  "Seeds demo data, creates accounts and fixes complaint statuses directly in the database.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $SMARTALERT_CONFIG or config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStorage connects without Redis; complaint reads are cached in memory
// for the lifetime of the command only.
func openStorage() (*storage.Service, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("SMARTALERT_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return storage.NewStorageService(db, storage.NewMemoryKV(), nil, time.Minute), nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
