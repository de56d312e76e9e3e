package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campusmarket/internal/config"
	"campusmarket/internal/db"
	"campusmarket/internal/logging"
	"campusmarket/internal/repository"
)

var (
	source string
	reset  bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the marketplace database with demo data",
	Long: `Seed loads users, listings, and account info into the configured database.

Data comes from the built-in demo set, a local JSON file, or an http(s) URL
serving the same JSON document. Existing rows are updated in place: users
are matched by email, listings by creator and name, account info by email.

Examples:
  seed                                  # built-in demo data
  seed --source ./testdata/seed.json    # local file
  seed --source https://example.org/seed.json --reset`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&source, "source", "s", "", "JSON file path or http(s) URL (default: built-in demo data)")
	rootCmd.Flags().BoolVar(&reset, "reset", false, "Drop and recreate all tables before seeding")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	if err := db.Migrate(gormDB, reset || cfg.ResetDB, log); err != nil {
		return err
	}

	data, err := loadSeed(cmd.Context(), source)
	if err != nil {
		return err
	}
	log.Info("seed data loaded",
		zap.Int("users", len(data.Users)),
		zap.Int("listings", len(data.Listings)),
		zap.Int("accounts", len(data.Accounts)))

	s := &seeder{
		users:    repository.NewUserRepository(gormDB),
		listings: repository.NewListingRepository(gormDB),
		accounts: repository.NewAccountInfoRepository(gormDB),
		log:      log,
	}
	res, err := s.seed(cmd.Context(), data)
	if err != nil {
		return err
	}

	log.Info("seed completed",
		zap.Int("created", res.created),
		zap.Int("updated", res.updated),
		zap.Int("skipped", res.skipped))
	return nil
}
