package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/configs"
	database "pdpi_backend/internals/databases"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "pdpictl",
		Short:         "Perkakas admin direktori anggota PDPI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configs.LoadEnv()
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log level debug")

	cmd.AddCommand(
		newImportCmd(&opts),
		newReindexCmd(&opts),
		newMigrateCmd(&opts),
		newSeedCmd(&opts),
	)
	return cmd
}

func newLogger(opts *rootOptions) *zap.Logger {
	level := configs.GetEnv("LOG_LEVEL", "info")
	if opts.verbose {
		level = "debug"
	}
	l, err := configs.NewLogger(level, "console", "pdpictl")
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// openDB: koneksi + migrasi (CLI selalu memastikan skema terbaru).
func openDB(log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(log)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}
