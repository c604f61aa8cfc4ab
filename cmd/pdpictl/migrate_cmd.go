package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdpi_backend/internals/configs"
	"pdpi_backend/internals/deps"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Jalankan auto-migrate skema + super admin awal (SUPERADMIN_EMAIL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(root)
			defer func() { _ = log.Sync() }()

			db, err := openDB(log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "skema sudah terbaru")

			email := configs.GetEnv("SUPERADMIN_EMAIL")
			if email == "" {
				return nil
			}
			created, err := deps.NewAuthServiceFromEnv(db, log).EnsureSuperAdmin(ctx, email, configs.GetEnv("SUPERADMIN_PASSWORD"))
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "super admin %s dibuat\n", email)
			}
			return nil
		},
	}
}
