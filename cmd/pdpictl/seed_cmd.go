package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdpi_backend/internals/deps"
	"pdpi_backend/internals/seeds"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Isi data awal cabang (dan akun admin dari data_users.json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(root)
			defer func() { _ = log.Sync() }()

			db, err := openDB(log)
			if err != nil {
				return err
			}
			if err := seeds.RunAllSeeds(ctx, db, deps.NewAuthServiceFromEnv(db, log), dir, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed selesai")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "internals/seeds", "folder data seed")
	return cmd
}
