package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pdpi_backend/internals/deps"
)

func newReindexCmd(root *rootOptions) *cobra.Command {
	var batch int
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Bangun ulang index pencarian anggota (meilisearch)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(root)
			defer func() { _ = log.Sync() }()

			db, err := openDB(log)
			if err != nil {
				return err
			}
			d := deps.FromEnv(ctx, db, log)
			if !d.Index.Enabled() {
				return errors.New("index pencarian tidak aktif (MEILI_URL kosong)")
			}
			n, err := d.MemberService().Reindex(ctx, batch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d anggota diindeks ulang\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 500, "ukuran batch")
	return cmd
}
