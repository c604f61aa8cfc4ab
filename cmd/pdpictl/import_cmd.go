package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	importService "pdpi_backend/internals/features/members/imports/service"
	"pdpi_backend/internals/helpers/cache"
)

type importOptions struct {
	file         string
	mode         string
	createBranch bool
	chunk        int
	headers      string
	errorsOut    string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import anggota dari file xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "file xlsx (wajib)")
	cmd.Flags().StringVar(&opts.mode, "mode", "upsert", "insert | upsert | skip")
	cmd.Flags().BoolVar(&opts.createBranch, "create-branch", false, "buat cabang yang belum ada")
	cmd.Flags().IntVar(&opts.chunk, "chunk", 100, "jumlah baris per chunk")
	cmd.Flags().StringVar(&opts.headers, "headers", "", "file YAML alias header (opsional)")
	cmd.Flags().StringVar(&opts.errorsOut, "errors-out", "", "tulis contoh error ke file xlsx ini")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(cmd *cobra.Command, root *rootOptions, opts importOptions) error {
	ctx := cmd.Context()
	log := newLogger(root)
	defer func() { _ = log.Sync() }()

	mode, err := importService.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	headers := importService.DefaultHeaderMap()
	if opts.headers != "" {
		raw, err := os.ReadFile(opts.headers)
		if err != nil {
			return err
		}
		if headers, err = importService.LoadHeaderMap(raw); err != nil {
			return err
		}
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()
	sheet, err := importService.ReadWorkbook(f, headers)
	if err != nil {
		return err
	}
	if len(sheet.Unmapped) > 0 {
		log.Warn("header tidak dikenali (diabaikan)", zap.Strings("headers", sheet.Unmapped))
	}

	db, err := openDB(log)
	if err != nil {
		return err
	}
	d := deps.FromEnv(ctx, db, log)
	runner := importService.NewRunner(db, d.Importer(), log)

	run, err := runner.Run(ctx, importService.RunRequest{
		FileName: filepath.Base(opts.file),
		Sheet:    sheet,
		Settings: importService.Settings{
			Mode:                  mode,
			CreateBranchIfMissing: opts.createBranch,
		},
		Actor:     importService.Actor{Role: constants.RoleSuperAdmin},
		ChunkSize: opts.chunk,
	})
	if err != nil {
		return err
	}
	// statistik publik harus dihitung ulang
	if err := d.Cache.Bump(ctx, cache.NSStats); err != nil {
		log.Warn("bump cache stats gagal", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "import %s: %s\n", run.ImportRunID, run.ImportRunStatus)
	fmt.Fprintf(out, "  total       %d\n", run.ImportRunTotalRows)
	fmt.Fprintf(out, "  inserted    %d\n", run.ImportRunInserted)
	fmt.Fprintf(out, "  updated     %d\n", run.ImportRunUpdated)
	fmt.Fprintf(out, "  duplicate   %d\n", run.ImportRunDuplicate)
	fmt.Fprintf(out, "  invalid     %d\n", run.ImportRunInvalid)
	fmt.Fprintf(out, "  cabangError %d\n", run.ImportRunCabangError)
	fmt.Fprintf(out, "  systemError %d\n", run.ImportRunSystemError)

	if opts.errorsOut == "" {
		return nil
	}
	rowErrs, err := importService.RunErrors(run)
	if err != nil {
		return err
	}
	data, err := importService.ErrorsXLSX(rowErrs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.errorsOut, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "contoh error ditulis ke %s (%d baris)\n", opts.errorsOut, len(rowErrs))
	return nil
}
