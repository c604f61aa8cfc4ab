// file: internals/features/members/imports/service/runner.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	importModel "pdpi_backend/internals/features/members/imports/model"
)

// MaxStoredErrors: total contoh error yang disimpan per run (5 per chunk).
const MaxStoredErrors = 100

type RunRequest struct {
	FileName  string
	Sheet     *Sheet
	Settings  Settings
	Actor     Actor
	ChunkSize int
}

// Runner menjalankan import per chunk secara berurutan dan mencatat import_runs.
type Runner struct {
	DB       *gorm.DB
	Importer *Importer
	Log      *zap.Logger
}

func NewRunner(db *gorm.DB, importer *Importer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{DB: db, Importer: importer, Log: log}
}

func (r *Runner) Run(ctx context.Context, req RunRequest) (*importModel.ImportRunModel, error) {
	if req.Sheet == nil {
		return nil, fmt.Errorf("sheet kosong")
	}
	run := &importModel.ImportRunModel{
		ImportRunFileName:              req.FileName,
		ImportRunSheet:                 req.Sheet.Name,
		ImportRunMode:                  string(req.Settings.Mode),
		ImportRunCreateBranchIfMissing: req.Settings.CreateBranchIfMissing,
		ImportRunForceAdminBranch:      req.Settings.ForceAdminBranch,
		ImportRunStatus:                importModel.ImportRunRunning,
		ImportRunTotalRows:             len(req.Sheet.Rows),
		ImportRunBranchID:              req.Actor.BranchID,
	}
	if req.Actor.UserID != uuid.Nil {
		uid := req.Actor.UserID
		run.ImportRunCreatedBy = &uid
	}
	if unmapped, err := sonic.Marshal(req.Sheet.Unmapped); err == nil {
		run.ImportRunUnmappedHeaders = unmapped
	}
	if err := r.DB.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("gagal mencatat import run: %w", err)
	}

	log := r.Log.With(zap.String("import_run_id", run.ImportRunID.String()), zap.String("file", req.FileName))
	log.Info("import dimulai", zap.Int("rows", len(req.Sheet.Rows)), zap.String("mode", run.ImportRunMode))

	var idx *BranchIndex
	if !req.Settings.ForceAdminBranch {
		var err error
		if idx, err = LoadBranchIndex(ctx, r.Importer.Branches); err != nil {
			return r.fail(ctx, run, fmt.Errorf("gagal memuat cabang: %w", err))
		}
	}

	var total Counts
	samples := []RowError{}
	offset := 0
	for _, chunk := range Chunks(req.Sheet.Rows, req.ChunkSize) {
		res := r.Importer.ImportChunk(ctx, ChunkRequest{
			Rows:      chunk,
			Settings:  req.Settings,
			Actor:     req.Actor,
			Branches:  idx,
			RowOffset: offset,
		})
		offset += len(chunk)
		total.Merge(res.Counts)
		for _, e := range res.Errors {
			if len(samples) < MaxStoredErrors {
				samples = append(samples, e)
			}
		}
	}

	run.ImportRunInserted = total.Inserted
	run.ImportRunUpdated = total.Updated
	run.ImportRunDuplicate = total.Duplicate
	run.ImportRunInvalid = total.Invalid
	run.ImportRunCabangError = total.CabangError
	run.ImportRunSystemError = total.SystemError
	if raw, err := sonic.Marshal(samples); err == nil {
		run.ImportRunErrors = raw
	}
	run.ImportRunStatus = importModel.ImportRunCompleted
	now := time.Now()
	run.ImportRunFinishedAt = &now

	// ctx request bisa sudah batal; ringkasan tetap disimpan
	if err := r.DB.WithContext(context.Background()).Save(run).Error; err != nil {
		return nil, fmt.Errorf("gagal menyimpan ringkasan import: %w", err)
	}
	log.Info("import selesai",
		zap.Int("inserted", total.Inserted),
		zap.Int("updated", total.Updated),
		zap.Int("duplicate", total.Duplicate),
		zap.Int("invalid", total.Invalid),
		zap.Int("cabang_error", total.CabangError),
		zap.Int("system_error", total.SystemError),
	)
	return run, nil
}

func (r *Runner) fail(_ context.Context, run *importModel.ImportRunModel, cause error) (*importModel.ImportRunModel, error) {
	msg := cause.Error()
	now := time.Now()
	run.ImportRunStatus = importModel.ImportRunFailed
	run.ImportRunMessage = &msg
	run.ImportRunFinishedAt = &now
	if err := r.DB.WithContext(context.Background()).Save(run).Error; err != nil {
		r.Log.Error("gagal menyimpan status import", zap.Error(err))
	}
	return run, cause
}

// RunErrors membaca kembali contoh error yang tersimpan.
func RunErrors(run *importModel.ImportRunModel) ([]RowError, error) {
	out := []RowError{}
	if len(run.ImportRunErrors) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(run.ImportRunErrors, &out); err != nil {
		return nil, err
	}
	return out, nil
}
