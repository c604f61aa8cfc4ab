package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	importModel "pdpi_backend/internals/features/members/imports/model"
)

func TestRunnerRecordsRun(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&importModel.ImportRunModel{}))

	im := NewImporter(NewGormMemberStore(db), NewGormBranchStore(db), nil, zap.NewNop())
	runner := NewRunner(db, im, zap.NewNop())

	rows := []Row{}
	for i := 0; i < 7; i++ {
		rows = append(rows, Row{ColNama: "Anggota", ColNPA: "", ColCabang: "Sumatera Utara", ColTempatTugas: string(rune('A' + i))})
	}
	rows = append(rows, Row{ColNama: ""})

	run, err := runner.Run(context.Background(), RunRequest{
		FileName:  "anggota.xlsx",
		Sheet:     &Sheet{Name: "Anggota", Rows: rows, Unmapped: []string{"Warna"}},
		Settings:  Settings{Mode: ModeSkip, CreateBranchIfMissing: true},
		Actor:     Actor{UserID: uuid.New()},
		ChunkSize: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, importModel.ImportRunCompleted, run.ImportRunStatus)
	assert.Equal(t, 8, run.ImportRunTotalRows)
	assert.Equal(t, 7, run.ImportRunInserted)
	assert.Equal(t, 1, run.ImportRunInvalid)
	require.NotNil(t, run.ImportRunFinishedAt)

	var stored importModel.ImportRunModel
	require.NoError(t, db.First(&stored, "import_run_id = ?", run.ImportRunID).Error)
	errs, err := RunErrors(&stored)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, 8, errs[0].Row)
	assert.Equal(t, OutcomeInvalid, errs[0].Reason)

	var branches int64
	require.NoError(t, db.Table("branches").Count(&branches).Error)
	assert.EqualValues(t, 1, branches)
}
