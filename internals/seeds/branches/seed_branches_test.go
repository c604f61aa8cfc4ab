package branches

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdpi_backend/internals/features/branches/model"
)

func TestSeedBranchesIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seed_branches?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.BranchModel{}))

	file := filepath.Join(t.TempDir(), "branches.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"branch_name": "PD Jawa Barat", "branch_provinsi": "Jawa Barat"},
		{"branch_name": "PD Bali"}
	]`), 0o644))

	ctx := context.Background()
	n, err := SeedBranchesFromJSON(ctx, db, file, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SeedBranchesFromJSON(ctx, db, file, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n, "nama yang sama dilewati")

	var total int64
	db.Model(&model.BranchModel{}).Count(&total)
	assert.EqualValues(t, 2, total)
}

func TestBundledBranchDataParses(t *testing.T) {
	raw, err := os.ReadFile("data_branches.json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "PD Jawa Barat")
}
