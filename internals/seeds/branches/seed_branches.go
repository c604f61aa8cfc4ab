package branches

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/features/branches/model"
	branchService "pdpi_backend/internals/features/branches/service"
)

type BranchSeed struct {
	Name     string  `json:"branch_name"`
	Provinsi *string `json:"branch_provinsi"`
	Kota     *string `json:"branch_kota"`
	Email    *string `json:"branch_email"`
}

// SeedBranchesFromJSON: cabang yang namanya sudah ada dilewati.
func SeedBranchesFromJSON(ctx context.Context, db *gorm.DB, filePath string, log *zap.Logger) (int, error) {
	log.Info("📥 Membaca file cabang", zap.String("file", filePath))

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []BranchSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	svc := branchService.NewBranchService(db)
	created := 0
	for _, data := range inputs {
		b := &model.BranchModel{
			BranchName:     data.Name,
			BranchProvinsi: data.Provinsi,
			BranchKota:     data.Kota,
			BranchEmail:    data.Email,
			BranchIsActive: true,
		}
		switch err := svc.Create(ctx, b); {
		case errors.Is(err, branchService.ErrBranchExists):
			log.Debug("ℹ️ cabang sudah ada, dilewati", zap.String("name", data.Name))
		case err != nil:
			return created, fmt.Errorf("cabang %q: %w", data.Name, err)
		default:
			created++
		}
	}
	log.Info("✅ Seed cabang selesai", zap.Int("created", created), zap.Int("total", len(inputs)))
	return created, nil
}
