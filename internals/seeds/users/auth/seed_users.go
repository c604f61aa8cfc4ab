package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"

	branchService "pdpi_backend/internals/features/branches/service"
	authService "pdpi_backend/internals/features/users/auth/service"
)

type UserSeed struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	BranchName string `json:"branch_name"` // wajib untuk admin_pd
}

// SeedUsersFromJSON membuat akun admin; email yang sudah terdaftar dilewati.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, svc *authService.AuthService, filePath string, log *zap.Logger) (int, error) {
	log.Info("📥 Membaca file user", zap.String("file", filePath))

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	branches := branchService.NewBranchService(db)
	created := 0
	for _, data := range inputs {
		in := authService.CreateUserInput{
			Email:    data.Email,
			Name:     data.Name,
			Password: data.Password,
			Role:     data.Role,
		}
		if data.BranchName != "" {
			b, err := branches.FindByName(ctx, data.BranchName)
			if err != nil {
				log.Warn("❌ cabang user tidak ditemukan, dilewati", zap.String("email", data.Email), zap.String("branch", data.BranchName))
				continue
			}
			in.BranchID = &b.BranchID
		}
		switch _, err := svc.CreateUser(ctx, in); {
		case errors.Is(err, authService.ErrEmailExists):
			log.Debug("ℹ️ user sudah ada, dilewati", zap.String("email", data.Email))
		case err != nil:
			log.Warn("❌ gagal membuat user", zap.String("email", data.Email), zap.Error(err))
		default:
			created++
		}
	}
	log.Info("✅ Seed user selesai", zap.Int("created", created), zap.Int("total", len(inputs)))
	return created, nil
}
