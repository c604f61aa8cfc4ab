package seeds

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	authService "pdpi_backend/internals/features/users/auth/service"
	branchSeed "pdpi_backend/internals/seeds/branches"
	userSeed "pdpi_backend/internals/seeds/users/auth"
)

// RunAllSeeds: cabang dulu, lalu akun admin (butuh cabang). dir = folder seeds.
// File user bersifat opsional karena berisi password.
func RunAllSeeds(ctx context.Context, db *gorm.DB, auth *authService.AuthService, dir string, log *zap.Logger) error {
	//* Cabang / PD
	if _, err := branchSeed.SeedBranchesFromJSON(ctx, db, filepath.Join(dir, "branches", "data_branches.json"), log); err != nil {
		return err
	}

	//* User admin
	usersFile := filepath.Join(dir, "users", "auth", "data_users.json")
	if _, err := os.Stat(usersFile); err != nil {
		log.Info("data_users.json tidak ada, seed user dilewati", zap.String("file", usersFile))
		return nil
	}
	_, err := userSeed.SeedUsersFromJSON(ctx, db, auth, usersFile, log)
	return err
}
