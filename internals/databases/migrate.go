package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	branchModel "pdpi_backend/internals/features/branches/model"
	duesModel "pdpi_backend/internals/features/dues/model"
	ebookModel "pdpi_backend/internals/features/ebooks/model"
	importModel "pdpi_backend/internals/features/members/imports/model"
	memberModel "pdpi_backend/internals/features/members/members/model"
	authModel "pdpi_backend/internals/features/users/auth/model"
)

// Models: urutan mengikuti dependensi antar tabel.
func Models() []any {
	return []any{
		&branchModel.BranchModel{},
		&memberModel.MemberModel{},
		&authModel.UserModel{},
		&authModel.TokenBlacklist{},
		&importModel.ImportRunModel{},
		&duesModel.DuesPaymentModel{},
		&duesModel.DuesPaymentItemModel{},
		&ebookModel.EbookModel{},
	}
}

// postgresExtras: index trigram untuk pencarian ILIKE '%..%' di tabel besar.
var postgresExtras = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_members_search_trgm ON members USING gin (member_search_text gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_members_nama_trgm ON members USING gin (member_nama gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_ebooks_title_trgm ON ebooks USING gin (ebook_title gin_trgm_ops)`,
}

func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range postgresExtras {
		// pg_trgm bisa tidak tersedia (hak akses); pencarian tetap jalan tanpa index.
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("migrasi tambahan dilewati", zap.String("sql", stmt), zap.Error(err))
		}
	}
	return nil
}
