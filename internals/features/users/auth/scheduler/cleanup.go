// file: internals/features/users/auth/scheduler/cleanup.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/configs"
	authRepo "pdpi_backend/internals/features/users/auth/repository"
)

// RunBlacklistCleanup menghapus token blacklist yang exp-nya sudah lewat lebih dari ttl.
func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, ttl time.Duration, log *zap.Logger) (int64, error) {
	deleteBefore := time.Now().Add(-ttl)
	var total int64
	for {
		n, err := authRepo.DeleteExpiredBlacklist(ctx, db, deleteBefore, 500)
		if err != nil {
			return total, err
		}
		total += n
		if n < 500 {
			break
		}
	}
	if total > 0 {
		log.Info("token blacklist kadaluarsa dihapus", zap.Int64("deleted", total))
	}
	return total, nil
}

// RegisterBlacklistCleanup: default tiap hari 03:10 (BLACKLIST_CLEANUP_CRON),
// TTL dari TOKEN_BLACKLIST_TTL_DAYS (default 7 hari).
func RegisterBlacklistCleanup(c *cron.Cron, db *gorm.DB, log *zap.Logger) error {
	ttl := time.Duration(configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)) * 24 * time.Hour
	spec := configs.GetEnv("BLACKLIST_CLEANUP_CRON", "10 3 * * *")

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := RunBlacklistCleanup(ctx, db, ttl, log); err != nil {
			log.Error("cleanup token blacklist gagal", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	log.Info("scheduler cleanup blacklist aktif", zap.String("schedule", spec), zap.Duration("ttl", ttl))
	return nil
}
