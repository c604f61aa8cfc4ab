// file: internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "pdpi_backend/internals/features/users/auth/model"
)

var ErrUserNotFound = errors.New("user tidak ditemukan")

/* ====================== USER ====================== */

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	err := db.WithContext(ctx).Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*authModel.UserModel, error) {
	var user authModel.UserModel
	err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *authModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func ListUsers(ctx context.Context, db *gorm.DB, role string, limit, offset int) ([]authModel.UserModel, int64, error) {
	q := db.WithContext(ctx).Model(&authModel.UserModel{})
	if role != "" {
		q = q.Where("user_role = ?", role)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []authModel.UserModel
	err := q.Order("user_created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&authModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", hash).Error
}

func TouchLastLogin(ctx context.Context, db *gorm.DB, userID uuid.UUID, at time.Time) error {
	return db.WithContext(ctx).Model(&authModel.UserModel{}).
		Where("user_id = ?", userID).
		UpdateColumn("user_last_login_at", at).Error
}

/* ====================== BLACKLIST ====================== */

// BlacklistToken idempoten (logout dua kali tidak error).
func BlacklistToken(ctx context.Context, db *gorm.DB, tokenHash string, expiredAt time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_hash"}}, DoNothing: true}).
		Create(&authModel.TokenBlacklist{TokenHash: tokenHash, ExpiredAt: expiredAt}).Error
}

func IsTokenBlacklisted(ctx context.Context, db *gorm.DB, tokenHash string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token_hash = ?", tokenHash).
		Count(&n).Error
	return n > 0, err
}

// DeleteExpiredBlacklist menghapus (hard) token yang kadaluarsa sebelum `before`, per batch.
func DeleteExpiredBlacklist(ctx context.Context, db *gorm.DB, before time.Time, batch int) (int64, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("expired_at < ?", before).
		Limit(batch).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Unscoped().Delete(&authModel.TokenBlacklist{}, ids)
	return res.RowsAffected, res.Error
}
