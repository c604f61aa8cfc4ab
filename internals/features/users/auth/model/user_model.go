// file: internals/features/users/auth/model/user_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel: akun login (super admin, admin cabang, anggota).
type UserModel struct {
	UserID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	UserEmail       string         `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`
	UserName        string         `gorm:"type:varchar(100);not null;column:user_name" json:"user_name"`
	UserPassword    string         `gorm:"type:text;not null;column:user_password" json:"-"`
	UserRole        string         `gorm:"type:varchar(20);not null;default:'member';column:user_role" json:"user_role"`
	UserBranchID    *uuid.UUID     `gorm:"type:uuid;column:user_branch_id" json:"user_branch_id,omitempty"`
	UserMemberID    *uuid.UUID     `gorm:"type:uuid;index:idx_users_member_id;column:user_member_id" json:"user_member_id,omitempty"`
	UserIsActive    bool           `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`
	UserLastLoginAt *time.Time     `gorm:"column:user_last_login_at" json:"user_last_login_at,omitempty"`
	UserCreatedAt   time.Time      `gorm:"autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt   time.Time      `gorm:"autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
	UserDeletedAt   gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

func (u *UserModel) BeforeSave(tx *gorm.DB) error {
	u.UserEmail = strings.ToLower(strings.TrimSpace(u.UserEmail))
	return nil
}
