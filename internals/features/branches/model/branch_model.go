// file: internals/features/branches/model/branch_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchModel = PD / cabang.
type BranchModel struct {
	BranchID        uuid.UUID      `gorm:"type:uuid;primaryKey;column:branch_id" json:"branch_id"`
	BranchName      string         `gorm:"type:varchar(150);not null;column:branch_name" json:"branch_name"`
	BranchNameKey   string         `gorm:"type:varchar(150);not null;uniqueIndex:uq_branches_name_key;column:branch_name_key" json:"-"`
	BranchCode      string         `gorm:"type:varchar(60);not null;uniqueIndex:uq_branches_code;column:branch_code" json:"branch_code"`
	BranchProvinsi  *string        `gorm:"type:text;column:branch_provinsi" json:"branch_provinsi,omitempty"`
	BranchKota      *string        `gorm:"type:text;column:branch_kota" json:"branch_kota,omitempty"`
	BranchEmail     *string        `gorm:"type:text;column:branch_email" json:"branch_email,omitempty"`
	BranchIsActive  bool           `gorm:"not null;default:true;column:branch_is_active" json:"branch_is_active"`
	BranchCreatedAt time.Time      `gorm:"autoCreateTime;column:branch_created_at" json:"branch_created_at"`
	BranchUpdatedAt time.Time      `gorm:"autoUpdateTime;column:branch_updated_at" json:"branch_updated_at"`
	BranchDeletedAt gorm.DeletedAt `gorm:"column:branch_deleted_at;index" json:"branch_deleted_at,omitempty"`
}

func (BranchModel) TableName() string { return "branches" }

func (b *BranchModel) BeforeCreate(tx *gorm.DB) error {
	if b.BranchID == uuid.Nil {
		b.BranchID = uuid.New()
	}
	return nil
}

func (b *BranchModel) BeforeSave(tx *gorm.DB) error {
	b.BranchName = strings.Join(strings.Fields(b.BranchName), " ")
	b.BranchNameKey = NameKey(b.BranchName)
	return nil
}

// NameKey: kunci pencocokan nama cabang (trim + lowercase + spasi tunggal).
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
