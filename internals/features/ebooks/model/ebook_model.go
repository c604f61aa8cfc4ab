// file: internals/features/ebooks/model/ebook_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EbookModel: koleksi bank data e-book untuk anggota.
type EbookModel struct {
	EbookID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:ebook_id" json:"ebook_id"`
	EbookTitle       string         `gorm:"type:varchar(255);not null;column:ebook_title" json:"ebook_title"`
	EbookSlug        string         `gorm:"type:varchar(120);not null;uniqueIndex:uq_ebooks_slug;column:ebook_slug" json:"ebook_slug"`
	EbookAuthor      *string        `gorm:"type:varchar(255);column:ebook_author" json:"ebook_author,omitempty"`
	EbookCategory    *string        `gorm:"type:varchar(100);index:idx_ebooks_category;column:ebook_category" json:"ebook_category,omitempty"`
	EbookDescription *string        `gorm:"type:text;column:ebook_description" json:"ebook_description,omitempty"`
	EbookYear        *int           `gorm:"column:ebook_year" json:"ebook_year,omitempty"`
	EbookFileURL     string         `gorm:"type:text;not null;column:ebook_file_url" json:"ebook_file_url"`
	EbookFileSize    int64          `gorm:"not null;default:0;column:ebook_file_size" json:"ebook_file_size"`
	EbookCoverURL    *string        `gorm:"type:text;column:ebook_cover_url" json:"ebook_cover_url,omitempty"`
	EbookIsPublished bool           `gorm:"not null;default:true;column:ebook_is_published" json:"ebook_is_published"`
	EbookCreatedBy   *uuid.UUID     `gorm:"type:uuid;column:ebook_created_by" json:"ebook_created_by,omitempty"`
	EbookCreatedAt   time.Time      `gorm:"autoCreateTime;column:ebook_created_at" json:"ebook_created_at"`
	EbookUpdatedAt   time.Time      `gorm:"autoUpdateTime;column:ebook_updated_at" json:"ebook_updated_at"`
	EbookDeletedAt   gorm.DeletedAt `gorm:"column:ebook_deleted_at;index" json:"-"`
}

func (EbookModel) TableName() string { return "ebooks" }

func (e *EbookModel) BeforeCreate(tx *gorm.DB) error {
	if e.EbookID == uuid.Nil {
		e.EbookID = uuid.New()
	}
	return nil
}
