// file: internals/features/ebooks/dto/ebook_dto.go
package dto

import (
	"strings"

	"pdpi_backend/internals/features/ebooks/model"
)

// CreateEbookRequest dikirim sebagai multipart (file: "file", cover: "cover").
type CreateEbookRequest struct {
	Title       string  `form:"ebook_title" json:"ebook_title" validate:"required,min=2,max=255"`
	Author      *string `form:"ebook_author" json:"ebook_author" validate:"omitempty,max=255"`
	Category    *string `form:"ebook_category" json:"ebook_category" validate:"omitempty,max=100"`
	Description *string `form:"ebook_description" json:"ebook_description"`
	Year        *int    `form:"ebook_year" json:"ebook_year" validate:"omitempty,min=1900,max=2100"`
	IsPublished *bool   `form:"ebook_is_published" json:"ebook_is_published"`
}

func (r CreateEbookRequest) ToModel() *model.EbookModel {
	e := &model.EbookModel{
		EbookTitle:       strings.TrimSpace(r.Title),
		EbookAuthor:      trimPtr(r.Author),
		EbookCategory:    trimPtr(r.Category),
		EbookDescription: trimPtr(r.Description),
		EbookYear:        r.Year,
		EbookIsPublished: true,
	}
	if r.IsPublished != nil {
		e.EbookIsPublished = *r.IsPublished
	}
	return e
}

// UpdateEbookRequest: nil = tidak diubah. Slug tetap.
type UpdateEbookRequest struct {
	Title       *string `form:"ebook_title" json:"ebook_title" validate:"omitempty,min=2,max=255"`
	Author      *string `form:"ebook_author" json:"ebook_author" validate:"omitempty,max=255"`
	Category    *string `form:"ebook_category" json:"ebook_category" validate:"omitempty,max=100"`
	Description *string `form:"ebook_description" json:"ebook_description"`
	Year        *int    `form:"ebook_year" json:"ebook_year" validate:"omitempty,min=1900,max=2100"`
	IsPublished *bool   `form:"ebook_is_published" json:"ebook_is_published"`
}

func (r UpdateEbookRequest) Apply(e *model.EbookModel) {
	if r.Title != nil {
		e.EbookTitle = strings.TrimSpace(*r.Title)
	}
	if r.Author != nil {
		e.EbookAuthor = trimPtr(r.Author)
	}
	if r.Category != nil {
		e.EbookCategory = trimPtr(r.Category)
	}
	if r.Description != nil {
		e.EbookDescription = trimPtr(r.Description)
	}
	if r.Year != nil {
		e.EbookYear = r.Year
	}
	if r.IsPublished != nil {
		e.EbookIsPublished = *r.IsPublished
	}
}

// EbookResponse untuk anggota (tanpa field admin).
type EbookResponse struct {
	ID          string  `json:"ebook_id"`
	Title       string  `json:"ebook_title"`
	Slug        string  `json:"ebook_slug"`
	Author      *string `json:"ebook_author,omitempty"`
	Category    *string `json:"ebook_category,omitempty"`
	Description *string `json:"ebook_description,omitempty"`
	Year        *int    `json:"ebook_year,omitempty"`
	FileURL     string  `json:"ebook_file_url"`
	FileSize    int64   `json:"ebook_file_size"`
	CoverURL    *string `json:"ebook_cover_url,omitempty"`
}

func NewEbookResponse(e *model.EbookModel) EbookResponse {
	return EbookResponse{
		ID:          e.EbookID.String(),
		Title:       e.EbookTitle,
		Slug:        e.EbookSlug,
		Author:      e.EbookAuthor,
		Category:    e.EbookCategory,
		Description: e.EbookDescription,
		Year:        e.EbookYear,
		FileURL:     e.EbookFileURL,
		FileSize:    e.EbookFileSize,
		CoverURL:    e.EbookCoverURL,
	}
}

func NewEbookResponses(rows []model.EbookModel) []EbookResponse {
	out := make([]EbookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewEbookResponse(&rows[i]))
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
