// file: internals/features/branches/dto/branch_dto.go
package dto

import (
	"strings"

	"pdpi_backend/internals/features/branches/model"
)

type CreateBranchRequest struct {
	Name     string  `json:"branch_name" validate:"required,min=2,max=150"`
	Code     string  `json:"branch_code" validate:"omitempty,max=60"`
	Provinsi *string `json:"branch_provinsi"`
	Kota     *string `json:"branch_kota"`
	Email    *string `json:"branch_email" validate:"omitempty,email"`
}

func (r CreateBranchRequest) ToModel() *model.BranchModel {
	return &model.BranchModel{
		BranchName:     r.Name,
		BranchCode:     strings.TrimSpace(r.Code),
		BranchProvinsi: trimPtr(r.Provinsi),
		BranchKota:     trimPtr(r.Kota),
		BranchEmail:    trimPtr(r.Email),
	}
}

// UpdateBranchRequest: field nil = tidak diubah. Kode cabang tidak bisa diganti.
type UpdateBranchRequest struct {
	Name     *string `json:"branch_name" validate:"omitempty,min=2,max=150"`
	Provinsi *string `json:"branch_provinsi"`
	Kota     *string `json:"branch_kota"`
	Email    *string `json:"branch_email" validate:"omitempty,email"`
	IsActive *bool   `json:"branch_is_active"`
}

func (r UpdateBranchRequest) Apply(b *model.BranchModel) {
	if r.Name != nil {
		b.BranchName = *r.Name
	}
	if r.Provinsi != nil {
		b.BranchProvinsi = trimPtr(r.Provinsi)
	}
	if r.Kota != nil {
		b.BranchKota = trimPtr(r.Kota)
	}
	if r.Email != nil {
		b.BranchEmail = trimPtr(r.Email)
	}
	if r.IsActive != nil {
		b.BranchIsActive = *r.IsActive
	}
}

// BranchPublicResponse: yang tampil di dropdown publik.
type BranchPublicResponse struct {
	ID       string  `json:"branch_id"`
	Name     string  `json:"branch_name"`
	Code     string  `json:"branch_code"`
	Provinsi *string `json:"branch_provinsi,omitempty"`
}

func NewBranchPublicResponses(rows []model.BranchModel) []BranchPublicResponse {
	out := make([]BranchPublicResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, BranchPublicResponse{
			ID:       b.BranchID.String(),
			Name:     b.BranchName,
			Code:     b.BranchCode,
			Provinsi: b.BranchProvinsi,
		})
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
