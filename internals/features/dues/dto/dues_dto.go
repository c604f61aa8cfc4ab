// file: internals/features/dues/dto/dues_dto.go
package dto

import (
	"time"

	"pdpi_backend/internals/features/dues/model"
)

type CreatePaymentRequest struct {
	Years  []int  `json:"years" validate:"required,min=1,max=10,dive,min=2000,max=2100"`
	Method string `json:"method" validate:"required,oneof=qris bank_transfer"`
}

type VerifyPaymentRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"required_if=Approve false,max=500"`
}

type PaymentResponse struct {
	ID           string              `json:"dues_payment_id"`
	MemberID     string              `json:"dues_payment_member_id"`
	Method       model.PaymentMethod `json:"method"`
	Status       model.PaymentStatus `json:"status"`
	AmountIDR    int64               `json:"amount_idr"`
	Years        []int               `json:"years"`
	OrderID      string              `json:"order_id"`
	SnapToken    *string             `json:"snap_token,omitempty"`
	RedirectURL  *string             `json:"redirect_url,omitempty"`
	ProofURL     *string             `json:"proof_url,omitempty"`
	SenderBank   *string             `json:"sender_bank,omitempty"`
	SenderName   *string             `json:"sender_name,omitempty"`
	RejectReason *string             `json:"reject_reason,omitempty"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	PaidAt       *time.Time          `json:"paid_at,omitempty"`
	VerifiedAt   *time.Time          `json:"verified_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func NewPaymentResponse(p *model.DuesPaymentModel) PaymentResponse {
	out := PaymentResponse{
		ID:           p.DuesPaymentID.String(),
		MemberID:     p.DuesPaymentMemberID.String(),
		Method:       p.DuesPaymentMethod,
		Status:       p.DuesPaymentStatus,
		AmountIDR:    p.DuesPaymentAmountIDR,
		Years:        p.Years(),
		OrderID:      p.DuesPaymentOrderID,
		ProofURL:     p.DuesPaymentProofURL,
		SenderBank:   p.DuesPaymentSenderBank,
		SenderName:   p.DuesPaymentSenderName,
		RejectReason: p.DuesPaymentRejectReason,
		ExpiresAt:    p.DuesPaymentExpiresAt,
		PaidAt:       p.DuesPaymentPaidAt,
		VerifiedAt:   p.DuesPaymentVerifiedAt,
		CreatedAt:    p.DuesPaymentCreatedAt,
	}
	// token snap hanya berguna selama masih pending
	if p.DuesPaymentStatus == model.StatusPending {
		out.SnapToken = p.DuesPaymentSnapToken
		out.RedirectURL = p.DuesPaymentRedirectURL
	}
	return out
}

func NewPaymentResponses(rows []model.DuesPaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewPaymentResponse(&rows[i]))
	}
	return out
}
