// file: internals/features/dues/model/dues_payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	MethodQRIS         PaymentMethod = "qris"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

type PaymentStatus string

const (
	StatusPending              PaymentStatus = "pending"               // menunggu bayar (QRIS) / menunggu bukti (transfer)
	StatusAwaitingVerification PaymentStatus = "awaiting_verification" // bukti transfer sudah diunggah
	StatusPaid                 PaymentStatus = "paid"
	StatusExpired              PaymentStatus = "expired"
	StatusCanceled             PaymentStatus = "canceled"
	StatusFailed               PaymentStatus = "failed"
	StatusRejected             PaymentStatus = "rejected" // bukti transfer ditolak admin
)

// ActiveStatuses: tahun pada pembayaran dengan status ini tidak bisa dibayar ulang.
var ActiveStatuses = []PaymentStatus{StatusPending, StatusAwaitingVerification, StatusPaid}

func (s PaymentStatus) IsFinal() bool {
	switch s {
	case StatusPaid, StatusExpired, StatusCanceled, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// DuesPaymentModel: satu transaksi iuran (bisa beberapa tahun sekaligus).
type DuesPaymentModel struct {
	DuesPaymentID        uuid.UUID     `gorm:"type:uuid;primaryKey;column:dues_payment_id" json:"dues_payment_id"`
	DuesPaymentMemberID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_dues_payments_member;column:dues_payment_member_id" json:"dues_payment_member_id"`
	DuesPaymentBranchID  *uuid.UUID    `gorm:"type:uuid;index:idx_dues_payments_branch;column:dues_payment_branch_id" json:"dues_payment_branch_id,omitempty"`
	DuesPaymentMethod    PaymentMethod `gorm:"type:varchar(20);not null;column:dues_payment_method" json:"dues_payment_method"`
	DuesPaymentStatus    PaymentStatus `gorm:"type:varchar(30);not null;index:idx_dues_payments_status;column:dues_payment_status" json:"dues_payment_status"`
	DuesPaymentAmountIDR int64         `gorm:"not null;column:dues_payment_amount_idr" json:"dues_payment_amount_idr"`

	// order_id ke Midtrans (juga referensi transfer manual)
	DuesPaymentOrderID     string  `gorm:"type:varchar(64);not null;uniqueIndex:uq_dues_payments_order;column:dues_payment_order_id" json:"dues_payment_order_id"`
	DuesPaymentSnapToken   *string `gorm:"type:text;column:dues_payment_snap_token" json:"dues_payment_snap_token,omitempty"`
	DuesPaymentRedirectURL *string `gorm:"type:text;column:dues_payment_redirect_url" json:"dues_payment_redirect_url,omitempty"`

	DuesPaymentGatewayStatus *string        `gorm:"type:varchar(30);column:dues_payment_gateway_status" json:"dues_payment_gateway_status,omitempty"`
	DuesPaymentGatewayTxID   *string        `gorm:"type:varchar(100);column:dues_payment_gateway_tx_id" json:"dues_payment_gateway_tx_id,omitempty"`
	DuesPaymentGatewayRaw    datatypes.JSON `gorm:"column:dues_payment_gateway_raw" json:"-"`

	// transfer manual
	DuesPaymentProofURL     *string    `gorm:"type:text;column:dues_payment_proof_url" json:"dues_payment_proof_url,omitempty"`
	DuesPaymentSenderBank   *string    `gorm:"type:varchar(100);column:dues_payment_sender_bank" json:"dues_payment_sender_bank,omitempty"`
	DuesPaymentSenderName   *string    `gorm:"type:varchar(150);column:dues_payment_sender_name" json:"dues_payment_sender_name,omitempty"`
	DuesPaymentVerifiedBy   *uuid.UUID `gorm:"type:uuid;column:dues_payment_verified_by" json:"dues_payment_verified_by,omitempty"`
	DuesPaymentVerifiedAt   *time.Time `gorm:"column:dues_payment_verified_at" json:"dues_payment_verified_at,omitempty"`
	DuesPaymentRejectReason *string    `gorm:"type:text;column:dues_payment_reject_reason" json:"dues_payment_reject_reason,omitempty"`

	DuesPaymentPaidAt    *time.Time `gorm:"column:dues_payment_paid_at" json:"dues_payment_paid_at,omitempty"`
	DuesPaymentExpiresAt *time.Time `gorm:"index:idx_dues_payments_expires;column:dues_payment_expires_at" json:"dues_payment_expires_at,omitempty"`

	Items []DuesPaymentItemModel `gorm:"foreignKey:DuesItemPaymentID;references:DuesPaymentID" json:"items,omitempty"`

	DuesPaymentCreatedAt time.Time      `gorm:"autoCreateTime;column:dues_payment_created_at" json:"dues_payment_created_at"`
	DuesPaymentUpdatedAt time.Time      `gorm:"autoUpdateTime;column:dues_payment_updated_at" json:"dues_payment_updated_at"`
	DuesPaymentDeletedAt gorm.DeletedAt `gorm:"column:dues_payment_deleted_at;index" json:"-"`
}

func (DuesPaymentModel) TableName() string { return "dues_payments" }

func (m *DuesPaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.DuesPaymentID == uuid.Nil {
		m.DuesPaymentID = uuid.New()
	}
	return nil
}

// Years: daftar tahun yang dicakup pembayaran.
func (m *DuesPaymentModel) Years() []int {
	out := make([]int, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, it.DuesItemYear)
	}
	return out
}

// DuesPaymentItemModel: satu tahun iuran di dalam pembayaran.
type DuesPaymentItemModel struct {
	DuesItemID        uuid.UUID `gorm:"type:uuid;primaryKey;column:dues_item_id" json:"dues_item_id"`
	DuesItemPaymentID uuid.UUID `gorm:"type:uuid;not null;index:idx_dues_items_payment;column:dues_item_payment_id" json:"dues_item_payment_id"`
	DuesItemMemberID  uuid.UUID `gorm:"type:uuid;not null;index:idx_dues_items_member_year,priority:1;column:dues_item_member_id" json:"dues_item_member_id"`
	DuesItemYear      int       `gorm:"not null;index:idx_dues_items_member_year,priority:2;column:dues_item_year" json:"dues_item_year"`
	DuesItemAmountIDR int64     `gorm:"not null;column:dues_item_amount_idr" json:"dues_item_amount_idr"`
	DuesItemCreatedAt time.Time `gorm:"autoCreateTime;column:dues_item_created_at" json:"dues_item_created_at"`
}

func (DuesPaymentItemModel) TableName() string { return "dues_payment_items" }

func (m *DuesPaymentItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.DuesItemID == uuid.Nil {
		m.DuesItemID = uuid.New()
	}
	return nil
}
