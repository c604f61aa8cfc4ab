// file: internals/features/dues/service/dues_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pdpi_backend/internals/features/dues/model"
	memberModel "pdpi_backend/internals/features/members/members/model"
	helper "pdpi_backend/internals/helpers"
	"pdpi_backend/internals/helpers/dbtime"
)

var (
	ErrNoYears           = errors.New("pilih minimal satu tahun iuran")
	ErrPaymentNotFound   = errors.New("pembayaran tidak ditemukan")
	ErrMemberNotFound    = errors.New("data anggota tidak ditemukan")
	ErrInvalidMethod     = errors.New("metode pembayaran tidak valid")
	ErrInvalidTransition = errors.New("status pembayaran tidak bisa diubah")
	ErrInvalidSignature  = errors.New("signature notifikasi tidak valid")
	ErrAmountMismatch    = errors.New("nominal notifikasi tidak cocok")
)

type YearNotAvailableError struct{ Year int }

func (e *YearNotAvailableError) Error() string {
	return fmt.Sprintf("tahun %d tidak bisa dibayar (sudah lunas, sedang diproses, atau di luar jendela)", e.Year)
}

type DuesService struct {
	DB      *gorm.DB
	Policy  Policy
	Gateway Gateway // nil → QRIS nonaktif
	Log     *zap.Logger
	now     func() time.Time
}

func NewDuesService(db *gorm.DB, policy Policy, gw Gateway, log *zap.Logger) *DuesService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DuesService{DB: db, Policy: policy, Gateway: gw, Log: log, now: dbtime.Now}
}

/* ===============================
   Tahun iuran
=================================*/

// TakenYears: tahun yang sudah lunas atau sedang diproses.
func (s *DuesService) TakenYears(ctx context.Context, db *gorm.DB, memberID uuid.UUID) ([]int, error) {
	if db == nil {
		db = s.DB
	}
	var years []int
	err := db.WithContext(ctx).
		Table("dues_payment_items AS i").
		Joins("JOIN dues_payments p ON p.dues_payment_id = i.dues_item_payment_id").
		Where("i.dues_item_member_id = ?", memberID).
		Where("p.dues_payment_status IN ?", model.ActiveStatuses).
		Where("p.dues_payment_deleted_at IS NULL").
		Distinct().
		Pluck("i.dues_item_year", &years).Error
	return years, err
}

type YearsInfo struct {
	Years        []int `json:"years"`
	AnnualFeeIDR int64 `json:"annual_fee_idr"`
	WindowFrom   int   `json:"window_from"`
	WindowTo     int   `json:"window_to"`
	QRISEnabled  bool  `json:"qris_enabled"`
}

func (s *DuesService) AvailableYears(ctx context.Context, memberID uuid.UUID) (YearsInfo, error) {
	taken, err := s.TakenYears(ctx, nil, memberID)
	if err != nil {
		return YearsInfo{}, err
	}
	now := s.now()
	from, to := s.Policy.Window(now)
	return YearsInfo{
		Years:        AvailableYears(now, taken, s.Policy),
		AnnualFeeIDR: s.Policy.AnnualFeeIDR,
		WindowFrom:   from,
		WindowTo:     to,
		QRISEnabled:  s.Gateway != nil,
	}, nil
}

/* ===============================
   Buat pembayaran
=================================*/

type CreatePaymentInput struct {
	MemberID uuid.UUID
	Years    []int
	Method   model.PaymentMethod
}

func newOrderID(now time.Time) string {
	return fmt.Sprintf("PDPI-%s-%s", now.Format("20060102"), strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]))
}

// CreatePayment mencatat pembayaran + item per tahun dalam satu transaksi.
// QRIS: setelah commit, transaksi Snap dibuat; gagal → pembayaran ditandai failed.
func (s *DuesService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*model.DuesPaymentModel, error) {
	switch in.Method {
	case model.MethodQRIS:
		if s.Gateway == nil {
			return nil, ErrGatewayDisabled
		}
	case model.MethodBankTransfer:
	default:
		return nil, ErrInvalidMethod
	}

	now := s.now()
	var member memberModel.MemberModel
	var p *model.DuesPaymentModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			// serialisasi per anggota supaya tahun yang sama tidak terpesan dua kali
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&member, "member_id = ?", in.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		taken, err := s.TakenYears(ctx, tx, in.MemberID)
		if err != nil {
			return err
		}
		years, err := validateYears(in.Years, AvailableYears(now, taken, s.Policy))
		if err != nil {
			return err
		}

		ttl := s.Policy.TransferTTL
		if in.Method == model.MethodQRIS {
			ttl = s.Policy.QRISTTL
		}
		exp := now.Add(ttl)
		p = &model.DuesPaymentModel{
			DuesPaymentMemberID:  in.MemberID,
			DuesPaymentBranchID:  member.MemberCabangID,
			DuesPaymentMethod:    in.Method,
			DuesPaymentStatus:    model.StatusPending,
			DuesPaymentAmountIDR: int64(len(years)) * s.Policy.AnnualFeeIDR,
			DuesPaymentOrderID:   newOrderID(now),
			DuesPaymentExpiresAt: &exp,
		}
		for _, y := range years {
			p.Items = append(p.Items, model.DuesPaymentItemModel{
				DuesItemMemberID:  in.MemberID,
				DuesItemYear:      y,
				DuesItemAmountIDR: s.Policy.AnnualFeeIDR,
			})
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}

	if in.Method == model.MethodQRIS {
		cust := Customer{Name: member.MemberNama}
		if member.MemberEmail != nil {
			cust.Email = *member.MemberEmail
		}
		if member.MemberNoHP != nil {
			cust.Phone = *member.MemberNoHP
		}
		co, gerr := s.Gateway.CreateQRIS(ctx, p, cust, s.Policy.QRISTTL)
		if gerr != nil {
			p.DuesPaymentStatus = model.StatusFailed
			if err := s.DB.WithContext(ctx).Model(p).Update("dues_payment_status", model.StatusFailed).Error; err != nil {
				s.Log.Error("gagal menandai pembayaran failed", zap.String("order_id", p.DuesPaymentOrderID), zap.Error(err))
			}
			return nil, gerr
		}
		p.DuesPaymentSnapToken = &co.Token
		p.DuesPaymentRedirectURL = &co.RedirectURL
		if err := s.DB.WithContext(ctx).Model(p).Updates(map[string]any{
			"dues_payment_snap_token":   co.Token,
			"dues_payment_redirect_url": co.RedirectURL,
		}).Error; err != nil {
			return nil, err
		}
	}

	s.Log.Info("pembayaran iuran dibuat",
		zap.String("order_id", p.DuesPaymentOrderID),
		zap.String("method", string(p.DuesPaymentMethod)),
		zap.Ints("years", p.Years()),
		zap.Int64("amount", p.DuesPaymentAmountIDR),
	)
	return p, nil
}

/* ===============================
   Transfer manual
=================================*/

type ProofInput struct {
	URL        string
	SenderBank string
	SenderName string
}

// AttachProof: bukti transfer diunggah anggota → menunggu verifikasi admin.
func (s *DuesService) AttachProof(ctx context.Context, memberID, paymentID uuid.UUID, in ProofInput) (*model.DuesPaymentModel, error) {
	p, err := s.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.DuesPaymentMemberID != memberID {
		return nil, ErrPaymentNotFound
	}
	if p.DuesPaymentMethod != model.MethodBankTransfer || p.DuesPaymentStatus != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	p.DuesPaymentProofURL = &in.URL
	p.DuesPaymentSenderBank = optional(in.SenderBank)
	p.DuesPaymentSenderName = optional(in.SenderName)
	p.DuesPaymentStatus = model.StatusAwaitingVerification
	p.DuesPaymentExpiresAt = nil

	res := s.DB.WithContext(ctx).Model(&model.DuesPaymentModel{}).
		Where("dues_payment_id = ? AND dues_payment_status = ?", p.DuesPaymentID, model.StatusPending).
		Updates(map[string]any{
			"dues_payment_proof_url":   p.DuesPaymentProofURL,
			"dues_payment_sender_bank": p.DuesPaymentSenderBank,
			"dues_payment_sender_name": p.DuesPaymentSenderName,
			"dues_payment_status":      p.DuesPaymentStatus,
			"dues_payment_expires_at":  nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// keburu expired oleh scheduler
		return nil, ErrInvalidTransition
	}
	return p, nil
}

type VerifyInput struct {
	PaymentID uuid.UUID
	AdminID   uuid.UUID
	Approve   bool
	Reason    string
	// BranchID: admin cabang hanya boleh memverifikasi cabangnya.
	BranchID *uuid.UUID
}

func (s *DuesService) Verify(ctx context.Context, in VerifyInput) (*model.DuesPaymentModel, error) {
	p, err := s.Get(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if in.BranchID != nil && (p.DuesPaymentBranchID == nil || *p.DuesPaymentBranchID != *in.BranchID) {
		return nil, ErrPaymentNotFound
	}
	if p.DuesPaymentStatus != model.StatusAwaitingVerification {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	p.DuesPaymentVerifiedBy = &in.AdminID
	p.DuesPaymentVerifiedAt = &now
	if in.Approve {
		p.DuesPaymentStatus = model.StatusPaid
		p.DuesPaymentPaidAt = &now
	} else {
		p.DuesPaymentStatus = model.StatusRejected
		p.DuesPaymentRejectReason = optional(in.Reason)
	}
	if err := s.DB.WithContext(ctx).Model(p).Updates(map[string]any{
		"dues_payment_status":        p.DuesPaymentStatus,
		"dues_payment_paid_at":       p.DuesPaymentPaidAt,
		"dues_payment_verified_by":   p.DuesPaymentVerifiedBy,
		"dues_payment_verified_at":   p.DuesPaymentVerifiedAt,
		"dues_payment_reject_reason": p.DuesPaymentRejectReason,
	}).Error; err != nil {
		return nil, err
	}
	return p, nil
}

/* ===============================
   Webhook Midtrans
=================================*/

// ApplyNotification memverifikasi signature lalu menerapkan status gateway.
// Status final tidak diturunkan lagi; notifikasi berulang aman (idempotent).
func (s *DuesService) ApplyNotification(ctx context.Context, n Notification) (*model.DuesPaymentModel, error) {
	if s.Gateway == nil || !VerifySignature(n, s.Gateway.ServerKey()) {
		return nil, ErrInvalidSignature
	}

	var p model.DuesPaymentModel
	if err := s.DB.WithContext(ctx).First(&p, "dues_payment_order_id = ?", n.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if gross, err := parseGross(n.GrossAmount); err != nil || gross != p.DuesPaymentAmountIDR {
		s.Log.Warn("nominal notifikasi tidak cocok",
			zap.String("order_id", n.OrderID),
			zap.String("gross_amount", n.GrossAmount),
			zap.Int64("expected", p.DuesPaymentAmountIDR))
		return &p, ErrAmountMismatch
	}

	next, ok := MapMidtransStatus(n.TransactionStatus, n.FraudStatus)
	raw, _ := sonic.Marshal(n)
	updates := map[string]any{
		"dues_payment_gateway_status": n.TransactionStatus,
		"dues_payment_gateway_raw":    raw,
	}
	if n.TransactionID != "" {
		updates["dues_payment_gateway_tx_id"] = n.TransactionID
	}

	switch {
	case !ok, next == p.DuesPaymentStatus:
	case p.DuesPaymentStatus == model.StatusPaid:
		s.Log.Warn("notifikasi setelah lunas diabaikan", zap.String("order_id", n.OrderID), zap.String("status", n.TransactionStatus))
	case p.DuesPaymentStatus.IsFinal() && next != model.StatusPaid:
	default:
		// termasuk expired → paid (settlement terlambat): uang sudah diterima
		p.DuesPaymentStatus = next
		updates["dues_payment_status"] = next
		if next == model.StatusPaid {
			now := s.now()
			p.DuesPaymentPaidAt = &now
			updates["dues_payment_paid_at"] = now
			updates["dues_payment_expires_at"] = nil
		}
	}

	if err := s.DB.WithContext(ctx).Model(&p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

/* ===============================
   Expiry
=================================*/

// ExpireOverdue: pembayaran pending yang lewat batas waktu → expired.
func (s *DuesService) ExpireOverdue(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.DuesPaymentModel{}).
		Where("dues_payment_status = ?", model.StatusPending).
		Where("dues_payment_expires_at IS NOT NULL AND dues_payment_expires_at < ?", s.now()).
		Update("dues_payment_status", model.StatusExpired)
	return res.RowsAffected, res.Error
}

/* ===============================
   Query
=================================*/

func (s *DuesService) Get(ctx context.Context, id uuid.UUID) (*model.DuesPaymentModel, error) {
	var p model.DuesPaymentModel
	if err := s.DB.WithContext(ctx).Preload("Items").First(&p, "dues_payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

type ListFilter struct {
	MemberID *uuid.UUID
	BranchID *uuid.UUID
	Status   string
	Method   string
	Year     int
}

func (s *DuesService) List(ctx context.Context, f ListFilter, p helper.Paging) ([]model.DuesPaymentModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.DuesPaymentModel{})
	if f.MemberID != nil {
		q = q.Where("dues_payment_member_id = ?", *f.MemberID)
	}
	if f.BranchID != nil {
		q = q.Where("dues_payment_branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		q = q.Where("dues_payment_status = ?", f.Status)
	}
	if f.Method != "" {
		q = q.Where("dues_payment_method = ?", f.Method)
	}
	if f.Year > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM dues_payment_items i WHERE i.dues_item_payment_id = dues_payments.dues_payment_id AND i.dues_item_year = ?)", f.Year)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.DuesPaymentModel
	err := q.Preload("Items").
		Order("dues_payment_created_at DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
