package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdpi_backend/internals/features/dues/model"
	memberModel "pdpi_backend/internals/features/members/members/model"
	helper "pdpi_backend/internals/helpers"
)

type fakeGateway struct {
	calls int
	fail  bool
}

func (f *fakeGateway) CreateQRIS(_ context.Context, p *model.DuesPaymentModel, _ Customer, _ time.Duration) (Checkout, error) {
	f.calls++
	if f.fail {
		return Checkout{}, errors.New("gateway down")
	}
	return Checkout{Token: "tok-" + p.DuesPaymentOrderID, RedirectURL: "https://pay.test/" + p.DuesPaymentOrderID}, nil
}

func (f *fakeGateway) ServerKey() string { return "server-key" }

var fixedNow = time.Date(2027, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestDues(t *testing.T, gw Gateway) (*DuesService, uuid.UUID) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&memberModel.MemberModel{}, &model.DuesPaymentModel{}, &model.DuesPaymentItemModel{}))

	email := "budi@pdpi.or.id"
	m := &memberModel.MemberModel{MemberNama: "Budi Santoso", MemberEmail: &email}
	require.NoError(t, db.Create(m).Error)

	s := NewDuesService(db, Policy{AnnualFeeIDR: 300_000, ArrearsYears: 1, AdvanceYears: 1, QRISTTL: time.Hour, TransferTTL: 72 * time.Hour}, gw, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s, m.MemberID
}

func TestCreatePaymentReservesYears(t *testing.T) {
	s, memberID := newTestDues(t, nil)
	ctx := context.Background()

	info, err := s.AvailableYears(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2027, 2028}, info.Years)
	assert.False(t, info.QRISEnabled)

	p, err := s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2027, 2026}, Method: model.MethodBankTransfer})
	require.NoError(t, err)
	assert.EqualValues(t, 600_000, p.DuesPaymentAmountIDR)
	assert.Equal(t, []int{2026, 2027}, p.Years())
	assert.Equal(t, model.StatusPending, p.DuesPaymentStatus)
	require.NotNil(t, p.DuesPaymentExpiresAt)
	assert.Equal(t, fixedNow.Add(72*time.Hour), *p.DuesPaymentExpiresAt)

	info, err = s.AvailableYears(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, []int{2028}, info.Years)

	// tahun yang sedang diproses tidak bisa dipesan lagi
	_, err = s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2027}, Method: model.MethodBankTransfer})
	var yerr *YearNotAvailableError
	assert.True(t, errors.As(err, &yerr))

	_, err = s.CreatePayment(ctx, CreatePaymentInput{MemberID: uuid.New(), Years: []int{2027}, Method: model.MethodBankTransfer})
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2028}, Method: model.MethodQRIS})
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}

func TestBankTransferProofAndVerify(t *testing.T) {
	s, memberID := newTestDues(t, nil)
	ctx := context.Background()

	p, err := s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2027}, Method: model.MethodBankTransfer})
	require.NoError(t, err)

	// admin belum bisa verifikasi sebelum ada bukti
	_, err = s.Verify(ctx, VerifyInput{PaymentID: p.DuesPaymentID, AdminID: uuid.New(), Approve: true})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// anggota lain tidak boleh unggah bukti
	_, err = s.AttachProof(ctx, uuid.New(), p.DuesPaymentID, ProofInput{URL: "x"})
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	p, err = s.AttachProof(ctx, memberID, p.DuesPaymentID, ProofInput{URL: "/uploads/dues/bukti.jpg", SenderBank: "BCA", SenderName: " Budi "})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAwaitingVerification, p.DuesPaymentStatus)
	assert.Equal(t, "Budi", *p.DuesPaymentSenderName)

	// cabang lain tidak melihat pembayaran ini
	other := uuid.New()
	_, err = s.Verify(ctx, VerifyInput{PaymentID: p.DuesPaymentID, AdminID: uuid.New(), Approve: true, BranchID: &other})
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	p, err = s.Verify(ctx, VerifyInput{PaymentID: p.DuesPaymentID, AdminID: uuid.New(), Approve: true})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, p.DuesPaymentStatus)
	require.NotNil(t, p.DuesPaymentPaidAt)

	taken, err := s.TakenYears(ctx, nil, memberID)
	require.NoError(t, err)
	assert.Equal(t, []int{2027}, taken)
}

func TestRejectedTransferFreesYear(t *testing.T) {
	s, memberID := newTestDues(t, nil)
	ctx := context.Background()

	p, err := s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2026}, Method: model.MethodBankTransfer})
	require.NoError(t, err)
	_, err = s.AttachProof(ctx, memberID, p.DuesPaymentID, ProofInput{URL: "bukti.png"})
	require.NoError(t, err)
	p, err = s.Verify(ctx, VerifyInput{PaymentID: p.DuesPaymentID, AdminID: uuid.New(), Approve: false, Reason: "nominal kurang"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, p.DuesPaymentStatus)

	info, err := s.AvailableYears(ctx, memberID)
	require.NoError(t, err)
	assert.Contains(t, info.Years, 2026)
}

func TestQRISPaymentAndNotification(t *testing.T) {
	gw := &fakeGateway{}
	s, memberID := newTestDues(t, gw)
	ctx := context.Background()

	p, err := s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2027}, Method: model.MethodQRIS})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls)
	require.NotNil(t, p.DuesPaymentSnapToken)
	assert.Equal(t, "tok-"+p.DuesPaymentOrderID, *p.DuesPaymentSnapToken)

	n := Notification{
		OrderID:           p.DuesPaymentOrderID,
		StatusCode:        "200",
		GrossAmount:       "300000.00",
		TransactionStatus: "settlement",
		TransactionID:     "trx-1",
	}

	bad := n
	bad.SignatureKey = "00"
	_, err = s.ApplyNotification(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongAmount := n
	wrongAmount.GrossAmount = "1000.00"
	wrongAmount.SignatureKey = SignatureFor(wrongAmount, "server-key")
	_, err = s.ApplyNotification(ctx, wrongAmount)
	assert.ErrorIs(t, err, ErrAmountMismatch)

	n.SignatureKey = SignatureFor(n, "server-key")
	got, err := s.ApplyNotification(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.DuesPaymentStatus)

	// notifikasi expire yang datang terlambat tidak menurunkan status lunas
	late := n
	late.TransactionStatus = "expire"
	late.StatusCode = "407"
	late.SignatureKey = SignatureFor(late, "server-key")
	got, err = s.ApplyNotification(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.DuesPaymentStatus)

	unknown := n
	unknown.OrderID = "PDPI-TIDAK-ADA"
	unknown.SignatureKey = SignatureFor(unknown, "server-key")
	_, err = s.ApplyNotification(ctx, unknown)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestQRISGatewayFailureMarksFailed(t *testing.T) {
	s, memberID := newTestDues(t, &fakeGateway{fail: true})
	ctx := context.Background()

	_, err := s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2027}, Method: model.MethodQRIS})
	require.Error(t, err)

	// tahun kembali tersedia
	info, err := s.AvailableYears(ctx, memberID)
	require.NoError(t, err)
	assert.Contains(t, info.Years, 2027)
}

func TestExpireOverdue(t *testing.T) {
	s, memberID := newTestDues(t, nil)
	ctx := context.Background()

	p, err := s.CreatePayment(ctx, CreatePaymentInput{MemberID: memberID, Years: []int{2028}, Method: model.MethodBankTransfer})
	require.NoError(t, err)

	n, err := s.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	s.now = func() time.Time { return fixedNow.Add(73 * time.Hour) }
	n, err = s.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.Get(ctx, p.DuesPaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.DuesPaymentStatus)

	rows, total, err := s.List(ctx, ListFilter{MemberID: &memberID, Year: 2028}, helper.Paging{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Items, 1)
}
