// file: internals/features/dues/service/midtrans.go
package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"pdpi_backend/internals/configs"
	"pdpi_backend/internals/features/dues/model"
)

/* =========================================================
   Gateway
========================================================= */

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Checkout struct {
	Token       string
	RedirectURL string
}

// Gateway: pembuat transaksi QRIS (Midtrans Snap di production, fake di test).
type Gateway interface {
	CreateQRIS(ctx context.Context, p *model.DuesPaymentModel, cust Customer, ttl time.Duration) (Checkout, error)
	ServerKey() string
}

var ErrGatewayDisabled = errors.New("pembayaran QRIS belum dikonfigurasi")

type MidtransGateway struct {
	client    snap.Client
	serverKey string
}

// NewMidtransGateway: useProduction=false → Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{serverKey: serverKey}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

// NewGatewayFromEnv: MIDTRANS_SERVER_KEY kosong → nil (QRIS dimatikan).
func NewGatewayFromEnv() Gateway {
	key := configs.GetEnv("MIDTRANS_SERVER_KEY")
	if key == "" {
		return nil
	}
	return NewMidtransGateway(key, configs.GetEnvBool("MIDTRANS_USE_PROD", false))
}

func (g *MidtransGateway) ServerKey() string { return g.serverKey }

func (g *MidtransGateway) CreateQRIS(_ context.Context, p *model.DuesPaymentModel, cust Customer, ttl time.Duration) (Checkout, error) {
	if p.DuesPaymentAmountIDR <= 0 {
		return Checkout{}, errors.New("invalid amount")
	}
	first, last := splitName(cust.Name)

	items := make([]midtrans.ItemDetails, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, midtrans.ItemDetails{
			ID:       fmt.Sprintf("IURAN-%d", it.DuesItemYear),
			Price:    it.DuesItemAmountIDR,
			Qty:      1,
			Name:     fmt.Sprintf("Iuran PDPI %d", it.DuesItemYear),
			Category: "IURAN",
		})
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.DuesPaymentOrderID,
			GrossAmt: p.DuesPaymentAmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items:           &items,
		EnabledPayments: []snap.SnapPaymentType{"other_qris", snap.PaymentTypeGopay},
	}
	if ttl > 0 {
		req.Expiry = &snap.ExpiryDetails{Unit: "minute", Duration: int64(ttl / time.Minute)}
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return Checkout{}, fmt.Errorf("midtrans snap: %w", err)
	}
	return Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

/* =========================================================
   Webhook
========================================================= */

// Notification: payload HTTP notification Midtrans (semua angka dikirim sebagai string).
type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// SignatureFor: SHA512(order_id + status_code + gross_amount + server_key).
func SignatureFor(n Notification, serverKey string) string {
	return sha512sum(n.OrderID + n.StatusCode + n.GrossAmount + serverKey)
}

func VerifySignature(n Notification, serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || serverKey == "" {
		return false
	}
	got := SignatureFor(n, serverKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// MapMidtransStatus: transaction_status (+ fraud_status) → status internal.
// ok=false kalau status tidak dikenal (tidak mengubah apa pun).
func MapMidtransStatus(transactionStatus, fraudStatus string) (model.PaymentStatus, bool) {
	fraud := strings.ToLower(fraudStatus)
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch fraud {
		case "", "accept":
			return model.StatusPaid, true
		case "challenge":
			return model.StatusPending, true
		}
		return model.StatusFailed, true
	case "settlement":
		return model.StatusPaid, true
	case "pending":
		return model.StatusPending, true
	case "expire":
		return model.StatusExpired, true
	case "cancel":
		return model.StatusCanceled, true
	case "deny", "failure":
		return model.StatusFailed, true
	}
	return "", false
}

// parseGross: "150000.00" → 150000
func parseGross(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int64(f + 0.5), nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "Anggota", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
