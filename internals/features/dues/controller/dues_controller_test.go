package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/features/dues/model"
	duesService "pdpi_backend/internals/features/dues/service"
	memberModel "pdpi_backend/internals/features/members/members/model"
	helperAuth "pdpi_backend/internals/helpers/auth"
	"pdpi_backend/internals/helpers/dbtime"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

const serverKey = "SB-Mid-server-test"

type keyOnlyGateway struct{}

func (keyOnlyGateway) CreateQRIS(context.Context, *model.DuesPaymentModel, duesService.Customer, time.Duration) (duesService.Checkout, error) {
	return duesService.Checkout{}, duesService.ErrGatewayDisabled
}
func (keyOnlyGateway) ServerKey() string { return serverKey }

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	memberID uuid.UUID
	adminID  uuid.UUID
}

// asUser meniru middleware JWT: isi locals dari header X-Test-Role.
func asUser(env *testEnv) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Get("X-Test-Role") {
		case constants.RoleMember:
			c.Locals(helperAuth.LocRole, constants.RoleMember)
			c.Locals(helperAuth.LocUserID, uuid.NewString())
			c.Locals(helperAuth.LocMemberID, env.memberID.String())
		case constants.RoleSuperAdmin:
			c.Locals(helperAuth.LocRole, constants.RoleSuperAdmin)
			c.Locals(helperAuth.LocUserID, env.adminID.String())
		}
		return c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&memberModel.MemberModel{}, &model.DuesPaymentModel{}, &model.DuesPaymentItemModel{}))

	m := &memberModel.MemberModel{MemberNama: "Siti Rahma"}
	require.NoError(t, db.Create(m).Error)

	policy := duesService.Policy{AnnualFeeIDR: 250_000, ArrearsYears: 1, AdvanceYears: 1, QRISTTL: time.Hour, TransferTTL: 72 * time.Hour}
	svc := duesService.NewDuesService(db, policy, keyOnlyGateway{}, zap.NewNop())
	blob := helperOSS.NewBlobService(helperOSS.NewLocalStorage(t.TempDir(), "/uploads"))
	ctl := NewDuesController(svc, blob, zap.NewNop())

	env := &testEnv{db: db, memberID: m.MemberID, adminID: uuid.New()}
	app := fiber.New()
	app.Post("/public/dues/notification", ctl.Notification)
	u := app.Group("/u", asUser(env))
	u.Get("/dues/years", ctl.Years)
	u.Post("/dues/payments", ctl.Create)
	u.Post("/dues/payments/:id/proof", ctl.UploadProof)
	a := app.Group("/a", asUser(env))
	a.Get("/dues/payments", ctl.AdminList)
	a.Post("/dues/payments/:id/verify", ctl.Verify)
	env.app = app
	return env
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func jsonReq(method, url, role string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", role)
	return req
}

func TestNotificationRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t)
	n := duesService.Notification{OrderID: "DUES-x", StatusCode: "200", GrossAmount: "250000.00", TransactionStatus: "settlement", SignatureKey: "salah"}
	resp, err := env.app.Test(jsonReq(http.MethodPost, "/public/dues/notification", "", n), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationUnknownOrderIgnored(t *testing.T) {
	env := newTestEnv(t)
	n := duesService.Notification{OrderID: "DUES-tidak-ada", StatusCode: "200", GrossAmount: "250000.00", TransactionStatus: "settlement"}
	n.SignatureKey = duesService.SignatureFor(n, serverKey)
	resp, err := env.app.Test(jsonReq(http.MethodPost, "/public/dues/notification", "", n), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ignored", decode(t, resp)["status"])
}

func TestBankTransferFlow(t *testing.T) {
	env := newTestEnv(t)
	year := dbtime.Now().Year()

	// buat tagihan transfer
	resp, err := env.app.Test(jsonReq(http.MethodPost, "/u/dues/payments", constants.RoleMember,
		map[string]any{"years": []int{year}, "method": "bank_transfer"}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]any)
	id := data["dues_payment_id"].(string)
	assert.Equal(t, "pending", data["status"])
	assert.EqualValues(t, 250_000, data["amount_idr"])

	// upload bukti
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("proof", "bukti.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 bukti transfer"))
	require.NoError(t, w.WriteField("sender_bank", "BSI"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/u/dues/payments/"+id+"/proof", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Test-Role", constants.RoleMember)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "awaiting_verification", decode(t, resp)["data"].(map[string]any)["status"])

	// tolak tanpa alasan → validasi gagal
	resp, err = env.app.Test(jsonReq(http.MethodPost, "/a/dues/payments/"+id+"/verify", constants.RoleSuperAdmin,
		map[string]any{"approve": false}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// setujui
	resp, err = env.app.Test(jsonReq(http.MethodPost, "/a/dues/payments/"+id+"/verify", constants.RoleSuperAdmin,
		map[string]any{"approve": true}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", decode(t, resp)["data"].(map[string]any)["status"])

	var p model.DuesPaymentModel
	require.NoError(t, env.db.First(&p, "dues_payment_id = ?", id).Error)
	require.NotNil(t, p.DuesPaymentVerifiedBy)
	assert.Equal(t, env.adminID, *p.DuesPaymentVerifiedBy)
}

func TestCreateWithoutMemberLink(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.app.Test(jsonReq(http.MethodPost, "/u/dues/payments", "",
		map[string]any{"years": []int{dbtime.Now().Year()}, "method": "bank_transfer"}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
