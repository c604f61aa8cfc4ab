// file: internals/features/dues/scheduler/expiry.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
	duesService "pdpi_backend/internals/features/dues/service"
)

// RegisterPaymentExpiry: tiap 5 menit (DUES_EXPIRY_CRON) menandai pembayaran pending
// yang lewat batas waktu menjadi expired supaya tahunnya bisa dibayar lagi.
func RegisterPaymentExpiry(c *cron.Cron, svc *duesService.DuesService, log *zap.Logger) error {
	spec := configs.GetEnv("DUES_EXPIRY_CRON", "*/5 * * * *")
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := svc.ExpireOverdue(ctx)
		if err != nil {
			log.Error("expire pembayaran iuran gagal", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("pembayaran iuran kadaluarsa", zap.Int64("expired", n))
		}
	})
	if err != nil {
		return err
	}
	log.Info("scheduler expiry iuran aktif", zap.String("schedule", spec))
	return nil
}
