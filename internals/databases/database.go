package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pdpi_backend/internals/configs"
)

var DB *gorm.DB

// DSN dari DB_DSN; kalau kosong dirakit dari DB_USER/DB_PASSWORD/DB_HOST/DB_PORT/DB_NAME.
func postgresDSN() string {
	if dsn := configs.GetEnv("DB_DSN"); dsn != "" {
		return dsn
	}
	sslmode := configs.GetEnv("DB_SSLMODE", "require")
	timeout := configs.GetEnvInt("DB_STATEMENT_TIMEOUT_MS", 5000)
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=pdpi&options=-c statement_timeout=%d",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME", "pdpi"),
		sslmode,
		timeout,
	)
}

// Open membuka koneksi sesuai DB_DRIVER (postgres | sqlite).
// sqlite dipakai untuk dev lokal / CLI tanpa server DB (DB_DSN = path file).
func Open(log *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: configs.NewGormLogger(log)}

	switch driver := strings.ToLower(configs.GetEnv("DB_DRIVER", "postgres")); driver {
	case "postgres", "postgresql", "":
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN(),
			PreferSimpleProtocol: true, // PgBouncer transaction pooling
		}), cfg)
	case "sqlite":
		dsn := configs.GetEnv("DB_DSN", "pdpi.db")
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("DB_DRIVER tidak dikenal: %q", driver)
	}
}

// ConnectDB mengisi DB global; gagal koneksi = proses berhenti.
func ConnectDB(log *zap.Logger) {
	log.Info("🔌 Koneksi ke database...")
	db, err := Open(log)
	if err != nil {
		log.Fatal("❌ Gagal konek DB", zap.Error(err))
	}
	DB = db
	log.Info("✅ DB connected.", zap.String("dialect", db.Dialector.Name()))
}

func TunePool(log *zap.Logger) {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Warn("pool tune err", zap.Error(err))
		return
	}
	if DB.Dialector.Name() == "sqlite" {
		// satu writer untuk sqlite
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(log *zap.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Warn("warm-up ping err", zap.Error(err))
			return
		}
		// query paling sering: hitung anggota publik (stats halaman depan)
		DB.Exec("SELECT COUNT(*) FROM members WHERE member_deleted_at IS NULL")
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Ping dipakai health check.
func Ping() error {
	if DB == nil {
		return fmt.Errorf("db belum terkoneksi")
	}
	return ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
