package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"attendance_backend/internals/configs"
	attendanceModel "attendance_backend/internals/features/attendance/model"
	rosterModel "attendance_backend/internals/features/roster/model"
)

// ConnectDB membuka handle store sesuai driver. Handle dikembalikan ke caller
// (bukan variabel global); pool ditutup oleh pemilik proses.
func ConnectDB(cfg configs.DBConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         configs.NewGormLogger(cfg.LogLevel),
		TranslateError: true, // unique violation → gorm.ErrDuplicatedKey
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		log.Printf("🔌 Koneksi ke SQLite (%s)...", cfg.SQLitePath)
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.SQLitePath)), gcfg)
	default:
		log.Println("🔌 Koneksi ke PostgreSQL...")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  withPgOptions(cfg),
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		}), gcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("gagal konek DB: %w", err)
	}

	if err := TunePool(db, cfg); err != nil {
		return nil, err
	}
	log.Println("✅ DB connected.")
	return db, nil
}

// sqliteDSN: WAL + busy timeout, BEGIN IMMEDIATE supaya writer tidak deadlock.
func sqliteDSN(path string) string {
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate"
}

func withPgOptions(cfg configs.DBConfig) string {
	dsn := cfg.DSN
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if cfg.AppName != "" && !strings.Contains(dsn, "application_name=") {
		dsn += sep + "application_name=" + cfg.AppName
		sep = "&"
	}
	if cfg.StmtTimeout > 0 && !strings.Contains(dsn, "statement_timeout") {
		dsn += fmt.Sprintf("%soptions=-c%%20statement_timeout%%3D%d", sep, cfg.StmtTimeout.Milliseconds())
	}
	return dsn
}

func TunePool(db *gorm.DB, cfg configs.DBConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("pool tune err: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// SQLite cuma punya satu writer
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return nil
	}
	// ⚖️ Sesuaikan dengan limit Supabase/PgBouncer
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// Migrate membuat tabel users & checkins beserta unique (vdash, checkin_date).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&rosterModel.UserModel{}, &attendanceModel.CheckinModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// IsDuplicateKey: pelanggaran unique constraint dari driver mana pun.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
