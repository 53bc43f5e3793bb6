package configs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// DBConfig: parameter koneksi store (postgres production, sqlite single-node/test).
type DBConfig struct {
	Driver      string `validate:"oneof=postgres sqlite"`
	DSN         string `validate:"required_if=Driver postgres"`
	SQLitePath  string `validate:"required_if=Driver sqlite"`
	MaxOpen     int    `validate:"gte=1"`
	MaxIdle     int    `validate:"gte=0"`
	LogLevel    string `validate:"oneof=silent error warn info"`
	AppName     string
	StmtTimeout time.Duration
}

// SnapshotConfig: jadwal snapshot workbook + backup opsional ke Aliyun OSS.
type SnapshotConfig struct {
	Cron      string // kosong / "off" → scheduler mati
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// OSSEnabled: semua ALI_OSS_* terisi.
func (s SnapshotConfig) OSSEnabled() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != "" && s.Bucket != ""
}

// AppConfig dibangun sekali di main lalu di-inject ke komponen.
type AppConfig struct {
	Port           string `validate:"required,numeric"`
	Timezone       string
	WorkbookPath   string `validate:"required"`
	AdminJWTSecret string
	CorsOrigins    []string
	Environment    string
	CheckinLimit   int `validate:"gte=0"`
	DB             DBConfig
	Snapshot       SnapshotConfig
}

var validate = validator.New()

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load membaca ENV (setelah LoadEnv) menjadi AppConfig yang tervalidasi.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Port:           GetEnv("PORT", "3000"),
		Timezone:       GetEnv("APP_TIMEZONE", "Asia/Jakarta"),
		WorkbookPath:   GetEnv("WORKBOOK_PATH", "/tmp/checkins.xlsx"),
		AdminJWTSecret: strings.TrimSpace(GetEnv("ADMIN_JWT_SECRET")),
		CorsOrigins:    splitList(GetEnv("CORS_ORIGINS", "http://localhost:5173")),
		Environment:    GetEnv("RAILWAY_ENVIRONMENT", "local"),
		CheckinLimit:   atoi(GetEnv("CHECKIN_RATE_LIMIT"), 30),
		Snapshot: SnapshotConfig{
			Cron:      GetEnv("REPORT_SNAPSHOT_CRON", "55 23 * * *"),
			Endpoint:  strings.TrimSpace(GetEnv("ALI_OSS_ENDPOINT")),
			AccessKey: strings.TrimSpace(GetEnv("ALI_OSS_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(GetEnv("ALI_OSS_SECRET_KEY")),
			Bucket:    strings.TrimSpace(GetEnv("ALI_OSS_BUCKET")),
			Prefix:    GetEnv("REPORT_OSS_PREFIX", "attendance/"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
			SQLitePath:  GetEnv("SQLITE_PATH", "data/checkins.db"),
			MaxOpen:     atoi(GetEnv("DB_MAX_OPEN_CONNS"), 20),
			MaxIdle:     atoi(GetEnv("DB_MAX_IDLE_CONNS"), 10),
			LogLevel:    strings.ToLower(GetEnv("DB_LOG_LEVEL", "warn")),
			AppName:     GetEnv("DB_APP_NAME", "attendance"),
			StmtTimeout: 3 * time.Second,
		},
	}
	if cfg.DB.Driver == "postgres" {
		cfg.DB.DSN = PostgresDSN()
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config tidak valid: %w", err)
	}
	return cfg, nil
}

// PostgresDSN: pakai DATABASE_URL kalau ada, kalau tidak rakit dari DB_*.
func PostgresDSN() string {
	if raw := strings.TrimSpace(GetEnv("DATABASE_URL")); raw != "" {
		return NormalizeDatabaseURL(raw)
	}
	dbUser := GetEnv("DB_USER")
	dbHost := GetEnv("DB_HOST")
	if dbUser == "" || dbHost == "" {
		return ""
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, GetEnv("DB_PASSWORD"), dbHost, GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"), GetEnv("DB_SSLMODE", "require"))
}

// NormalizeDatabaseURL: postgres:// → postgresql://, dan sslmode=require
// ditambahkan kalau belum diset (koneksi cloud wajib SSL).
func NormalizeDatabaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	if strings.HasPrefix(url, "postgres://") {
		url = "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	if !strings.Contains(url, "sslmode=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "sslmode=require"
	}
	return url
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(level string) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      ParseLogLevel(level),
	}
}

func ParseLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	n := *l
	n.LogLevel = level
	return &n
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
