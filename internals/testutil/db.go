// Package testutil menyiapkan store SQLite sementara untuk test.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"attendance_backend/internals/configs"
	database "attendance_backend/internals/databases"
	rosterModel "attendance_backend/internals/features/roster/model"
)

// WIB dipakai sebagai zona deployment di test (tanpa tzdata).
var WIB = time.FixedZone("WIB", 7*3600)

// NewDB membuka SQLite di t.TempDir() yang sudah dimigrasi.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.ConnectDB(configs.DBConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "checkins.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

// SeedUser menulis satu identitas langsung ke tabel users.
func SeedUser(t testing.TB, db *gorm.DB, key, first, middle, last, token string) rosterModel.UserModel {
	t.Helper()
	u := rosterModel.UserModel{
		VDash:     rosterModel.NormalizeKey(key),
		FirstName: first,
		LastName:  last,
		Token:     token,
	}
	if middle != "" {
		u.MiddleName = &middle
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// At: jam tertentu pada tanggal tertentu di zona WIB.
func At(date string, hh, mm, ss int) time.Time {
	d, err := time.ParseInLocation("2006-01-02", date, WIB)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hh, mm, ss, 0, WIB)
}
