// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"log"
	"strings"
	"sync"
	"time"
)

// Zona default deployment kalau APP_TIMEZONE kosong / tidak valid
const DefaultTimezone = "Asia/Jakarta"

// Ambil *time.Location untuk deployment:
// 1) Nama zona dari config (APP_TIMEZONE)
// 2) Fallback: Asia/Jakarta
// 3) Fallback terakhir: time.UTC
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		log.Printf("⚠️ APP_TIMEZONE %q tidak dikenal, pakai %s", name, DefaultTimezone)
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Clock adalah sumber "sekarang" milik ledger. Tanggal presensi selalu
// diturunkan dari sini, tidak pernah dari input client.
type Clock interface {
	Now() time.Time
}

// SystemClock: jam sistem, dikonversi ke zona deployment.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FixedClock dipakai di test & tool CLI; aman dipakai lintas goroutine.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
