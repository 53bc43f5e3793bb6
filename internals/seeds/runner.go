package seeds

import (
	"context"
	"log"

	"gorm.io/gorm"

	"attendance_backend/internals/seeds/roster"
)

// RunAllSeeds menjalankan semua seed yang punya file; path kosong dilewati.
func RunAllSeeds(ctx context.Context, db *gorm.DB, rosterFile string) error {
	if rosterFile == "" {
		log.Println("ℹ️ Tidak ada file roster, seed dilewati")
		return nil
	}
	_, err := roster.SeedRosterFromFile(ctx, db, rosterFile)
	return err
}
