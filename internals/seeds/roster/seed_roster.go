package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"attendance_backend/internals/features/roster/dto"
	"attendance_backend/internals/features/roster/service"
)

// LoadRosterFile membaca daftar identitas dari .json atau .yaml/.yml.
func LoadRosterFile(filePath string) ([]dto.RosterSeed, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("baca %s: %w", filePath, err)
	}

	var inputs []dto.RosterSeed
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, &inputs)
	case ".json":
		err = json.Unmarshal(file, &inputs)
	default:
		return nil, fmt.Errorf("format roster %q tidak didukung (json/yaml)", filepath.Ext(filePath))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return inputs, nil
}

// SeedRosterFromFile: idempoten per vdash, yang sudah ada dilewati.
func SeedRosterFromFile(ctx context.Context, db *gorm.DB, filePath string) (dto.SeedResult, error) {
	log.Println("📥 Membaca file roster:", filePath)

	inputs, err := LoadRosterFile(filePath)
	if err != nil {
		return dto.SeedResult{}, err
	}

	res, err := service.NewRosterService(db).Seed(ctx, inputs)
	if err != nil {
		return res, err
	}
	log.Printf("✅ Roster: %d dibuat, %d dilewati", res.Created, res.Skipped)
	return res, nil
}
