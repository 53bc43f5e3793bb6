package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance_backend/internals/features/roster/dto"
	"attendance_backend/internals/features/roster/model"
	"attendance_backend/internals/helpers/apperr"
)

// TokenLength: panjang token akses (hex dari UUID v4).
const TokenLength = 10

var validate = validator.New()

// RosterService = Identity Store. Read-mostly; sumber kebenaran "siapa boleh presensi".
type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// ResolveToken: token opaque → identitas, atau ErrNotFound.
func (s *RosterService) ResolveToken(ctx context.Context, token string) (*model.UserModel, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token kosong: %w", apperr.ErrNotFound)
	}
	var u model.UserModel
	if err := s.DB.WithContext(ctx).Where("token = ?", token).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("token: %w", apperr.ErrNotFound)
		}
		return nil, apperr.Store("resolve token", err)
	}
	return &u, nil
}

// GetByKey: lookup identitas berdasarkan key (dinormalisasi dulu).
func (s *RosterService) GetByKey(ctx context.Context, key string) (*model.UserModel, error) {
	key = model.NormalizeKey(key)
	if key == "" {
		return nil, fmt.Errorf("vdash kosong: %w", apperr.ErrNotFound)
	}
	var u model.UserModel
	if err := s.DB.WithContext(ctx).Where("vdash = ?", key).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vdash %q: %w", key, apperr.ErrNotFound)
		}
		return nil, apperr.Store("get identity", err)
	}
	return &u, nil
}

// ListRoster: semua key dalam bentuk tampilan, urut naik.
func (s *RosterService) ListRoster(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.DB.WithContext(ctx).Model(&model.UserModel{}).Pluck("vdash", &keys).Error; err != nil {
		return nil, apperr.Store("list roster", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.DisplayKey(k))
	}
	sort.Strings(out)
	return out, nil
}

func (s *RosterService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.UserModel{}).Count(&n).Error; err != nil {
		return 0, apperr.Store("count roster", err)
	}
	return n, nil
}

// Seed memasukkan roster; key yang sudah ada dilewati (idempotent).
// Token kosong diisi token baru.
func (s *RosterService) Seed(ctx context.Context, seeds []dto.RosterSeed) (dto.SeedResult, error) {
	var res dto.SeedResult
	for i, in := range seeds {
		if err := validate.Struct(in); err != nil {
			return res, fmt.Errorf("seed #%d: %w", i+1, err)
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range seeds {
			m := in.ToModel()
			var existing int64
			if err := tx.Model(&model.UserModel{}).Where("vdash = ?", m.VDash).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				log.Printf("ℹ️ vdash '%s' sudah ada, dilewati.", m.VDash)
				res.Skipped++
				continue
			}
			if m.Token == "" {
				m.Token = GenerateToken()
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return dto.SeedResult{}, apperr.Store("seed roster", err)
	}
	return res, nil
}

// RotateTokens mengganti token semua identitas; hasil: key → token baru.
func (s *RosterService) RotateTokens(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var keys []string
		if err := tx.Model(&model.UserModel{}).Order("vdash ASC").Pluck("vdash", &keys).Error; err != nil {
			return err
		}
		for _, k := range keys {
			tok := GenerateToken()
			if err := tx.Model(&model.UserModel{}).Where("vdash = ?", k).Update("token", tok).Error; err != nil {
				return err
			}
			out[k] = tok
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Store("rotate tokens", err)
	}
	return out, nil
}

// GenerateToken: 10 karakter hex dari UUID v4.
func GenerateToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:TokenLength]
}
