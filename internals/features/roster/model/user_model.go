package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UserModel merepresentasikan tabel users (roster).
// VDash disimpan sudah ternormalisasi (lihat NormalizeKey).
type UserModel struct {
	VDash      string  `gorm:"column:vdash;primaryKey;size:64" json:"vdash"`
	FirstName  string  `gorm:"column:first_name;size:100;not null" json:"first_name"`
	MiddleName *string `gorm:"column:middle_name;size:100" json:"middle_name,omitempty"`
	LastName   string  `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Token      string  `gorm:"column:token;size:64;not null;uniqueIndex:uq_users_token" json:"-"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

// FullName: first/middle/last uppercase, dipisah satu spasi.
func (u UserModel) FullName() string {
	middle := ""
	if u.MiddleName != nil {
		middle = *u.MiddleName
	}
	return FullName(u.FirstName, middle, u.LastName)
}

// NormalizeKey adalah SATU-SATUNYA aturan normalisasi identity key:
// trim spasi + case folding. Dipakai di setiap batas store (tulis & baca).
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	// cases.Caser tidak aman dibagi antar goroutine
	return cases.Fold().String(key)
}

// DisplayKey: bentuk tampilan (laporan, daftar roster) = uppercase dari key normal.
func DisplayKey(key string) string {
	return cases.Upper(language.Und).String(NormalizeKey(key))
}

// FullName menggabungkan nama dengan spasi tunggal; middle kosong tidak menambah spasi.
func FullName(first, middle, last string) string {
	upper := cases.Upper(language.Und)
	joined := upper.String(first) + " " + upper.String(middle) + " " + upper.String(last)
	return strings.Join(strings.Fields(joined), " ")
}
