package model

import (
	"time"

	"attendance_backend/internals/helpers/dbtime"
)

// CheckinModel = satu baris ledger per (vdash, tanggal).
// Dibuat saat check-in pertama hari itu, di-update sekali saat check-out, tidak pernah dihapus.
type CheckinModel struct {
	ID           uint        `gorm:"column:id;primaryKey" json:"id"`
	VDash        string      `gorm:"column:vdash;size:64;not null;uniqueIndex:uq_checkins_vdash_date,priority:1" json:"vdash"`
	CheckinDate  dbtime.Date `gorm:"column:checkin_date;type:date;not null;uniqueIndex:uq_checkins_vdash_date,priority:2;index:idx_checkins_date" json:"checkin_date"`
	CheckinTime  dbtime.Tod  `gorm:"column:checkin_time;type:time;not null" json:"checkin_time"`
	CheckoutTime *dbtime.Tod `gorm:"column:checkout_time;type:time" json:"checkout_time,omitempty"`
	Anomaly      bool        `gorm:"column:anomaly;not null;default:false" json:"anomaly"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName override nama tabel
func (CheckinModel) TableName() string {
	return "checkins"
}

// State per (identitas, hari): ABSENT → CHECKED_IN → CHECKED_OUT.
type State string

const (
	StateAbsent     State = "ABSENT"
	StateCheckedIn  State = "CHECKED_IN"
	StateCheckedOut State = "CHECKED_OUT"
)

// StateOf: nil = belum ada baris hari itu.
func StateOf(m *CheckinModel) State {
	switch {
	case m == nil:
		return StateAbsent
	case m.CheckoutTime == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// Transition = hasil Toggle.
type Transition string

const (
	TransitionCheckedIn  Transition = "CHECKED_IN"
	TransitionCheckedOut Transition = "CHECKED_OUT"
	TransitionNone       Transition = "NONE"
)
