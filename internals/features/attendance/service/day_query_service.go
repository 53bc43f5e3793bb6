package service

import (
	"context"

	"gorm.io/gorm"

	"attendance_backend/internals/features/attendance/dto"
	rosterModel "attendance_backend/internals/features/roster/model"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/helpers/dbtime"
)

// DayQueryService menggabungkan baris ledger satu hari dengan roster.
type DayQueryService struct {
	DB *gorm.DB
}

func NewDayQueryService(db *gorm.DB) *DayQueryService {
	return &DayQueryService{DB: db}
}

type dayRow struct {
	VDash        string      `gorm:"column:vdash"`
	CheckinTime  dbtime.Tod  `gorm:"column:checkin_time"`
	CheckoutTime *dbtime.Tod `gorm:"column:checkout_time"`
	Anomaly      bool        `gorm:"column:anomaly"`
	FirstName    string      `gorm:"column:first_name"`
	MiddleName   *string     `gorm:"column:middle_name"`
	LastName     string      `gorm:"column:last_name"`
}

// RecordsForDay: urut check-in naik, seri diputus vdash naik.
// Baris ledger tanpa identitas di roster (orphan) tidak ikut, bukan error.
func (s *DayQueryService) RecordsForDay(ctx context.Context, day dbtime.Date) ([]dto.DayRecord, error) {
	var rows []dayRow
	err := s.DB.WithContext(ctx).
		Table("checkins AS c").
		Select("c.vdash, c.checkin_time, c.checkout_time, c.anomaly, u.first_name, u.middle_name, u.last_name").
		Joins("JOIN users AS u ON u.vdash = c.vdash").
		Where("c.checkin_date = ?", day).
		Order("c.checkin_time ASC").
		Order("c.vdash ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Store("records for day", err)
	}

	out := make([]dto.DayRecord, 0, len(rows))
	for _, r := range rows {
		middle := ""
		if r.MiddleName != nil {
			middle = *r.MiddleName
		}
		out = append(out, dto.DayRecord{
			VDash:        rosterModel.DisplayKey(r.VDash),
			FullName:     rosterModel.FullName(r.FirstName, middle, r.LastName),
			CheckinTime:  r.CheckinTime.HHMM(),
			CheckoutTime: dbtime.HHMMPtr(r.CheckoutTime),
			Anomaly:      r.Anomaly,
		})
	}
	return out, nil
}
