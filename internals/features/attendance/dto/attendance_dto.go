package dto

import (
	"attendance_backend/internals/features/attendance/model"
	"attendance_backend/internals/helpers/dbtime"
)

// ToggleRequest: dari form halaman presensi (token) atau dropdown (vdash).
type ToggleRequest struct {
	Token string `json:"token" form:"token" validate:"required_without=VDash,max=64"`
	VDash string `json:"vdash" form:"vdash" validate:"required_without=Token,max=64"`
}

// Status = jawaban StatusOf; jam kosong → "".
type Status struct {
	VDash        string `json:"vdash"`
	CheckedIn    bool   `json:"checked_in"`
	CheckedOut   bool   `json:"checked_out"`
	CheckinTime  string `json:"checkin_time"`
	CheckoutTime string `json:"checkout_time"`
	Anomaly      bool   `json:"anomaly"`
}

func StatusFromModel(vdash string, m *model.CheckinModel) Status {
	st := Status{VDash: vdash}
	if m == nil {
		return st
	}
	st.CheckedIn = true
	st.CheckinTime = m.CheckinTime.HHMM()
	st.CheckedOut = m.CheckoutTime != nil
	st.CheckoutTime = dbtime.HHMMPtr(m.CheckoutTime)
	st.Anomaly = m.Anomaly
	return st
}

type ToggleResult struct {
	VDash          string           `json:"vdash"`
	TransitionedTo model.Transition `json:"transitioned_to"`
	Status         Status           `json:"status"`
}

// DayRecord = satu baris laporan harian (hasil join ledger × roster).
type DayRecord struct {
	VDash        string `json:"vdash"`
	FullName     string `json:"full_name"`
	CheckinTime  string `json:"checkin_time"`
	CheckoutTime string `json:"checkout_time"`
	Anomaly      bool   `json:"anomaly"`
}

type TokenStatusResponse struct {
	Valid         bool    `json:"valid"`
	VDash         string  `json:"vdash,omitempty"`
	FullName      string  `json:"full_name,omitempty"`
	HasCheckedIn  bool    `json:"has_checked_in"`
	HasCheckedOut bool    `json:"has_checked_out"`
	CheckinTime   *string `json:"checkin_time"`
	CheckoutTime  *string `json:"checkout_time"`
}

type DashboardResponse struct {
	Date       string      `json:"date"`
	TotalUsers int64       `json:"total_users"`
	Present    int         `json:"present"`
	Records    []DayRecord `json:"records"`
}
