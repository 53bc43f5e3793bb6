package dto

import "attendance_backend/internals/features/roster/model"

// RosterSeed = satu baris file seed roster (JSON / YAML).
type RosterSeed struct {
	VDash      string `json:"vdash" yaml:"vdash" validate:"required,max=64"`
	FirstName  string `json:"first_name" yaml:"first_name" validate:"required,max=100"`
	MiddleName string `json:"middle_name" yaml:"middle_name" validate:"max=100"`
	LastName   string `json:"last_name" yaml:"last_name" validate:"required,max=100"`
	Token      string `json:"token" yaml:"token" validate:"omitempty,max=64"`
}

func (s RosterSeed) ToModel() model.UserModel {
	m := model.UserModel{
		VDash:     model.NormalizeKey(s.VDash),
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Token:     s.Token,
	}
	if s.MiddleName != "" {
		mid := s.MiddleName
		m.MiddleName = &mid
	}
	return m
}

type IdentityResponse struct {
	VDash    string `json:"vdash"`
	FullName string `json:"full_name"`
}

func FromModel(m model.UserModel) IdentityResponse {
	return IdentityResponse{
		VDash:    model.DisplayKey(m.VDash),
		FullName: m.FullName(),
	}
}

type SeedResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
