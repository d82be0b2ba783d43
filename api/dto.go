/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface, decoupled from the domain types so
  fields can be renamed and versioned without touching the accounting
  logic. Hour quantities cross the wire as JSON numbers (float64) -- the
  decimal precision lives in the domain, the wire shows display values.

NAMING CONVENTION:
  - *DTO: response types
  - *Request: request bodies

VALIDATION:
  Handlers validate; DTOs are pure data carriers.
*/
package api

import (
	"github.com/roldanhc-acho/appdspi/productivity"
)

// =============================================================================
// USERS
// =============================================================================

type UserDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

// =============================================================================
// TIME LOGS
// =============================================================================

type TimeLogDTO struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	TaskID string  `json:"task_id,omitempty"`
	Date   string  `json:"date"`
	Hours  float64 `json:"hours_worked"`
	Notes  string  `json:"notes,omitempty"`
}

type SaveTimeLogRequest struct {
	TaskID string  `json:"task_id,omitempty"`
	Date   string  `json:"date"`
	Hours  float64 `json:"hours_worked"`
	Notes  string  `json:"notes,omitempty"`
}

// =============================================================================
// ABSENCES
// =============================================================================

type AbsenceDTO struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Start  string `json:"start_date"`
	End    string `json:"end_date"`
	Status string `json:"status"`
	Type   string `json:"type,omitempty"`
}

type CreateAbsenceRequest struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
	Type  string `json:"type,omitempty"`
}

// =============================================================================
// BALANCES
// =============================================================================

type DailyBalanceDTO struct {
	Date               string  `json:"date"`
	LoggedHours        float64 `json:"logged_hours"`
	EffectiveHours     float64 `json:"effective_hours"`
	Balance            float64 `json:"balance"`
	Target             float64 `json:"target"`
	IsNonWorkingDay    bool    `json:"is_non_working_day"`
	IsWeekend          bool    `json:"is_weekend"`
	IsHoliday          bool    `json:"is_holiday"`
	IsJustifiedAbsence bool    `json:"is_justified_absence"`
}

type MonthlySummaryDTO struct {
	Month                 string  `json:"month"`
	TotalHoursLogged      float64 `json:"total_hours_logged"`
	RawProductivity       float64 `json:"raw_productivity"`
	SavedThisMonth        float64 `json:"saved_this_month"`
	DisplayedProductivity float64 `json:"productivity"`
	AvailableToBank       float64 `json:"available_to_bank"`
	WorkingDays           int     `json:"working_days"`
	ExpectedHours         float64 `json:"expected_hours"`
}

type MonthViewDTO struct {
	UserID  string            `json:"user_id"`
	Days    []DailyBalanceDTO `json:"days"`
	Summary MonthlySummaryDTO `json:"summary"`
}

// =============================================================================
// HOUR BANK
// =============================================================================

type BankEntryDTO struct {
	Month      string  `json:"month"`
	HoursSaved float64 `json:"hours_saved"`
}

type BankDTO struct {
	UserID        string         `json:"user_id"`
	LifetimeTotal float64        `json:"lifetime_total"`
	Entries       []BankEntryDTO `json:"entries"`
}

type TransferRequest struct {
	Month string  `json:"month"`
	Hours float64 `json:"hours"`
}

type TransferResponse struct {
	UserID          string  `json:"user_id"`
	Month           string  `json:"month"`
	Transferred     float64 `json:"transferred"`
	AvailableToBank float64 `json:"available_to_bank"`
	LifetimeTotal   float64 `json:"lifetime_total"`
}

// =============================================================================
// MONTHLY REPORT
// =============================================================================

type ReportRowDTO struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	HoursLogged  float64 `json:"hours_logged"`
	AbsenceHours float64 `json:"absence_hours"`
	Productivity float64 `json:"productivity"`
	BankTotal    float64 `json:"bank_total"`
}

type ReportTotalsDTO struct {
	HoursLogged  float64 `json:"hours_logged"`
	AbsenceHours float64 `json:"absence_hours"`
	Productivity float64 `json:"productivity"`
	BankTotal    float64 `json:"bank_total"`
}

type ReportDTO struct {
	Month         string          `json:"month"`
	WorkingDays   int             `json:"working_days"`
	ExpectedHours float64         `json:"expected_hours"`
	Users         []ReportRowDTO  `json:"users"`
	Totals        ReportTotalsDTO `json:"totals"`
}

// =============================================================================
// CALENDAR
// =============================================================================

type CalendarDTO struct {
	Year         int      `json:"year"`
	WorkdayHours float64  `json:"workday_hours"`
	Holidays     []string `json:"holidays"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error     string  `json:"error"`
	Code      string  `json:"code,omitempty"`
	Details   any     `json:"details,omitempty"`
	Available float64 `json:"available,omitempty"` // transfer bound on 422
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(u productivity.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Active: u.Active}
}

func toTimeLogDTO(l productivity.TimeLogEntry) TimeLogDTO {
	return TimeLogDTO{
		ID:     l.ID,
		UserID: l.UserID,
		TaskID: l.TaskID,
		Date:   l.Date.String(),
		Hours:  l.Hours.Float64(),
		Notes:  l.Notes,
	}
}

func toAbsenceDTO(a productivity.Absence) AbsenceDTO {
	return AbsenceDTO{
		ID:     a.ID,
		UserID: a.UserID,
		Start:  a.Start.String(),
		End:    a.End.String(),
		Status: string(a.Status),
		Type:   a.Type,
	}
}

func toDailyBalanceDTO(d productivity.DailyBalance) DailyBalanceDTO {
	return DailyBalanceDTO{
		Date:               d.Date.String(),
		LoggedHours:        d.LoggedHours.Float64(),
		EffectiveHours:     d.EffectiveHours.Float64(),
		Balance:            d.Balance.Float64(),
		Target:             d.Target.Float64(),
		IsNonWorkingDay:    d.IsNonWorkingDay,
		IsWeekend:          d.IsWeekend,
		IsHoliday:          d.IsHoliday,
		IsJustifiedAbsence: d.IsJustifiedAbsence,
	}
}

func toMonthlySummaryDTO(s productivity.MonthlySummary) MonthlySummaryDTO {
	return MonthlySummaryDTO{
		Month:                 s.Month.String(),
		TotalHoursLogged:      s.TotalHoursLogged.Float64(),
		RawProductivity:       s.RawProductivity.Float64(),
		SavedThisMonth:        s.SavedThisMonth.Float64(),
		DisplayedProductivity: s.DisplayedProductivity.Float64(),
		AvailableToBank:       s.AvailableToBank.Float64(),
		WorkingDays:           s.WorkingDays,
		ExpectedHours:         s.ExpectedHours.Float64(),
	}
}

func toMonthViewDTO(v productivity.MonthView) MonthViewDTO {
	days := make([]DailyBalanceDTO, len(v.Days))
	for i, d := range v.Days {
		days[i] = toDailyBalanceDTO(d)
	}
	return MonthViewDTO{
		UserID:  v.UserID,
		Days:    days,
		Summary: toMonthlySummaryDTO(v.Summary),
	}
}
