/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

DATES:
  Every date crosses the boundary as a YYYY-MM-DD string with no zone.
  Optional dates are omitted when absent.

VALIDATION:
  Validation is done by the ledgers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
	"strings"

	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/staff"
	"github.com/warp/staff-ledger/swap"
)

// =============================================================================
// STAFF
// =============================================================================

type StaffDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	HireDate        string `json:"hire_date"`
	BirthDate       string `json:"birth_date,omitempty"`
	TerminationDate string `json:"termination_date,omitempty"`
	Status          string `json:"status"`
	Position        string `json:"position,omitempty"`
	Shift           string `json:"shift,omitempty"`
	Schedule        string `json:"schedule,omitempty"`
	Post            string `json:"post,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// StaffRequest creates or replaces a staff profile.
type StaffRequest struct {
	Name            string `json:"name"`
	HireDate        string `json:"hire_date"`
	BirthDate       string `json:"birth_date"`
	TerminationDate string `json:"termination_date"`
	Status          string `json:"status"`
	Position        string `json:"position"`
	Shift           string `json:"shift"`
	Schedule        string `json:"schedule"`
	Post            string `json:"post"`
}

func (r StaffRequest) profile() staff.Profile {
	return staff.Profile{
		Name:            r.Name,
		HireDate:        r.HireDate,
		BirthDate:       r.BirthDate,
		TerminationDate: r.TerminationDate,
		Status:          generic.StaffStatus(r.Status),
		Position:        r.Position,
		Shift:           r.Shift,
		Schedule:        r.Schedule,
		Post:            r.Post,
	}
}

func toStaffDTO(m generic.StaffMember) StaffDTO {
	return StaffDTO{
		ID:              string(m.ID),
		Name:            m.Name,
		HireDate:        m.HireDate.String(),
		BirthDate:       generic.FormatPtr(m.BirthDate),
		TerminationDate: generic.FormatPtr(m.TerminationDate),
		Status:          string(m.Status),
		Position:        m.Position,
		Shift:           m.Shift,
		Schedule:        m.Schedule,
		Post:            m.Post,
		CreatedAt:       m.CreatedAt.String(),
	}
}

func toStaffDTOs(members []generic.StaffMember) []StaffDTO {
	out := make([]StaffDTO, len(members))
	for i, m := range members {
		out[i] = toStaffDTO(m)
	}
	return out
}

// =============================================================================
// PERIODS / BALANCES / ALERTS
// =============================================================================

type PeriodDTO struct {
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	AvailableFrom   string `json:"available_from"`
	ExpiresOn       string `json:"expires_on"`
	IsAvailable     bool   `json:"is_available"`
	IsExpired       bool   `json:"is_expired"`
	IsUrgent        bool   `json:"is_urgent"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

func toPeriodDTOs(periods []entitlement.AccrualPeriod) []PeriodDTO {
	out := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		out[i] = PeriodDTO{
			PeriodStart:     p.Start.String(),
			PeriodEnd:       p.End.String(),
			AvailableFrom:   p.AvailableFrom.String(),
			ExpiresOn:       p.ExpiresOn.String(),
			IsAvailable:     p.IsAvailable,
			IsExpired:       p.IsExpired,
			IsUrgent:        p.IsUrgent,
			DaysUntilExpiry: p.DaysUntilExpiry,
		}
	}
	return out
}

type BalanceDTO struct {
	PeriodStart string   `json:"period_start"`
	Entitled    float64  `json:"entitled"`
	Taken       float64  `json:"taken"`
	Remaining   float64  `json:"remaining"`
	Exhausted   bool     `json:"exhausted"`
	Vacations   []string `json:"vacation_ids"`
}

func toBalanceDTOs(balances []entitlement.PeriodBalance) []BalanceDTO {
	out := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		ids := make([]string, len(b.Vacations))
		for j, id := range b.Vacations {
			ids[j] = string(id)
		}
		out[i] = BalanceDTO{
			PeriodStart: b.Period.Start.String(),
			Entitled:    b.Entitled.Float64(),
			Taken:       b.Taken.Float64(),
			Remaining:   b.Remaining.Float64(),
			Exhausted:   b.Exhausted(),
			Vacations:   ids,
		}
	}
	return out
}

type AlertDTO struct {
	StaffID   string    `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Period    PeriodDTO `json:"period"`
}

type AlertsResponse struct {
	ScannedAt  string     `json:"scanned_at,omitempty"`
	NextScanAt string     `json:"next_scan_at,omitempty"`
	Count      int        `json:"count"`
	Alerts     []AlertDTO `json:"alerts"`
}

func toAlertDTOs(alerts []staff.StaffAlert) []AlertDTO {
	out := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		out[i] = AlertDTO{
			StaffID:   string(a.StaffID),
			StaffName: a.StaffName,
			Period:    toPeriodDTOs([]entitlement.AccrualPeriod{a.Period})[0],
		}
	}
	return out
}

// =============================================================================
// VACATIONS
// =============================================================================

type VacationDTO struct {
	ID               string `json:"id"`
	StaffID          string `json:"staff_id"`
	AcquisitionStart string `json:"acquisition_start,omitempty"`
	AcquisitionEnd   string `json:"acquisition_end,omitempty"`
	AvailableFrom    string `json:"available_from,omitempty"`
	ExpiresOn        string `json:"expires_on,omitempty"`
	VacationStart    string `json:"vacation_start"`
	VacationEnd      string `json:"vacation_end,omitempty"`
	DaysTaken        int    `json:"days_taken"`
	Status           string `json:"status"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// VacationRequest is both the save body and the unsaved draft returned by
// the draft endpoint.
type VacationRequest struct {
	AcquisitionStart string `json:"acquisition_start,omitempty"`
	AcquisitionEnd   string `json:"acquisition_end,omitempty"`
	AvailableFrom    string `json:"available_from,omitempty"`
	ExpiresOn        string `json:"expires_on,omitempty"`
	VacationStart    string `json:"vacation_start"`
	VacationEnd      string `json:"vacation_end,omitempty"`
	DaysTaken        int    `json:"days_taken"`
	Status           string `json:"status,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type DraftRequest struct {
	PeriodStart string `json:"period_start"`
}

func toVacationDTO(v generic.VacationRecord) VacationDTO {
	return VacationDTO{
		ID:               string(v.ID),
		StaffID:          string(v.StaffID),
		AcquisitionStart: generic.FormatPtr(v.AcquisitionStart),
		AcquisitionEnd:   generic.FormatPtr(v.AcquisitionEnd),
		AvailableFrom:    generic.FormatPtr(v.AvailableFrom),
		ExpiresOn:        generic.FormatPtr(v.ExpiresOn),
		VacationStart:    v.VacationStart.String(),
		VacationEnd:      generic.FormatPtr(v.VacationEnd),
		DaysTaken:        v.DaysTaken,
		Status:           string(v.Status),
		Notes:            v.Notes,
		CreatedAt:        v.CreatedAt.String(),
	}
}

func toVacationDTOs(records []generic.VacationRecord) []VacationDTO {
	out := make([]VacationDTO, len(records))
	for i, v := range records {
		out[i] = toVacationDTO(v)
	}
	return out
}

// =============================================================================
// ABSENCES
// =============================================================================

type AbsenceDTO struct {
	ID             string `json:"id"`
	StaffID        string `json:"staff_id"`
	Type           string `json:"absence_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	DaysCount      int    `json:"days_count"`
	DocumentNumber string `json:"document_number,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type AbsenceRequest struct {
	Type           string      `json:"absence_type"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	DaysCount      looseString `json:"days_count"`
	DocumentNumber string      `json:"document_number"`
	Notes          string      `json:"notes"`
}

func toAbsenceDTO(a generic.AbsenceRecord) AbsenceDTO {
	return AbsenceDTO{
		ID:             string(a.ID),
		StaffID:        string(a.StaffID),
		Type:           string(a.Type),
		StartDate:      a.StartDate.String(),
		EndDate:        generic.FormatPtr(a.EndDate),
		DaysCount:      a.DaysCount,
		DocumentNumber: a.DocumentNumber,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt.String(),
	}
}

func toAbsenceDTOs(records []generic.AbsenceRecord) []AbsenceDTO {
	out := make([]AbsenceDTO, len(records))
	for i, a := range records {
		out[i] = toAbsenceDTO(a)
	}
	return out
}

// looseString accepts a JSON string or a bare number. The manual day count
// is typed free-form and may arrive as either.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(strings.TrimSpace(string(b)))
	return nil
}

// =============================================================================
// SHIFT SWAPS
// =============================================================================

// SwapDTO is a swap seen from one participant.
type SwapDTO struct {
	ID               string `json:"id"`
	RequesterID      string `json:"requester_id"`
	TargetID         string `json:"target_id"`
	OriginalDate     string `json:"original_date"`
	SwapDate         string `json:"swap_date"`
	Status           string `json:"status"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
	Role             string `json:"role"`
	CounterpartID    string `json:"counterpart_id"`
	CounterpartName  string `json:"counterpart_name,omitempty"`
	CounterpartLabel string `json:"label"`
}

type SwapRequest struct {
	TargetID     string `json:"target_id"`
	OriginalDate string `json:"original_date"`
	SwapDate     string `json:"swap_date"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

func toSwapDTOs(views []swap.View, roster []generic.StaffMember) []SwapDTO {
	names := make(map[generic.StaffID]string, len(roster))
	for _, m := range roster {
		names[m.ID] = m.Name
	}
	out := make([]SwapDTO, len(views))
	for i, v := range views {
		out[i] = SwapDTO{
			ID:               string(v.ID),
			RequesterID:      string(v.RequesterID),
			TargetID:         string(v.TargetID),
			OriginalDate:     v.OriginalDate.String(),
			SwapDate:         v.SwapDate.String(),
			Status:           string(v.Status),
			Notes:            v.Notes,
			CreatedAt:        v.CreatedAt.String(),
			Role:             string(v.Role),
			CounterpartID:    string(v.CounterpartID),
			CounterpartName:  names[v.CounterpartID],
			CounterpartLabel: v.Label,
		}
	}
	return out
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// SnapshotDTO is everything shown on a staff member's detail page.
type SnapshotDTO struct {
	Staff        StaffDTO      `json:"staff"`
	AsOf         string        `json:"as_of"`
	Age          *int          `json:"age,omitempty"`
	Tenure       string        `json:"tenure"`
	TenureMonths int           `json:"tenure_months"`
	Periods      []PeriodDTO   `json:"periods"`
	Alerts       []PeriodDTO   `json:"alerts"`
	Balances     []BalanceDTO  `json:"balances"`
	Vacations    []VacationDTO `json:"vacations"`
	Absences     []AbsenceDTO  `json:"absences"`
	Swaps        []SwapDTO     `json:"swaps"`
	Roster       []StaffDTO    `json:"roster"`
}

func toSnapshotDTO(s staff.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		Staff:        toStaffDTO(s.Staff),
		AsOf:         s.AsOf.String(),
		Age:          s.Age,
		Tenure:       s.Tenure.String(),
		TenureMonths: s.Tenure.Months,
		Periods:      toPeriodDTOs(s.Periods),
		Alerts:       toPeriodDTOs(s.Alerts),
		Balances:     toBalanceDTOs(s.Balances),
		Vacations:    toVacationDTOs(s.Vacations),
		Absences:     toAbsenceDTOs(s.Absences),
		Swaps:        toSwapDTOs(s.Swaps, s.Roster),
		Roster:       toStaffDTOs(s.Roster),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
