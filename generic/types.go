/*
Package generic provides the shared kernel of the staff ledger.

PURPOSE:
  Domain-wide types used by every ledger: calendar dates, periods, day
  amounts, the persisted record shapes, the error taxonomy and the record
  store contract. Nothing in here performs I/O.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: a decimal quantity of days (entitled, taken, remaining)
  - StaffMember: the aggregate root every record hangs off
  - VacationRecord / AbsenceRecord / ShiftSwapRecord: persisted ledger rows

DESIGN PRINCIPLES:
  1. Derived vs. persisted: accrual periods are computed on demand
     (see package entitlement). VacationRecord keeps its own copy of the
     period boundaries it was scheduled from; the two are never unified.
  2. Type safety: StaffID and RecordID are distinct string types.
  3. Staff members are referenced by id, never embedded.

SEE ALSO:
  - errors.go: Error taxonomy
  - store.go: Record store interfaces
  - entitlement/: Period generator
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity of days
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays Unit = "days"
)

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func Days(n int) Amount { return NewAmountFromInt(n, UnitDays) }

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }
func (a Amount) Float64() float64          { return a.Value.InexactFloat64() }
func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type RecordID string

// =============================================================================
// STAFF MEMBER - Aggregate root
// =============================================================================

type StaffStatus string

const (
	StaffActive     StaffStatus = "active"
	StaffOnLeave    StaffStatus = "on-leave"
	StaffSuspended  StaffStatus = "suspended"
	StaffTerminated StaffStatus = "terminated"
)

func (s StaffStatus) Valid() bool {
	switch s {
	case StaffActive, StaffOnLeave, StaffSuspended, StaffTerminated:
		return true
	}
	return false
}

// StaffMember is an operational (security/access) staff member.
// Once vacation or absence history exists the record is only ever moved
// between soft states, never removed.
type StaffMember struct {
	ID              StaffID
	Name            string
	HireDate        TimePoint
	BirthDate       *TimePoint
	TerminationDate *TimePoint
	Status          StaffStatus
	Position        string
	Shift           string
	Schedule        string // schedule pattern, e.g. "12x36"
	Post            string // posting location
	CreatedAt       TimePoint
}

// =============================================================================
// VACATION RECORD
// =============================================================================

type VacationStatus string

const (
	VacationScheduled  VacationStatus = "agendada"
	VacationInProgress VacationStatus = "em_gozo"
	VacationAvailable  VacationStatus = "disponível"
	VacationExpired    VacationStatus = "vencida"
)

func (s VacationStatus) Valid() bool {
	switch s {
	case VacationScheduled, VacationInProgress, VacationAvailable, VacationExpired:
		return true
	}
	return false
}

const (
	MinVacationDays = 1
	MaxVacationDays = 30
)

// VacationRecord is a recorded vacation-taken event. The acquisition
// boundaries are a historical copy taken when the vacation was scheduled;
// they are not recomputed when the hire date changes.
type VacationRecord struct {
	ID               RecordID
	StaffID          StaffID
	AcquisitionStart *TimePoint
	AcquisitionEnd   *TimePoint
	AvailableFrom    *TimePoint
	ExpiresOn        *TimePoint
	VacationStart    TimePoint
	VacationEnd      *TimePoint
	DaysTaken        int
	Status           VacationStatus
	Notes            string
	CreatedAt        TimePoint
}

// =============================================================================
// ABSENCE RECORD
// =============================================================================

type AbsenceType string

const (
	AbsenceMedicalCertificate AbsenceType = "medical_certificate"
	AbsenceLeave              AbsenceType = "leave"
	AbsenceSuspension         AbsenceType = "suspension"
	AbsenceOther              AbsenceType = "other"
)

func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceMedicalCertificate, AbsenceLeave, AbsenceSuspension, AbsenceOther:
		return true
	}
	return false
}

type AbsenceRecord struct {
	ID             RecordID
	StaffID        StaffID
	Type           AbsenceType
	StartDate      TimePoint
	EndDate        *TimePoint
	DaysCount      int
	DocumentNumber string
	Notes          string
	CreatedAt      TimePoint
}

// =============================================================================
// SHIFT SWAP RECORD - Jointly owned by two staff members
// =============================================================================

type SwapStatus string

const (
	SwapScheduled SwapStatus = "scheduled"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapScheduled, SwapCompleted, SwapCancelled:
		return true
	}
	return false
}

// ShiftSwapRecord is stored once and appears in both participants' history.
type ShiftSwapRecord struct {
	ID           RecordID
	RequesterID  StaffID
	TargetID     StaffID
	OriginalDate TimePoint
	SwapDate     TimePoint
	Status       SwapStatus
	Notes        string
	CreatedAt    TimePoint
}

// Involves reports whether the staff member is either participant.
func (r ShiftSwapRecord) Involves(id StaffID) bool {
	return r.RequesterID == id || r.TargetID == id
}
