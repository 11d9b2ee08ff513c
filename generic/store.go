/*
store.go - Record store contract

PURPOSE:
  Defines the interface between the ledgers and persistence. The core never
  performs I/O itself; it consumes a record store exposing list/add/update/
  delete per entity.

KEY INTERFACES:
  StaffStore:    roster (global)
  VacationStore: vacation rows scoped by staff id
  AbsenceStore:  absence rows scoped by staff id
  SwapStore:     shift swaps (global, filtered by the caller)
  RecordStore:   all of the above

CONTRACT:
  - Add assigns ID and CreatedAt when they are empty and returns the stored row.
  - Update and Delete return *NotFoundError when the id doesn't exist.
  - Any I/O failure is returned as *StoreError.
  - Atomicity is per row; last write wins. No optimistic locking.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for tests and dev

SEE ALSO:
  - errors.go: NotFoundError, StoreError
*/
package generic

import "context"

type StaffStore interface {
	ListStaff(ctx context.Context) ([]StaffMember, error)
	GetStaff(ctx context.Context, id StaffID) (StaffMember, error)
	AddStaff(ctx context.Context, s StaffMember) (StaffMember, error)
	UpdateStaff(ctx context.Context, id StaffID, s StaffMember) (StaffMember, error)
	DeleteStaff(ctx context.Context, id StaffID) error
}

type VacationStore interface {
	ListVacations(ctx context.Context, staffID StaffID) ([]VacationRecord, error)
	GetVacation(ctx context.Context, id RecordID) (VacationRecord, error)
	AddVacation(ctx context.Context, v VacationRecord) (VacationRecord, error)
	UpdateVacation(ctx context.Context, id RecordID, v VacationRecord) (VacationRecord, error)
	DeleteVacation(ctx context.Context, id RecordID) error
}

type AbsenceStore interface {
	ListAbsences(ctx context.Context, staffID StaffID) ([]AbsenceRecord, error)
	GetAbsence(ctx context.Context, id RecordID) (AbsenceRecord, error)
	AddAbsence(ctx context.Context, a AbsenceRecord) (AbsenceRecord, error)
	UpdateAbsence(ctx context.Context, id RecordID, a AbsenceRecord) (AbsenceRecord, error)
	DeleteAbsence(ctx context.Context, id RecordID) error
}

type SwapStore interface {
	ListSwaps(ctx context.Context) ([]ShiftSwapRecord, error)
	GetSwap(ctx context.Context, id RecordID) (ShiftSwapRecord, error)
	AddSwap(ctx context.Context, s ShiftSwapRecord) (ShiftSwapRecord, error)
	UpdateSwap(ctx context.Context, id RecordID, s ShiftSwapRecord) (ShiftSwapRecord, error)
	DeleteSwap(ctx context.Context, id RecordID) error
}

// RecordStore is the full persistence surface consumed by the facade.
type RecordStore interface {
	StaffStore
	VacationStore
	AbsenceStore
	SwapStore
}

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

// ChangeNotifier is told after every successful ledger mutation so derived
// state (alerts, balances) for the affected staff can be recomputed.
type ChangeNotifier interface {
	Changed(ctx context.Context, staffID StaffID)
}

// NopNotifier ignores change signals.
type NopNotifier struct{}

func (NopNotifier) Changed(context.Context, StaffID) {}
