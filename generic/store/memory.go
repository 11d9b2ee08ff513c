// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/staff-ledger/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps every entity in insertion order, which is the only ordering
// the ledgers promise to callers. Owner references are checked like the
// SQLite store's foreign keys: an unknown staff id is *NotFoundError, and a
// staff member who still owns records cannot be deleted (ErrConflict).
type Memory struct {
	mu        sync.RWMutex
	staff     []generic.StaffMember
	vacations []generic.VacationRecord
	absences  []generic.AbsenceRecord
	swaps     []generic.ShiftSwapRecord
	clock     generic.Clock
}

func NewMemory() *Memory {
	return &Memory{clock: generic.Today}
}

// WithClock pins the CreatedAt stamp for added rows.
func (m *Memory) WithClock(clock generic.Clock) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
	return m
}

var _ generic.RecordStore = (*Memory)(nil)

func newID() string { return uuid.NewString() }

// checkOwners reports the first id not on the roster. Callers hold m.mu.
func (m *Memory) checkOwners(ids ...generic.StaffID) error {
	for _, id := range ids {
		if !m.hasStaff(id) {
			return generic.NewNotFoundError("staff", string(id))
		}
	}
	return nil
}

func (m *Memory) hasStaff(id generic.StaffID) bool {
	for _, s := range m.staff {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (m *Memory) ownsRecords(id generic.StaffID) bool {
	for _, v := range m.vacations {
		if v.StaffID == id {
			return true
		}
	}
	for _, a := range m.absences {
		if a.StaffID == id {
			return true
		}
	}
	for _, s := range m.swaps {
		if s.Involves(id) {
			return true
		}
	}
	return false
}

// =============================================================================
// STAFF
// =============================================================================

func (m *Memory) ListStaff(_ context.Context) ([]generic.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]generic.StaffMember{}, m.staff...), nil
}

func (m *Memory) GetStaff(_ context.Context, id generic.StaffID) (generic.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return generic.StaffMember{}, generic.NewNotFoundError("staff", string(id))
}

func (m *Memory) AddStaff(_ context.Context, s generic.StaffMember) (generic.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = generic.StaffID(newID())
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.clock()
	}
	m.staff = append(m.staff, s)
	return s, nil
}

func (m *Memory) UpdateStaff(_ context.Context, id generic.StaffID, s generic.StaffMember) (generic.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.staff {
		if m.staff[i].ID == id {
			s.ID = id
			s.CreatedAt = m.staff[i].CreatedAt
			m.staff[i] = s
			return s, nil
		}
	}
	return generic.StaffMember{}, generic.NewNotFoundError("staff", string(id))
}

func (m *Memory) DeleteStaff(_ context.Context, id generic.StaffID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.staff {
		if m.staff[i].ID == id {
			if m.ownsRecords(id) {
				return fmt.Errorf("%w: staff %s still owns records", generic.ErrConflict, id)
			}
			m.staff = append(m.staff[:i], m.staff[i+1:]...)
			return nil
		}
	}
	return generic.NewNotFoundError("staff", string(id))
}

// =============================================================================
// VACATIONS
// =============================================================================

func (m *Memory) ListVacations(_ context.Context, staffID generic.StaffID) ([]generic.VacationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.VacationRecord
	for _, v := range m.vacations {
		if v.StaffID == staffID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *Memory) GetVacation(_ context.Context, id generic.RecordID) (generic.VacationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vacations {
		if v.ID == id {
			return v, nil
		}
	}
	return generic.VacationRecord{}, generic.NewNotFoundError("vacation", string(id))
}

func (m *Memory) AddVacation(_ context.Context, v generic.VacationRecord) (generic.VacationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOwners(v.StaffID); err != nil {
		return generic.VacationRecord{}, err
	}
	if v.ID == "" {
		v.ID = generic.RecordID(newID())
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = m.clock()
	}
	m.vacations = append(m.vacations, v)
	return v, nil
}

func (m *Memory) UpdateVacation(_ context.Context, id generic.RecordID, v generic.VacationRecord) (generic.VacationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.vacations {
		if m.vacations[i].ID == id {
			if err := m.checkOwners(v.StaffID); err != nil {
				return generic.VacationRecord{}, err
			}
			v.ID = id
			v.CreatedAt = m.vacations[i].CreatedAt
			m.vacations[i] = v
			return v, nil
		}
	}
	return generic.VacationRecord{}, generic.NewNotFoundError("vacation", string(id))
}

func (m *Memory) DeleteVacation(_ context.Context, id generic.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.vacations {
		if m.vacations[i].ID == id {
			m.vacations = append(m.vacations[:i], m.vacations[i+1:]...)
			return nil
		}
	}
	return generic.NewNotFoundError("vacation", string(id))
}

// =============================================================================
// ABSENCES
// =============================================================================

func (m *Memory) ListAbsences(_ context.Context, staffID generic.StaffID) ([]generic.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.AbsenceRecord
	for _, a := range m.absences {
		if a.StaffID == staffID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) GetAbsence(_ context.Context, id generic.RecordID) (generic.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.absences {
		if a.ID == id {
			return a, nil
		}
	}
	return generic.AbsenceRecord{}, generic.NewNotFoundError("absence", string(id))
}

func (m *Memory) AddAbsence(_ context.Context, a generic.AbsenceRecord) (generic.AbsenceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOwners(a.StaffID); err != nil {
		return generic.AbsenceRecord{}, err
	}
	if a.ID == "" {
		a.ID = generic.RecordID(newID())
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.clock()
	}
	m.absences = append(m.absences, a)
	return a, nil
}

func (m *Memory) UpdateAbsence(_ context.Context, id generic.RecordID, a generic.AbsenceRecord) (generic.AbsenceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.absences {
		if m.absences[i].ID == id {
			if err := m.checkOwners(a.StaffID); err != nil {
				return generic.AbsenceRecord{}, err
			}
			a.ID = id
			a.CreatedAt = m.absences[i].CreatedAt
			m.absences[i] = a
			return a, nil
		}
	}
	return generic.AbsenceRecord{}, generic.NewNotFoundError("absence", string(id))
}

func (m *Memory) DeleteAbsence(_ context.Context, id generic.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.absences {
		if m.absences[i].ID == id {
			m.absences = append(m.absences[:i], m.absences[i+1:]...)
			return nil
		}
	}
	return generic.NewNotFoundError("absence", string(id))
}

// =============================================================================
// SHIFT SWAPS
// =============================================================================

func (m *Memory) ListSwaps(_ context.Context) ([]generic.ShiftSwapRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]generic.ShiftSwapRecord{}, m.swaps...), nil
}

func (m *Memory) GetSwap(_ context.Context, id generic.RecordID) (generic.ShiftSwapRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.swaps {
		if s.ID == id {
			return s, nil
		}
	}
	return generic.ShiftSwapRecord{}, generic.NewNotFoundError("swap", string(id))
}

func (m *Memory) AddSwap(_ context.Context, s generic.ShiftSwapRecord) (generic.ShiftSwapRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOwners(s.RequesterID, s.TargetID); err != nil {
		return generic.ShiftSwapRecord{}, err
	}
	if s.ID == "" {
		s.ID = generic.RecordID(newID())
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.clock()
	}
	m.swaps = append(m.swaps, s)
	return s, nil
}

func (m *Memory) UpdateSwap(_ context.Context, id generic.RecordID, s generic.ShiftSwapRecord) (generic.ShiftSwapRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.swaps {
		if m.swaps[i].ID == id {
			if err := m.checkOwners(s.RequesterID, s.TargetID); err != nil {
				return generic.ShiftSwapRecord{}, err
			}
			s.ID = id
			s.CreatedAt = m.swaps[i].CreatedAt
			m.swaps[i] = s
			return s, nil
		}
	}
	return generic.ShiftSwapRecord{}, generic.NewNotFoundError("swap", string(id))
}

func (m *Memory) DeleteSwap(_ context.Context, id generic.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.swaps {
		if m.swaps[i].ID == id {
			m.swaps = append(m.swaps[:i], m.swaps[i+1:]...)
			return nil
		}
	}
	return generic.NewNotFoundError("swap", string(id))
}
