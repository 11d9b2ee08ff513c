package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/warp/staff-ledger/generic"
)

// =============================================================================
// VACATIONS
// =============================================================================

const vacationColumns = `id, staff_id, acquisition_start, acquisition_end, available_from, expires_on,
	vacation_start, vacation_end, days_taken, status, notes, created_at`

func (s *Store) ListVacations(ctx context.Context, staffID generic.StaffID) ([]generic.VacationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+vacationColumns+" FROM vacations WHERE staff_id = ? ORDER BY rowid", string(staffID))
	if err != nil {
		return nil, generic.NewStoreError("list vacations", err)
	}
	defer rows.Close()

	var out []generic.VacationRecord
	for rows.Next() {
		v, err := s.scanVacation(rows)
		if err != nil {
			return nil, generic.NewStoreError("list vacations", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, generic.NewStoreError("list vacations", err)
	}
	return out, nil
}

func (s *Store) GetVacation(ctx context.Context, id generic.RecordID) (generic.VacationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getVacation(ctx, id)
}

func (s *Store) getVacation(ctx context.Context, id generic.RecordID) (generic.VacationRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+vacationColumns+" FROM vacations WHERE id = ?", string(id))
	v, err := s.scanVacation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.VacationRecord{}, generic.NewNotFoundError("vacation", string(id))
	}
	if err != nil {
		return generic.VacationRecord{}, generic.NewStoreError("get vacation", err)
	}
	return v, nil
}

func (s *Store) AddVacation(ctx context.Context, v generic.VacationRecord) (generic.VacationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = generic.RecordID(uuid.NewString())
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vacations (`+vacationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(v.ID), string(v.StaffID),
		nullDate(v.AcquisitionStart), nullDate(v.AcquisitionEnd), nullDate(v.AvailableFrom), nullDate(v.ExpiresOn),
		v.VacationStart.String(), nullDate(v.VacationEnd), v.DaysTaken, string(v.Status), v.Notes,
		v.CreatedAt.String(),
	)
	if err != nil {
		return generic.VacationRecord{}, ownerError(err, "add vacation", v.StaffID)
	}
	return v, nil
}

func (s *Store) UpdateVacation(ctx context.Context, id generic.RecordID, v generic.VacationRecord) (generic.VacationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE vacations SET
			staff_id = ?, acquisition_start = ?, acquisition_end = ?, available_from = ?, expires_on = ?,
			vacation_start = ?, vacation_end = ?, days_taken = ?, status = ?, notes = ?
		WHERE id = ?`,
		string(v.StaffID),
		nullDate(v.AcquisitionStart), nullDate(v.AcquisitionEnd), nullDate(v.AvailableFrom), nullDate(v.ExpiresOn),
		v.VacationStart.String(), nullDate(v.VacationEnd), v.DaysTaken, string(v.Status), v.Notes,
		string(id),
	)
	if isForeignKeyError(err) {
		return generic.VacationRecord{}, ownerError(err, "update vacation", v.StaffID)
	}
	if err := affectedOne(res, err, "update vacation", "vacation", string(id)); err != nil {
		return generic.VacationRecord{}, err
	}
	return s.getVacation(ctx, id)
}

func (s *Store) DeleteVacation(ctx context.Context, id generic.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM vacations WHERE id = ?", string(id))
	return affectedOne(res, err, "delete vacation", "vacation", string(id))
}

func (s *Store) scanVacation(row scanner) (generic.VacationRecord, error) {
	var (
		v                                   generic.VacationRecord
		id, staffID, status, start, created string
		acqStart, acqEnd, avail, exp, end   sql.NullString
	)
	err := row.Scan(&id, &staffID, &acqStart, &acqEnd, &avail, &exp,
		&start, &end, &v.DaysTaken, &status, &v.Notes, &created)
	if err != nil {
		return generic.VacationRecord{}, err
	}

	v.ID = generic.RecordID(id)
	v.StaffID = generic.StaffID(staffID)
	v.Status = generic.VacationStatus(status)

	optional := []struct {
		field string
		raw   sql.NullString
		dst   **generic.TimePoint
	}{
		{"acquisition_start", acqStart, &v.AcquisitionStart},
		{"acquisition_end", acqEnd, &v.AcquisitionEnd},
		{"available_from", avail, &v.AvailableFrom},
		{"expires_on", exp, &v.ExpiresOn},
		{"vacation_end", end, &v.VacationEnd},
	}
	for _, o := range optional {
		if *o.dst, err = s.optionalDate(o.field, o.raw); err != nil {
			return generic.VacationRecord{}, err
		}
	}
	if v.VacationStart, err = s.date("vacation_start", start); err != nil {
		return generic.VacationRecord{}, err
	}
	if v.CreatedAt, err = s.date("created_at", created); err != nil {
		return generic.VacationRecord{}, err
	}
	return v, nil
}

// =============================================================================
// ABSENCES
// =============================================================================

const absenceColumns = `id, staff_id, absence_type, start_date, end_date, days_count,
	document_number, notes, created_at`

func (s *Store) ListAbsences(ctx context.Context, staffID generic.StaffID) ([]generic.AbsenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+absenceColumns+" FROM absences WHERE staff_id = ? ORDER BY rowid", string(staffID))
	if err != nil {
		return nil, generic.NewStoreError("list absences", err)
	}
	defer rows.Close()

	var out []generic.AbsenceRecord
	for rows.Next() {
		a, err := s.scanAbsence(rows)
		if err != nil {
			return nil, generic.NewStoreError("list absences", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, generic.NewStoreError("list absences", err)
	}
	return out, nil
}

func (s *Store) GetAbsence(ctx context.Context, id generic.RecordID) (generic.AbsenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAbsence(ctx, id)
}

func (s *Store) getAbsence(ctx context.Context, id generic.RecordID) (generic.AbsenceRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+absenceColumns+" FROM absences WHERE id = ?", string(id))
	a, err := s.scanAbsence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.AbsenceRecord{}, generic.NewNotFoundError("absence", string(id))
	}
	if err != nil {
		return generic.AbsenceRecord{}, generic.NewStoreError("get absence", err)
	}
	return a, nil
}

func (s *Store) AddAbsence(ctx context.Context, a generic.AbsenceRecord) (generic.AbsenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = generic.RecordID(uuid.NewString())
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences (`+absenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.StaffID), string(a.Type), a.StartDate.String(), nullDate(a.EndDate),
		a.DaysCount, a.DocumentNumber, a.Notes, a.CreatedAt.String(),
	)
	if err != nil {
		return generic.AbsenceRecord{}, ownerError(err, "add absence", a.StaffID)
	}
	return a, nil
}

func (s *Store) UpdateAbsence(ctx context.Context, id generic.RecordID, a generic.AbsenceRecord) (generic.AbsenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE absences SET
			staff_id = ?, absence_type = ?, start_date = ?, end_date = ?, days_count = ?,
			document_number = ?, notes = ?
		WHERE id = ?`,
		string(a.StaffID), string(a.Type), a.StartDate.String(), nullDate(a.EndDate), a.DaysCount,
		a.DocumentNumber, a.Notes, string(id),
	)
	if isForeignKeyError(err) {
		return generic.AbsenceRecord{}, ownerError(err, "update absence", a.StaffID)
	}
	if err := affectedOne(res, err, "update absence", "absence", string(id)); err != nil {
		return generic.AbsenceRecord{}, err
	}
	return s.getAbsence(ctx, id)
}

func (s *Store) DeleteAbsence(ctx context.Context, id generic.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM absences WHERE id = ?", string(id))
	return affectedOne(res, err, "delete absence", "absence", string(id))
}

func (s *Store) scanAbsence(row scanner) (generic.AbsenceRecord, error) {
	var (
		a                                 generic.AbsenceRecord
		id, staffID, kind, start, created string
		end                               sql.NullString
	)
	err := row.Scan(&id, &staffID, &kind, &start, &end, &a.DaysCount,
		&a.DocumentNumber, &a.Notes, &created)
	if err != nil {
		return generic.AbsenceRecord{}, err
	}

	a.ID = generic.RecordID(id)
	a.StaffID = generic.StaffID(staffID)
	a.Type = generic.AbsenceType(kind)
	if a.StartDate, err = s.date("start_date", start); err != nil {
		return generic.AbsenceRecord{}, err
	}
	if a.EndDate, err = s.optionalDate("end_date", end); err != nil {
		return generic.AbsenceRecord{}, err
	}
	if a.CreatedAt, err = s.date("created_at", created); err != nil {
		return generic.AbsenceRecord{}, err
	}
	return a, nil
}

// =============================================================================
// SHIFT SWAPS
// =============================================================================

const swapColumns = `id, requester_id, target_id, original_date, swap_date, status, notes, created_at`

// ListSwaps returns every swap; callers filter by participant.
func (s *Store) ListSwaps(ctx context.Context) ([]generic.ShiftSwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+swapColumns+" FROM shift_swaps ORDER BY rowid")
	if err != nil {
		return nil, generic.NewStoreError("list swaps", err)
	}
	defer rows.Close()

	var out []generic.ShiftSwapRecord
	for rows.Next() {
		sw, err := s.scanSwap(rows)
		if err != nil {
			return nil, generic.NewStoreError("list swaps", err)
		}
		out = append(out, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, generic.NewStoreError("list swaps", err)
	}
	return out, nil
}

func (s *Store) GetSwap(ctx context.Context, id generic.RecordID) (generic.ShiftSwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSwap(ctx, id)
}

func (s *Store) getSwap(ctx context.Context, id generic.RecordID) (generic.ShiftSwapRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+swapColumns+" FROM shift_swaps WHERE id = ?", string(id))
	sw, err := s.scanSwap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.ShiftSwapRecord{}, generic.NewNotFoundError("swap", string(id))
	}
	if err != nil {
		return generic.ShiftSwapRecord{}, generic.NewStoreError("get swap", err)
	}
	return sw, nil
}

func (s *Store) AddSwap(ctx context.Context, sw generic.ShiftSwapRecord) (generic.ShiftSwapRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sw.ID == "" {
		sw.ID = generic.RecordID(uuid.NewString())
	}
	if sw.CreatedAt.IsZero() {
		sw.CreatedAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_swaps (`+swapColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sw.ID), string(sw.RequesterID), string(sw.TargetID),
		sw.OriginalDate.String(), sw.SwapDate.String(), string(sw.Status), sw.Notes, sw.CreatedAt.String(),
	)
	if err != nil {
		return generic.ShiftSwapRecord{}, ownerError(err, "add swap", sw.RequesterID, sw.TargetID)
	}
	return sw, nil
}

func (s *Store) UpdateSwap(ctx context.Context, id generic.RecordID, sw generic.ShiftSwapRecord) (generic.ShiftSwapRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shift_swaps SET
			requester_id = ?, target_id = ?, original_date = ?, swap_date = ?, status = ?, notes = ?
		WHERE id = ?`,
		string(sw.RequesterID), string(sw.TargetID),
		sw.OriginalDate.String(), sw.SwapDate.String(), string(sw.Status), sw.Notes, string(id),
	)
	if isForeignKeyError(err) {
		return generic.ShiftSwapRecord{}, ownerError(err, "update swap", sw.RequesterID, sw.TargetID)
	}
	if err := affectedOne(res, err, "update swap", "swap", string(id)); err != nil {
		return generic.ShiftSwapRecord{}, err
	}
	return s.getSwap(ctx, id)
}

func (s *Store) DeleteSwap(ctx context.Context, id generic.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM shift_swaps WHERE id = ?", string(id))
	return affectedOne(res, err, "delete swap", "swap", string(id))
}

func (s *Store) scanSwap(row scanner) (generic.ShiftSwapRecord, error) {
	var (
		sw                                           generic.ShiftSwapRecord
		id, requester, target, orig, swapped, status string
		created                                      string
	)
	err := row.Scan(&id, &requester, &target, &orig, &swapped, &status, &sw.Notes, &created)
	if err != nil {
		return generic.ShiftSwapRecord{}, err
	}

	sw.ID = generic.RecordID(id)
	sw.RequesterID = generic.StaffID(requester)
	sw.TargetID = generic.StaffID(target)
	sw.Status = generic.SwapStatus(status)
	if sw.OriginalDate, err = s.date("original_date", orig); err != nil {
		return generic.ShiftSwapRecord{}, err
	}
	if sw.SwapDate, err = s.date("swap_date", swapped); err != nil {
		return generic.ShiftSwapRecord{}, err
	}
	if sw.CreatedAt, err = s.date("created_at", created); err != nil {
		return generic.ShiftSwapRecord{}, err
	}
	return sw, nil
}
