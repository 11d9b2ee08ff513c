/*
ledger.go - Recorded vacation-taken events for a staff member

PURPOSE:
  Manages the vacations actually scheduled or taken. Each record may carry
  a copy of the accrual period it was scheduled from; that copy is frozen at
  scheduling time and never recomputed from the hire date.

OPERATIONS:
  List:               vacations for one staff member, store insertion order
  ScheduleFromPeriod: build an unsaved draft from a derived accrual period
  Save:               validate and add (no id) or update (id) a vacation
  Delete:             remove a vacation by id

VALIDATION (nothing is written when any check fails):
  - vacation start is required
  - days taken must be within [1, 30]
  - vacation end, when present, is not before the start
  - a vacation linked to an acquisition period cannot push that period's
    recorded days past the 30-day entitlement

SIDE EFFECTS:
  Every successful Save/Delete signals the ChangeNotifier for the owning
  staff member so alert counts are recomputed from a fresh snapshot.

SEE ALSO:
  - entitlement/generator.go: where accrual periods come from
  - entitlement/balance.go: per-period taken/remaining reconciliation
*/
package vacation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
)

// Draft is the unsaved form of a vacation. Dates are YYYY-MM-DD strings as
// they arrive from the presentation layer.
type Draft struct {
	ID               generic.RecordID
	StaffID          generic.StaffID
	AcquisitionStart string
	AcquisitionEnd   string
	AvailableFrom    string
	ExpiresOn        string
	VacationStart    string
	VacationEnd      string
	DaysTaken        int
	Status           generic.VacationStatus
	Notes            string
}

// Ledger is the vacation CRUD surface.
type Ledger struct {
	store    generic.VacationStore
	notifier generic.ChangeNotifier
	logger   *zap.Logger

	// Location anchors parsed dates. Defaults to time.Local.
	Location *time.Location
}

func NewLedger(store generic.VacationStore, notifier generic.ChangeNotifier, logger ...*zap.Logger) *Ledger {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if notifier == nil {
		notifier = generic.NopNotifier{}
	}
	return &Ledger{
		store:    store,
		notifier: notifier,
		logger:   l.Named("vacation.ledger"),
		Location: time.Local,
	}
}

// List returns the staff member's vacations in store order.
func (l *Ledger) List(ctx context.Context, staffID generic.StaffID) ([]generic.VacationRecord, error) {
	records, err := l.store.ListVacations(ctx, staffID)
	if err != nil {
		l.logger.Error("list vacations failed", zap.String("staff_id", string(staffID)), zap.Error(err))
		return nil, err
	}
	return records, nil
}

func (l *Ledger) Get(ctx context.Context, id generic.RecordID) (generic.VacationRecord, error) {
	return l.store.GetVacation(ctx, id)
}

// ScheduleFromPeriod copies the period boundaries into a new draft. The draft
// is marked expired when the period already is; nothing is persisted.
func ScheduleFromPeriod(staffID generic.StaffID, period entitlement.AccrualPeriod) Draft {
	status := generic.VacationScheduled
	if period.IsExpired {
		status = generic.VacationExpired
	}
	return Draft{
		StaffID:          staffID,
		AcquisitionStart: period.Start.String(),
		AcquisitionEnd:   period.End.String(),
		AvailableFrom:    period.AvailableFrom.String(),
		ExpiresOn:        period.ExpiresOn.String(),
		DaysTaken:        generic.MaxVacationDays,
		Status:           status,
	}
}

// Save validates the draft and persists it. A draft with an ID updates the
// existing record (NotFoundError if it vanished); otherwise a new one is added.
func (l *Ledger) Save(ctx context.Context, d Draft) (generic.VacationRecord, error) {
	l.logger.Debug("save vacation requested",
		zap.String("staff_id", string(d.StaffID)),
		zap.String("id", string(d.ID)),
		zap.String("vacation_start", d.VacationStart),
		zap.Int("days_taken", d.DaysTaken),
	)

	record, err := l.build(d)
	if err != nil {
		l.logger.Warn("save vacation validation failed", zap.Error(err))
		return generic.VacationRecord{}, err
	}

	if record.AcquisitionStart != nil {
		if err := l.checkRemaining(ctx, record); err != nil {
			return generic.VacationRecord{}, err
		}
	}

	var saved, previous generic.VacationRecord
	if record.ID == "" {
		saved, err = l.store.AddVacation(ctx, record)
	} else {
		if previous, err = l.store.GetVacation(ctx, record.ID); err != nil {
			return generic.VacationRecord{}, err
		}
		saved, err = l.store.UpdateVacation(ctx, record.ID, record)
	}
	if err != nil {
		l.logger.Error("save vacation persist failed", zap.Error(err))
		return generic.VacationRecord{}, err
	}

	l.logger.Info("save vacation success",
		zap.String("id", string(saved.ID)),
		zap.String("staff_id", string(saved.StaffID)),
	)
	l.notifier.Changed(ctx, saved.StaffID)
	if previous.StaffID != "" && previous.StaffID != saved.StaffID {
		l.notifier.Changed(ctx, previous.StaffID)
	}
	return saved, nil
}

// Delete removes the vacation. Accrual periods are unaffected: they are
// derived, not stored.
func (l *Ledger) Delete(ctx context.Context, id generic.RecordID) error {
	existing, err := l.store.GetVacation(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteVacation(ctx, id); err != nil {
		l.logger.Error("delete vacation failed", zap.String("id", string(id)), zap.Error(err))
		return err
	}

	l.logger.Info("delete vacation success", zap.String("id", string(id)))
	l.notifier.Changed(ctx, existing.StaffID)
	return nil
}

func (l *Ledger) build(d Draft) (generic.VacationRecord, error) {
	if d.StaffID == "" {
		return generic.VacationRecord{}, generic.NewValidationError("staffId", "staff member is required")
	}
	if strings.TrimSpace(d.VacationStart) == "" {
		return generic.VacationRecord{}, generic.NewValidationError("vacationStart", "vacation start date is required")
	}
	if d.DaysTaken < generic.MinVacationDays || d.DaysTaken > generic.MaxVacationDays {
		return generic.VacationRecord{}, generic.NewValidationError("daysTaken",
			fmt.Sprintf("days taken must be between %d and %d", generic.MinVacationDays, generic.MaxVacationDays))
	}

	status := d.Status
	if status == "" {
		status = generic.VacationScheduled
	}
	if !status.Valid() {
		return generic.VacationRecord{}, generic.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	fields := []struct{ name, raw string }{
		{"acquisitionStart", d.AcquisitionStart},
		{"acquisitionEnd", d.AcquisitionEnd},
		{"availableFrom", d.AvailableFrom},
		{"expiresOn", d.ExpiresOn},
		{"vacationStart", d.VacationStart},
		{"vacationEnd", d.VacationEnd},
	}
	parsed := make(map[string]generic.TimePoint, len(fields))
	for _, f := range fields {
		tp, err := generic.ParseDate(f.name, f.raw, l.Location)
		if err != nil {
			return generic.VacationRecord{}, err
		}
		parsed[f.name] = tp
	}

	record := generic.VacationRecord{
		ID:               d.ID,
		StaffID:          d.StaffID,
		AcquisitionStart: parsed["acquisitionStart"].Ptr(),
		AcquisitionEnd:   parsed["acquisitionEnd"].Ptr(),
		AvailableFrom:    parsed["availableFrom"].Ptr(),
		ExpiresOn:        parsed["expiresOn"].Ptr(),
		VacationStart:    parsed["vacationStart"],
		VacationEnd:      parsed["vacationEnd"].Ptr(),
		DaysTaken:        d.DaysTaken,
		Status:           status,
		Notes:            strings.TrimSpace(d.Notes),
	}

	if record.VacationEnd != nil && record.VacationEnd.Before(record.VacationStart) {
		return generic.VacationRecord{}, generic.NewValidationError("vacationEnd", "vacation end cannot be before its start")
	}
	return record, nil
}

// checkRemaining rejects a save that would exhaust the linked acquisition
// period beyond its entitlement.
func (l *Ledger) checkRemaining(ctx context.Context, record generic.VacationRecord) error {
	existing, err := l.store.ListVacations(ctx, record.StaffID)
	if err != nil {
		l.logger.Error("save vacation balance lookup failed", zap.Error(err))
		return err
	}

	entitled := generic.Days(entitlement.AnnualEntitlementDays)
	taken := entitlement.TakenIn(*record.AcquisitionStart, existing, record.ID)
	remaining := entitled.Sub(taken).Max(entitled.Zero())
	if generic.Days(record.DaysTaken).GreaterThan(remaining) {
		l.logger.Warn("save vacation exceeds acquisition period",
			zap.String("staff_id", string(record.StaffID)),
			zap.String("acquisition_start", record.AcquisitionStart.String()),
			zap.Float64("remaining", remaining.Float64()),
		)
		return generic.NewValidationError("daysTaken",
			fmt.Sprintf("only %s days remain in acquisition period starting %s", remaining.Value.String(), record.AcquisitionStart))
	}
	return nil
}
