/*
ledger.go - Leave and medical-absence records for a staff member

PURPOSE:
  CRUD over absence records (medical certificates, leave, suspensions).
  Same shape as the vacation ledger; the interesting part is the day count.

DAY COUNT:
  With both start and end present the count is the inclusive span
  (end - start + 1, floored at zero) and any typed value is discarded.
  With only a start the typed value is kept; unparseable input counts as 0.
  The derivation runs on every save, so editing the end date always
  recomputes the count.

SEE ALSO:
  - vacation/ledger.go: Sibling ledger
*/
package absence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/warp/staff-ledger/generic"
)

// Input is the unsaved form of an absence as entered by the operator.
type Input struct {
	ID             generic.RecordID
	StaffID        generic.StaffID
	Type           generic.AbsenceType
	StartDate      string
	EndDate        string
	DaysCount      string // only used when EndDate is empty
	DocumentNumber string
	Notes          string
}

type Ledger struct {
	store    generic.AbsenceStore
	notifier generic.ChangeNotifier
	logger   *zap.Logger

	// Location anchors parsed dates. Defaults to time.Local.
	Location *time.Location
}

func NewLedger(store generic.AbsenceStore, notifier generic.ChangeNotifier, logger ...*zap.Logger) *Ledger {
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
		logger:   l.Named("absence.ledger"),
		Location: time.Local,
	}
}

func (l *Ledger) List(ctx context.Context, staffID generic.StaffID) ([]generic.AbsenceRecord, error) {
	records, err := l.store.ListAbsences(ctx, staffID)
	if err != nil {
		l.logger.Error("list absences failed", zap.String("staff_id", string(staffID)), zap.Error(err))
		return nil, err
	}
	return records, nil
}

func (l *Ledger) Get(ctx context.Context, id generic.RecordID) (generic.AbsenceRecord, error) {
	return l.store.GetAbsence(ctx, id)
}

// Save validates, derives the day count and persists.
func (l *Ledger) Save(ctx context.Context, in Input) (generic.AbsenceRecord, error) {
	l.logger.Debug("save absence requested",
		zap.String("staff_id", string(in.StaffID)),
		zap.String("id", string(in.ID)),
		zap.String("type", string(in.Type)),
		zap.String("start_date", in.StartDate),
		zap.String("end_date", in.EndDate),
	)

	record, err := l.build(in)
	if err != nil {
		l.logger.Warn("save absence validation failed", zap.Error(err))
		return generic.AbsenceRecord{}, err
	}

	var saved, previous generic.AbsenceRecord
	if record.ID == "" {
		saved, err = l.store.AddAbsence(ctx, record)
	} else {
		if previous, err = l.store.GetAbsence(ctx, record.ID); err != nil {
			return generic.AbsenceRecord{}, err
		}
		saved, err = l.store.UpdateAbsence(ctx, record.ID, record)
	}
	if err != nil {
		l.logger.Error("save absence persist failed", zap.Error(err))
		return generic.AbsenceRecord{}, err
	}

	l.logger.Info("save absence success",
		zap.String("id", string(saved.ID)),
		zap.Int("days_count", saved.DaysCount),
	)
	l.notifier.Changed(ctx, saved.StaffID)
	if previous.StaffID != "" && previous.StaffID != saved.StaffID {
		l.notifier.Changed(ctx, previous.StaffID)
	}
	return saved, nil
}

func (l *Ledger) Delete(ctx context.Context, id generic.RecordID) error {
	existing, err := l.store.GetAbsence(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteAbsence(ctx, id); err != nil {
		l.logger.Error("delete absence failed", zap.String("id", string(id)), zap.Error(err))
		return err
	}

	l.logger.Info("delete absence success", zap.String("id", string(id)))
	l.notifier.Changed(ctx, existing.StaffID)
	return nil
}

func (l *Ledger) build(in Input) (generic.AbsenceRecord, error) {
	if in.StaffID == "" {
		return generic.AbsenceRecord{}, generic.NewValidationError("staffId", "staff member is required")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		return generic.AbsenceRecord{}, generic.NewValidationError("startDate", "start date is required")
	}

	kind := in.Type
	if kind == "" {
		kind = generic.AbsenceOther
	}
	if !kind.Valid() {
		return generic.AbsenceRecord{}, generic.NewValidationError("absenceType", fmt.Sprintf("unknown absence type %q", kind))
	}

	start, err := generic.ParseDate("startDate", in.StartDate, l.Location)
	if err != nil {
		return generic.AbsenceRecord{}, err
	}
	end, err := generic.ParseDate("endDate", in.EndDate, l.Location)
	if err != nil {
		return generic.AbsenceRecord{}, err
	}

	return generic.AbsenceRecord{
		ID:             in.ID,
		StaffID:        in.StaffID,
		Type:           kind,
		StartDate:      start,
		EndDate:        end.Ptr(),
		DaysCount:      DaysCount(start, end.Ptr(), in.DaysCount),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Notes:          strings.TrimSpace(in.Notes),
	}, nil
}

// DaysCount derives the stored day count. The typed value is a fallback used
// only when there is no end date.
func DaysCount(start generic.TimePoint, end *generic.TimePoint, manual string) int {
	if end != nil && !start.IsZero() {
		return generic.Period{Start: start, End: *end}.Length()
	}
	return ParseManualDays(manual)
}

// ParseManualDays reads an operator-typed count. Anything unparseable, and
// anything negative, counts as zero.
func ParseManualDays(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
