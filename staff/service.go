/*
service.go - Staff lifecycle facade

PURPOSE:
  Assembles everything shown for one staff member into a single Snapshot:
  the member, derived accrual periods and alerts, per-period balances, and
  the three ledgers. Also the roster, for picking swap partners.

LOADING:
  Four fetches run concurrently (vacations, swaps, absences, roster). If any
  fails the whole load fails with *LoadFailedError and nothing partial is
  returned. There is no automatic retry.

RELOAD SEQUENCING:
  Every Reload takes a per-staff sequence number before fetching. When it
  finishes it commits its snapshot to Current only if no newer Reload has
  started meanwhile. A superseded reload still returns its own result to
  its caller.

  The ledgers call Changed after each mutation; Changed reloads only staff
  members that already have a committed snapshot.

SEE ALSO:
  - entitlement/generator.go: period derivation
  - directory.go: roster CRUD
*/
package staff

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/swap"
)

// Snapshot is one consistent view of a staff member.
type Snapshot struct {
	Staff     generic.StaffMember
	AsOf      generic.TimePoint
	Age       *int
	Tenure    Span
	Periods   []entitlement.AccrualPeriod
	Alerts    []entitlement.AccrualPeriod
	Balances  []entitlement.PeriodBalance
	Vacations []generic.VacationRecord
	Absences  []generic.AbsenceRecord
	Swaps     []swap.View
	Roster    []generic.StaffMember
}

// Service is the facade. Safe for concurrent use.
type Service struct {
	store  generic.RecordStore
	logger *zap.Logger

	Generator entitlement.Generator
	Clock     generic.Clock

	mu      sync.Mutex
	seq     map[generic.StaffID]uint64
	current map[generic.StaffID]Snapshot
}

var _ generic.ChangeNotifier = (*Service)(nil)

func NewService(store generic.RecordStore, logger ...*zap.Logger) *Service {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Service{
		store:     store,
		logger:    l.Named("staff.service"),
		Generator: entitlement.Generator{UrgencyWindowDays: entitlement.DefaultUrgencyWindowDays},
		Clock:     generic.Today,
		seq:       make(map[generic.StaffID]uint64),
		current:   make(map[generic.StaffID]Snapshot),
	}
}

// =============================================================================
// LOAD
// =============================================================================

// Load builds a fresh snapshot without touching Current.
func (s *Service) Load(ctx context.Context, staffID generic.StaffID) (Snapshot, error) {
	var (
		vacations []generic.VacationRecord
		swaps     []generic.ShiftSwapRecord
		absences  []generic.AbsenceRecord
		roster    []generic.StaffMember
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vacations, err = s.store.ListVacations(gctx, staffID)
		return err
	})
	g.Go(func() (err error) {
		swaps, err = s.store.ListSwaps(gctx)
		return err
	})
	g.Go(func() (err error) {
		absences, err = s.store.ListAbsences(gctx, staffID)
		return err
	})
	g.Go(func() (err error) {
		roster, err = s.store.ListStaff(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load snapshot failed", zap.String("staff_id", string(staffID)), zap.Error(err))
		return Snapshot{}, &generic.LoadFailedError{StaffID: staffID, Err: err}
	}

	member, ok := findMember(roster, staffID)
	if !ok {
		return Snapshot{}, generic.NewNotFoundError("staff", string(staffID))
	}

	asOf := s.Clock()
	periods := s.Generator.ForStaff(member, asOf)
	snap := Snapshot{
		Staff:     member,
		AsOf:      asOf,
		Tenure:    Tenure(member.HireDate, asOf),
		Periods:   periods,
		Alerts:    entitlement.Alerts(periods),
		Balances:  entitlement.Reconcile(periods, vacations),
		Vacations: vacations,
		Absences:  absences,
		Swaps:     swap.Views(swaps, staffID),
		Roster:    roster,
	}
	if years, ok := Age(member.BirthDate, asOf); ok {
		snap.Age = &years
	}

	s.logger.Debug("load snapshot success",
		zap.String("staff_id", string(staffID)),
		zap.Int("periods", len(snap.Periods)),
		zap.Int("alerts", len(snap.Alerts)),
	)
	return snap, nil
}

// Periods derives the accrual periods of one staff member as of a given day.
// A zero asOf means today.
func (s *Service) Periods(ctx context.Context, staffID generic.StaffID, asOf generic.TimePoint) ([]entitlement.AccrualPeriod, error) {
	member, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.Clock()
	}
	return s.Generator.ForStaff(member, asOf), nil
}

// =============================================================================
// RELOAD / CURRENT
// =============================================================================

// Reload loads a snapshot and commits it unless a newer reload for the same
// staff member started while this one was in flight.
func (s *Service) Reload(ctx context.Context, staffID generic.StaffID) (Snapshot, error) {
	s.mu.Lock()
	s.seq[staffID]++
	token := s.seq[staffID]
	s.mu.Unlock()

	snap, err := s.Load(ctx, staffID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[staffID] == token {
		s.current[staffID] = snap
	} else {
		s.logger.Debug("reload superseded", zap.String("staff_id", string(staffID)), zap.Uint64("token", token))
	}
	return snap, nil
}

// Current returns the last committed snapshot.
func (s *Service) Current(staffID generic.StaffID) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.current[staffID]
	return snap, ok
}

// Forget drops the committed snapshot, e.g. after the member is removed.
func (s *Service) Forget(staffID generic.StaffID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, staffID)
}

// Changed implements generic.ChangeNotifier.
func (s *Service) Changed(ctx context.Context, staffID generic.StaffID) {
	if _, ok := s.Current(staffID); !ok {
		return
	}
	if _, err := s.Reload(ctx, staffID); err != nil {
		s.logger.Warn("reload after change failed", zap.String("staff_id", string(staffID)), zap.Error(err))
	}
}

// =============================================================================
// ORGANIZATION-WIDE ALERTS
// =============================================================================

// StaffAlert is an urgent or expired period of one roster member.
type StaffAlert struct {
	StaffID   generic.StaffID
	StaffName string
	Period    entitlement.AccrualPeriod
}

// ScanAlerts derives the periods needing attention across the whole roster.
func (s *Service) ScanAlerts(ctx context.Context) ([]StaffAlert, error) {
	roster, err := s.store.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	asOf := s.Clock()

	var out []StaffAlert
	for _, member := range roster {
		for _, p := range entitlement.Alerts(s.Generator.ForStaff(member, asOf)) {
			out = append(out, StaffAlert{StaffID: member.ID, StaffName: member.Name, Period: p})
		}
	}
	return out, nil
}

func findMember(roster []generic.StaffMember, id generic.StaffID) (generic.StaffMember, bool) {
	for _, m := range roster {
		if m.ID == id {
			return m, true
		}
	}
	return generic.StaffMember{}, false
}
