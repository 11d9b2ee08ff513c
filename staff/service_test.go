package staff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staff-ledger/absence"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/generic/store"
	"github.com/warp/staff-ledger/staff"
	"github.com/warp/staff-ledger/swap"
	"github.com/warp/staff-ledger/vacation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var today = generic.MustDate("2024-06-01")

type fixture struct {
	mem       *store.Memory
	service   *staff.Service
	vacations *vacation.Ledger
	absences  *absence.Ledger
	swaps     *swap.Ledger
	alice     generic.StaffMember
	bob       generic.StaffMember
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory().WithClock(generic.FixedClock(today))

	birth := generic.MustDate("1990-08-15")
	alice, err := mem.AddStaff(ctx, generic.StaffMember{
		Name: "Alice", HireDate: generic.MustDate("2022-03-01"), BirthDate: &birth, Status: generic.StaffActive,
	})
	require.NoError(t, err)
	bob, err := mem.AddStaff(ctx, generic.StaffMember{
		Name: "Bob", HireDate: generic.MustDate("2023-11-20"), Status: generic.StaffActive,
	})
	require.NoError(t, err)

	service := staff.NewService(mem)
	service.Clock = generic.FixedClock(today)

	f := &fixture{
		mem:       mem,
		service:   service,
		vacations: vacation.NewLedger(mem, service),
		absences:  absence.NewLedger(mem, service),
		swaps:     swap.NewLedger(mem, service),
		alice:     alice,
		bob:       bob,
	}
	f.vacations.Location = time.UTC
	f.absences.Location = time.UTC
	f.swaps.Location = time.UTC
	return f
}

// failingStore fails one list call; everything else goes to memory.
type failingStore struct {
	*store.Memory
	failSwaps bool
}

func (f *failingStore) ListSwaps(ctx context.Context) ([]generic.ShiftSwapRecord, error) {
	if f.failSwaps {
		return nil, generic.NewStoreError("list swaps", errors.New("connection reset"))
	}
	return f.Memory.ListSwaps(ctx)
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoad_AssemblesSnapshot(t *testing.T) {
	// GIVEN: Alice with one vacation, one absence, and a swap with Bob
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.vacations.Save(ctx, vacation.Draft{StaffID: f.alice.ID, VacationStart: "2024-07-01", DaysTaken: 10})
	require.NoError(t, err)
	_, err = f.absences.Save(ctx, absence.Input{StaffID: f.alice.ID, StartDate: "2024-01-10", EndDate: "2024-01-15"})
	require.NoError(t, err)
	_, err = f.swaps.Save(ctx, swap.Input{RequesterID: f.bob.ID, TargetID: f.alice.ID, OriginalDate: "2024-06-10", SwapDate: "2024-06-12"})
	require.NoError(t, err)

	// WHEN: loading Alice
	snap, err := f.service.Load(ctx, f.alice.ID)
	require.NoError(t, err)

	// THEN: everything is present and derived from the same reference date
	assert.Equal(t, "Alice", snap.Staff.Name)
	assert.Equal(t, "2024-06-01", snap.AsOf.String())
	require.Len(t, snap.Periods, 3)
	assert.Equal(t, "2024-03-01", snap.Periods[0].Start.String())
	require.Len(t, snap.Alerts, 1)
	assert.True(t, snap.Alerts[0].IsExpired)
	assert.Len(t, snap.Balances, 3)
	assert.Len(t, snap.Vacations, 1)
	require.Len(t, snap.Absences, 1)
	assert.Equal(t, 6, snap.Absences[0].DaysCount)
	require.Len(t, snap.Swaps, 1)
	assert.Equal(t, swap.LabelReceivedFrom, snap.Swaps[0].Label)
	assert.Equal(t, f.bob.ID, snap.Swaps[0].CounterpartID)
	assert.Len(t, snap.Roster, 2)
	require.NotNil(t, snap.Age)
	assert.Equal(t, 33, *snap.Age)
	assert.Equal(t, "2 years 3 months", snap.Tenure.String())
}

func TestLoad_AnyFetchFailureIsLoadFailed(t *testing.T) {
	f := newFixture(t)
	service := staff.NewService(&failingStore{Memory: f.mem, failSwaps: true})

	snap, err := service.Load(context.Background(), f.alice.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrLoadFailed)
	assert.ErrorIs(t, err, generic.ErrStore)
	var lerr *generic.LoadFailedError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, f.alice.ID, lerr.StaffID)
	assert.Empty(t, snap.Vacations, "no partial snapshot")
	assert.Empty(t, snap.Roster)
}

func TestLoad_UnknownStaffIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, generic.ErrNotFound)
	assert.NotErrorIs(t, err, generic.ErrLoadFailed)
}

func TestLoad_TerminatedStaffStopsAccruing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	term := generic.MustDate("2023-01-15")
	m := f.alice
	m.Status = generic.StaffTerminated
	m.TerminationDate = &term
	_, err := f.mem.UpdateStaff(ctx, m.ID, m)
	require.NoError(t, err)

	snap, err := f.service.Load(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, snap.Periods, 1)
	assert.Equal(t, "2022-03-01", snap.Periods[0].Start.String())
}

func TestPeriods_AsOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	periods, err := f.service.Periods(ctx, f.alice.ID, generic.MustDate("2023-06-01"))
	require.NoError(t, err)
	assert.Len(t, periods, 2)

	periods, err = f.service.Periods(ctx, f.alice.ID, generic.TimePoint{})
	require.NoError(t, err)
	assert.Len(t, periods, 3, "zero reference means today")

	_, err = f.service.Periods(ctx, "ghost", today)
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

// =============================================================================
// RELOAD SEQUENCING
// =============================================================================

// gatedStore reads the vacation list, then waits before handing it back.
type gatedStore struct {
	*store.Memory
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) ListVacations(ctx context.Context, id generic.StaffID) ([]generic.VacationRecord, error) {
	rows, err := g.Memory.ListVacations(ctx, id)
	if g.entered != nil {
		entered := g.entered
		g.entered = nil
		close(entered)
		<-g.release
	}
	return rows, err
}

func TestReload_SupersededResultDoesNotCommit(t *testing.T) {
	// GIVEN: a slow reload that has already read zero vacations
	f := newFixture(t)
	ctx := context.Background()
	gated := &gatedStore{Memory: f.mem, entered: make(chan struct{}), release: make(chan struct{})}
	service := staff.NewService(gated)
	service.Clock = generic.FixedClock(today)

	type result struct {
		snap staff.Snapshot
		err  error
	}
	slow := make(chan result, 1)
	go func() {
		snap, err := service.Reload(ctx, f.alice.ID)
		slow <- result{snap, err}
	}()
	<-gated.entered

	// WHEN: a vacation is added and a newer reload completes first
	_, err := f.vacations.Save(ctx, vacation.Draft{StaffID: f.alice.ID, VacationStart: "2024-07-01", DaysTaken: 5})
	require.NoError(t, err)
	fresh, err := service.Reload(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Vacations, 1)

	close(gated.release)
	stale := <-slow

	// THEN: the stale reload answers its caller but Current keeps the fresh one
	require.NoError(t, stale.err)
	assert.Empty(t, stale.snap.Vacations)
	current, ok := service.Current(f.alice.ID)
	require.True(t, ok)
	assert.Len(t, current.Vacations, 1)
}

func TestChanged_RefreshesTrackedSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ok := f.service.Current(f.alice.ID)
	require.False(t, ok)

	// Untracked staff are ignored.
	_, err := f.vacations.Save(ctx, vacation.Draft{StaffID: f.alice.ID, VacationStart: "2024-07-01", DaysTaken: 5})
	require.NoError(t, err)
	_, ok = f.service.Current(f.alice.ID)
	assert.False(t, ok)

	_, err = f.service.Reload(ctx, f.alice.ID)
	require.NoError(t, err)
	_, err = f.absences.Save(ctx, absence.Input{StaffID: f.alice.ID, StartDate: "2024-02-01", DaysCount: "2"})
	require.NoError(t, err)

	current, ok := f.service.Current(f.alice.ID)
	require.True(t, ok)
	assert.Len(t, current.Vacations, 1)
	assert.Len(t, current.Absences, 1)

	f.service.Forget(f.alice.ID)
	_, ok = f.service.Current(f.alice.ID)
	assert.False(t, ok)
}

func TestChanged_SwapRetargetRefreshesDroppedParticipant(t *testing.T) {
	// GIVEN: An alice->bob swap and a tracked view of bob
	f := newFixture(t)
	ctx := context.Background()
	carol, err := f.mem.AddStaff(ctx, generic.StaffMember{
		Name: "Carol", HireDate: generic.MustDate("2021-01-04"), Status: generic.StaffActive,
	})
	require.NoError(t, err)

	saved, err := f.swaps.Save(ctx, swap.Input{
		RequesterID: f.alice.ID, TargetID: f.bob.ID, OriginalDate: "2024-06-10", SwapDate: "2024-06-12",
	})
	require.NoError(t, err)
	snap, err := f.service.Reload(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, snap.Swaps, 1)

	// WHEN: The swap is re-pointed at carol
	_, err = f.swaps.Save(ctx, swap.Input{
		ID: saved.ID, RequesterID: f.alice.ID, TargetID: carol.ID, OriginalDate: "2024-06-10", SwapDate: "2024-06-12",
	})
	require.NoError(t, err)

	// THEN: bob's committed view no longer shows it
	current, ok := f.service.Current(f.bob.ID)
	require.True(t, ok)
	assert.Empty(t, current.Swaps)
}

// =============================================================================
// ORGANIZATION-WIDE ALERTS
// =============================================================================

func TestScanAlerts(t *testing.T) {
	f := newFixture(t)

	alerts, err := f.service.ScanAlerts(context.Background())

	// Alice's 2022 period is expired; Bob has not completed a year.
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, f.alice.ID, alerts[0].StaffID)
	assert.Equal(t, "Alice", alerts[0].StaffName)
	assert.True(t, alerts[0].Period.IsExpired)
}
