package swap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/generic/store"
	"github.com/warp/staff-ledger/swap"
)

type recordingNotifier struct{ calls []generic.StaffID }

func (n *recordingNotifier) Changed(_ context.Context, id generic.StaffID) {
	n.calls = append(n.calls, id)
}

func newTestLedger(t *testing.T) (*swap.Ledger, *store.Memory, *recordingNotifier) {
	t.Helper()
	mem := store.NewMemory()
	for _, id := range []generic.StaffID{"alice", "bob", "carol", "dave"} {
		_, err := mem.AddStaff(context.Background(), generic.StaffMember{
			ID: id, Name: string(id), HireDate: generic.MustDate("2022-03-01"), Status: generic.StaffActive,
		})
		require.NoError(t, err)
	}
	notifier := &recordingNotifier{}
	ledger := swap.NewLedger(mem, notifier)
	ledger.Location = time.UTC
	ledger.Clock = generic.FixedClock(generic.MustDate("2024-05-20"))
	return ledger, mem, notifier
}

func validInput() swap.Input {
	return swap.Input{
		RequesterID:  "alice",
		TargetID:     "bob",
		OriginalDate: "2024-06-01",
		SwapDate:     "2024-06-03",
	}
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_DefaultsAndNotifiesBoth(t *testing.T) {
	ledger, _, notifier := newTestLedger(t)

	saved, err := ledger.Save(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, generic.SwapScheduled, saved.Status)
	assert.Equal(t, "2024-05-20", saved.CreatedAt.String())
	assert.Equal(t, "2024-06-03", saved.SwapDate.String())
	assert.Equal(t, []generic.StaffID{"alice", "bob"}, notifier.calls)
}

func TestSave_ValidationWritesNothing(t *testing.T) {
	cases := map[string]struct {
		mutate func(*swap.Input)
		field  string
	}{
		"self swap":        {func(in *swap.Input) { in.TargetID = in.RequesterID }, "targetId"},
		"missing target":   {func(in *swap.Input) { in.TargetID = "" }, "targetId"},
		"missing original": {func(in *swap.Input) { in.OriginalDate = "" }, "originalDate"},
		"missing swap day": {func(in *swap.Input) { in.SwapDate = " " }, "swapDate"},
		"bad status":       {func(in *swap.Input) { in.Status = "pending" }, "status"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ledger, mem, notifier := newTestLedger(t)
			in := validInput()
			tc.mutate(&in)

			_, err := ledger.Save(context.Background(), in)

			var verr *generic.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			all, _ := mem.ListSwaps(context.Background())
			assert.Empty(t, all)
			assert.Empty(t, notifier.calls)
		})
	}
}

func TestSave_MalformedDate(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	in := validInput()
	in.SwapDate = "2024-06-31"

	_, err := ledger.Save(context.Background(), in)
	assert.ErrorIs(t, err, generic.ErrInvalidDate)
}

func TestSave_UpdateStatus(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()
	saved, err := ledger.Save(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.ID = saved.ID
	in.Status = generic.SwapCompleted
	updated, err := ledger.Save(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, generic.SwapCompleted, updated.Status)
	assert.Equal(t, saved.CreatedAt.String(), updated.CreatedAt.String())
}

func TestSave_ChangedTargetNotifiesOldAndNew(t *testing.T) {
	// GIVEN: A saved alice->bob swap
	ledger, _, notifier := newTestLedger(t)
	ctx := context.Background()
	saved, err := ledger.Save(ctx, validInput())
	require.NoError(t, err)
	notifier.calls = nil

	// WHEN: The same record is re-pointed at carol
	in := validInput()
	in.ID = saved.ID
	in.TargetID = "carol"
	_, err = ledger.Save(ctx, in)
	require.NoError(t, err)

	// THEN: The new participants and the dropped target all hear about it
	assert.Equal(t, []generic.StaffID{"alice", "carol", "bob"}, notifier.calls)
	gone, err := ledger.ListForStaff(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestSave_UpdateMissingIsNotFound(t *testing.T) {
	ledger, _, notifier := newTestLedger(t)
	in := validInput()
	in.ID = "missing"

	_, err := ledger.Save(context.Background(), in)

	assert.ErrorIs(t, err, generic.ErrNotFound)
	assert.Empty(t, notifier.calls)
}

func TestSave_UnknownParticipantIsNotFound(t *testing.T) {
	ledger, mem, _ := newTestLedger(t)
	in := validInput()
	in.TargetID = "ghost"

	_, err := ledger.Save(context.Background(), in)

	assert.ErrorIs(t, err, generic.ErrNotFound)
	all, _ := mem.ListSwaps(context.Background())
	assert.Empty(t, all)
}

// =============================================================================
// LIST / DELETE
// =============================================================================

func TestListForStaff_BothSidesSeeTheRecord(t *testing.T) {
	// GIVEN: alice->bob and carol->dave
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()
	ab, err := ledger.Save(ctx, validInput())
	require.NoError(t, err)
	_, err = ledger.Save(ctx, swap.Input{RequesterID: "carol", TargetID: "dave", OriginalDate: "2024-06-01", SwapDate: "2024-06-02"})
	require.NoError(t, err)

	// THEN: alice and bob each see exactly the shared record
	for _, who := range []generic.StaffID{"alice", "bob"} {
		got, err := ledger.ListForStaff(ctx, who)
		require.NoError(t, err)
		require.Len(t, got, 1, who)
		assert.Equal(t, ab.ID, got[0].ID)
	}

	none, err := ledger.ListForStaff(ctx, "erin")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDelete_RemovesFromBothViews(t *testing.T) {
	ledger, _, notifier := newTestLedger(t)
	ctx := context.Background()
	saved, err := ledger.Save(ctx, validInput())
	require.NoError(t, err)
	notifier.calls = nil

	require.NoError(t, ledger.Delete(ctx, saved.ID))

	for _, who := range []generic.StaffID{"alice", "bob"} {
		got, _ := ledger.ListForStaff(ctx, who)
		assert.Empty(t, got)
	}
	assert.Equal(t, []generic.StaffID{"alice", "bob"}, notifier.calls)
	assert.ErrorIs(t, ledger.Delete(ctx, saved.ID), generic.ErrNotFound)
}

// =============================================================================
// PERSPECTIVE
// =============================================================================

func TestPerspective(t *testing.T) {
	rec := generic.ShiftSwapRecord{ID: "s1", RequesterID: "alice", TargetID: "bob"}

	v, ok := swap.Perspective(rec, "alice")
	require.True(t, ok)
	assert.Equal(t, swap.RoleRequester, v.Role)
	assert.Equal(t, generic.StaffID("bob"), v.CounterpartID)
	assert.Equal(t, swap.LabelSwappedWith, v.Label)

	v, ok = swap.Perspective(rec, "bob")
	require.True(t, ok)
	assert.Equal(t, swap.RoleTarget, v.Role)
	assert.Equal(t, generic.StaffID("alice"), v.CounterpartID)
	assert.Equal(t, swap.LabelReceivedFrom, v.Label)

	_, ok = swap.Perspective(rec, "carol")
	assert.False(t, ok)

	views := swap.Views([]generic.ShiftSwapRecord{rec, {ID: "s2", RequesterID: "carol", TargetID: "alice"}}, "alice")
	require.Len(t, views, 2)
	assert.Equal(t, generic.StaffID("carol"), views[1].CounterpartID)
}
