package entitlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
)

func linkedVacation(id string, start generic.TimePoint, days int) generic.VacationRecord {
	return generic.VacationRecord{
		ID:               generic.RecordID(id),
		StaffID:          "staff-1",
		AcquisitionStart: &start,
		VacationStart:    start.AddYears(1),
		DaysTaken:        days,
		Status:           generic.VacationScheduled,
	}
}

func TestReconcile_SumsLinkedVacationsPerPeriod(t *testing.T) {
	// GIVEN: two recorded vacations against the 2022 period and one unlinked
	periods := entitlement.Generate(date("2022-03-01"), date("2024-06-01"))
	start2022 := date("2022-03-01")
	vacations := []generic.VacationRecord{
		linkedVacation("v1", start2022, 10),
		linkedVacation("v2", start2022, 15),
		{ID: "v3", StaffID: "staff-1", VacationStart: date("2024-01-10"), DaysTaken: 5},
	}

	// WHEN: reconciling
	balances := entitlement.Reconcile(periods, vacations)

	// THEN: only the linked days count, against the right period
	require.Len(t, balances, len(periods))
	oldest := balances[len(balances)-1]
	assert.True(t, oldest.Taken.Equal(generic.Days(25)))
	assert.True(t, oldest.Remaining.Equal(generic.Days(5)))
	assert.False(t, oldest.Exhausted())
	assert.ElementsMatch(t, []generic.RecordID{"v1", "v2"}, oldest.Vacations)

	for _, b := range balances[:len(balances)-1] {
		assert.True(t, b.Taken.IsZero())
		assert.True(t, b.Remaining.Equal(generic.Days(30)))
	}
}

func TestReconcile_RemainingNeverNegative(t *testing.T) {
	start := date("2022-03-01")
	periods := entitlement.Generate(start, date("2024-06-01"))
	vacations := []generic.VacationRecord{
		linkedVacation("v1", start, 30),
		linkedVacation("v2", start, 10),
	}

	balances := entitlement.Reconcile(periods, vacations)
	oldest := balances[len(balances)-1]
	assert.True(t, oldest.Remaining.IsZero())
	assert.True(t, oldest.Exhausted())
}

func TestTakenIn_ExcludesEditedRecord(t *testing.T) {
	start := date("2022-03-01")
	vacations := []generic.VacationRecord{
		linkedVacation("v1", start, 20),
		linkedVacation("v2", start, 8),
	}

	assert.True(t, entitlement.TakenIn(start, vacations, "").Equal(generic.Days(28)))
	assert.True(t, entitlement.TakenIn(start, vacations, "v1").Equal(generic.Days(8)))
}

func TestReconcile_VacationsDoNotAlterPeriods(t *testing.T) {
	hire, ref := date("2021-05-05"), date("2024-02-01")
	before := entitlement.Generate(hire, ref)

	entitlement.Reconcile(before, []generic.VacationRecord{linkedVacation("v1", hire, 30)})

	assert.Equal(t, entitlement.Generate(hire, ref), before)
}
