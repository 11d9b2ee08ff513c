/*
ledger.go - Shift-swap agreements between two staff members

PURPOSE:
  A swap is stored once and shows up in the history of both participants.
  The store keeps swaps globally; this ledger filters them per staff member
  and renders each one from the viewer's side (see view.go).

VALIDATION (nothing is written when any check fails):
  - requester and target are required and must differ
  - original date and swap date are required
  - status, when given, is scheduled | completed | cancelled

SIDE EFFECTS:
  Save and Delete signal the ChangeNotifier for BOTH participants.

SEE ALSO:
  - view.go: perspective rendering ("swapped with" / "received swap from")
*/
package swap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/warp/staff-ledger/generic"
)

// Input is the unsaved form of a swap.
type Input struct {
	ID           generic.RecordID
	RequesterID  generic.StaffID
	TargetID     generic.StaffID
	OriginalDate string
	SwapDate     string
	Status       generic.SwapStatus
	Notes        string
}

type Ledger struct {
	store    generic.SwapStore
	notifier generic.ChangeNotifier
	logger   *zap.Logger

	// Clock stamps CreatedAt on new swaps.
	Clock generic.Clock
	// Location anchors parsed dates. Defaults to time.Local.
	Location *time.Location
}

func NewLedger(store generic.SwapStore, notifier generic.ChangeNotifier, logger ...*zap.Logger) *Ledger {
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
		logger:   l.Named("swap.ledger"),
		Clock:    generic.Today,
		Location: time.Local,
	}
}

// ListForStaff returns the swaps where the staff member is either the
// requester or the target, in store order.
func (l *Ledger) ListForStaff(ctx context.Context, staffID generic.StaffID) ([]generic.ShiftSwapRecord, error) {
	all, err := l.store.ListSwaps(ctx)
	if err != nil {
		l.logger.Error("list swaps failed", zap.Error(err))
		return nil, err
	}
	return Involving(all, staffID), nil
}

func (l *Ledger) Get(ctx context.Context, id generic.RecordID) (generic.ShiftSwapRecord, error) {
	return l.store.GetSwap(ctx, id)
}

// Involving filters a global swap list down to one staff member.
func Involving(all []generic.ShiftSwapRecord, staffID generic.StaffID) []generic.ShiftSwapRecord {
	out := make([]generic.ShiftSwapRecord, 0, len(all))
	for _, s := range all {
		if s.Involves(staffID) {
			out = append(out, s)
		}
	}
	return out
}

func (l *Ledger) Save(ctx context.Context, in Input) (generic.ShiftSwapRecord, error) {
	l.logger.Debug("save swap requested",
		zap.String("requester_id", string(in.RequesterID)),
		zap.String("target_id", string(in.TargetID)),
		zap.String("original_date", in.OriginalDate),
		zap.String("swap_date", in.SwapDate),
	)

	record, err := l.build(in)
	if err != nil {
		l.logger.Warn("save swap validation failed", zap.Error(err))
		return generic.ShiftSwapRecord{}, err
	}

	var saved, previous generic.ShiftSwapRecord
	if record.ID == "" {
		record.CreatedAt = l.Clock()
		saved, err = l.store.AddSwap(ctx, record)
	} else {
		// The previous participants must hear about an edit that drops them.
		if previous, err = l.store.GetSwap(ctx, record.ID); err != nil {
			return generic.ShiftSwapRecord{}, err
		}
		saved, err = l.store.UpdateSwap(ctx, record.ID, record)
	}
	if err != nil {
		l.logger.Error("save swap persist failed", zap.Error(err))
		return generic.ShiftSwapRecord{}, err
	}

	l.logger.Info("save swap success", zap.String("id", string(saved.ID)))
	l.notify(ctx, saved.RequesterID, saved.TargetID, previous.RequesterID, previous.TargetID)
	return saved, nil
}

// Delete removes the single shared record; it disappears from both views.
func (l *Ledger) Delete(ctx context.Context, id generic.RecordID) error {
	existing, err := l.store.GetSwap(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteSwap(ctx, id); err != nil {
		l.logger.Error("delete swap failed", zap.String("id", string(id)), zap.Error(err))
		return err
	}

	l.logger.Info("delete swap success", zap.String("id", string(id)))
	l.notify(ctx, existing.RequesterID, existing.TargetID)
	return nil
}

// notify signals each distinct, non-empty staff id once, in order.
func (l *Ledger) notify(ctx context.Context, ids ...generic.StaffID) {
	seen := make(map[generic.StaffID]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		l.notifier.Changed(ctx, id)
	}
}

func (l *Ledger) build(in Input) (generic.ShiftSwapRecord, error) {
	switch {
	case in.RequesterID == "":
		return generic.ShiftSwapRecord{}, generic.NewValidationError("requesterId", "requester is required")
	case in.TargetID == "":
		return generic.ShiftSwapRecord{}, generic.NewValidationError("targetId", "swap partner is required")
	case in.TargetID == in.RequesterID:
		return generic.ShiftSwapRecord{}, generic.NewValidationError("targetId", "a staff member cannot swap with themself")
	case strings.TrimSpace(in.OriginalDate) == "":
		return generic.ShiftSwapRecord{}, generic.NewValidationError("originalDate", "original date is required")
	case strings.TrimSpace(in.SwapDate) == "":
		return generic.ShiftSwapRecord{}, generic.NewValidationError("swapDate", "swap date is required")
	}

	status := in.Status
	if status == "" {
		status = generic.SwapScheduled
	}
	if !status.Valid() {
		return generic.ShiftSwapRecord{}, generic.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	original, err := generic.ParseDate("originalDate", in.OriginalDate, l.Location)
	if err != nil {
		return generic.ShiftSwapRecord{}, err
	}
	swapped, err := generic.ParseDate("swapDate", in.SwapDate, l.Location)
	if err != nil {
		return generic.ShiftSwapRecord{}, err
	}

	return generic.ShiftSwapRecord{
		ID:           in.ID,
		RequesterID:  in.RequesterID,
		TargetID:     in.TargetID,
		OriginalDate: original,
		SwapDate:     swapped,
		Status:       status,
		Notes:        strings.TrimSpace(in.Notes),
	}, nil
}
