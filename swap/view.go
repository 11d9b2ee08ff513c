package swap

import "github.com/warp/staff-ledger/generic"

// Role is the viewer's side of a swap.
type Role string

const (
	RoleRequester Role = "requester"
	RoleTarget    Role = "target"
)

const (
	LabelSwappedWith  = "swapped with"
	LabelReceivedFrom = "received swap from"
)

// View is a swap as seen by one of its participants.
type View struct {
	generic.ShiftSwapRecord
	Role          Role
	CounterpartID generic.StaffID
	Label         string
}

// Perspective renders a swap for viewer. ok is false when viewer is not a
// participant.
func Perspective(s generic.ShiftSwapRecord, viewer generic.StaffID) (v View, ok bool) {
	switch viewer {
	case s.RequesterID:
		return View{ShiftSwapRecord: s, Role: RoleRequester, CounterpartID: s.TargetID, Label: LabelSwappedWith}, true
	case s.TargetID:
		return View{ShiftSwapRecord: s, Role: RoleTarget, CounterpartID: s.RequesterID, Label: LabelReceivedFrom}, true
	}
	return View{}, false
}

// Views renders every swap the viewer takes part in.
func Views(all []generic.ShiftSwapRecord, viewer generic.StaffID) []View {
	out := make([]View, 0, len(all))
	for _, s := range all {
		if v, ok := Perspective(s, viewer); ok {
			out = append(out, v)
		}
	}
	return out
}
