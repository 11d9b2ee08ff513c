/*
directory.go - Roster CRUD

PURPOSE:
  Hire, edit and remove staff members. Removal is refused once the member
  has any vacation, absence or swap history: move them to suspended or
  terminated instead so the history keeps a valid owner.
*/
package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/swap"
)

// Profile is the editable form of a staff member. Dates are YYYY-MM-DD.
type Profile struct {
	Name            string
	HireDate        string
	BirthDate       string
	TerminationDate string
	Status          generic.StaffStatus
	Position        string
	Shift           string
	Schedule        string
	Post            string
}

type Directory struct {
	store    generic.RecordStore
	notifier generic.ChangeNotifier
	logger   *zap.Logger

	Location *time.Location
}

func NewDirectory(store generic.RecordStore, notifier generic.ChangeNotifier, logger ...*zap.Logger) *Directory {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if notifier == nil {
		notifier = generic.NopNotifier{}
	}
	return &Directory{
		store:    store,
		notifier: notifier,
		logger:   l.Named("staff.directory"),
		Location: time.Local,
	}
}

func (d *Directory) List(ctx context.Context) ([]generic.StaffMember, error) {
	return d.store.ListStaff(ctx)
}

func (d *Directory) Get(ctx context.Context, id generic.StaffID) (generic.StaffMember, error) {
	return d.store.GetStaff(ctx, id)
}

func (d *Directory) Hire(ctx context.Context, p Profile) (generic.StaffMember, error) {
	member, err := d.build(p)
	if err != nil {
		d.logger.Warn("hire validation failed", zap.Error(err))
		return generic.StaffMember{}, err
	}
	saved, err := d.store.AddStaff(ctx, member)
	if err != nil {
		d.logger.Error("hire persist failed", zap.Error(err))
		return generic.StaffMember{}, err
	}
	d.logger.Info("hire success", zap.String("staff_id", string(saved.ID)), zap.String("hire_date", saved.HireDate.String()))
	return saved, nil
}

// Update replaces the profile. A changed hire date moves the derived periods
// but never the boundaries already copied into vacation records.
func (d *Directory) Update(ctx context.Context, id generic.StaffID, p Profile) (generic.StaffMember, error) {
	member, err := d.build(p)
	if err != nil {
		d.logger.Warn("update validation failed", zap.Error(err))
		return generic.StaffMember{}, err
	}
	saved, err := d.store.UpdateStaff(ctx, id, member)
	if err != nil {
		return generic.StaffMember{}, err
	}
	d.logger.Info("update success", zap.String("staff_id", string(id)), zap.String("status", string(saved.Status)))
	d.notifier.Changed(ctx, id)
	return saved, nil
}

func (d *Directory) Remove(ctx context.Context, id generic.StaffID) error {
	if _, err := d.store.GetStaff(ctx, id); err != nil {
		return err
	}
	if err := d.checkNoHistory(ctx, id); err != nil {
		d.logger.Warn("remove refused", zap.String("staff_id", string(id)), zap.Error(err))
		return err
	}
	if err := d.store.DeleteStaff(ctx, id); err != nil {
		return err
	}
	d.logger.Info("remove success", zap.String("staff_id", string(id)))
	return nil
}

func (d *Directory) checkNoHistory(ctx context.Context, id generic.StaffID) error {
	vacations, err := d.store.ListVacations(ctx, id)
	if err != nil {
		return err
	}
	absences, err := d.store.ListAbsences(ctx, id)
	if err != nil {
		return err
	}
	swaps, err := d.store.ListSwaps(ctx)
	if err != nil {
		return err
	}
	involved := swap.Involving(swaps, id)

	if len(vacations)+len(absences)+len(involved) > 0 {
		return fmt.Errorf("%w: staff %s has %d vacation(s), %d absence(s) and %d swap(s) on record",
			generic.ErrConflict, id, len(vacations), len(absences), len(involved))
	}
	return nil
}

func (d *Directory) build(p Profile) (generic.StaffMember, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return generic.StaffMember{}, generic.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(p.HireDate) == "" {
		return generic.StaffMember{}, generic.NewValidationError("hireDate", "hire date is required")
	}

	status := p.Status
	if status == "" {
		status = generic.StaffActive
	}
	if !status.Valid() {
		return generic.StaffMember{}, generic.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	hire, err := generic.ParseDate("hireDate", p.HireDate, d.Location)
	if err != nil {
		return generic.StaffMember{}, err
	}
	birth, err := generic.ParseDate("birthDate", p.BirthDate, d.Location)
	if err != nil {
		return generic.StaffMember{}, err
	}
	termination, err := generic.ParseDate("terminationDate", p.TerminationDate, d.Location)
	if err != nil {
		return generic.StaffMember{}, err
	}
	if !termination.IsZero() && termination.Before(hire) {
		return generic.StaffMember{}, generic.NewValidationError("terminationDate", "termination cannot precede hire")
	}

	return generic.StaffMember{
		Name:            name,
		HireDate:        hire,
		BirthDate:       birth.Ptr(),
		TerminationDate: termination.Ptr(),
		Status:          status,
		Position:        strings.TrimSpace(p.Position),
		Shift:           strings.TrimSpace(p.Shift),
		Schedule:        strings.TrimSpace(p.Schedule),
		Post:            strings.TrimSpace(p.Post),
	}, nil
}
