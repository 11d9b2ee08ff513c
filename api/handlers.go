/*
handlers.go - HTTP API handlers for the staff ledger

PURPOSE:
  Exposes the staff directory, the lifecycle facade, and the three ledgers
  via REST API. Handles HTTP request/response and JSON serialization, and
  delegates every rule to the domain packages.

ENDPOINTS:
  Staff:
    GET    /api/staff                      List the roster
    POST   /api/staff                      Hire
    GET    /api/staff/{id}                 Fresh snapshot (reloads the facade)
    PUT    /api/staff/{id}                 Replace profile
    DELETE /api/staff/{id}                 Remove (refused once history exists)
    GET    /api/staff/{id}/periods         Accrual periods (?as_of=YYYY-MM-DD)
    GET    /api/staff/{id}/alerts          Urgent or expired periods

  Vacations:
    GET    /api/staff/{id}/vacations       List
    POST   /api/staff/{id}/vacations       Save
    POST   /api/staff/{id}/vacations/draft Unsaved draft from a period
    PUT    /api/vacations/{id}             Update
    DELETE /api/vacations/{id}             Delete

  Absences:
    GET    /api/staff/{id}/absences        List
    POST   /api/staff/{id}/absences        Save
    PUT    /api/absences/{id}              Update
    DELETE /api/absences/{id}              Delete

  Shift swaps:
    GET    /api/staff/{id}/swaps           Swaps seen from this member
    POST   /api/staff/{id}/swaps           Record a swap requested by this member
    PUT    /api/swaps/{id}                 Update
    DELETE /api/swaps/{id}                 Delete

  Alerts:
    GET    /api/alerts                     Latest organization-wide scan

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed dates, bad JSON
  - 404: Staff member or record not found
  - 409: Removal refused because history exists
  - 500: Store failures

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Background alert scan
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/staff-ledger/absence"
	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/staff"
	"github.com/warp/staff-ledger/swap"
	"github.com/warp/staff-ledger/vacation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Directory *staff.Directory
	Service   *staff.Service
	Vacations *vacation.Ledger
	Absences  *absence.Ledger
	Swaps     *swap.Ledger

	// Scanner serves cached organization-wide alerts. Optional.
	Scanner *AlertScanner

	// Location anchors query-string dates.
	Location *time.Location

	logger *zap.Logger
}

// NewHandler wires a handler over already-constructed domain services.
func NewHandler(dir *staff.Directory, svc *staff.Service, vac *vacation.Ledger, abs *absence.Ledger, swp *swap.Ledger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Directory: dir,
		Service:   svc,
		Vacations: vac,
		Absences:  abs,
		Swaps:     swp,
		Location:  time.Local,
		logger:    logger.Named("api"),
	}
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns the roster.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.Directory.List(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list staff", err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffDTOs(members))
}

// CreateStaff hires a new staff member.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.Directory.Hire(r.Context(), req.profile())
	if err != nil {
		h.fail(w, r, "Failed to hire staff member", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(m))
}

// GetStaff reloads and returns the full snapshot for one staff member.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Reload(r.Context(), staffID(r))
	if err != nil {
		h.fail(w, r, "Failed to load staff member", err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

// UpdateStaff replaces a staff profile.
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.Directory.Update(r.Context(), staffID(r), req.profile())
	if err != nil {
		h.fail(w, r, "Failed to update staff member", err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffDTO(m))
}

// DeleteStaff removes a staff member without history.
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id := staffID(r)
	if err := h.Directory.Remove(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to remove staff member", err)
		return
	}
	h.Service.Forget(id)
	w.WriteHeader(http.StatusNoContent)
}

// GetPeriods returns the accrual periods as of ?as_of (default today).
func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	asOf, err := generic.ParseDate("as_of", r.URL.Query().Get("as_of"), h.Location)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}
	periods, err := h.Service.Periods(r.Context(), staffID(r), asOf)
	if err != nil {
		h.fail(w, r, "Failed to derive periods", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTOs(periods))
}

// GetStaffAlerts returns the urgent or expired periods of one member.
func (h *Handler) GetStaffAlerts(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Service.Periods(r.Context(), staffID(r), generic.TimePoint{})
	if err != nil {
		h.fail(w, r, "Failed to derive alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTOs(entitlement.Alerts(periods)))
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// ListVacations returns the vacations of one staff member.
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	records, err := h.Vacations.List(r.Context(), staffID(r))
	if err != nil {
		h.fail(w, r, "Failed to list vacations", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationDTOs(records))
}

// CreateVacation records a vacation for the staff member in the path.
func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	var req VacationRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.Vacations.Save(r.Context(), req.draft("", staffID(r)))
	if err != nil {
		h.fail(w, r, "Failed to save vacation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toVacationDTO(v))
}

// DraftVacation prefills a vacation from the period starting on period_start.
// Nothing is persisted.
func (h *Handler) DraftVacation(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := generic.ParseDate("period_start", req.PeriodStart, h.Location)
	if err != nil {
		h.fail(w, r, "Invalid period_start", err)
		return
	}
	if start.IsZero() {
		h.fail(w, r, "Invalid period_start", generic.NewValidationError("period_start", "is required"))
		return
	}

	id := staffID(r)
	periods, err := h.Service.Periods(r.Context(), id, generic.TimePoint{})
	if err != nil {
		h.fail(w, r, "Failed to derive periods", err)
		return
	}
	period, ok := entitlement.Find(periods, start)
	if !ok {
		h.fail(w, r, "Unknown period", generic.NewValidationError("period_start", "no accrual period starts on "+start.String()))
		return
	}
	writeJSON(w, http.StatusOK, draftRequest(vacation.ScheduleFromPeriod(id, period)))
}

// UpdateVacation replaces a vacation. The owner is taken from the stored record.
func (h *Handler) UpdateVacation(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	existing, err := h.Vacations.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to load vacation", err)
		return
	}
	var req VacationRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.Vacations.Save(r.Context(), req.draft(id, existing.StaffID))
	if err != nil {
		h.fail(w, r, "Failed to save vacation", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationDTO(v))
}

// DeleteVacation removes a vacation.
func (h *Handler) DeleteVacation(w http.ResponseWriter, r *http.Request) {
	if err := h.Vacations.Delete(r.Context(), recordID(r)); err != nil {
		h.fail(w, r, "Failed to delete vacation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req VacationRequest) draft(id generic.RecordID, owner generic.StaffID) vacation.Draft {
	return vacation.Draft{
		ID:               id,
		StaffID:          owner,
		AcquisitionStart: req.AcquisitionStart,
		AcquisitionEnd:   req.AcquisitionEnd,
		AvailableFrom:    req.AvailableFrom,
		ExpiresOn:        req.ExpiresOn,
		VacationStart:    req.VacationStart,
		VacationEnd:      req.VacationEnd,
		DaysTaken:        req.DaysTaken,
		Status:           generic.VacationStatus(req.Status),
		Notes:            req.Notes,
	}
}

func draftRequest(d vacation.Draft) VacationRequest {
	return VacationRequest{
		AcquisitionStart: d.AcquisitionStart,
		AcquisitionEnd:   d.AcquisitionEnd,
		AvailableFrom:    d.AvailableFrom,
		ExpiresOn:        d.ExpiresOn,
		VacationStart:    d.VacationStart,
		VacationEnd:      d.VacationEnd,
		DaysTaken:        d.DaysTaken,
		Status:           string(d.Status),
		Notes:            d.Notes,
	}
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

// ListAbsences returns the absences of one staff member.
func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	records, err := h.Absences.List(r.Context(), staffID(r))
	if err != nil {
		h.fail(w, r, "Failed to list absences", err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTOs(records))
}

// CreateAbsence records an absence for the staff member in the path.
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req AbsenceRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Absences.Save(r.Context(), req.input("", staffID(r)))
	if err != nil {
		h.fail(w, r, "Failed to save absence", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAbsenceDTO(a))
}

// UpdateAbsence replaces an absence. The owner is taken from the stored record.
func (h *Handler) UpdateAbsence(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	existing, err := h.Absences.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to load absence", err)
		return
	}
	var req AbsenceRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Absences.Save(r.Context(), req.input(id, existing.StaffID))
	if err != nil {
		h.fail(w, r, "Failed to save absence", err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTO(a))
}

// DeleteAbsence removes an absence.
func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.Absences.Delete(r.Context(), recordID(r)); err != nil {
		h.fail(w, r, "Failed to delete absence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req AbsenceRequest) input(id generic.RecordID, owner generic.StaffID) absence.Input {
	return absence.Input{
		ID:             id,
		StaffID:        owner,
		Type:           generic.AbsenceType(req.Type),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DaysCount:      string(req.DaysCount),
		DocumentNumber: req.DocumentNumber,
		Notes:          req.Notes,
	}
}

// =============================================================================
// SHIFT SWAP HANDLERS
// =============================================================================

// ListSwaps returns the swaps involving a staff member, labelled from their side.
func (h *Handler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	id := staffID(r)
	records, err := h.Swaps.ListForStaff(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to list swaps", err)
		return
	}
	roster, err := h.Directory.List(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list staff", err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapDTOs(swap.Views(records, id), roster))
}

// CreateSwap records a swap requested by the staff member in the path.
func (h *Handler) CreateSwap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if !decode(w, r, &req) {
		return
	}
	h.saveSwap(w, r, req.input("", staffID(r)), http.StatusCreated)
}

// UpdateSwap replaces a swap. The requester is taken from the stored record.
func (h *Handler) UpdateSwap(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	existing, err := h.Swaps.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to load swap", err)
		return
	}
	var req SwapRequest
	if !decode(w, r, &req) {
		return
	}
	h.saveSwap(w, r, req.input(id, existing.RequesterID), http.StatusOK)
}

func (h *Handler) saveSwap(w http.ResponseWriter, r *http.Request, in swap.Input, status int) {
	s, err := h.Swaps.Save(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to save swap", err)
		return
	}
	roster, err := h.Directory.List(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list staff", err)
		return
	}
	v, _ := swap.Perspective(s, s.RequesterID)
	writeJSON(w, status, toSwapDTOs([]swap.View{v}, roster)[0])
}

// DeleteSwap removes a swap from both participants' history.
func (h *Handler) DeleteSwap(w http.ResponseWriter, r *http.Request) {
	if err := h.Swaps.Delete(r.Context(), recordID(r)); err != nil {
		h.fail(w, r, "Failed to delete swap", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req SwapRequest) input(id generic.RecordID, requester generic.StaffID) swap.Input {
	return swap.Input{
		ID:           id,
		RequesterID:  requester,
		TargetID:     generic.StaffID(req.TargetID),
		OriginalDate: req.OriginalDate,
		SwapDate:     req.SwapDate,
		Status:       generic.SwapStatus(req.Status),
		Notes:        req.Notes,
	}
}

// =============================================================================
// ALERT HANDLERS
// =============================================================================

// ListAlerts returns the organization-wide alerts. The scanner's cached
// result is served when present; ?fresh=true or a missing scan derives them
// on the spot.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	var nextScan string
	if h.Scanner != nil {
		if next := h.Scanner.NextRunTime(); !next.IsZero() {
			nextScan = next.Format(time.RFC3339)
		}
	}

	if h.Scanner != nil && r.URL.Query().Get("fresh") != "true" {
		if alerts, at, ok := h.Scanner.Latest(); ok {
			writeJSON(w, http.StatusOK, AlertsResponse{
				ScannedAt:  at.Format(time.RFC3339),
				NextScanAt: nextScan,
				Count:      len(alerts),
				Alerts:     toAlertDTOs(alerts),
			})
			return
		}
	}

	alerts, err := h.Service.ScanAlerts(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to scan alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, AlertsResponse{
		ScannedAt:  time.Now().Format(time.RFC3339),
		NextScanAt: nextScan,
		Count:      len(alerts),
		Alerts:     toAlertDTOs(alerts),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func staffID(r *http.Request) generic.StaffID {
	return generic.StaffID(chi.URLParam(r, "id"))
}

func recordID(r *http.Request) generic.RecordID {
	return generic.RecordID(chi.URLParam(r, "id"))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// fail maps a domain error onto an HTTP status and writes it. Server-side
// failures are logged; client errors are not.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: message, Details: err.Error()}

	var ve *generic.ValidationError
	var de *generic.InvalidDateError
	switch {
	case errors.As(err, &ve):
		resp.Field = ve.Field
	case errors.As(err, &de):
		resp.Field = de.Field
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(message, zap.Error(err), zap.String("path", r.URL.Path))
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generic.ErrConflict):
		return http.StatusConflict
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
