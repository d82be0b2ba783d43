/*
handlers.go - HTTP handlers for the hour-bank accounting service

PURPOSE:
  Exposes the accounting core over REST. Handlers parse and validate the
  HTTP shape, delegate to the productivity service and the bank ledger,
  and map domain errors to status codes.

ENDPOINTS:
  Users:
    GET    /api/users                          Active users
    GET    /api/users/{id}/months/{month}      Per-day balances + summary
    GET    /api/users/{id}/bank                Lifetime total + entries
    POST   /api/users/{id}/bank/transfers      Transfer surplus to the bank

  Time logs:
    GET    /api/users/{id}/logs?from=&to=      Entries in a date range
    POST   /api/users/{id}/logs                Create entry
    PUT    /api/logs/{id}                      Update entry
    DELETE /api/logs/{id}                      Delete entry

  Absences:
    GET    /api/users/{id}/absences            All of a user's requests
    POST   /api/users/{id}/absences            Create request (pending)
    POST   /api/absences/{id}/approve          Approve
    POST   /api/absences/{id}/reject           Reject

  Reports:
    GET    /api/reports/{month}                Org-wide monthly report
    GET    /api/calendar/{year}                Holiday list + workday hours

ERROR HANDLING:
  - 400: malformed input (dates, months, bodies)
  - 404: missing user/log/absence
  - 422: transfer validation failure (body carries the available bound)
  - 503: persistence reads failed (DataUnavailable) -- callers keep the
         last good state instead of rendering zeros
  - 500: everything else

SECURITY NOTE:
  Authentication is an external collaborator; these handlers trust the
  user id in the path. Put the service behind the gateway that owns auth.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roldanhc-acho/appdspi/bank"
	"github.com/roldanhc-acho/appdspi/calendar"
	"github.com/roldanhc-acho/appdspi/productivity"
	"github.com/roldanhc-acho/appdspi/store/sqlite"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds the dependencies the HTTP layer needs.
type Handler struct {
	Store    *sqlite.Store
	Producer *productivity.Service
	Bank     *bank.Ledger
	Cal      *calendar.WorkCalendar
}

// NewHandler wires the handler over a store and calendar.
func NewHandler(store *sqlite.Store, cal *calendar.WorkCalendar) *Handler {
	producer := productivity.NewService(store, cal)
	return &Handler{
		Store:    store,
		Producer: producer,
		Bank:     bank.NewLedger(store, producer),
		Cal:      cal,
	}
}

// =============================================================================
// USERS
// =============================================================================

// ListUsers returns all active users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ActiveUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// MONTH VIEW
// =============================================================================

// GetMonth returns one user's per-day balances and monthly summary.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	view, err := h.Producer.MonthFor(r.Context(), userID, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthViewDTO(view))
}

// =============================================================================
// TIME LOGS
// =============================================================================

// ListTimeLogs returns a user's entries in ?from=..&to=.. (inclusive).
func (h *Handler) ListTimeLogs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	from, err := calendar.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := calendar.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	logs, err := h.Store.TimeLogs(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list time logs", err)
		return
	}

	dtos := make([]TimeLogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = toTimeLogDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTimeLog records hours against a date (and optionally a task).
func (h *Handler) CreateTimeLog(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req SaveTimeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.timeLogFromRequest(newID(), userID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time log", err)
		return
	}

	if err := h.Store.SaveTimeLog(r.Context(), entry); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeLogDTO(entry))
}

// UpdateTimeLog rewrites an existing entry.
func (h *Handler) UpdateTimeLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetTimeLog(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load time log", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Time log not found", nil)
		return
	}

	var req SaveTimeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.timeLogFromRequest(id, existing.UserID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time log", err)
		return
	}

	if err := h.Store.SaveTimeLog(r.Context(), entry); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeLogDTO(entry))
}

// DeleteTimeLog removes an entry.
func (h *Handler) DeleteTimeLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteTimeLog(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) timeLogFromRequest(id, userID string, req SaveTimeLogRequest) (productivity.TimeLogEntry, error) {
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return productivity.TimeLogEntry{}, err
	}
	return productivity.TimeLogEntry{
		ID:     id,
		UserID: userID,
		TaskID: req.TaskID,
		Date:   date,
		Hours:  calendar.HoursFromFloat(req.Hours),
		Notes:  req.Notes,
	}, nil
}

// =============================================================================
// ABSENCES
// =============================================================================

// ListAbsences returns all of a user's absence requests, newest first.
func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	absences, err := h.Store.AbsencesByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list absences", err)
		return
	}

	dtos := make([]AbsenceDTO, len(absences))
	for i, a := range absences {
		dtos[i] = toAbsenceDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAbsence records a pending absence request.
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := calendar.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := calendar.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	absence := productivity.Absence{
		ID:     newID(),
		UserID: userID,
		Start:  start,
		End:    end,
		Status: productivity.AbsencePending,
		Type:   req.Type,
	}
	if err := h.Store.SaveAbsence(r.Context(), absence); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAbsenceDTO(absence))
}

// ApproveAbsence marks an absence approved; from then on it justifies days.
func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	h.setAbsenceStatus(w, r, productivity.AbsenceApproved)
}

// RejectAbsence marks an absence rejected.
func (h *Handler) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	h.setAbsenceStatus(w, r, productivity.AbsenceRejected)
}

func (h *Handler) setAbsenceStatus(w http.ResponseWriter, r *http.Request, status productivity.AbsenceStatus) {
	id := chi.URLParam(r, "id")
	if err := h.Store.SetAbsenceStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": string(status)})
}

// =============================================================================
// HOUR BANK
// =============================================================================

// GetBank returns a user's lifetime total and per-month entries.
func (h *Handler) GetBank(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	ctx := r.Context()

	total, err := h.Bank.LifetimeTotal(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entries, err := h.Bank.Entries(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := BankDTO{UserID: userID, LifetimeTotal: total.Float64()}
	for _, e := range entries {
		dto.Entries = append(dto.Entries, BankEntryDTO{
			Month:      e.Month.String(),
			HoursSaved: e.HoursSaved.Float64(),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

// TransferToBank moves part of the month's surplus into the ledger.
func (h *Handler) TransferToBank(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	ctx := r.Context()

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	month, err := calendar.ParseMonth(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	amount := calendar.HoursFromFloat(req.Hours)
	if err := h.Bank.Transfer(ctx, userID, month, amount); err != nil {
		writeDomainError(w, err)
		return
	}

	// Report the post-transfer state so the client can refresh in one trip.
	view, err := h.Producer.MonthFor(ctx, userID, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	total, err := h.Bank.LifetimeTotal(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TransferResponse{
		UserID:          userID,
		Month:           month.String(),
		Transferred:     amount.Float64(),
		AvailableToBank: view.Summary.AvailableToBank.Float64(),
		LifetimeTotal:   total.Float64(),
	})
}

// =============================================================================
// REPORTS
// =============================================================================

// GetReport returns the org-wide monthly report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	report, err := h.Producer.MonthlyReport(r.Context(), month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := ReportDTO{
		Month:         report.Month.String(),
		WorkingDays:   h.Cal.WorkingDays(month.Start(), month.End()),
		ExpectedHours: h.Cal.ExpectedHoursInMonth(month).Float64(),
		Totals: ReportTotalsDTO{
			HoursLogged:  report.Totals.HoursLogged.Float64(),
			AbsenceHours: report.Totals.AbsenceHours.Float64(),
			Productivity: report.Totals.Productivity.Float64(),
			BankTotal:    report.Totals.BankTotal.Float64(),
		},
	}
	for _, row := range report.Users {
		dto.Users = append(dto.Users, ReportRowDTO{
			UserID:       row.User.ID,
			Name:         row.User.Name,
			HoursLogged:  row.Summary.TotalHoursLogged.Float64(),
			AbsenceHours: row.AbsenceHours.Float64(),
			Productivity: row.Summary.DisplayedProductivity.Float64(),
			BankTotal:    row.BankTotal.Float64(),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetCalendar returns the holiday list and workday hours for grid display.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	var holidays []string
	prefix := strconv.Itoa(year) + "-"
	for _, day := range h.Cal.Holidays() {
		if strings.HasPrefix(day, prefix) {
			holidays = append(holidays, day)
		}
	}

	writeJSON(w, http.StatusOK, CalendarDTO{
		Year:         year,
		WorkdayHours: h.Cal.WorkdayHours().Float64(),
		Holidays:     holidays,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

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

// writeDomainError maps the accounting error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var transferErr *productivity.TransferError
	switch {
	case errors.As(err, &transferErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:     "Transfer rejected",
			Code:      transferErr.Reason,
			Details:   transferErr.Error(),
			Available: transferErr.Available.Float64(),
		})
	case productivity.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", err)
	case productivity.IsDataUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, "Data unavailable", err)
	case productivity.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func newID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
