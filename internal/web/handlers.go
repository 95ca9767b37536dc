package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/shelter/internal/directory"
	"github.com/roach88/shelter/internal/model"
	"github.com/roach88/shelter/internal/report"
)

// dashboardWindow is how many recent residents and services the dashboard shows.
const dashboardWindow = 5

type dashboardResponse struct {
	TotalResidents  int                  `json:"total_residents"`
	TotalServices   int                  `json:"total_services"`
	RecentResidents []model.Resident     `json:"recent_residents"`
	RecentServices  []model.ServiceEntry `json:"recent_services"`
}

type addResidentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	EntryDate string `json:"entry_date"`
}

type logServiceRequest struct {
	ResidentID  int64  `json:"resident_id"`
	ServiceType string `json:"service_type"`
	ServiceDate string `json:"service_date"`
}

type duplicateResponse struct {
	Duplicate bool `json:"duplicate"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp dashboardResponse
	var err error

	if resp.TotalResidents, err = s.deps.Directory.Count(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	if resp.TotalServices, err = s.deps.Ledger.Count(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.RecentResidents, err = s.deps.Directory.ListAll(ctx, directory.ListOptions{
		Order: directory.OrderByEntryDateDesc,
		Limit: dashboardWindow,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resp.RecentServices, err = s.deps.Ledger.ListAll(ctx, dashboardWindow); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListResidents(w http.ResponseWriter, r *http.Request) {
	order, err := directory.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	residents, err := s.deps.Directory.ListAll(r.Context(), directory.ListOptions{Order: order, Limit: limit})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, residents)
}

func (s *Server) handleAddResident(w http.ResponseWriter, r *http.Request) {
	var req addResidentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	resident, err := s.deps.Directory.Add(r.Context(), req.FirstName, req.LastName, req.EntryDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resident)
}

func (s *Server) handleSearchResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := s.deps.Directory.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, residents)
}

func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dup, err := s.deps.Directory.IsDuplicate(r.Context(), q.Get("first_name"), q.Get("last_name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, duplicateResponse{Duplicate: dup})
}

func (s *Server) handleGetResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resident, err := s.deps.Directory.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resident)
}

func (s *Server) handleResidentServices(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	services, err := s.deps.Ledger.ListForResident(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.deps.Ledger.ListAll(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLogService(w http.ResponseWriter, r *http.Request) {
	var req logServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	service, err := s.deps.Ledger.LogService(r.Context(), req.ResidentID, req.ServiceType, req.ServiceDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, service)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Reports.Monthly(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleMonthlyCSV(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Reports.Monthly(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+report.MonthlyFileName(rep, report.FormatCSV)+`"`)
	w.WriteHeader(http.StatusOK)
	if err := report.WriteMonthlyCSV(w, rep); err != nil {
		s.logWriteFailure(r, err)
	}
}

func (s *Server) handleSystemReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Reports.System(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
