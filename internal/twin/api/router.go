// Package api implements a Personio compatible HTTP API on top of the twin
// store. It renders records in Personio's wire format: typed attribute
// envelopes, labeled employee attributes, limit/offset pagination and a
// bearer token that rotates with every response.
package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"personio-go/internal/twin/store"
)

// RecordedRequest is an authenticated request as seen by the twin.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Token  string
}

// Handler holds all API handler state.
type Handler struct {
	store *store.MemoryStore
	log   hclog.Logger

	mu       sync.Mutex
	tokens   map[string]bool
	requests []RecordedRequest
}

func NewHandler(s *store.MemoryStore, log hclog.Logger) *Handler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Handler{store: s, log: log, tokens: map[string]bool{}}
}

// Router returns a ready to serve router with all routes mounted below /v1.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.requestLog)
	h.Routes(r)
	return r
}

// Routes mounts the Personio API routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth", h.Auth)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware(true))

			r.Get("/company/employees", h.ListEmployees)
			r.Post("/company/employees", h.CreateEmployee)
			r.Get("/company/employees/custom-attributes", h.ListCustomAttributes)
			r.Get("/company/employees/{id}", h.GetEmployee)
			r.Patch("/company/employees/{id}", h.UpdateEmployee)
			r.Get("/company/employees/{id}/absences/balance", h.GetAbsenceBalance)

			r.Get("/company/attendances", h.ListAttendances)
			r.Post("/company/attendances", h.CreateAttendances)
			r.Patch("/company/attendances/{id}", h.UpdateAttendance)
			r.Delete("/company/attendances/{id}", h.DeleteAttendance)

			r.Get("/company/attendances/projects", h.ListProjects)
			r.Post("/company/attendances/projects", h.CreateProject)
			r.Patch("/company/attendances/projects/{id}", h.UpdateProject)
			r.Delete("/company/attendances/projects/{id}", h.DeleteProject)

			r.Get("/company/time-off-types", h.ListAbsenceTypes)
			r.Get("/company/time-offs", h.ListAbsences)
			r.Post("/company/time-offs", h.CreateAbsence)
			r.Get("/company/time-offs/{id}", h.GetAbsence)
			r.Delete("/company/time-offs/{id}", h.DeleteAbsence)
		})

		// Pictures are served without a rotated token.
		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware(false))

			r.Get("/company/employees/{id}/profile-picture", h.GetPicture)
			r.Get("/company/employees/{id}/profile-picture/{width}", h.GetPicture)
		})
	})
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

// authMiddleware accepts issued bearer tokens only. With rotate set, every
// response carries a fresh token in its Authorization header.
func (h *Handler) authMiddleware(rotate bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			h.record(r, token)
			if !h.validToken(token) {
				writeError(w, http.StatusUnauthorized, 0, "The Authorization header is missing or invalid", nil)
				return
			}
			if rotate {
				w.Header().Set("Authorization", "Bearer "+h.issueToken())
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) record(r *http.Request, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Token:  token,
	})
}

// Requests returns all authenticated requests received so far.
func (h *Handler) Requests() []RecordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RecordedRequest(nil), h.requests...)
}

func (h *Handler) issueToken() string {
	token := uuid.NewString()
	h.mu.Lock()
	h.tokens[token] = true
	h.mu.Unlock()
	return token
}

func (h *Handler) validToken(token string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return token != "" && h.tokens[token]
}

// ExpireTokens invalidates every issued token, as if they all timed out.
func (h *Handler) ExpireTokens() {
	h.mu.Lock()
	h.tokens = map[string]bool{}
	h.mu.Unlock()
}

// Auth handles POST /v1/auth?client_id=...&client_secret=...
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.store.Authenticate(q.Get("client_id"), q.Get("client_secret")) {
		writeError(w, http.StatusUnauthorized, 0, "Wrong credentials", nil)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"token": h.issueToken()})
}

// page applies limit and offset query parameters. Without a limit the whole
// list is returned as a single page.
type page struct {
	offset, limit, total int
}

func pageOf(r *http.Request, total int) page {
	p := page{total: total, limit: total}
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		p.offset = v
	}
	return p
}

func (p page) bounds() (int, int) {
	start := min(p.offset, p.total)
	return start, min(start+p.limit, p.total)
}

func (p page) metadata() map[string]any {
	current, pages := 1, 1
	if p.limit > 0 {
		current = p.offset/p.limit + 1
		pages = (p.total + p.limit - 1) / p.limit
	}
	return map[string]any{"total_elements": p.total, "current_page": current, "total_pages": pages}
}

func paginate[T any](r *http.Request, items []T) ([]T, map[string]any) {
	p := pageOf(r, len(items))
	start, end := p.bounds()
	return items[start:end], p.metadata()
}

func writePage(w http.ResponseWriter, data []any, meta map[string]any) {
	body := map[string]any{"success": true, "data": data}
	if meta != nil {
		body["metadata"] = meta
	}
	writeJSON(w, http.StatusOK, body)
}

func idParam(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	return id, err == nil
}

// employeeFilter reads employees[], start_date and end_date.
func employeeFilter(q url.Values, start, end string) store.Filter {
	f := store.Filter{Start: q.Get(start), End: q.Get(end)}
	for _, v := range q["employees[]"] {
		if id, err := strconv.Atoi(v); err == nil {
			f.EmployeeIDs = append(f.EmployeeIDs, id)
		}
	}
	return f
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
