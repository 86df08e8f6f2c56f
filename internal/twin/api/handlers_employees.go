package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"personio-go/internal/twin/store"
)

// employeeInput is the body of employee create and update requests.
type employeeInput struct {
	Employee struct {
		Email              string         `json:"email"`
		FirstName          string         `json:"first_name"`
		LastName           string         `json:"last_name"`
		Gender             string         `json:"gender"`
		Position           string         `json:"position"`
		Subcompany         string         `json:"subcompany"`
		Department         string         `json:"department"`
		Office             string         `json:"office"`
		HireDate           string         `json:"hire_date"`
		WeeklyWorkingHours string         `json:"weekly_working_hours"`
		CustomAttributes   map[string]any `json:"custom_attributes"`
	} `json:"employee"`
}

func (in employeeInput) apply(e *store.Employee) {
	src := in.Employee
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&e.Email, src.Email)
	set(&e.FirstName, src.FirstName)
	set(&e.LastName, src.LastName)
	set(&e.Gender, src.Gender)
	set(&e.Position, src.Position)
	set(&e.Subcompany, src.Subcompany)
	set(&e.Department, src.Department)
	set(&e.Office, src.Office)
	set(&e.HireDate, src.HireDate)
	set(&e.WeeklyWorkingHours, src.WeeklyWorkingHours)
	if len(src.CustomAttributes) > 0 {
		custom := make(map[string]any, len(e.Custom)+len(src.CustomAttributes))
		for k, v := range e.Custom {
			custom[k] = v
		}
		for k, v := range src.CustomAttributes {
			custom[k] = v
		}
		e.Custom = custom
	}
}

// validate returns the missing required fields.
func (in employeeInput) validate(create bool) map[string][]string {
	errs := map[string][]string{}
	src := in.Employee
	if create {
		for field, v := range map[string]string{"email": src.Email, "first_name": src.FirstName, "last_name": src.LastName} {
			if v == "" {
				errs[field] = append(errs[field], "The "+strings.ReplaceAll(field, "_", " ")+" field is required.")
			}
		}
	}
	return errs
}

func (h *Handler) unknownAttributes(custom map[string]any) []string {
	known := map[string]bool{}
	for _, a := range h.store.CustomAttributes() {
		known[a.Key] = true
	}
	var out []string
	for k := range custom {
		if !known[k] {
			out = append(out, k)
		}
	}
	return out
}

func (h *Handler) decodeEmployeeInput(w http.ResponseWriter, r *http.Request, create bool) (employeeInput, bool) {
	var in employeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, 0, "Malformed request body", nil)
		return in, false
	}
	errs := in.validate(create)
	if unknown := h.unknownAttributes(in.Employee.CustomAttributes); len(unknown) > 0 {
		errs["custom_attributes"] = []string{"Unknown attributes: " + strings.Join(unknown, ", ")}
	}
	if len(errs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, http.StatusUnprocessableEntity, "Validation error", errs)
		return in, false
	}
	return in, true
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	items, meta := paginate(r, h.store.Employees())
	base := baseURL(r)
	data := make([]any, 0, len(items))
	for _, e := range items {
		data = append(data, h.renderEmployee(e, base))
	}
	writePage(w, data, meta)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		notFound(w, "Employee")
		return
	}
	e, ok := h.store.Employee(id)
	if !ok {
		notFound(w, "Employee")
		return
	}
	writeData(w, http.StatusOK, h.renderEmployee(e, baseURL(r)))
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeEmployeeInput(w, r, true)
	if !ok {
		return
	}
	var e store.Employee
	in.apply(&e)
	created := h.store.CreateEmployee(e)
	h.log.Debug("employee created", "id", created.ID)
	writeData(w, http.StatusOK, map[string]any{"id": created.ID, "message": "success"})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		notFound(w, "Employee")
		return
	}
	in, ok := h.decodeEmployeeInput(w, r, false)
	if !ok {
		return
	}
	if _, ok := h.store.UpdateEmployee(id, in.apply); !ok {
		notFound(w, "Employee")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": id, "message": "success"})
}

func (h *Handler) ListCustomAttributes(w http.ResponseWriter, _ *http.Request) {
	attrs := h.store.CustomAttributes()
	data := make([]any, 0, len(attrs))
	for _, a := range attrs {
		data = append(data, renderCustomAttribute(a))
	}
	writeData(w, http.StatusOK, data)
}

func (h *Handler) GetAbsenceBalance(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	e, ok := h.store.Employee(id)
	if !ok {
		notFound(w, "Employee")
		return
	}
	data := make([]any, 0, len(e.Balances))
	for _, b := range e.Balances {
		data = append(data, map[string]any{"id": b.ID, "name": b.Name, "balance": b.Balance})
	}
	writeData(w, http.StatusOK, data)
}

// defaultPictureWidth is used when no width is requested.
const defaultPictureWidth = 75

// GetPicture serves a generated square PNG for employees with a picture.
func (h *Handler) GetPicture(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	e, ok := h.store.Employee(id)
	if !ok || !e.Picture {
		notFound(w, "Profile picture")
		return
	}
	width := defaultPictureWidth
	if raw := chi.URLParam(r, "width"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, 0, "Invalid width", nil)
			return
		}
		width = v
	}
	img := image.NewRGBA(image.Rect(0, 0, width, width))
	fill := color.RGBA{R: uint8(e.ID), G: uint8(e.ID >> 8), B: uint8(e.ID >> 16), A: 0xff}
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, 0, err.Error(), nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
