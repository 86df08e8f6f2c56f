package api

import (
	"encoding/json"
	"net/http"
	"time"

	"personio-go/internal/twin/store"
)

type absenceInput struct {
	EmployeeID   int    `json:"employee_id"`
	TypeID       int    `json:"time_off_type_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	HalfDayStart bool   `json:"half_day_start"`
	HalfDayEnd   bool   `json:"half_day_end"`
	Comment      string `json:"comment"`
}

// days counts the calendar days of the period, minus half days.
func (in absenceInput) days() (float64, bool) {
	start, err1 := time.Parse(time.DateOnly, in.StartDate)
	end, err2 := time.Parse(time.DateOnly, in.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0, false
	}
	n := end.Sub(start).Hours()/24 + 1
	if in.HalfDayStart {
		n -= 0.5
	}
	if in.HalfDayEnd && n > 0.5 {
		n -= 0.5
	}
	return n, true
}

// ListAbsenceTypes answers without pagination metadata.
func (h *Handler) ListAbsenceTypes(w http.ResponseWriter, r *http.Request) {
	items, _ := paginate(r, h.store.AbsenceTypes())
	data := make([]any, 0, len(items))
	for _, t := range items {
		data = append(data, renderAbsenceType(t))
	}
	writePage(w, data, nil)
}

func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	f := employeeFilter(r.URL.Query(), "start_date", "end_date")
	items, meta := paginate(r, h.store.Absences(f))
	data := make([]any, 0, len(items))
	for _, a := range items {
		data = append(data, h.renderAbsence(a))
	}
	writePage(w, data, meta)
}

func (h *Handler) GetAbsence(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	a, ok := h.store.Absence(id)
	if !ok {
		notFound(w, "Time-off period")
		return
	}
	writeData(w, http.StatusOK, h.renderAbsence(a))
}

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var in absenceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, 0, "Malformed request body", nil)
		return
	}
	errs := map[string][]string{}
	if _, ok := h.store.Employee(in.EmployeeID); !ok {
		errs["employee_id"] = []string{"The selected employee is invalid."}
	}
	if _, ok := h.store.AbsenceType(in.TypeID); !ok {
		errs["time_off_type_id"] = []string{"The selected time off type is invalid."}
	}
	days, ok := in.days()
	if !ok {
		errs["end_date"] = []string{"The end date must be a date after or equal to the start date."}
	}
	if len(errs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, http.StatusUnprocessableEntity, "Validation error", errs)
		return
	}
	created := h.store.CreateAbsence(store.Absence{
		EmployeeID:   in.EmployeeID,
		TypeID:       in.TypeID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		DaysCount:    days,
		HalfDayStart: in.HalfDayStart,
		HalfDayEnd:   in.HalfDayEnd,
		Comment:      in.Comment,
	})
	writeData(w, http.StatusOK, h.renderAbsence(created))
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	if !h.store.DeleteAbsence(id) {
		notFound(w, "Time-off period")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "The absence period was deleted."})
}
