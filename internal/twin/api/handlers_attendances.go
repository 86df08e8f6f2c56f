package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"personio-go/internal/twin/store"
)

type attendanceInput struct {
	Employee  int    `json:"employee"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Break     int    `json:"break"`
	Comment   string `json:"comment"`
	ProjectID int    `json:"project_id"`
}

func (h *Handler) ListAttendances(w http.ResponseWriter, r *http.Request) {
	f := employeeFilter(r.URL.Query(), "start_date", "end_date")
	items, meta := paginate(r, h.store.Attendances(f))
	data := make([]any, 0, len(items))
	for _, a := range items {
		data = append(data, h.renderAttendance(a))
	}
	writePage(w, data, meta)
}

func (h *Handler) CreateAttendances(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Attendances []attendanceInput `json:"attendances"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Attendances) == 0 {
		writeError(w, http.StatusBadRequest, 0, "The attendances field is required", nil)
		return
	}
	records := make([]store.Attendance, 0, len(body.Attendances))
	for i, in := range body.Attendances {
		if _, ok := h.store.Employee(in.Employee); !ok {
			writeError(w, http.StatusBadRequest, 0, "Unknown employee in attendance "+strconv.Itoa(i), nil)
			return
		}
		if in.Date == "" || in.StartTime == "" || in.EndTime == "" {
			writeError(w, http.StatusBadRequest, 0, "Attendance "+strconv.Itoa(i)+" needs a date, start and end time", nil)
			return
		}
		if in.ProjectID != 0 {
			if _, ok := h.store.Project(in.ProjectID); !ok {
				writeError(w, http.StatusBadRequest, 0, "Unknown project in attendance "+strconv.Itoa(i), nil)
				return
			}
		}
		records = append(records, store.Attendance{
			EmployeeID: in.Employee,
			Date:       in.Date,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			Break:      in.Break,
			Comment:    in.Comment,
			ProjectID:  in.ProjectID,
		})
	}
	ids := h.store.CreateAttendances(records)
	writeData(w, http.StatusOK, map[string]any{"id": ids, "message": "success"})
}

// UpdateAttendance applies only the fields present in the body.
func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, 0, "Malformed request body", nil)
		return
	}
	var bad error
	_, ok := h.store.UpdateAttendance(id, func(a *store.Attendance) {
		for key, raw := range patch {
			var err error
			switch key {
			case "date":
				err = json.Unmarshal(raw, &a.Date)
			case "start_time":
				err = json.Unmarshal(raw, &a.StartTime)
			case "end_time":
				err = json.Unmarshal(raw, &a.EndTime)
			case "break":
				err = json.Unmarshal(raw, &a.Break)
			case "comment":
				err = json.Unmarshal(raw, &a.Comment)
			case "project_id":
				err = json.Unmarshal(raw, &a.ProjectID)
			}
			if err != nil && bad == nil {
				bad = err
			}
		}
	})
	if !ok {
		notFound(w, "Attendance")
		return
	}
	if bad != nil {
		writeError(w, http.StatusBadRequest, 0, bad.Error(), nil)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": id, "message": "success"})
}

func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, _ := idParam(r, "id")
	if !h.store.DeleteAttendance(id) {
		notFound(w, "Attendance")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "success"})
}
