package api

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"math"
	"net/http"
	"strconv"

	"personio-go/internal/twin/store"
)

// Personio sends dates of time-off periods and employees as timestamps.
const dayStart = "T00:00:00+01:00"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status, code int, msg string, details any) {
	body := map[string]any{"code": code, "message": msg}
	if details != nil {
		body["errors"] = details
	}
	writeJSON(w, status, map[string]any{"success": false, "error": body})
}

func notFound(w http.ResponseWriter, what string) {
	writeError(w, http.StatusNotFound, 0, what+" not found", nil)
}

func envelope(typ string, attrs map[string]any) map[string]any {
	return map[string]any{"type": typ, "attributes": attrs}
}

func labeled(label string, v any) map[string]any {
	return map[string]any{"label": label, "value": v}
}

// nameID derives a stable id for named entities such as offices.
func nameID(name string) int {
	return int(crc32.ChecksumIEEE([]byte(name)) % 100000)
}

func named(typ, name string) any {
	if name == "" {
		return nil
	}
	return envelope(typ, map[string]any{"id": nameID(name), "name": name})
}

func timestamp(date string) string {
	if date == "" {
		return ""
	}
	return date + dayStart
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// dailyHours spreads the weekly hours over five work days as "hh:mm".
func dailyHours(weekly string) string {
	h, err := strconv.ParseFloat(weekly, 64)
	if err != nil || h <= 0 {
		return "00:00"
	}
	minutes := int(math.Round(h * 60 / 5))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (h *Handler) renderShortEmployee(e store.Employee) map[string]any {
	return envelope("Employee", map[string]any{
		"id":         labeled("ID", e.ID),
		"first_name": labeled("First name", e.FirstName),
		"last_name":  labeled("Last name", e.LastName),
		"email":      labeled("Email", e.Email),
	})
}

func (h *Handler) renderEmployee(e store.Employee, baseURL string) map[string]any {
	var supervisor any
	if sup, ok := h.store.Employee(e.Supervisor); ok && e.Supervisor != 0 {
		supervisor = h.renderShortEmployee(sup)
	}
	var picture string
	if e.Picture {
		picture = fmt.Sprintf("%s/v1/company/employees/%d/profile-picture", baseURL, e.ID)
	}
	entitlements := []any{}
	for _, b := range e.Balances {
		entitlements = append(entitlements, envelope("TimeOffType", map[string]any{
			"id": b.ID, "name": b.Name, "entitlement": b.Balance,
		}))
	}
	daily := dailyHours(e.WeeklyWorkingHours)

	attrs := map[string]any{
		"id":                   labeled("ID", e.ID),
		"first_name":           labeled("First name", e.FirstName),
		"last_name":            labeled("Last name", e.LastName),
		"email":                labeled("Email", e.Email),
		"gender":               labeled("Gender", e.Gender),
		"status":               labeled("Status", e.Status),
		"position":             labeled("Position", e.Position),
		"supervisor":           labeled("Supervisor", supervisor),
		"employment_type":      labeled("Employment type", e.EmploymentType),
		"weekly_working_hours": labeled("Weekly hours", e.WeeklyWorkingHours),
		"hire_date":            labeled("Hire date", timestamp(e.HireDate)),
		"contract_end_date":    labeled("Contract ends", nil),
		"termination_date":     labeled("Termination date", nil),
		"termination_type":     labeled("Termination type", ""),
		"termination_reason":   labeled("Termination reason", ""),
		"probation_period_end": labeled("Probation period end", nil),
		"created_at":           labeled("created_at", e.CreatedAt),
		"last_modified_at":     labeled("Last modified", e.CreatedAt),
		"subcompany":           labeled("Subcompany", e.Subcompany),
		"office":               labeled("Office", named("Office", e.Office)),
		"department":           labeled("Department", named("Department", e.Department)),
		"team":                 labeled("Team", named("Team", e.Team)),
		"cost_centers":         labeled("Cost center", []any{}),
		"holiday_calendar":     labeled("Public holidays", nil),
		"absence_entitlement":  labeled("Absence entitlement", entitlements),
		"work_schedule": labeled("Work schedule", envelope("WorkSchedule", map[string]any{
			"id": nameID("schedule " + e.WeeklyWorkingHours), "name": e.WeeklyWorkingHours + " hours",
			"valid_from": "",
			"monday":     daily, "tuesday": daily, "wednesday": daily, "thursday": daily, "friday": daily,
			"saturday": "00:00", "sunday": "00:00",
		})),
		"fix_salary":           labeled("Fix salary", 0),
		"fix_salary_interval":  labeled("Salary interval", ""),
		"hourly_salary":        labeled("Hourly salary", 0),
		"vacation_day_balance": labeled("Vacation day balance", 0),
		"last_working_day":     labeled("Last day of work", nil),
		"profile_picture":      labeled("Profile Picture", picture),
	}
	labels := map[string]string{}
	for _, a := range h.store.CustomAttributes() {
		labels[a.Key] = a.Label
	}
	for key, v := range e.Custom {
		attrs[key] = labeled(labels[key], v)
	}
	return envelope("Employee", attrs)
}

func renderCustomAttribute(a store.CustomAttribute) map[string]any {
	return map[string]any{"key": a.Key, "label": a.Label, "type": a.Type, "universal_id": nil}
}

func renderAbsenceType(t store.AbsenceType) map[string]any {
	return envelope("TimeOffType", map[string]any{
		"id":                        t.ID,
		"name":                      t.Name,
		"category":                  t.Category,
		"unit":                      t.Unit,
		"half_day_requests_enabled": boolInt(t.HalfDayRequestsEnabled),
		"certification_required":    false,
		"approval_required":         true,
	})
}

func (h *Handler) renderAbsence(a store.Absence) map[string]any {
	var typ, emp any
	if t, ok := h.store.AbsenceType(a.TypeID); ok {
		typ = renderAbsenceType(t)
	}
	if e, ok := h.store.Employee(a.EmployeeID); ok {
		emp = h.renderShortEmployee(e)
	}
	return envelope("TimeOffPeriod", map[string]any{
		"id":             a.ID,
		"status":         a.Status,
		"comment":        a.Comment,
		"start_date":     timestamp(a.StartDate),
		"end_date":       timestamp(a.EndDate),
		"days_count":     a.DaysCount,
		"half_day_start": boolInt(a.HalfDayStart),
		"half_day_end":   boolInt(a.HalfDayEnd),
		"time_off_type":  typ,
		"employee":       emp,
		"created_by":     "API",
		"certificate":    map[string]any{"status": "not-required"},
		"created_at":     a.CreatedAt,
		"updated_at":     a.CreatedAt,
	})
}

func renderProject(p store.Project) map[string]any {
	return map[string]any{
		"id":   p.ID,
		"type": "Project",
		"attributes": map[string]any{
			"name":       p.Name,
			"active":     p.Active,
			"created_at": p.CreatedAt,
			"updated_at": p.UpdatedAt,
		},
	}
}

func (h *Handler) renderAttendance(a store.Attendance) map[string]any {
	var project any
	if p, ok := h.store.Project(a.ProjectID); ok && a.ProjectID != 0 {
		project = renderProject(p)
	}
	return map[string]any{
		"id":   a.ID,
		"type": "AttendancePeriod",
		"attributes": map[string]any{
			"employee":       a.EmployeeID,
			"date":           a.Date,
			"start_time":     a.StartTime,
			"end_time":       a.EndTime,
			"break":          a.Break,
			"comment":        a.Comment,
			"is_holiday":     false,
			"is_on_time_off": false,
			"project":        project,
		},
	}
}
