package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"personio-go/pkg/personio"
)

var employeeHeader = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"gender",
	"status",
	"position",
	"employment_type",
	"supervisor_id",
	"subcompany",
	"office",
	"department",
	"team",
	"hire_date",
	"termination_date",
	"weekly_working_hours",
	"vacation_day_balance",
}

// Employees builds a table with the standard fields followed by one column
// per custom attribute alias found on any employee, sorted by alias.
func Employees(employees []*personio.Employee) *Table {
	aliases := dynamicAliases(employees)
	t := &Table{
		Name:   "employees",
		Header: append(append([]string{}, employeeHeader...), aliases...),
		Rows:   make([][]string, 0, len(employees)),
	}
	for _, e := range employees {
		row := []string{
			itoa(e.ID),
			e.FirstName,
			e.LastName,
			e.Email,
			e.Gender,
			e.Status,
			e.Position,
			e.EmploymentType,
			supervisorID(e),
			e.Subcompany,
			nameOf(e.Office),
			nameOf(e.Department),
			nameOf(e.Team),
			e.HireDate.String(),
			e.TerminationDate.String(),
			e.WeeklyWorkingHours,
			floatString(e.VacationDayBalance),
		}
		for _, alias := range aliases {
			row = append(row, Cell(e.Dynamic[alias]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func dynamicAliases(employees []*personio.Employee) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range employees {
		for alias := range e.Dynamic {
			if !seen[alias] {
				seen[alias] = true
				out = append(out, alias)
			}
		}
	}
	sort.Strings(out)
	return out
}

var attendanceHeader = []string{
	"id", "employee", "date", "start_time", "end_time", "break", "worked_minutes", "project", "comment",
}

func Attendances(attendances []*personio.Attendance) *Table {
	t := &Table{Name: "attendances", Header: attendanceHeader, Rows: make([][]string, 0, len(attendances))}
	for _, a := range attendances {
		project := ""
		if a.Project != nil {
			project = a.Project.Name
		}
		brk := ""
		if a.Break != nil {
			brk = strconv.Itoa(*a.Break)
		}
		t.Rows = append(t.Rows, []string{
			itoa(a.ID),
			itoa(a.Employee),
			a.Date.String(),
			Cell(a.StartTime),
			Cell(a.EndTime),
			brk,
			strconv.Itoa(int(a.Worked() / time.Minute)),
			project,
			Cell(a.Comment),
		})
	}
	return t
}

var absenceHeader = []string{
	"id", "employee", "email", "type", "status", "start_date", "end_date",
	"days_count", "half_day_start", "half_day_end", "comment",
}

func Absences(absences []*personio.Absence) *Table {
	t := &Table{Name: "absences", Header: absenceHeader, Rows: make([][]string, 0, len(absences))}
	for _, a := range absences {
		var employee, email, typ string
		if a.Employee != nil {
			employee = itoa(a.Employee.ID)
			email = a.Employee.Email
		}
		if a.TimeOffType != nil {
			typ = a.TimeOffType.Name
		}
		t.Rows = append(t.Rows, []string{
			itoa(a.ID),
			employee,
			email,
			typ,
			a.Status,
			a.StartDate.String(),
			a.EndDate.String(),
			floatString(a.DaysCount),
			strconv.FormatBool(a.HalfDayStart),
			strconv.FormatBool(a.HalfDayEnd),
			a.Comment,
		})
	}
	return t
}

// Cell renders a field value, including converted custom attribute values.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return floatString(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case personio.Date:
		return x.String()
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case *personio.TimeOfDay:
		if x == nil {
			return ""
		}
		return x.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case personio.Tags:
		return strings.Join(x, " | ")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func supervisorID(e *personio.Employee) string {
	if e.Supervisor == nil {
		return ""
	}
	return itoa(e.Supervisor.ID)
}

type named interface {
	*personio.Office | *personio.Department | *personio.Team
}

func nameOf[T named](v T) string {
	switch x := any(v).(type) {
	case *personio.Office:
		if x != nil {
			return x.Name
		}
	case *personio.Department:
		if x != nil {
			return x.Name
		}
	case *personio.Team:
		if x != nil {
			return x.Name
		}
	}
	return ""
}

func itoa(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}

func floatString(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func Projects(projects []*personio.Project) *Table {
	t := &Table{Name: "projects", Header: []string{"id", "name", "active", "created_at", "updated_at"}}
	for _, p := range projects {
		t.Rows = append(t.Rows, []string{itoa(p.ID), p.Name, strconv.FormatBool(p.Active), Cell(p.CreatedAt), Cell(p.UpdatedAt)})
	}
	return t
}

func AbsenceTypes(types []*personio.AbsenceType) *Table {
	t := &Table{Name: "absence_types", Header: []string{"id", "name", "category", "unit", "half_day_requests_enabled"}}
	for _, at := range types {
		t.Rows = append(t.Rows, []string{itoa(at.ID), at.Name, at.Category, at.Unit, strconv.FormatBool(at.HalfDayRequestsEnabled)})
	}
	return t
}
