package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"personio-go/pkg/personio"
)

func sampleEmployees() []*personio.Employee {
	ada := &personio.Employee{
		ID:         2628890,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.org",
		Status:     "active",
		Office:     &personio.Office{ID: 1, Name: "London"},
		Department: &personio.Department{ID: 2, Name: "Engineering"},
		HireDate:   personio.NewDate(2020, time.January, 15),
		Supervisor: &personio.ShortEmployee{ID: 2116365},
	}
	ada.SetDynamic("shirt_size", "M")
	ada.SetDynamic("skills", personio.Tags{"math", "poetry"})

	rms := &personio.Employee{ID: 2116365, FirstName: "Richard", LastName: "Stallman", Status: "inactive"}
	rms.SetDynamic("birthday", time.Date(1953, time.March, 16, 0, 0, 0, 0, time.UTC))
	return []*personio.Employee{ada, rms}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorContains(t, err, `unknown export format "pdf"`)

	assert.Equal(t, FormatXLSX, FormatFromPath("out/employees.XLSX"))
	assert.Equal(t, FormatCSV, FormatFromPath("employees.txt"))
}

func TestEmployeesTable(t *testing.T) {
	tbl := Employees(sampleEmployees())

	assert.Equal(t, append(append([]string{}, employeeHeader...), "birthday", "shirt_size", "skills"), tbl.Header)
	require.Len(t, tbl.Rows, 2)

	sel, err := tbl.Select([]string{"id", "firstName", "office", "supervisor-id", "skills", "birthday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "first_name", "office", "supervisor_id", "skills", "birthday"}, sel.Header)
	assert.Equal(t, []string{"2628890", "Ada", "London", "2116365", "math | poetry", ""}, sel.Rows[0])
	assert.Equal(t, []string{"2116365", "Richard", "", "", "", "1953-03-16T00:00:00Z"}, sel.Rows[1])

	_, err = tbl.Select([]string{"salary"})
	assert.ErrorContains(t, err, `unknown column "salary"`)
}

func TestSelectColumnWithDigits(t *testing.T) {
	tbl := &Table{Header: []string{"id", "level2", "cost_center_1"}, Rows: [][]string{{"7", "senior", "R&D"}}}

	sel, err := tbl.Select([]string{" level2 ", "costCenter1", "id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"level2", "cost_center_1", "id"}, sel.Header)
	assert.Equal(t, [][]string{{"senior", "R&D", "7"}}, sel.Rows)
}

func TestWriteCSV(t *testing.T) {
	tbl := &Table{
		Header: []string{"id", "comment"},
		Rows:   [][]string{{"1", "line one\nline two"}, {"2", "a, b"}},
	}
	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf, FormatCSV))
	assert.Equal(t, "id,comment\r\n1,line one line two\r\n2,\"a, b\"\r\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	tbl := Employees(sampleEmployees())
	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"employees"}, f.GetSheetList())
	rows, err := f.GetRows("employees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, tbl.Header, rows[0])
	assert.Equal(t, "Ada", rows[1][1])
	assert.Equal(t, "Stallman", rows[2][2])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "absences.csv")
	a := &personio.Absence{
		ID:           17205934,
		Status:       "approved",
		StartDate:    personio.NewDate(2024, time.April, 1),
		EndDate:      personio.NewDate(2024, time.April, 5),
		DaysCount:    4.5,
		HalfDayEnd:   true,
		TimeOffType:  &personio.AbsenceType{ID: 1, Name: "Paid vacation"},
		Employee:     &personio.ShortEmployee{ID: 2628890, Email: "ada@example.org"},
		HalfDayStart: false,
	}
	require.NoError(t, Absences([]*personio.Absence{a}).WriteFile(path, FormatCSV))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"id,employee,email,type,status,start_date,end_date,days_count,half_day_start,half_day_end,comment\r\n"+
			"17205934,2628890,ada@example.org,Paid vacation,approved,2024-04-01,2024-04-05,4.5,false,true,\r\n",
		string(got))
}

func TestAttendancesTable(t *testing.T) {
	start, end := personio.TimeOfDay{Hour: 9}, personio.TimeOfDay{Hour: 17, Minute: 30}
	a := &personio.Attendance{
		ID:        33479715,
		Employee:  2628890,
		Date:      personio.NewDate(2024, time.April, 2),
		StartTime: &start,
		EndTime:   &end,
		Break:     personio.Ptr(30),
		Project:   &personio.Project{ID: 1, Name: "Analytical Engine"},
	}
	tbl := Attendances([]*personio.Attendance{a, {Employee: 1, Date: personio.NewDate(2024, time.April, 3)}})
	assert.Equal(t, []string{"33479715", "2628890", "2024-04-02", "09:00", "17:30", "30", "480", "Analytical Engine", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"", "1", "2024-04-03", "", "", "", "0", "", ""}, tbl.Rows[1])
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", Cell(nil))
	assert.Equal(t, "38", Cell(38.0))
	assert.Equal(t, "1.5", Cell(1.5))
	assert.Equal(t, "true", Cell(true))
	assert.Equal(t, "2024-01-02", Cell(personio.NewDate(2024, time.January, 2)))
	assert.Equal(t, "07:30", Cell(personio.Duration(7*time.Hour+30*time.Minute)))
	assert.Equal(t, "", Cell(time.Time{}))
}
