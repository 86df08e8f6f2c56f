package personio

import "time"

// Personio API type names, as found in the "type" field of a resource.
const (
	TypeEmployee         = "Employee"
	TypeAbsenceType      = "TimeOffType"
	TypeAbsence          = "TimeOffPeriod"
	TypeAttendance       = "AttendancePeriod"
	TypeProject          = "Project"
	TypeOffice           = "Office"
	TypeDepartment       = "Department"
	TypeTeam             = "Team"
	TypeCostCenter       = "CostCenter"
	TypeHolidayCalendar  = "HolidayCalendar"
	TypeWorkSchedule     = "WorkSchedule"
	TypeAbsenceBalance   = "TimeOffBalance"
	TypeCustomAttributes = "CustomAttribute"
)

type Office struct {
	ID   int    `json:"id,omitempty" mapstructure:"id"`
	Name string `json:"name,omitempty" mapstructure:"name"`
}

type Department struct {
	ID   int    `json:"id,omitempty" mapstructure:"id"`
	Name string `json:"name,omitempty" mapstructure:"name"`
}

type Team struct {
	ID   int    `json:"id,omitempty" mapstructure:"id"`
	Name string `json:"name,omitempty" mapstructure:"name"`
}

type CostCenter struct {
	ID         int     `json:"id,omitempty" mapstructure:"id"`
	Name       string  `json:"name,omitempty" mapstructure:"name"`
	Percentage float64 `json:"percentage,omitempty" mapstructure:"percentage"`
}

type HolidayCalendar struct {
	ID      int    `json:"id,omitempty" mapstructure:"id"`
	Name    string `json:"name,omitempty" mapstructure:"name"`
	Country string `json:"country,omitempty" mapstructure:"country"`
	State   string `json:"state,omitempty" mapstructure:"state"`
}

// WorkSchedule holds the expected working time per week day.
type WorkSchedule struct {
	ID        int      `json:"id,omitempty" mapstructure:"id"`
	Name      string   `json:"name,omitempty" mapstructure:"name"`
	ValidFrom Date     `json:"valid_from,omitempty" mapstructure:"valid_from"`
	Monday    Duration `json:"monday" mapstructure:"monday"`
	Tuesday   Duration `json:"tuesday" mapstructure:"tuesday"`
	Wednesday Duration `json:"wednesday" mapstructure:"wednesday"`
	Thursday  Duration `json:"thursday" mapstructure:"thursday"`
	Friday    Duration `json:"friday" mapstructure:"friday"`
	Saturday  Duration `json:"saturday" mapstructure:"saturday"`
	Sunday    Duration `json:"sunday" mapstructure:"sunday"`
}

// Weekly is the sum of all week days.
func (w WorkSchedule) Weekly() Duration {
	return w.Monday + w.Tuesday + w.Wednesday + w.Thursday + w.Friday + w.Saturday + w.Sunday
}

type AbsenceEntitlement struct {
	ID          int     `json:"id,omitempty" mapstructure:"id"`
	Name        string  `json:"name,omitempty" mapstructure:"name"`
	Entitlement float64 `json:"entitlement" mapstructure:"entitlement"`
}

type AbsenceBalance struct {
	ID      int     `json:"id,omitempty" mapstructure:"id"`
	Name    string  `json:"name,omitempty" mapstructure:"name"`
	Balance float64 `json:"balance" mapstructure:"balance"`
}

type Certificate struct {
	Status string `json:"status,omitempty" mapstructure:"status"`
}

// ShortEmployee is the reduced employee record embedded in other resources,
// e.g. the supervisor of an employee or the owner of an absence.
type ShortEmployee struct {
	ID        int    `json:"id,omitempty" mapstructure:"id"`
	FirstName string `json:"first_name,omitempty" mapstructure:"first_name"`
	LastName  string `json:"last_name,omitempty" mapstructure:"last_name"`
	Email     string `json:"email,omitempty" mapstructure:"email"`
}

type Employee struct {
	ID                 int                  `json:"id,omitempty" mapstructure:"id"`
	FirstName          string               `json:"first_name,omitempty" mapstructure:"first_name"`
	LastName           string               `json:"last_name,omitempty" mapstructure:"last_name"`
	Email              string               `json:"email,omitempty" mapstructure:"email"`
	Gender             string               `json:"gender,omitempty" mapstructure:"gender"`
	Status             string               `json:"status,omitempty" mapstructure:"status"`
	Position           string               `json:"position,omitempty" mapstructure:"position"`
	Supervisor         *ShortEmployee       `json:"supervisor,omitempty" mapstructure:"supervisor"`
	EmploymentType     string               `json:"employment_type,omitempty" mapstructure:"employment_type"`
	WeeklyWorkingHours string               `json:"weekly_working_hours,omitempty" mapstructure:"weekly_working_hours"`
	HireDate           Date                 `json:"hire_date,omitempty" mapstructure:"hire_date"`
	ContractEndDate    Date                 `json:"contract_end_date,omitempty" mapstructure:"contract_end_date"`
	TerminationDate    Date                 `json:"termination_date,omitempty" mapstructure:"termination_date"`
	TerminationType    string               `json:"termination_type,omitempty" mapstructure:"termination_type"`
	TerminationReason  string               `json:"termination_reason,omitempty" mapstructure:"termination_reason"`
	ProbationPeriodEnd Date                 `json:"probation_period_end,omitempty" mapstructure:"probation_period_end"`
	CreatedAt          time.Time            `json:"created_at,omitempty" mapstructure:"created_at"`
	LastModifiedAt     time.Time            `json:"last_modified_at,omitempty" mapstructure:"last_modified_at"`
	Subcompany         string               `json:"subcompany,omitempty" mapstructure:"subcompany"`
	Office             *Office              `json:"office,omitempty" mapstructure:"office"`
	Department         *Department          `json:"department,omitempty" mapstructure:"department"`
	CostCenters        []CostCenter         `json:"cost_centers,omitempty" mapstructure:"cost_centers"`
	HolidayCalendar    *HolidayCalendar     `json:"holiday_calendar,omitempty" mapstructure:"holiday_calendar"`
	AbsenceEntitlement []AbsenceEntitlement `json:"absence_entitlement,omitempty" mapstructure:"absence_entitlement"`
	WorkSchedule       *WorkSchedule        `json:"work_schedule,omitempty" mapstructure:"work_schedule"`
	FixSalary          float64              `json:"fix_salary,omitempty" mapstructure:"fix_salary"`
	FixSalaryInterval  string               `json:"fix_salary_interval,omitempty" mapstructure:"fix_salary_interval"`
	HourlySalary       float64              `json:"hourly_salary,omitempty" mapstructure:"hourly_salary"`
	VacationDayBalance float64              `json:"vacation_day_balance,omitempty" mapstructure:"vacation_day_balance"`
	LastWorkingDay     Date                 `json:"last_working_day,omitempty" mapstructure:"last_working_day"`
	ProfilePicture     string               `json:"profile_picture,omitempty" mapstructure:"profile_picture"`
	Team               *Team                `json:"team,omitempty" mapstructure:"team"`

	// CustomAttributes holds every attribute without a field above, keyed by
	// its API name (usually "dynamic_<id>"), with the value as sent by the API.
	CustomAttributes map[string]any `json:"custom_attributes,omitempty" mapstructure:",remain"`
	// Dynamic holds converted custom attribute values keyed by alias.
	Dynamic map[string]any `json:"dynamic,omitempty" mapstructure:"-"`
}

// Short returns the reduced record used to reference e from other resources.
func (e *Employee) Short() *ShortEmployee {
	return &ShortEmployee{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName, Email: e.Email}
}

func (e *Employee) Active() bool { return e.Status != "inactive" }

// SetDynamic assigns a custom attribute by alias. The value is converted when
// the employee is sent to the API.
func (e *Employee) SetDynamic(alias string, value any) {
	if e.Dynamic == nil {
		e.Dynamic = map[string]any{}
	}
	e.Dynamic[alias] = value
}

type AbsenceType struct {
	ID                               int    `json:"id,omitempty" mapstructure:"id"`
	Name                             string `json:"name,omitempty" mapstructure:"name"`
	Unit                             string `json:"unit,omitempty" mapstructure:"unit"`
	Category                         string `json:"category,omitempty" mapstructure:"category"`
	HalfDayRequestsEnabled           bool   `json:"half_day_requests_enabled,omitempty" mapstructure:"half_day_requests_enabled"`
	CertificationRequired            bool   `json:"certification_required,omitempty" mapstructure:"certification_required"`
	CertificationSubmissionTimeframe int    `json:"certification_submission_timeframe,omitempty" mapstructure:"certification_submission_timeframe"`
	SubstituteOption                 string `json:"substitute_option,omitempty" mapstructure:"substitute_option"`
	ApprovalRequired                 bool   `json:"approval_required,omitempty" mapstructure:"approval_required"`
}

// Absence is a time-off period of one employee.
type Absence struct {
	ID           int            `json:"id,omitempty" mapstructure:"id"`
	Status       string         `json:"status,omitempty" mapstructure:"status"`
	Comment      string         `json:"comment,omitempty" mapstructure:"comment"`
	StartDate    Date           `json:"start_date" mapstructure:"start_date"`
	EndDate      Date           `json:"end_date" mapstructure:"end_date"`
	DaysCount    float64        `json:"days_count,omitempty" mapstructure:"days_count"`
	HalfDayStart bool           `json:"half_day_start" mapstructure:"half_day_start"`
	HalfDayEnd   bool           `json:"half_day_end" mapstructure:"half_day_end"`
	TimeOffType  *AbsenceType   `json:"time_off_type,omitempty" mapstructure:"time_off_type"`
	Employee     *ShortEmployee `json:"employee,omitempty" mapstructure:"employee"`
	Certificate  *Certificate   `json:"certificate,omitempty" mapstructure:"certificate"`
	CreatedBy    string         `json:"created_by,omitempty" mapstructure:"created_by"`
	CreatedAt    time.Time      `json:"created_at,omitempty" mapstructure:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at,omitempty" mapstructure:"updated_at"`
}

// Attendance is a worked period of one employee on one day. Pointer fields
// are optional: unset fields are left untouched by UpdateAttendance, so a
// comment is cleared with Comment: Ptr("").
type Attendance struct {
	ID          int        `json:"id,omitempty" mapstructure:"id"`
	Employee    int        `json:"employee" mapstructure:"employee"`
	Date        Date       `json:"date" mapstructure:"date"`
	StartTime   *TimeOfDay `json:"start_time,omitempty" mapstructure:"start_time"`
	EndTime     *TimeOfDay `json:"end_time,omitempty" mapstructure:"end_time"`
	Break       *int       `json:"break,omitempty" mapstructure:"break"`
	Comment     *string    `json:"comment,omitempty" mapstructure:"comment"`
	IsHoliday   bool       `json:"is_holiday,omitempty" mapstructure:"is_holiday"`
	IsOnTimeOff bool       `json:"is_on_time_off,omitempty" mapstructure:"is_on_time_off"`
	Project     *Project   `json:"project,omitempty" mapstructure:"project"`
}

// Worked is the time between start and end minus the break.
func (a *Attendance) Worked() time.Duration {
	if a.StartTime == nil || a.EndTime == nil {
		return 0
	}
	start := time.Duration(a.StartTime.Hour)*time.Hour + time.Duration(a.StartTime.Minute)*time.Minute
	end := time.Duration(a.EndTime.Hour)*time.Hour + time.Duration(a.EndTime.Minute)*time.Minute
	d := end - start
	if a.Break != nil {
		d -= time.Duration(*a.Break) * time.Minute
	}
	return d
}

type Project struct {
	ID        int       `json:"id,omitempty" mapstructure:"id"`
	Name      string    `json:"name,omitempty" mapstructure:"name"`
	Active    bool      `json:"active" mapstructure:"active"`
	CreatedAt time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" mapstructure:"updated_at"`
}
