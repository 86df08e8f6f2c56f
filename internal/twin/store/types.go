package store

// Credential is a client id/secret pair accepted by POST /auth.
type Credential struct {
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
}

type Balance struct {
	ID      int     `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Balance float64 `yaml:"balance" json:"balance"`
}

// Employee is the flat twin representation; the API layer renders it into
// Personio's labeled attribute format.
type Employee struct {
	ID                 int            `yaml:"id" json:"id"`
	FirstName          string         `yaml:"first_name" json:"first_name"`
	LastName           string         `yaml:"last_name" json:"last_name"`
	Email              string         `yaml:"email" json:"email"`
	Gender             string         `yaml:"gender" json:"gender"`
	Status             string         `yaml:"status" json:"status"`
	Position           string         `yaml:"position" json:"position"`
	EmploymentType     string         `yaml:"employment_type" json:"employment_type"`
	Subcompany         string         `yaml:"subcompany" json:"subcompany"`
	Office             string         `yaml:"office" json:"office"`
	Department         string         `yaml:"department" json:"department"`
	Team               string         `yaml:"team" json:"team"`
	HireDate           string         `yaml:"hire_date" json:"hire_date"`
	WeeklyWorkingHours string         `yaml:"weekly_working_hours" json:"weekly_working_hours"`
	Supervisor         int            `yaml:"supervisor" json:"supervisor"`
	Custom             map[string]any `yaml:"custom" json:"custom"`
	Picture            bool           `yaml:"picture" json:"picture"`
	Balances           []Balance      `yaml:"balances" json:"balances"`
	CreatedAt          string         `yaml:"created_at" json:"created_at"`
}

type CustomAttribute struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	Type  string `yaml:"type" json:"type"`
}

type AbsenceType struct {
	ID                     int    `yaml:"id" json:"id"`
	Name                   string `yaml:"name" json:"name"`
	Category               string `yaml:"category" json:"category"`
	Unit                   string `yaml:"unit" json:"unit"`
	HalfDayRequestsEnabled bool   `yaml:"half_day_requests_enabled" json:"half_day_requests_enabled"`
}

type Absence struct {
	ID           int     `yaml:"id" json:"id"`
	EmployeeID   int     `yaml:"employee_id" json:"employee_id"`
	TypeID       int     `yaml:"time_off_type_id" json:"time_off_type_id"`
	Status       string  `yaml:"status" json:"status"`
	Comment      string  `yaml:"comment" json:"comment"`
	StartDate    string  `yaml:"start_date" json:"start_date"`
	EndDate      string  `yaml:"end_date" json:"end_date"`
	DaysCount    float64 `yaml:"days_count" json:"days_count"`
	HalfDayStart bool    `yaml:"half_day_start" json:"half_day_start"`
	HalfDayEnd   bool    `yaml:"half_day_end" json:"half_day_end"`
	CreatedAt    string  `yaml:"created_at" json:"created_at"`
}

type Attendance struct {
	ID         int    `yaml:"id" json:"id"`
	EmployeeID int    `yaml:"employee_id" json:"employee"`
	Date       string `yaml:"date" json:"date"`
	StartTime  string `yaml:"start_time" json:"start_time"`
	EndTime    string `yaml:"end_time" json:"end_time"`
	Break      int    `yaml:"break" json:"break"`
	Comment    string `yaml:"comment" json:"comment"`
	ProjectID  int    `yaml:"project_id" json:"project_id"`
}

type Project struct {
	ID        int    `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Active    bool   `yaml:"active" json:"active"`
	CreatedAt string `yaml:"created_at" json:"created_at"`
	UpdatedAt string `yaml:"updated_at" json:"updated_at"`
}

// Seed is the initial state of a twin, loaded from YAML (or JSON).
type Seed struct {
	Credentials      []Credential      `yaml:"credentials"`
	Employees        []Employee        `yaml:"employees"`
	CustomAttributes []CustomAttribute `yaml:"custom_attributes"`
	AbsenceTypes     []AbsenceType     `yaml:"absence_types"`
	Absences         []Absence         `yaml:"absences"`
	Attendances      []Attendance      `yaml:"attendances"`
	Projects         []Project         `yaml:"projects"`
}

// Filter selects employee metadata by employee and date range (inclusive,
// YYYY-MM-DD). Empty fields match everything.
type Filter struct {
	EmployeeIDs []int
	Start       string
	End         string
}
