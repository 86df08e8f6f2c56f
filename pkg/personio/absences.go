package personio

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	absencesPath     = "company/time-offs"
	absenceTypesPath = "company/time-off-types"
)

// GetAbsenceTypes lists the time-off types of the account, e.g. paid vacation.
func (c *Client) GetAbsenceTypes(ctx context.Context) ([]*AbsenceType, error) {
	items, err := c.DoPaginated(ctx, Request{Path: absenceTypesPath})
	if err != nil {
		return nil, err
	}
	var out []*AbsenceType
	if err := c.dec.decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAbsences returns the absences of the given employees within tf.
func (c *Client) GetAbsences(ctx context.Context, employeeIDs []int, tf Timeframe) ([]*Absence, error) {
	items, err := c.listForEmployees(ctx, absencesPath, employeeIDs, tf)
	if err != nil {
		return nil, err
	}
	var out []*Absence
	if err := c.dec.decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAbsence(ctx context.Context, id int) (*Absence, error) {
	data, err := c.data(ctx, Request{Path: absencesPath + "/" + strconv.Itoa(id)})
	if err != nil {
		return nil, err
	}
	var a Absence
	if err := c.dec.decode(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAbsence looks up the remote record matching the employee, start and end
// date (and the time-off type, when set) of a. Exactly one match is required.
func (c *Client) FindAbsence(ctx context.Context, a *Absence) (*Absence, error) {
	if a.Employee == nil || a.Employee.ID == 0 {
		return nil, errorf("for a remote query an employee id is required")
	}
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		return nil, errorf("for a remote query a start and an end date are required")
	}
	candidates, err := c.GetAbsences(ctx, []int{a.Employee.ID}, Timeframe{Start: a.StartDate, End: a.EndDate})
	if err != nil {
		return nil, err
	}
	var matches []*Absence
	for _, b := range candidates {
		if b.StartDate != a.StartDate || b.EndDate != a.EndDate {
			continue
		}
		if a.TimeOffType != nil && a.TimeOffType.ID != 0 && (b.TimeOffType == nil || b.TimeOffType.ID != a.TimeOffType.ID) {
			continue
		}
		matches = append(matches, b)
	}
	switch len(matches) {
	case 0:
		return nil, errorf("no absence found for employee %d from %s to %s", a.Employee.ID, a.StartDate, a.EndDate)
	case 1:
		return matches[0], nil
	}
	return nil, errorf("more than one absence found for employee %d from %s to %s", a.Employee.ID, a.StartDate, a.EndDate)
}

// Validate checks the fields required to create a.
func (a *Absence) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Employee, validation.By(func(v any) error {
			if e, _ := v.(*ShortEmployee); e == nil || e.ID == 0 {
				return errors.New("an employee id is required")
			}
			return nil
		})),
		validation.Field(&a.TimeOffType, validation.By(func(v any) error {
			if t, _ := v.(*AbsenceType); t == nil || t.ID == 0 {
				return errors.New("a time-off type id is required")
			}
			return nil
		})),
		validation.Field(&a.StartDate, validation.By(requiredDate)),
		validation.Field(&a.EndDate, validation.By(requiredDate)),
	)
}

// Payload builds the body to create a.
func (a *Absence) Payload() (map[string]any, error) {
	if err := a.Validate(); err != nil {
		return nil, &Error{Msg: "invalid absence", Err: err}
	}
	if a.EndDate.Before(a.StartDate) {
		return nil, errorf("absence ends (%s) before it starts (%s)", a.EndDate, a.StartDate)
	}
	body := map[string]any{
		"employee_id":      a.Employee.ID,
		"time_off_type_id": a.TimeOffType.ID,
		"start_date":       a.StartDate.String(),
		"end_date":         a.EndDate.String(),
		"half_day_start":   a.HalfDayStart,
		"half_day_end":     a.HalfDayEnd,
	}
	if a.Comment != "" {
		body["comment"] = a.Comment
	}
	return body, nil
}

// CreateAbsence creates a and returns the record stored by the API.
func (c *Client) CreateAbsence(ctx context.Context, a *Absence) (*Absence, error) {
	body, err := a.Payload()
	if err != nil {
		return nil, err
	}
	data, err := c.data(ctx, Request{Method: http.MethodPost, Path: absencesPath, Body: body})
	if err != nil {
		return nil, err
	}
	var created Absence
	if err := c.dec.decode(data, &created); err != nil {
		return nil, err
	}
	a.ID = created.ID
	return &created, nil
}

func (c *Client) DeleteAbsence(ctx context.Context, id int) error {
	return c.DoJSON(ctx, Request{Method: http.MethodDelete, Path: absencesPath + "/" + strconv.Itoa(id)}, nil)
}

// DeleteAbsenceRecord deletes a. Without an id the record is looked up with
// FindAbsence when remoteQuery is true.
func (c *Client) DeleteAbsenceRecord(ctx context.Context, a *Absence, remoteQuery bool) error {
	if a.ID == 0 {
		if !remoteQuery {
			return errorf("you either need to provide the absence id or allow a remote query")
		}
		found, err := c.FindAbsence(ctx, a)
		if err != nil {
			return err
		}
		a.ID = found.ID
	}
	return c.DeleteAbsence(ctx, a.ID)
}
