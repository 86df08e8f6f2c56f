package personio

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	attendancesPath = "company/attendances"

	// employeeBatchSize keeps the employees[] query string well below common
	// URL length limits.
	employeeBatchSize = 50
)

// Timeframe restricts employee metadata queries. Zero dates are open ends.
type Timeframe struct {
	Start Date
	End   Date
}

// normalize fills open ends: the start defaults to 1900-01-01, the end to
// January 1st ten years after now.
func (tf Timeframe) normalize(now time.Time) Timeframe {
	if tf.Start.IsZero() {
		tf.Start = NewDate(1900, time.January, 1)
	}
	if tf.End.IsZero() {
		tf.End = NewDate(now.Year()+10, time.January, 1)
	}
	return tf
}

// listForEmployees collects a paginated employee metadata resource for all
// ids, requesting them in batches.
func (c *Client) listForEmployees(ctx context.Context, path string, ids []int, tf Timeframe) ([]any, error) {
	if len(ids) == 0 {
		return nil, errorf("need at least one employee ID, got nothing")
	}
	tf = tf.normalize(time.Now())

	var all []any
	for batch := range slices.Chunk(ids, employeeBatchSize) {
		params := url.Values{
			"start_date": {tf.Start.String()},
			"end_date":   {tf.End.String()},
		}
		for _, id := range batch {
			params.Add("employees[]", strconv.Itoa(id))
		}
		items, err := c.DoPaginated(ctx, Request{Path: path, Params: params})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}

// GetAttendances returns the attendances of the given employees within tf.
func (c *Client) GetAttendances(ctx context.Context, employeeIDs []int, tf Timeframe) ([]*Attendance, error) {
	items, err := c.listForEmployees(ctx, attendancesPath, employeeIDs, tf)
	if err != nil {
		return nil, err
	}
	out := make([]*Attendance, 0, len(items))
	for _, item := range items {
		var a Attendance
		if err := c.dec.decode(item, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, nil
}

// Validate checks the fields required to create a.
func (a *Attendance) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Employee, validation.Required),
		validation.Field(&a.Date, validation.By(requiredDate)),
		validation.Field(&a.StartTime, validation.Required),
		validation.Field(&a.EndTime, validation.Required),
		validation.Field(&a.Break, validation.Min(0)),
	)
}

func requiredDate(v any) error {
	if d, ok := v.(Date); ok && d.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}

func (a *Attendance) createBody() map[string]any {
	body := map[string]any{
		"employee":   a.Employee,
		"date":       a.Date.String(),
		"start_time": a.StartTime.String(),
		"end_time":   a.EndTime.String(),
		"break":      0,
		"comment":    "",
	}
	if a.Break != nil {
		body["break"] = *a.Break
	}
	if a.Comment != nil {
		body["comment"] = *a.Comment
	}
	if a.Project != nil && a.Project.ID != 0 {
		body["project_id"] = a.Project.ID
	}
	return body
}

// patchBody holds only the fields that are set.
func (a *Attendance) patchBody() map[string]any {
	body := map[string]any{}
	if !a.Date.IsZero() {
		body["date"] = a.Date.String()
	}
	if a.StartTime != nil {
		body["start_time"] = a.StartTime.String()
	}
	if a.EndTime != nil {
		body["end_time"] = a.EndTime.String()
	}
	if a.Break != nil {
		body["break"] = *a.Break
	}
	if a.Comment != nil {
		body["comment"] = *a.Comment
	}
	if a.Project != nil && a.Project.ID != 0 {
		body["project_id"] = a.Project.ID
	}
	return body
}

// CreateAttendances creates all records in one request and assigns the ids
// returned by the API, in order.
func (c *Client) CreateAttendances(ctx context.Context, attendances []*Attendance) error {
	if len(attendances) == 0 {
		return nil
	}
	bodies := make([]map[string]any, 0, len(attendances))
	for i, a := range attendances {
		if err := a.Validate(); err != nil {
			return &Error{Msg: "invalid attendance at index " + strconv.Itoa(i), Err: err}
		}
		bodies = append(bodies, a.createBody())
	}
	data, err := c.data(ctx, Request{
		Method: http.MethodPost,
		Path:   attendancesPath,
		Body:   map[string]any{"attendances": bodies},
	})
	if err != nil {
		return err
	}
	m, _ := data.(map[string]any)
	ids, _ := m["id"].([]any)
	if len(ids) != len(attendances) {
		return errorf("expected %d attendance ids in response, got %d", len(attendances), len(ids))
	}
	for i, raw := range ids {
		id, err := toInt(raw)
		if err != nil {
			return err
		}
		attendances[i].ID = id
	}
	return nil
}

// UpdateAttendance patches the set fields of a. Without an id the record is
// looked up by employee and date when remoteQuery is true.
func (c *Client) UpdateAttendance(ctx context.Context, a *Attendance, remoteQuery bool) error {
	if err := c.ensureAttendanceID(ctx, a, remoteQuery); err != nil {
		return err
	}
	return c.DoJSON(ctx, Request{
		Method: http.MethodPatch,
		Path:   attendancesPath + "/" + strconv.Itoa(a.ID),
		Body:   a.patchBody(),
	}, nil)
}

func (c *Client) DeleteAttendance(ctx context.Context, id int) error {
	return c.DoJSON(ctx, Request{Method: http.MethodDelete, Path: attendancesPath + "/" + strconv.Itoa(id)}, nil)
}

// DeleteAttendanceRecord deletes a, resolving its id like UpdateAttendance.
func (c *Client) DeleteAttendanceRecord(ctx context.Context, a *Attendance, remoteQuery bool) error {
	if err := c.ensureAttendanceID(ctx, a, remoteQuery); err != nil {
		return err
	}
	return c.DeleteAttendance(ctx, a.ID)
}

func (c *Client) ensureAttendanceID(ctx context.Context, a *Attendance, remoteQuery bool) error {
	if a.ID != 0 {
		return nil
	}
	if !remoteQuery {
		return errorf("you either need to provide the attendance id or allow a remote query")
	}
	if a.Employee == 0 {
		return errorf("for a remote query an employee id is required")
	}
	if a.Date.IsZero() {
		return errorf("for a remote query a date is required")
	}
	matches, err := c.GetAttendances(ctx, []int{a.Employee}, Timeframe{Start: a.Date, End: a.Date})
	if err != nil {
		return err
	}
	switch len(matches) {
	case 0:
		return errorf("no attendance found for employee %d on %s", a.Employee, a.Date)
	case 1:
		a.ID = matches[0].ID
		return nil
	}
	return errorf("more than one attendance found for employee %d on %s", a.Employee, a.Date)
}
