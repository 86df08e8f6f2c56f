package personio

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

const employeesPath = "company/employees"

// GetEmployees returns every employee record of the account.
func (c *Client) GetEmployees(ctx context.Context) ([]*Employee, error) {
	items, err := c.DoPaginated(ctx, Request{Path: employeesPath})
	if err != nil {
		return nil, err
	}
	out := make([]*Employee, 0, len(items))
	for _, item := range items {
		e, err := c.decodeEmployee(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id int) (*Employee, error) {
	data, err := c.data(ctx, Request{Path: employeePath(id)})
	if err != nil {
		return nil, err
	}
	return c.decodeEmployee(data)
}

func (c *Client) decodeEmployee(raw any) (*Employee, error) {
	var e Employee
	if err := c.dec.decode(raw, &e); err != nil {
		return nil, err
	}
	c.applyDynamic(&e)
	return &e, nil
}

func employeePath(id int) string {
	return employeesPath + "/" + strconv.Itoa(id)
}

// GetEmployeePicture downloads the profile picture of an employee, scaled to
// width when width > 0. It returns nil when the employee has no picture.
func (c *Client) GetEmployeePicture(ctx context.Context, id, width int) ([]byte, error) {
	path := employeePath(id) + "/profile-picture"
	if width > 0 {
		path += "/" + strconv.Itoa(width)
	}
	return c.DoImage(ctx, Request{Path: path})
}

// CreateEmployee creates e and stores the new id in it. With refresh the
// record is fetched again, since the API only accepts a subset of fields.
func (c *Client) CreateEmployee(ctx context.Context, e *Employee, refresh bool) (*Employee, error) {
	payload, err := c.EmployeePayload(e)
	if err != nil {
		return nil, err
	}
	data, err := c.data(ctx, Request{Method: http.MethodPost, Path: employeesPath, Body: payload})
	if err != nil {
		return nil, err
	}
	id, err := idFrom(data)
	if err != nil {
		return nil, err
	}
	e.ID = id
	c.log.Debug("created employee", "id", id)
	if refresh {
		return c.GetEmployee(ctx, id)
	}
	return e, nil
}

// UpdateEmployee sends the writable fields of e to the API.
func (c *Client) UpdateEmployee(ctx context.Context, e *Employee, refresh bool) (*Employee, error) {
	if e.ID == 0 {
		return nil, errorf("an employee id is required for updates")
	}
	payload, err := c.EmployeePayload(e)
	if err != nil {
		return nil, err
	}
	if _, err := c.data(ctx, Request{Method: http.MethodPatch, Path: employeePath(e.ID), Body: payload}); err != nil {
		return nil, err
	}
	if refresh {
		return c.GetEmployee(ctx, e.ID)
	}
	return e, nil
}

// DeleteEmployee always fails: employees cannot be deleted through the API.
func (c *Client) DeleteEmployee(context.Context, *Employee) error {
	return &UnsupportedMethodError{Method: "delete", Resource: "Employee"}
}

// Validate reports every required field of e that has no value.
func (e *Employee) Validate() error {
	var result *multierror.Error
	if e.Email == "" {
		result = multierror.Append(result, fmt.Errorf("required field email has no value"))
	}
	if e.FirstName == "" {
		result = multierror.Append(result, fmt.Errorf("required field first_name has no value"))
	}
	if e.LastName == "" {
		result = multierror.Append(result, fmt.Errorf("required field last_name has no value"))
	}
	return result.ErrorOrNil()
}

// EmployeePayload builds the create/update body for e: {"employee": {...}}.
// Only the fields accepted by the API are included.
func (c *Client) EmployeePayload(e *Employee) (map[string]any, error) {
	if err := e.Validate(); err != nil {
		return nil, &Error{Msg: "invalid employee", Err: err}
	}
	data := map[string]any{
		"email":      e.Email,
		"first_name": e.FirstName,
		"last_name":  e.LastName,
	}
	setIf := func(key, v string) {
		if v != "" {
			data[key] = v
		}
	}
	setIf("gender", e.Gender)
	setIf("position", e.Position)
	setIf("subcompany", e.Subcompany)
	setIf("weekly_working_hours", e.WeeklyWorkingHours)
	if e.Department != nil {
		setIf("department", e.Department.Name)
	}
	if e.Office != nil {
		setIf("office", e.Office.Name)
	}
	if !e.HireDate.IsZero() {
		data["hire_date"] = e.HireDate.String()
	}

	custom, err := c.customAttributesPayload(e)
	if err != nil {
		return nil, err
	}
	if len(custom) > 0 {
		data["custom_attributes"] = custom
	}
	return map[string]any{"employee": data}, nil
}

// GetCustomAttributes lists the custom employee attributes of the account.
func (c *Client) GetCustomAttributes(ctx context.Context) ([]CustomAttribute, error) {
	data, err := c.data(ctx, Request{Path: employeesPath + "/custom-attributes"})
	if err != nil {
		return nil, err
	}
	var out []CustomAttribute
	if err := c.dec.decode(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCustomAttributes registers dynamic mappings for all custom attributes.
// aliases maps attribute keys ("dynamic_123") to user chosen aliases; other
// attributes get an alias derived from their label. Mappings registered with
// WithDynamicFields are kept.
func (c *Client) LoadCustomAttributes(ctx context.Context, aliases map[string]string) ([]DynamicMapping, error) {
	attrs, err := c.GetCustomAttributes(ctx)
	if err != nil {
		return nil, err
	}
	generated := c.mappingsFor(attrs, aliases)

	c.mu.Lock()
	defer c.mu.Unlock()
	byID := map[int]bool{}
	taken := map[string]bool{}
	for _, m := range c.dynamic {
		byID[m.FieldID] = true
		taken[m.Alias] = true
	}
	for _, m := range generated {
		if byID[m.FieldID] || taken[m.Alias] {
			continue
		}
		c.dynamic = append(c.dynamic, m)
	}
	return append([]DynamicMapping(nil), c.dynamic...), nil
}

func (c *Client) GetAbsenceBalance(ctx context.Context, employeeID int) ([]AbsenceBalance, error) {
	data, err := c.data(ctx, Request{Path: employeePath(employeeID) + "/absences/balance"})
	if err != nil {
		return nil, err
	}
	var out []AbsenceBalance
	if err := c.dec.decode(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// idFrom reads the id of a created resource from {"id": n} response data.
func idFrom(data any) (int, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return 0, errorf("unexpected response data %T, expected an object with an id", data)
	}
	return toInt(m["id"])
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		id, err := strconv.Atoi(n)
		if err != nil {
			return 0, &Error{Msg: "invalid id", Err: err}
		}
		return id, nil
	}
	return 0, errorf("response did not contain a valid id, got %v", v)
}
