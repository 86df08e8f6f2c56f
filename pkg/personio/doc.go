// Package personio is a client for the Personio HR REST API.
//
// A Client signs in with a client id and secret, keeps the bearer token that
// Personio rotates on every response and re-authenticates once when a request
// is rejected with HTTP 401. Resources are decoded into typed values:
// Employee, Attendance, Absence, AbsenceType and Project.
//
//	c, err := personio.New(personio.WithCredentials(id, secret))
//	if err != nil {
//		return err
//	}
//	employees, err := c.GetEmployees(ctx)
//
// Custom employee attributes ("dynamic_<id>" fields) are kept as raw values in
// Employee.CustomAttributes. Register DynamicMapping values with
// WithDynamicFields, or call Client.LoadCustomAttributes, to get converted
// values under a friendly alias in Employee.Dynamic.
package personio
