package personio_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personio-go/internal/twin/store"
	"personio-go/pkg/personio"
)

func TestGetAbsenceTypes(t *testing.T) {
	c := startTwin(t).client(t)

	types, err := c.GetAbsenceTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, 195824, types[0].ID)
	assert.Equal(t, "Paid vacation", types[0].Name)
	assert.Equal(t, "paid_vacation", types[0].Category)
	assert.True(t, types[0].HalfDayRequestsEnabled)
	assert.False(t, types[1].HalfDayRequestsEnabled)
}

func TestGetAbsences(t *testing.T) {
	c := startTwin(t).client(t)
	ctx := context.Background()

	absences, err := c.GetAbsences(ctx, []int{rms, ada}, personio.Timeframe{})
	require.NoError(t, err)
	require.Len(t, absences, 2)

	a := absences[0]
	assert.Equal(t, 17205932, a.ID)
	assert.Equal(t, personio.NewDate(2024, time.March, 4), a.StartDate)
	assert.Equal(t, personio.NewDate(2024, time.March, 8), a.EndDate)
	assert.Equal(t, float64(5), a.DaysCount)
	assert.Equal(t, "approved", a.Status)
	require.NotNil(t, a.TimeOffType)
	assert.Equal(t, "Paid vacation", a.TimeOffType.Name)
	require.NotNil(t, a.Employee)
	assert.Equal(t, rms, a.Employee.ID)
	assert.Equal(t, "Stallman", a.Employee.LastName)
	require.NotNil(t, a.Certificate)
	assert.Equal(t, "not-required", a.Certificate.Status)

	assert.True(t, absences[1].HalfDayStart)
	assert.False(t, absences[1].HalfDayEnd)

	absences, err = c.GetAbsences(ctx, []int{rms}, personio.Timeframe{
		Start: personio.NewDate(2024, time.April, 1),
	})
	require.NoError(t, err)
	assert.Empty(t, absences)
}

func TestGetAbsence(t *testing.T) {
	c := startTwin(t).client(t)

	a, err := c.GetAbsence(context.Background(), 17205933)
	require.NoError(t, err)
	assert.Equal(t, ada, a.Employee.ID)
	assert.Equal(t, 0.5, a.DaysCount)
}

func vacation(start, end personio.Date) *personio.Absence {
	return &personio.Absence{
		Employee:    &personio.ShortEmployee{ID: ada},
		TimeOffType: &personio.AbsenceType{ID: 195824},
		StartDate:   start,
		EndDate:     end,
	}
}

func TestCreateAbsence(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)

	a := vacation(personio.NewDate(2024, time.July, 1), personio.NewDate(2024, time.July, 5))
	a.HalfDayEnd = true
	a.Comment = "summer"

	created, err := c.CreateAbsence(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 17205934, a.ID)
	assert.Equal(t, a.ID, created.ID)
	assert.Equal(t, 4.5, created.DaysCount)
	assert.Equal(t, "summer", created.Comment)
	assert.True(t, created.HalfDayEnd)
	assert.Equal(t, a.StartDate, created.StartDate)

	stored, ok := tw.store.Absence(a.ID)
	require.True(t, ok)
	assert.Equal(t, "2024-07-05", stored.EndDate)
}

func TestAbsencePayloadValidation(t *testing.T) {
	_, err := (&personio.Absence{}).Payload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee id is required")
	assert.Contains(t, err.Error(), "time-off type id is required")

	_, err = vacation(personio.NewDate(2024, time.July, 5), personio.NewDate(2024, time.July, 1)).Payload()
	assert.ErrorContains(t, err, "before it starts")

	body, err := vacation(personio.NewDate(2024, time.July, 1), personio.NewDate(2024, time.July, 1)).Payload()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", body["start_date"])
	assert.Equal(t, 195824, body["time_off_type_id"])
	assert.NotContains(t, body, "comment")
}

func TestFindAbsence(t *testing.T) {
	c := startTwin(t).client(t)
	ctx := context.Background()

	march := func(d int) personio.Date { return personio.NewDate(2024, time.March, d) }
	query := &personio.Absence{Employee: &personio.ShortEmployee{ID: rms}, StartDate: march(4), EndDate: march(8)}

	found, err := c.FindAbsence(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, 17205932, found.ID)

	query.TimeOffType = &personio.AbsenceType{ID: 195825}
	_, err = c.FindAbsence(ctx, query)
	assert.ErrorContains(t, err, "no absence found")

	query.TimeOffType = nil
	query.EndDate = march(7)
	_, err = c.FindAbsence(ctx, query)
	assert.ErrorContains(t, err, "no absence found")

	_, err = c.FindAbsence(ctx, &personio.Absence{StartDate: march(4), EndDate: march(8)})
	assert.ErrorContains(t, err, "employee id is required")
}

func TestDeleteAbsence(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)
	ctx := context.Background()

	require.NoError(t, c.DeleteAbsence(ctx, 17205933))
	_, ok := tw.store.Absence(17205933)
	assert.False(t, ok)

	a := &personio.Absence{
		Employee:  &personio.ShortEmployee{ID: rms},
		StartDate: personio.NewDate(2024, time.March, 4),
		EndDate:   personio.NewDate(2024, time.March, 8),
	}
	assert.ErrorContains(t, c.DeleteAbsenceRecord(ctx, a, false), "remote query")
	require.NoError(t, c.DeleteAbsenceRecord(ctx, a, true))
	assert.Equal(t, 17205932, a.ID)
	assert.Empty(t, tw.store.Absences(store.Filter{}))
}
