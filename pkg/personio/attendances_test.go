package personio_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personio-go/pkg/personio"
)

func tod(s string) *personio.TimeOfDay {
	t, err := personio.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func april(day int) personio.Date {
	return personio.NewDate(2024, time.April, day)
}

func TestGetAttendances(t *testing.T) {
	c := startTwin(t).client(t)

	got, err := c.GetAttendances(context.Background(), []int{ada}, personio.Timeframe{Start: april(1), End: april(30)})
	require.NoError(t, err)
	require.Len(t, got, 2)

	a := got[0]
	assert.Equal(t, 33479712, a.ID)
	assert.Equal(t, ada, a.Employee)
	assert.Equal(t, april(2), a.Date)
	assert.Equal(t, "09:00", a.StartTime.String())
	assert.Equal(t, "17:30", a.EndTime.String())
	require.NotNil(t, a.Break)
	assert.Equal(t, 30, *a.Break)
	require.NotNil(t, a.Comment)
	assert.Equal(t, "notes on the engine", *a.Comment)
	require.NotNil(t, a.Project)
	assert.Equal(t, "Analytical Engine", a.Project.Name)
	assert.Equal(t, 8*time.Hour, a.Worked())

	assert.Nil(t, got[1].Project)
	assert.Equal(t, 3*time.Hour+30*time.Minute, got[1].Worked())
}

func TestCreateAttendances(t *testing.T) {
	c := startTwin(t).client(t)
	ctx := context.Background()

	records := []*personio.Attendance{
		{Employee: rms, Date: april(10), StartTime: tod("09:00"), EndTime: tod("17:00"), Break: personio.Ptr(45)},
		{Employee: rms, Date: april(11), StartTime: tod("09:00"), EndTime: tod("12:00"),
			Project: &personio.Project{ID: 1}},
	}
	require.NoError(t, c.CreateAttendances(ctx, records))
	assert.Equal(t, 33479715, records[0].ID)
	assert.Equal(t, 33479716, records[1].ID)

	got, err := c.GetAttendances(ctx, []int{rms}, personio.Timeframe{Start: april(10), End: april(11)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 45, *got[0].Break)
	assert.Equal(t, 0, *got[1].Break)
	require.NotNil(t, got[1].Project)
	assert.Equal(t, 1, got[1].Project.ID)
}

func TestCreateAttendancesValidates(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)

	err := c.CreateAttendances(context.Background(), []*personio.Attendance{
		{Employee: rms, Date: april(10), StartTime: tod("09:00"), EndTime: tod("17:00")},
		{Employee: rms, Date: april(11), EndTime: tod("12:00")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
	assert.Contains(t, err.Error(), "start_time")
	assert.Empty(t, tw.requests("/v1/company/attendances"))

	assert.NoError(t, c.CreateAttendances(context.Background(), nil))
}

func TestAttendanceValidate(t *testing.T) {
	a := &personio.Attendance{Employee: rms, Date: april(1), StartTime: tod("08:00"), EndTime: tod("09:00"), Break: personio.Ptr(-5)}
	assert.ErrorContains(t, a.Validate(), "break")

	a.Break = nil
	assert.NoError(t, a.Validate())

	assert.ErrorContains(t, (&personio.Attendance{Employee: rms}).Validate(), "date")
}

func TestUpdateAttendance(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)
	ctx := context.Background()

	a := &personio.Attendance{ID: 33479713, Comment: personio.Ptr("reviewing notes"), EndTime: tod("13:00")}
	require.NoError(t, c.UpdateAttendance(ctx, a, false))

	stored, ok := tw.store.Attendance(33479713)
	require.True(t, ok)
	assert.Equal(t, "reviewing notes", stored.Comment)
	assert.Equal(t, "13:00", stored.EndTime)
	assert.Equal(t, "08:30", stored.StartTime)
}

func TestUpdateAttendanceClearsComment(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateAttendance(ctx, &personio.Attendance{ID: 33479712, Break: personio.Ptr(15)}, false))
	stored, _ := tw.store.Attendance(33479712)
	assert.Equal(t, "notes on the engine", stored.Comment)

	require.NoError(t, c.UpdateAttendance(ctx, &personio.Attendance{ID: 33479712, Comment: personio.Ptr("")}, false))
	stored, _ = tw.store.Attendance(33479712)
	assert.Equal(t, "", stored.Comment)
	assert.Equal(t, 15, stored.Break)
}

func TestUpdateAttendanceRemoteQuery(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)
	ctx := context.Background()

	a := &personio.Attendance{Employee: rms, Date: april(2), Comment: personio.Ptr("late start")}
	assert.ErrorContains(t, c.UpdateAttendance(ctx, a, false), "remote query")

	require.NoError(t, c.UpdateAttendance(ctx, a, true))
	assert.Equal(t, 33479714, a.ID)
	stored, _ := tw.store.Attendance(33479714)
	assert.Equal(t, "late start", stored.Comment)

	missing := &personio.Attendance{Employee: rms, Date: april(20)}
	assert.ErrorContains(t, c.UpdateAttendance(ctx, missing, true), "no attendance found")

	require.NoError(t, c.CreateAttendances(ctx, []*personio.Attendance{
		{Employee: rms, Date: april(2), StartTime: tod("19:00"), EndTime: tod("20:00")},
	}))
	twice := &personio.Attendance{Employee: rms, Date: april(2)}
	assert.ErrorContains(t, c.UpdateAttendance(ctx, twice, true), "more than one attendance")
}

func TestDeleteAttendance(t *testing.T) {
	tw := startTwin(t)
	c := tw.client(t)
	ctx := context.Background()

	require.NoError(t, c.DeleteAttendance(ctx, 33479712))
	_, ok := tw.store.Attendance(33479712)
	assert.False(t, ok)

	var apiErr *personio.APIError
	assert.ErrorAs(t, c.DeleteAttendance(ctx, 33479712), &apiErr)

	a := &personio.Attendance{Employee: ada, Date: april(3)}
	require.NoError(t, c.DeleteAttendanceRecord(ctx, a, true))
	assert.Equal(t, 33479713, a.ID)
	_, ok = tw.store.Attendance(33479713)
	assert.False(t, ok)
}
