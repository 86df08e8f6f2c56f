package personio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"type": "Employee",
		"id":   7,
		"attributes": map[string]any{
			"first_name": map[string]any{"label": "First name", "value": "Ada"},
			"last_name":  map[string]any{"label": "Last name", "value": ""},
			"team":       map[string]any{"label": "Team", "value": nil},
			"office": map[string]any{"label": "Office", "value": map[string]any{
				"type": "Office", "attributes": map[string]any{"id": 3, "name": "London"},
			}},
			"cost_centers": map[string]any{"label": "Cost center", "value": []any{
				map[string]any{"type": "CostCenter", "attributes": []any{}},
			}},
		},
	}

	assert.Equal(t, map[string]any{
		"__type":     "Employee",
		"id":         7,
		"first_name": "Ada",
		"office":     map[string]any{"__type": "Office", "id": 3, "name": "London"},
		"cost_centers": []any{
			map[string]any{"__type": "CostCenter"},
		},
	}, normalize(in))
}

func TestNormalizeKeepsAttributeID(t *testing.T) {
	in := map[string]any{"type": "Project", "id": 1, "attributes": map[string]any{"id": 2}}
	assert.Equal(t, 2, normalize(in).(map[string]any)["id"])
}

func TestNormalizeLeavesPlainMaps(t *testing.T) {
	// attributes without a type are data, not an envelope
	in := map[string]any{"attributes": map[string]any{"a": 1}, "label": "x"}
	assert.Equal(t, in, normalize(in))
}

func TestDecodeTypes(t *testing.T) {
	d := newDecoder(nil)
	in := map[string]any{
		"type": "AttendancePeriod",
		"id":   float64(12),
		"attributes": map[string]any{
			"employee":   float64(3),
			"date":       "2024-04-02",
			"start_time": "09:15",
			"end_time":   "17:00:00",
			"break":      float64(30),
			"is_holiday": float64(1),
		},
	}
	var a Attendance
	require.NoError(t, d.decode(in, &a))
	assert.Equal(t, 12, a.ID)
	assert.Equal(t, 3, a.Employee)
	assert.Equal(t, NewDate(2024, time.April, 2), a.Date)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 15}, *a.StartTime)
	assert.Equal(t, TimeOfDay{Hour: 17}, *a.EndTime)
	assert.Equal(t, 30, *a.Break)
	assert.True(t, a.IsHoliday)
}

func TestDecodeInvalidValue(t *testing.T) {
	d := newDecoder(nil)
	var a Attendance
	err := d.decode(map[string]any{"date": "yesterday"}, &a)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "failed to decode API response", perr.Msg)
}

func TestDecodeWarnsOnceAboutUnexpectedTypes(t *testing.T) {
	var buf bytes.Buffer
	d := newDecoder(hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn}))
	in := map[string]any{"type": "Team", "attributes": map[string]any{"id": 1, "name": "x"}}

	for i := 0; i < 3; i++ {
		var o Office
		require.NoError(t, d.decode(in, &o))
		assert.Equal(t, "x", o.Name)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "unexpected API type"))
}

func TestTimeframeNormalize(t *testing.T) {
	now := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

	tf := Timeframe{}.normalize(now)
	assert.Equal(t, NewDate(1900, time.January, 1), tf.Start)
	assert.Equal(t, NewDate(2034, time.January, 1), tf.End)

	set := Timeframe{Start: NewDate(2024, time.May, 1), End: NewDate(2024, time.May, 31)}
	assert.Equal(t, set, set.normalize(now))
}
