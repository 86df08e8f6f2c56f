package personio

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"
)

// typeKey carries the API type of an unwrapped resource envelope until the
// decode hook has checked it.
const typeKey = "__type"

var apiTypes = map[reflect.Type]string{
	reflect.TypeOf(Employee{}):        TypeEmployee,
	reflect.TypeOf(ShortEmployee{}):   TypeEmployee,
	reflect.TypeOf(AbsenceType{}):     TypeAbsenceType,
	reflect.TypeOf(Absence{}):         TypeAbsence,
	reflect.TypeOf(Attendance{}):      TypeAttendance,
	reflect.TypeOf(Project{}):         TypeProject,
	reflect.TypeOf(Office{}):          TypeOffice,
	reflect.TypeOf(Department{}):      TypeDepartment,
	reflect.TypeOf(Team{}):            TypeTeam,
	reflect.TypeOf(CostCenter{}):      TypeCostCenter,
	reflect.TypeOf(HolidayCalendar{}): TypeHolidayCalendar,
	reflect.TypeOf(WorkSchedule{}):    TypeWorkSchedule,
	reflect.TypeOf(AbsenceBalance{}):  TypeAbsenceBalance,
}

var (
	dateType      = reflect.TypeOf(Date{})
	timeType      = reflect.TypeOf(time.Time{})
	timeOfDayType = reflect.TypeOf(TimeOfDay{})
	durationType  = reflect.TypeOf(Duration(0))
	tagsType      = reflect.TypeOf(Tags{})
)

// decoder turns generic JSON values into the typed models.
// Warnings about unexpected API types are logged once per message.
type decoder struct {
	log  hclog.Logger
	seen sync.Map
}

func newDecoder(log hclog.Logger) *decoder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &decoder{log: log}
}

func (d *decoder) decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(d.checkType, parseString),
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(normalize(in)); err != nil {
		return &Error{Msg: "failed to decode API response", Err: err}
	}
	return nil
}

func (d *decoder) checkType(_ reflect.Type, to reflect.Type, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok || to.Kind() != reflect.Struct {
		return data, nil
	}
	got, ok := m[typeKey].(string)
	if !ok {
		return data, nil
	}
	clean := make(map[string]any, len(m))
	for k, v := range m {
		if k != typeKey {
			clean[k] = v
		}
	}
	if want, known := apiTypes[to]; known && want != got {
		d.warnOnce(fmt.Sprintf("unexpected API type %q while decoding %s, expected %q", got, to.Name(), want))
	}
	return clean, nil
}

func (d *decoder) warnOnce(msg string) {
	if _, loaded := d.seen.LoadOrStore(msg, struct{}{}); loaded {
		return
	}
	d.log.Warn(msg)
}

func parseString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	switch to {
	case dateType:
		v, err := ParseDate(s)
		return v, err
	case timeType:
		v, err := ParseDateTime(s)
		return v, err
	case timeOfDayType:
		v, err := ParseTimeOfDay(s)
		return v, err
	case durationType:
		v, err := ParseDuration(s)
		return v, err
	case tagsType:
		return ParseTags(s), nil
	}
	return data, nil
}

// normalize flattens the wire shapes of the API into plain maps: resource
// envelopes are unwrapped (keeping a top-level id), labeled attributes are
// replaced by their value and empty strings and nulls are dropped.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if attrs, isEnvelope := envelope(t); isEnvelope {
			out := normalizeMap(attrs)
			if id, ok := t["id"]; ok && id != nil {
				if _, exists := out["id"]; !exists {
					out["id"] = id
				}
			}
			if typ, ok := t["type"].(string); ok && typ != "" {
				out[typeKey] = typ
			}
			return out
		}
		if _, hasLabel := t["label"]; hasLabel {
			if value, hasValue := t["value"]; hasValue {
				return normalize(value)
			}
		}
		return normalizeMap(t)
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, normalize(e))
		}
		return out
	}
	return v
}

func envelope(m map[string]any) (map[string]any, bool) {
	raw, ok := m["attributes"]
	if !ok {
		return nil, false
	}
	if _, typed := m["type"]; !typed {
		return nil, false
	}
	switch attrs := raw.(type) {
	case map[string]any:
		return attrs, true
	case []any:
		// empty attribute sets are sent as [] by the API
		if len(attrs) == 0 {
			return map[string]any{}, true
		}
	case nil:
		return map[string]any{}, true
	}
	return nil, false
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		v = normalize(v)
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}
