package personio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FieldKind selects how a custom attribute value is converted.
type FieldKind string

const (
	KindString   FieldKind = "string"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindDateTime FieldKind = "datetime"
	KindDuration FieldKind = "duration"
	KindTags     FieldKind = "tags"
)

const dynamicPrefix = "dynamic_"

// CustomAttribute describes a company specific employee attribute.
type CustomAttribute struct {
	Key         string `json:"key" mapstructure:"key"`
	Label       string `json:"label" mapstructure:"label"`
	Type        string `json:"type" mapstructure:"type"`
	UniversalID string `json:"universal_id,omitempty" mapstructure:"universal_id"`
}

// Kind maps the attribute type reported by Personio to a FieldKind.
func (a CustomAttribute) Kind() (FieldKind, error) {
	switch a.Type {
	case "standard", "list", "link", "multiline":
		return KindString, nil
	case "date":
		return KindDateTime, nil
	case "integer", "decimal":
		return KindNumber, nil
	case "tags":
		return KindTags, nil
	}
	return "", errorf("unexpected custom attribute type '%s' for %s (%s)", a.Type, a.Key, a.Label)
}

// FieldID is the numeric part of a "dynamic_<id>" key, or 0.
func (a CustomAttribute) FieldID() int {
	rest, ok := strings.CutPrefix(a.Key, dynamicPrefix)
	if !ok {
		return 0
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0
	}
	return id
}

// DynamicMapping exposes the custom attribute dynamic_<FieldID> under Alias,
// converting values according to Kind.
type DynamicMapping struct {
	FieldID int
	Alias   string
	Kind    FieldKind
}

func (m DynamicMapping) Key() string {
	return dynamicPrefix + strconv.Itoa(m.FieldID)
}

// Convert turns a raw API value into the Go value for m.Kind.
func (m DynamicMapping) Convert(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" && m.Kind != KindString {
		return nil, nil
	}
	switch m.Kind {
	case KindString, "":
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprint(raw), nil
	case KindNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid number %q", m.Alias, v)
			}
			return f, nil
		}
	case KindDate:
		if s, ok := raw.(string); ok {
			return ParseDate(s)
		}
	case KindDateTime:
		if s, ok := raw.(string); ok {
			return ParseDateTime(s)
		}
	case KindDuration:
		if s, ok := raw.(string); ok {
			return ParseDuration(s)
		}
	case KindTags:
		switch v := raw.(type) {
		case string:
			return ParseTags(v), nil
		case []any:
			tags := make(Tags, 0, len(v))
			for _, e := range v {
				tags = append(tags, fmt.Sprint(e))
			}
			return tags, nil
		}
	default:
		return nil, fmt.Errorf("%s: unknown field kind %q", m.Alias, m.Kind)
	}
	return nil, fmt.Errorf("%s: cannot convert %T to %s", m.Alias, raw, m.Kind)
}

// Serialize turns a Go value back into what the API expects for m.Kind.
func (m DynamicMapping) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch m.Kind {
	case KindString, "":
		return fmt.Sprint(v), nil
	case KindNumber:
		switch n := v.(type) {
		case int, int32, int64, float32, float64:
			return n, nil
		case string:
			return n, nil
		}
	case KindDate:
		switch d := v.(type) {
		case Date:
			return d.String(), nil
		case time.Time:
			return DateOf(d).String(), nil
		case string:
			return d, nil
		}
	case KindDateTime:
		switch d := v.(type) {
		case time.Time:
			return d.Format(time.RFC3339), nil
		case Date:
			return d.Time().Format(time.RFC3339), nil
		case string:
			return d, nil
		}
	case KindDuration:
		switch d := v.(type) {
		case Duration:
			return d.String(), nil
		case time.Duration:
			return Duration(d).String(), nil
		case string:
			return d, nil
		}
	case KindTags:
		switch t := v.(type) {
		case Tags:
			return t.Serialize()
		case []string:
			return Tags(t).Serialize()
		case string:
			return t, nil
		}
	}
	return nil, fmt.Errorf("%s: cannot serialize %T as %s", m.Alias, v, m.Kind)
}

var standardFields = func() map[string]bool {
	out := map[string]bool{}
	t := reflect.TypeOf(Employee{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		out[strings.ToLower(f.Name)] = true
		if tag, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ","); tag != "" && tag != "-" {
			out[tag] = true
		}
	}
	return out
}()

// mappingsFor derives dynamic mappings from the company's custom attributes.
// User aliases (keyed by attribute key) win over aliases generated from the
// label. Attributes without an alias or whose alias clashes with a standard
// employee field are skipped.
func (c *Client) mappingsFor(attrs []CustomAttribute, aliases map[string]string) []DynamicMapping {
	var out []DynamicMapping
	used := map[string]bool{}
	for _, a := range attrs {
		id := a.FieldID()
		if id == 0 {
			continue
		}
		kind, err := a.Kind()
		if err != nil {
			c.log.Warn("skipping custom attribute", "key", a.Key, "error", err)
			continue
		}
		alias := aliases[a.Key]
		if alias == "" {
			alias = AttributeName(a.Label)
		}
		if alias == "" {
			continue
		}
		if standardFields[alias] || used[alias] {
			c.log.Warn("cannot add alias for custom attribute, the name is already taken", "alias", alias, "key", a.Key)
			continue
		}
		used[alias] = true
		out = append(out, DynamicMapping{FieldID: id, Alias: alias, Kind: kind})
	}
	return out
}

// applyDynamic fills e.Dynamic from e.CustomAttributes. Values that cannot be
// converted are logged and left out.
func (c *Client) applyDynamic(e *Employee) {
	mappings := c.dynamicMappings()
	if len(mappings) == 0 || len(e.CustomAttributes) == 0 {
		return
	}
	for _, m := range mappings {
		raw, ok := e.CustomAttributes[m.Key()]
		if !ok {
			continue
		}
		v, err := m.Convert(raw)
		if err != nil {
			c.log.Warn("failed to convert custom attribute", "key", m.Key(), "alias", m.Alias, "error", err)
			continue
		}
		if v != nil {
			e.SetDynamic(m.Alias, v)
		}
	}
}

// customAttributesPayload merges the raw dynamic_<id> attributes with
// serialized dynamic values; dynamic values take precedence. Other unmodeled
// attributes are standard fields the API rejects as custom attributes.
func (c *Client) customAttributesPayload(e *Employee) (map[string]any, error) {
	out := map[string]any{}
	for k, v := range e.CustomAttributes {
		if strings.HasPrefix(k, dynamicPrefix) {
			out[k] = v
		}
	}
	byAlias := map[string]DynamicMapping{}
	for _, m := range c.dynamicMappings() {
		byAlias[m.Alias] = m
	}
	for alias, v := range e.Dynamic {
		m, ok := byAlias[alias]
		if !ok {
			return nil, errorf("unknown custom attribute alias '%s'", alias)
		}
		s, err := m.Serialize(v)
		if err != nil {
			return nil, &Error{Msg: "invalid custom attribute", Err: err}
		}
		out[m.Key()] = s
	}
	return out, nil
}
