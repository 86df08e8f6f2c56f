package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iancoleman/strcase"

	"personio-go/internal/export"
)

// outputFlags are shared by the read commands.
type outputFlags struct {
	json   bool
	fields []string
}

func (o *outputFlags) keys() []string {
	out := make([]string, 0, len(o.fields))
	for _, f := range o.fields {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// print writes items as JSON lines, or t as an aligned text table.
func (o *outputFlags) print(w io.Writer, t *export.Table, items []any) error {
	keys := o.keys()
	if o.json {
		enc := json.NewEncoder(w)
		for _, it := range items {
			var v any = it
			if len(keys) > 0 {
				v = pick(it, keys...)
			}
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	}

	t, err := t.Select(keys)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(t.Header, "\t")))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// pick round trips v through JSON and keeps the requested keys. Keys are
// matched exactly first, then in snake case.
func pick(v any, keys ...string) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		} else if snake := strcase.ToSnake(k); snake != k {
			if val, ok := m[snake]; ok {
				out[snake] = val
			}
		}
	}
	return out
}

func anys[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
