// Package export writes Personio records as CSV or XLSX tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or xlsx)", s)
}

// FormatFromPath picks the format from the file extension, defaulting to csv.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Table is a header plus rows of the same width.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Select keeps the given columns in the given order. A name that is not an
// exact column is matched in snake case, so "firstName" and "first-name"
// both find "first_name" while "level2" still finds "level2".
func (t *Table) Select(fields []string) (*Table, error) {
	if len(fields) == 0 {
		return t, nil
	}
	index := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		index[h] = i
	}
	cols := make([]int, 0, len(fields))
	header := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		i, ok := index[name]
		if !ok {
			name = strcase.ToSnake(name)
			if i, ok = index[name]; !ok {
				return nil, fmt.Errorf("unknown column %q", f)
			}
		}
		cols = append(cols, i)
		header = append(header, name)
	}

	out := &Table{Name: t.Name, Header: header, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		r := make([]string, len(cols))
		for j, i := range cols {
			r[j] = row[i]
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// WriteCSV writes t with CRLF line endings. Line breaks inside cells are
// replaced by spaces.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(cleanCells(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t as a single sheet workbook with a bold header row.
func (t *Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.sheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	if err := sw.SetRow("A1", cellValues(t.Header), excelize.RowOpts{StyleID: bold}); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cellValues(row)); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}

func (t *Table) Write(w io.Writer, format Format) error {
	switch format {
	case FormatXLSX:
		return t.WriteXLSX(w)
	case FormatCSV, "":
		return t.WriteCSV(w)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// WriteFile writes t to path, creating parent directories.
func (t *Table) WriteFile(path string, format Format) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return t.Write(f, format)
}

// sheetName is t.Name cut to the 31 characters Excel allows.
func (t *Table) sheetName() string {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

func cellValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func cleanCells(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		s = strings.ReplaceAll(s, "\r\n", " ")
		s = strings.ReplaceAll(s, "\n", " ")
		out[i] = strings.ReplaceAll(s, "\r", " ")
	}
	return out
}
