package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"personio-go/internal/export"
	"personio-go/internal/sftpclient"
	"personio-go/pkg/personio"
)

type exportFlags struct {
	out       string
	format    string
	fields    []string
	sftp      bool
	from      string
	to        string
	employees []int
}

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to a CSV or XLSX file, optionally uploading it via SFTP",
	}
	cmd.AddCommand(
		a.exportSubCmd("employees", "Export all employees with their custom attributes", false, a.employeesTable),
		a.exportSubCmd("attendances", "Export attendance periods", true, a.attendancesTable),
		a.exportSubCmd("absences", "Export absence periods", true, a.absencesTable),
	)
	return cmd
}

type tableFunc func(ctx context.Context, c *personio.Client, f *exportFlags) (*export.Table, error)

func (a *app) exportSubCmd(name, short string, timeframe bool, build tableFunc) *cobra.Command {
	f := &exportFlags{}
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd.Context(), name, f, build)
		},
	}
	cmd.Flags().StringVar(&f.out, "out", "", "output file (default <name>.<format>)")
	cmd.Flags().StringVar(&f.format, "format", "", "csv or xlsx (default from --out extension, else csv)")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "only export these columns, in this order")
	cmd.Flags().BoolVar(&f.sftp, "sftp", false, "upload the file via SFTP (SFTP_* settings)")
	if timeframe {
		cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
		cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
		cmd.Flags().IntSliceVar(&f.employees, "employee", nil, "employee ids (default all employees)")
	}
	return cmd
}

func (a *app) runExport(ctx context.Context, name string, f *exportFlags, build tableFunc) error {
	format := export.FormatCSV
	switch {
	case f.format != "":
		var err error
		if format, err = export.ParseFormat(f.format); err != nil {
			return err
		}
	case f.out != "":
		format = export.FormatFromPath(f.out)
	}
	out := f.out
	if out == "" {
		out = name + "." + string(format)
	}

	c, err := a.connect(ctx, name == "employees")
	if err != nil {
		return err
	}
	t, err := build(ctx, c, f)
	if err != nil {
		return err
	}
	if t, err = t.Select(f.fields); err != nil {
		return err
	}
	if err := t.WriteFile(out, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	a.log.Info("export written", "file", out, "rows", len(t.Rows), "format", format)
	fmt.Fprintf(a.out, "wrote %d %s to %s\n", len(t.Rows), name, out)

	if f.sftp {
		sc := a.cfg.SFTPConfig()
		if err := sftpclient.UploadFile(ctx, sc, out, filepath.Base(out)); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "uploaded %s to %s:%s\n", filepath.Base(out), sc.Host, sc.RemoteDir)
	}
	return nil
}

func (a *app) employeesTable(ctx context.Context, c *personio.Client, _ *exportFlags) (*export.Table, error) {
	employees, err := c.GetEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return export.Employees(employees), nil
}

func (a *app) attendancesTable(ctx context.Context, c *personio.Client, f *exportFlags) (*export.Table, error) {
	ids, tf, err := a.selection(ctx, c, f)
	if err != nil {
		return nil, err
	}
	attendances, err := c.GetAttendances(ctx, ids, tf)
	if err != nil {
		return nil, err
	}
	return export.Attendances(attendances), nil
}

func (a *app) absencesTable(ctx context.Context, c *personio.Client, f *exportFlags) (*export.Table, error) {
	ids, tf, err := a.selection(ctx, c, f)
	if err != nil {
		return nil, err
	}
	absences, err := c.GetAbsences(ctx, ids, tf)
	if err != nil {
		return nil, err
	}
	return export.Absences(absences), nil
}

// selection resolves the employee ids and timeframe of an export.
func (a *app) selection(ctx context.Context, c *personio.Client, f *exportFlags) ([]int, personio.Timeframe, error) {
	var tf personio.Timeframe
	var err error
	if f.from != "" {
		if tf.Start, err = personio.ParseDate(f.from); err != nil {
			return nil, tf, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if tf.End, err = personio.ParseDate(f.to); err != nil {
			return nil, tf, fmt.Errorf("--to: %w", err)
		}
	}
	if !tf.Start.IsZero() && !tf.End.IsZero() && tf.End.Before(tf.Start) {
		return nil, tf, fmt.Errorf("--to %s is before --from %s", tf.End, tf.Start)
	}

	ids := f.employees
	if len(ids) == 0 {
		if ids, err = employeeIDs(ctx, c); err != nil {
			return nil, tf, err
		}
	}
	return ids, tf, nil
}
