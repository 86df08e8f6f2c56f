package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"personio-go/internal/concurrency"
	"personio-go/internal/export"
	"personio-go/pkg/personio"
	"personio-go/pkg/personio/search"
)

func (a *app) employeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "Read employees",
	}
	cmd.AddCommand(a.employeesListCmd(), a.employeesGetCmd(), a.employeesSearchCmd(), a.employeesPicturesCmd())
	return cmd
}

func (a *app) employeesListCmd() *cobra.Command {
	var (
		out        outputFlags
		activeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context(), true)
			if err != nil {
				return err
			}
			employees, err := c.GetEmployees(cmd.Context())
			if err != nil {
				return err
			}
			if activeOnly {
				employees = active(employees)
			}
			return out.print(a.out, export.Employees(employees), anys(employees))
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "skip inactive employees")
	addOutputFlags(cmd, &out)
	return cmd
}

func (a *app) employeesGetCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid employee id %q", args[0])
			}
			c, err := a.connect(cmd.Context(), true)
			if err != nil {
				return err
			}
			e, err := c.GetEmployee(cmd.Context(), id)
			if err != nil {
				return err
			}
			var v any = e
			if keys := out.keys(); len(keys) > 0 {
				v = pick(e, keys...)
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
	cmd.Flags().StringSliceVar(&out.fields, "fields", nil, "only show these fields")
	return cmd
}

func (a *app) employeesSearchCmd() *cobra.Command {
	var (
		out        outputFlags
		activeOnly bool
		first      bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search employees by name, email, position, office, department or team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			ix := search.New(c, search.WithLogger(a.log.Named("search")))
			query := strings.Join(args, " ")

			var found []*personio.Employee
			if first {
				e, err := ix.SearchFirst(cmd.Context(), query, activeOnly)
				if err != nil {
					return err
				}
				if e != nil {
					found = append(found, e)
				}
			} else if found, err = ix.Search(cmd.Context(), query, activeOnly); err != nil {
				return err
			}
			if len(found) == 0 {
				return fmt.Errorf("no employee matches %q", query)
			}
			return out.print(a.out, export.Employees(found), anys(found))
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", true, "skip inactive employees (--active=false to include them)")
	cmd.Flags().BoolVar(&first, "first", false, "only show the best match")
	addOutputFlags(cmd, &out)
	return cmd
}

func (a *app) employeesPicturesCmd() *cobra.Command {
	var (
		dir     string
		width   int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "pictures [id...]",
		Short: "Download profile pictures, of all employees when no id is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				if ids, err = employeeIDs(cmd.Context(), c); err != nil {
					return err
				}
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			saved, err := a.downloadPictures(cmd.Context(), c, ids, dir, width, workers)
			fmt.Fprintf(a.out, "saved %d of %d pictures to %s\n", saved, len(ids), dir)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "pictures", "output directory")
	cmd.Flags().IntVar(&width, "width", 0, "scale pictures to this width in pixels (0 = original size)")
	cmd.Flags().IntVar(&workers, "workers", concurrency.DefaultOptions().MaxWorkers, "parallel downloads")
	return cmd
}

// downloadPictures fetches pictures in parallel. Employees without a picture
// are skipped; failures are collected and returned together.
func (a *app) downloadPictures(ctx context.Context, c *personio.Client, ids []int, dir string, width, workers int) (int, error) {
	paths, errs := concurrency.ProcessParallel(ctx, ids, concurrency.ParallelOptions{MaxWorkers: workers},
		func(ctx context.Context, _ int, id int) (string, error) {
			img, err := c.GetEmployeePicture(ctx, id, width)
			if err != nil {
				return "", fmt.Errorf("employee %d: %w", id, err)
			}
			if img == nil {
				a.log.Debug("employee has no picture", "id", id)
				return "", nil
			}
			path := filepath.Join(dir, strconv.Itoa(id)+imageExt(img))
			if err := os.WriteFile(path, img, 0o644); err != nil {
				return "", fmt.Errorf("employee %d: %w", id, err)
			}
			return path, nil
		})

	saved := 0
	for _, p := range paths {
		if p != "" {
			saved++
		}
	}
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	return saved, result.ErrorOrNil()
}

func imageExt(img []byte) string {
	switch http.DetectContentType(img) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".jpg"
}

func active(employees []*personio.Employee) []*personio.Employee {
	out := employees[:0:0]
	for _, e := range employees {
		if e.Active() {
			out = append(out, e)
		}
	}
	return out
}

func employeeIDs(ctx context.Context, c *personio.Client) ([]int, error) {
	employees, err := c.GetEmployees(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, s := range args {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid employee id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func addOutputFlags(cmd *cobra.Command, out *outputFlags) {
	cmd.Flags().BoolVar(&out.json, "json", false, "print JSON lines instead of a table")
	cmd.Flags().StringSliceVar(&out.fields, "fields", nil, "only show these columns (e.g. id,firstName,email)")
}
