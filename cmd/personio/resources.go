package main

import (
	"github.com/spf13/cobra"

	"personio-go/internal/export"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Read attendance projects",
	}

	var out outputFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			projects, err := c.GetProjects(cmd.Context())
			if err != nil {
				return err
			}
			return out.print(a.out, export.Projects(projects), anys(projects))
		},
	}
	addOutputFlags(list, &out)
	cmd.AddCommand(list)
	return cmd
}

func (a *app) absenceTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "absence-types",
		Aliases: []string{"time-off-types"},
		Short:   "Read absence types",
	}

	var out outputFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List all absence types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			types, err := c.GetAbsenceTypes(cmd.Context())
			if err != nil {
				return err
			}
			return out.print(a.out, export.AbsenceTypes(types), anys(types))
		},
	}
	addOutputFlags(list, &out)
	cmd.AddCommand(list)
	return cmd
}
