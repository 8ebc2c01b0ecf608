package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"timetrack/internal/datatable"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var description string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			task, err := svc.AddTask(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %s\n", task.Name)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "free-text description")

	rename := &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RenameTask(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed task %s to %s\n", args[0], args[1])
			return nil
		},
	}

	describe := &cobra.Command{
		Use:   "describe NAME [DESCRIPTION]",
		Short: "Set or, without DESCRIPTION, clear a task's description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			return svc.DescribeTask(cmd.Context(), args[0], joinArgs(args[1:]))
		},
	}

	remove := &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Delete a task that has no timers",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RemoveTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed task %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks in creation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			tasks, err := svc.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			dt := datatable.New()
			dt.Headers = []string{"name", "description", "created"}
			for _, t := range tasks {
				row := datatable.Row{"name": t.Name, "created": t.CreatedAt}
				if t.Description != nil {
					row["description"] = *t.Description
				}
				dt.Append(row, nil, nil)
			}
			return a.renderer(cmd).Table(dt.Build())
		},
	}

	cmd.AddCommand(add, rename, describe, remove, list)
	return cmd
}
