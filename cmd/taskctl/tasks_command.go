package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect tasks",
	}
	cmd.AddCommand(newTasksListCommand(ctx))
	return cmd
}

func newTasksListCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task, optionally by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDB(func(gormDB *gorm.DB) error {
				repo := repository.NewTaskRepository(gormDB)
				var (
					tasks []model.Task
					err   error
				)
				if status != "" {
					tasks, err = repo.ListByStatus(cmd.Context(), status)
				} else {
					tasks, err = repo.List(cmd.Context())
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks")
					return nil
				}
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(t.ID), 10),
						t.Title,
						t.AssignedTo,
						t.Status,
						t.DueDateString(),
						t.UpdatedAt.UTC().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					out,
					[]string{"ID", "Title", "Assigned To", "Status", "Due", "Updated"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show tasks with this exact status")
	return cmd
}
