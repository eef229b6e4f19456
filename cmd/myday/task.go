package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/myday-app/myday/internal/record"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskAddList string
	taskAddDate string
)

var taskAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		list := resolveList(ctx, a, taskAddList)

		var due *time.Time
		if taskAddDate != "" {
			d, err := time.Parse(record.DateOnlyFormat, taskAddDate)
			if err != nil {
				fatalf("invalid date %q, want yyyy-MM-dd", taskAddDate)
			}
			due = &d
		}

		a.coord.AddTask(strings.Join(args, " "), list.ID, due)
	},
}

var taskLsList string

var taskLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show tasks",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		var tasks []record.Task
		if taskLsList != "" {
			list := resolveList(ctx, a, taskLsList)
			tasks, err = a.store.TasksForList(ctx, list.ID)
		} else {
			tasks, err = a.store.Tasks(ctx)
		}
		if err != nil {
			fatalf("%v", err)
		}
		printTasks(tasks)
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		a.coord.ToggleTaskCompleted(resolveTask(ctx, a, args[0]).ID)
	},
}

var taskPriorityCmd = &cobra.Command{
	Use:   "priority <task>",
	Short: "Cycle a task's priority (NONE→LOW→MEDIUM→HIGH→NONE)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		a.coord.CycleTaskPriority(resolveTask(ctx, a, args[0]).ID)
	},
}

var taskEditDate string

var taskEditCmd = &cobra.Command{
	Use:   "edit <task> <description>",
	Short: "Edit a task's description, and optionally its date",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		task := resolveTask(ctx, a, args[0])
		description := strings.Join(args[1:], " ")
		if taskEditDate != "" {
			a.coord.EditTask(task.ID, description, taskEditDate)
		} else {
			a.coord.RenameTask(task.ID, description)
		}
	},
}

var taskMvCmd = &cobra.Command{
	Use:   "mv <task> <list>",
	Short: "Move a task to another list",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		task := resolveTask(ctx, a, args[0])
		list := resolveList(ctx, a, args[1])
		a.coord.MoveTask(task.ID, list.ID)
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		a.coord.DeleteTask(resolveTask(ctx, a, args[0]).ID)
	},
}

// resolveTask finds a task by exact id or unique id prefix.
func resolveTask(ctx context.Context, a *app, ref string) record.Task {
	tasks, err := a.store.Tasks(ctx)
	if err != nil {
		fatalf("%v", err)
	}
	task, err := findTask(tasks, ref)
	if err != nil {
		fatalf("%v", err)
	}
	return task
}

func findTask(tasks []record.Task, ref string) (record.Task, error) {
	var matches []record.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return record.Task{}, fmt.Errorf("task reference %q is ambiguous", ref)
	}
	return record.Task{}, fmt.Errorf("no task matches %q", ref)
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskAddList, "list", "l", record.DefaultListName, "list to add the task to")
	taskAddCmd.Flags().StringVarP(&taskAddDate, "date", "d", "", "due date (yyyy-MM-dd), omit for Someday")
	taskLsCmd.Flags().StringVarP(&taskLsList, "list", "l", "", "show only this list")
	taskEditCmd.Flags().StringVarP(&taskEditDate, "date", "d", "", "new dateTime value")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskLsCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskPriorityCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskMvCmd)
	taskCmd.AddCommand(taskRmCmd)
}
