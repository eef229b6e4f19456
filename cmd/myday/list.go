package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/myday-app/myday/internal/record"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage task lists",
}

var listLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show all task lists",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		lists, err := a.store.TaskLists(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		tasks, err := a.store.Tasks(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		counts := make(map[string]int)
		for _, t := range tasks {
			counts[t.ListID]++
		}
		printTaskLists(lists, counts)
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(context.Background())
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		a.coord.AddTaskList(args[0])
	},
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <list> <new-name>",
	Short: "Rename a task list",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		list := resolveList(ctx, a, args[0])
		a.coord.RenameTaskList(list.ID, args[1])
	},
}

var listRmForce bool

var listRmCmd = &cobra.Command{
	Use:   "rm <list>",
	Short: "Delete a task list and all its tasks",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		list := resolveList(ctx, a, args[0])

		tasks, err := a.store.TasksForList(ctx, list.ID)
		if err != nil {
			fatalf("%v", err)
		}

		if !listRmForce {
			var confirmed bool
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Delete list %q and its %d tasks?", list.Name, len(tasks))).
				Value(&confirmed)
			if err := prompt.Run(); err != nil {
				fatalf("%v", err)
			}
			if !confirmed {
				return
			}
		}

		a.coord.DeleteTaskList(list.ID)
	},
}

// resolveList finds a list by exact name, exact id, or unique id
// prefix.
func resolveList(ctx context.Context, a *app, ref string) record.TaskList {
	lists, err := a.store.TaskLists(ctx)
	if err != nil {
		fatalf("%v", err)
	}
	list, err := findList(lists, ref)
	if err != nil {
		fatalf("%v", err)
	}
	return list
}

func findList(lists []record.TaskList, ref string) (record.TaskList, error) {
	for _, l := range lists {
		if l.Name == ref {
			return l, nil
		}
	}
	var matches []record.TaskList
	for _, l := range lists {
		if l.ID == ref {
			return l, nil
		}
		if strings.HasPrefix(l.ID, ref) {
			matches = append(matches, l)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return record.TaskList{}, fmt.Errorf("list reference %q is ambiguous", ref)
	}
	return record.TaskList{}, fmt.Errorf("no list matches %q", ref)
}

func init() {
	listRmCmd.Flags().BoolVarP(&listRmForce, "force", "f", false, "skip confirmation")

	listCmd.AddCommand(listLsCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRenameCmd)
	listCmd.AddCommand(listRmCmd)
}
