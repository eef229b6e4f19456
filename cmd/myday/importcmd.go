package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/myday-app/myday/internal/calendar"
)

var importDays int

var importCmd = &cobra.Command{
	Use:   "import <events.json>",
	Short: "Import calendar events as tasks",
	Long: `Import events from a JSON calendar export into the "Calendar Events"
list. An event whose description and date already match an existing
task is skipped, so re-importing the same export is safe.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		src := calendar.NewFileSource(args[0])
		a.coord.ImportCalendar(ctx, src, importDays)
	},
}

func init() {
	importCmd.Flags().IntVar(&importDays, "days", 30, "import events up to this many days ahead")
}
