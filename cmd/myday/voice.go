package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myday-app/myday/internal/record"
)

var voiceList string

var voiceCmd = &cobra.Command{
	Use:   "voice <text>",
	Short: "Add a task from natural language",
	Long: `Parse free-form text into a task. The configured parser extracts the
description and date ("remind me to water plants tomorrow" becomes a
dated task); input without a recognizable date lands under Someday.
Unparseable input adds nothing.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		list := resolveList(ctx, a, voiceList)
		a.coord.ProcessVoiceInput(strings.Join(args, " "), list.ID)
	},
}

func init() {
	voiceCmd.Flags().StringVarP(&voiceList, "list", "l", record.DefaultListName, "list to add the task to")
}
