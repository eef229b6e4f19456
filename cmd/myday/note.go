package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/myday-app/myday/internal/record"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddTitle string

var noteAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a note",
	Long:  "Add a note. At least one of --title and content must be non-blank.",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(context.Background())
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		content := strings.Join(args, " ")
		if strings.TrimSpace(noteAddTitle) == "" && strings.TrimSpace(content) == "" {
			fatalf("a note needs a title or content")
		}
		a.coord.AddNote(noteAddTitle, content)
	},
}

var noteLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show all notes",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		notes, err := a.store.Notes(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		printNotes(notes)
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <note>",
	Short: "Show a note's full content",
	Long:  "Show a note. Secured notes require the secure-notes PIN.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		note := resolveNote(ctx, a, args[0])

		if note.IsSecured {
			if a.prefs.SecureNotesPIN() == nil {
				fatalf("note is secured but no PIN is set")
			}
			fmt.Fprint(os.Stderr, "PIN: ")
			pin, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				fatalf("%v", err)
			}
			if !a.prefs.CheckPIN(string(pin)) {
				fatalf("wrong PIN")
			}
		}

		if note.Title != "" {
			fmt.Println(headerStyle.Render(note.Title))
		}
		if note.Content != "" {
			fmt.Println(note.Content)
		}
		fmt.Println(idStyle.Render("modified " + note.LastModified.Format("2006-01-02 15:04")))
	},
}

var noteSecureOff bool

var noteSecureCmd = &cobra.Command{
	Use:   "secure <note>",
	Short: "Mark a note PIN-gated (or clear with --off)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		note := resolveNote(ctx, a, args[0])

		if !noteSecureOff && a.prefs.SecureNotesPIN() == nil {
			fmt.Fprint(os.Stderr, "Set a secure-notes PIN: ")
			pin, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				fatalf("%v", err)
			}
			if len(pin) < 4 || len(pin) > 6 {
				fatalf("PIN must be 4-6 digits")
			}
			a.coord.SetSecureNotesPIN(string(pin))
		}

		a.coord.SetNoteSecured(note.ID, !noteSecureOff)
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <note>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		defer a.close()

		a.coord.DeleteNote(resolveNote(ctx, a, args[0]).ID)
	},
}

// resolveNote finds a note by exact id, unique id prefix, or exact
// title.
func resolveNote(ctx context.Context, a *app, ref string) record.Note {
	notes, err := a.store.Notes(ctx)
	if err != nil {
		fatalf("%v", err)
	}
	note, err := findNote(notes, ref)
	if err != nil {
		fatalf("%v", err)
	}
	return note
}

func findNote(notes []record.Note, ref string) (record.Note, error) {
	var matches []record.Note
	for _, n := range notes {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) || n.Title == ref {
			matches = append(matches, n)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return record.Note{}, fmt.Errorf("note reference %q is ambiguous", ref)
	}
	return record.Note{}, fmt.Errorf("no note matches %q", ref)
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteAddTitle, "title", "t", "", "note title")
	noteSecureCmd.Flags().BoolVar(&noteSecureOff, "off", false, "clear the secured flag")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteLsCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteSecureCmd)
	noteCmd.AddCommand(noteRmCmd)
}
