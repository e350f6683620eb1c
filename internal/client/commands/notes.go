package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"notasapp/internal/client/app"
	"notasapp/internal/client/domain/entities"
)

func (e *Env) noteCommand() *cli.Command {
	return &cli.Command{
		Name:    "note",
		Aliases: []string{"n"},
		Usage:   "Manage notes",
		Subcommands: []*cli.Command{
			e.noteAddCmd(),
			e.noteListCmd(),
			e.noteShowCmd(),
			e.noteEditCmd(),
			e.noteToggleCmd("favorite", "Toggle the favorite flag", (*app.NoteUseCase).ToggleFavorite),
			e.noteToggleCmd("archive", "Toggle the archive flag", (*app.NoteUseCase).ToggleArchive),
			e.noteToggleCmd("trash", "Move a note to the trash", (*app.NoteUseCase).MoveToTrash),
			e.noteToggleCmd("restore", "Restore a note from the trash", (*app.NoteUseCase).RestoreFromTrash),
			e.noteToggleCmd("delete", "Delete a note permanently", (*app.NoteUseCase).Delete),
			e.noteEmptyTrashCmd(),
		},
	}
}

func (e *Env) noteAddCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create a note",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}},
			&cli.StringSliceFlag{Name: "tag", Usage: "tag (repeatable)"},
			&cli.StringSliceFlag{Name: "category", Usage: "category id (repeatable)"},
			&cli.StringSliceFlag{Name: "task", Usage: "task item text; makes the note a task list"},
			&cli.BoolFlag{Name: "quick", Usage: "quick note, expires after 5 days"},
			&cli.BoolFlag{Name: "favorite"},
		},
		Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
			now := time.Now()
			var items []entities.TaskItem
			for i, text := range c.StringSlice("task") {
				items = append(items, entities.TaskItem{
					ID:        fmt.Sprintf("task-%d-%d", now.UnixMilli(), i),
					Text:      text,
					CreatedAt: now,
				})
			}

			note, err := client.Notes.Add(c.Context, entities.NewNoteParams{
				Title:       c.String("title"),
				Content:     c.String("content"),
				Tags:        c.StringSlice("tag"),
				Categories:  c.StringSlice("category"),
				IsTask:      len(items) > 0,
				TaskItems:   items,
				IsFavorite:  c.Bool("favorite"),
				IsQuickNote: c.Bool("quick"),
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			fmt.Fprintf(out(c), "created %s (%s)\n", note.ID,
				paint(c, syncStatusColor(note.SyncStatus), string(note.SyncStatus)))
			return nil
		}),
	}
}

func (e *Env) noteListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List notes of a category or built-in filter",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "category id or filter (all, favorites, tasks, ideas, quick-notes, archive, trash)"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
			&cli.BoolFlag{Name: "json"},
		},
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			notes := client.Notes.List(c.String("category"), c.String("query"))

			if c.Bool("json") {
				enc := json.NewEncoder(out(c))
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}

			if len(notes) == 0 {
				fmt.Fprintln(out(c), "No notes found.")
				return nil
			}

			w := tabwriter.NewWriter(out(c), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tFLAGS\tUPDATED\tSYNC")
			for _, n := range notes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					n.ID, truncate(n.Title, 40), flags(n),
					n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.SyncStatus)
			}
			return w.Flush()
		}),
	}
}

func (e *Env) noteShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a note as JSON",
		ArgsUsage: "<note-id>",
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			id, err := requireArg(c, "note id")
			if err != nil {
				return err
			}
			note, ok := client.Notes.Get(id)
			if !ok {
				return cli.Exit("note not found: "+id, 1)
			}
			enc := json.NewEncoder(out(c))
			enc.SetIndent("", "  ")
			return enc.Encode(note)
		}),
	}
}

func (e *Env) noteEditCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change title, content, tags or categories",
		ArgsUsage: "<note-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}},
			&cli.StringSliceFlag{Name: "tag"},
			&cli.StringSliceFlag{Name: "category"},
		},
		Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
			id, err := requireArg(c, "note id")
			if err != nil {
				return err
			}
			note, ok := client.Notes.Get(id)
			if !ok {
				return cli.Exit("note not found: "+id, 1)
			}

			if c.IsSet("title") {
				note.Title = c.String("title")
			}
			if c.IsSet("content") {
				note.Content = c.String("content")
			}
			if c.IsSet("tag") {
				note.Tags = c.StringSlice("tag")
			}
			if c.IsSet("category") {
				note.Categories = c.StringSlice("category")
			}

			if _, err := client.Notes.Update(c.Context, note); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out(c), "updated %s\n", id)
			return nil
		}),
	}
}

func (e *Env) noteToggleCmd(name, usage string, fn func(*app.NoteUseCase, context.Context, string) (bool, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<note-id>",
		Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
			id, err := requireArg(c, "note id")
			if err != nil {
				return err
			}
			ok, err := fn(client.Notes, c.Context, id)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !ok {
				return cli.Exit("note not found: "+id, 1)
			}
			fmt.Fprintf(out(c), "%s: %s\n", name, id)
			return nil
		}),
	}
}

func (e *Env) noteEmptyTrashCmd() *cli.Command {
	return &cli.Command{
		Name:  "empty-trash",
		Usage: "Delete every note in the trash",
		Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
			n, err := client.Notes.EmptyTrash(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out(c), "removed %d notes\n", n)
			return nil
		}),
	}
}

func flags(n entities.Note) string {
	var f []string
	if n.IsFavorite {
		f = append(f, "fav")
	}
	if n.IsTask {
		f = append(f, "task")
	}
	if n.IsQuickNote {
		f = append(f, "quick")
	}
	if n.IsArchived {
		f = append(f, "archived")
	}
	if n.IsInTrash {
		f = append(f, "trash")
	}
	return strings.Join(f, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
