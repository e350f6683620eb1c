package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"notasapp/internal/client/app"
	"notasapp/internal/client/domain/entities"
)

func (e *Env) categoryCommand() *cli.Command {
	return &cli.Command{
		Name:    "category",
		Aliases: []string{"cat"},
		Usage:   "Manage categories",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List categories",
				Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
					w := tabwriter.NewWriter(out(c), 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tCOLOR\tDEFAULT\tSYNC")
					for _, cat := range client.Categories.List() {
						fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", cat.ID, cat.Name, cat.Color, cat.IsDefault, cat.SyncStatus)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "add",
				Usage:     "Create a category",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Value: "#6b7280"},
				},
				Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
					name, err := requireArg(c, "category name")
					if err != nil {
						return err
					}
					cat, err := client.Categories.Add(c.Context, name, c.String("color"))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintf(out(c), "created %s\n", cat.ID)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Rename or recolor a category",
				ArgsUsage: "<category-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "color"},
					&cli.StringFlag{Name: "icon"},
				},
				Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
					id, err := requireArg(c, "category id")
					if err != nil {
						return err
					}
					var patch entities.CategoryPatch
					for flag, dst := range map[string]**string{"name": &patch.Name, "color": &patch.Color, "icon": &patch.Icon} {
						if c.IsSet(flag) {
							v := c.String(flag)
							*dst = &v
						}
					}
					ok, err := client.Categories.Update(c.Context, id, patch)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if !ok {
						return cli.Exit("category not found: "+id, 1)
					}
					fmt.Fprintf(out(c), "updated %s\n", id)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a category and detach it from notes",
				ArgsUsage: "<category-id>",
				Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
					id, err := requireArg(c, "category id")
					if err != nil {
						return err
					}
					ok, err := client.Categories.Delete(c.Context, id)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if !ok {
						return cli.Exit("category not found: "+id, 1)
					}
					fmt.Fprintf(out(c), "deleted %s\n", id)
					return nil
				}),
			},
		},
	}
}
