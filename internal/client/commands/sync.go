package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"notasapp/internal/client/app"
)

func (e *Env) syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Send pending notes and categories to the remote API",
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			if c.Bool(flagOffline) {
				return cli.Exit(app.ErrOffline.Error(), 1)
			}
			if !client.Auth.IsAuthenticated() {
				return cli.Exit(app.ErrNotAuthenticated.Error()+": run 'notas login'", 1)
			}

			// Переход в online сам запускает синхронизацию pending-изменений.
			if err := client.Sync.Probe(c.Context); err != nil && !errors.Is(err, app.ErrSyncInProgress) {
				return cli.Exit(err.Error(), 1)
			}
			if !client.Sync.IsOnline() {
				return cli.Exit(app.ErrOffline.Error(), 1)
			}

			pending, err := client.Sync.CheckPending(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			// Если синхронизацию уже выполнил переход в online, повтор не нужен.
			if pending > 0 && client.Sync.Status().State != app.StateSuccess {
				report, err := client.Sync.SyncNow(c.Context)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				fmt.Fprintf(out(c), "notes: %d/%d acknowledged, categories: %d/%d acknowledged\n",
					report.NotesAcknowledged, report.NotesSent,
					report.CategoriesAcknowledged, report.CategoriesSent)
			}

			st := client.Sync.Status()
			fmt.Fprintf(out(c), "state: %s, pending: %d\n",
				paint(c, stateColor(st.State), string(st.State)), st.PendingChanges)
			return nil
		}),
	}
}

func (e *Env) statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show connectivity and pending changes",
		Action: e.clientAction(true, func(c *cli.Context, client *app.Client) error {
			if _, err := client.Sync.CheckPending(c.Context); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			st := client.Sync.Status()
			enc := json.NewEncoder(out(c))
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				app.SyncStatus
				Authenticated bool `json:"authenticated"`
			}{st, client.Auth.IsAuthenticated()})
		}),
	}
}
