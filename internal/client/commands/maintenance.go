package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"notasapp/internal/client/app"
	"notasapp/pkg/logger"
	"notasapp/pkg/shutdown"
)

func (e *Env) backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Export or import all local data",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write a backup file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "file path, stdout when empty"},
				},
				Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
					var w io.Writer = out(c)
					if path := c.String("out"); path != "" {
						f, err := os.Create(path)
						if err != nil {
							return cli.Exit(err.Error(), 1)
						}
						defer f.Close()
						w = f
					}
					if err := client.Backup.Export(c.Context, w); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return nil
				}),
			},
			{
				Name:      "import",
				Usage:     "Replace local data with a backup file",
				ArgsUsage: "<file>",
				Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
					path, err := requireArg(c, "backup file")
					if err != nil {
						return err
					}
					f, err := os.Open(path)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer f.Close()

					if err := client.Backup.Import(c.Context, f); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintln(out(c), "backup imported")
					return nil
				}),
			},
		},
	}
}

func (e *Env) sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Trash expired quick notes and purge old trash now",
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			res, err := client.Sweeper.Run(c.Context, time.Now())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out(c), "trashed %d, removed %d\n", len(res.Trashed), len(res.Removed))
			return nil
		}),
	}
}

func (e *Env) resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Erase all local data and seed defaults again",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "confirm"},
		},
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			if !c.Bool("yes") {
				return cli.Exit("refusing to reset without --yes", 2)
			}
			if err := client.Bootstrap.Reset(c.Context); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(out(c), "local data reset")
			return nil
		}),
	}
}

func (e *Env) daemonCommand() *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Run background jobs: expiry sweep, pending check and connectivity probe",
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			ctx := c.Context
			log := logger.Log(ctx)
			sc := e.Config.Scheduler

			iv := app.Intervals{
				Sweep:        sc.SweepInterval,
				PendingCheck: sc.PendingCheckInterval,
			}
			if !c.Bool(flagOffline) {
				iv.Probe = sc.ProbeInterval
			}

			runCtx, cancel := context.WithCancel(ctx)
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				client.Scheduler(iv).Run(runCtx, sc.TickEvery)
			}()
			go func() {
				defer wg.Done()
				err := client.WatchStore(runCtx, sc.WatchDebounce)
				switch {
				case errors.Is(err, app.ErrWatchUnsupported):
					log.Debug(ctx, "store change notifications unavailable")
				case err != nil:
					log.Warn(ctx, "store watcher stopped", zap.Error(err))
				}
			}()

			log.Info(ctx, "daemon started",
				zap.Duration("sweep", iv.Sweep),
				zap.Duration("pending_check", iv.PendingCheck),
				zap.Duration("probe", iv.Probe))

			shutdown.Wait(ctx, e.Config.Shutdown.GetTimeout(), func(context.Context) error {
				cancel()
				wg.Wait()
				return nil
			})
			cancel()
			return nil
		}),
	}
}
