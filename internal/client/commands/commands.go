// Package commands содержит команды CLI клиента заметок.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"notasapp/internal/client/adapters/remote"
	"notasapp/internal/client/app"
	"notasapp/internal/client/config"
	"notasapp/internal/client/domain/entities"
	remoteport "notasapp/internal/client/ports/remote"
	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

// Version задается при сборке через ldflags.
var Version = "dev"

const flagOffline = "offline"

// Env - зависимости команд. Пустые поля заменяются реализациями по умолчанию.
type Env struct {
	Config       *config.Config
	OpenStore    func(ctx context.Context, cfg *config.Config) (store.BlobStore, error)
	NewRemote    func(cfg *config.Config) remoteport.Remote
	ReadPassword func(prompt string) (string, error)
	Options      []app.Option
}

func (e *Env) defaults() {
	if e.OpenStore == nil {
		e.OpenStore = OpenStore
	}
	if e.NewRemote == nil {
		e.NewRemote = func(cfg *config.Config) remoteport.Remote {
			return remote.NewResilient(
				remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout),
				cfg.Remote.GetBreakerConfig(),
				cfg.Remote.GetRetryConfig(),
			)
		}
	}
	if e.ReadPassword == nil {
		e.ReadPassword = readTerminalPassword
	}
}

// NewApp собирает CLI.
func NewApp(env *Env) *cli.App {
	env.defaults()

	return &cli.App{
		Name:    "notas",
		Usage:   "local-first notes with optional sync",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagOffline,
				Usage: "do not contact the remote API",
			},
		},
		Commands: []*cli.Command{
			env.noteCommand(),
			env.categoryCommand(),
			env.syncCommand(),
			env.statusCommand(),
			env.loginCommand(),
			env.registerCommand(),
			env.logoutCommand(),
			env.whoamiCommand(),
			env.backupCommand(),
			env.sweepCommand(),
			env.resetCommand(),
			env.daemonCommand(),
		},
	}
}

// clientAction открывает клиента, при необходимости проверяет сеть и
// закрывает хранилище после выполнения fn.
func (e *Env) clientAction(probe bool, fn func(c *cli.Context, client *app.Client) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := c.Context
		log := logger.Log(ctx).With(zap.String("command", c.Command.FullName()))

		s, err := e.OpenStore(ctx, e.Config)
		if err != nil {
			return cli.Exit(fmt.Sprintf("open store: %v", err), 1)
		}

		client := app.NewClient(s, e.NewRemote(e.Config),
			append([]app.Option{app.WithRequestTimeout(e.Config.Remote.Timeout)}, e.Options...)...)
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn(ctx, "failed to close client", zap.Error(err))
			}
		}()

		if err := client.Open(ctx); err != nil {
			return cli.Exit(fmt.Sprintf("open client: %v", err), 1)
		}

		if probe && !c.Bool(flagOffline) && client.Auth.IsAuthenticated() {
			if err := client.Sync.Probe(ctx); err != nil {
				log.Warn(ctx, "connectivity probe failed", zap.Error(err))
			}
		}

		return fn(c, client)
	}
}

func requireArg(c *cli.Context, name string) (string, error) {
	arg := strings.TrimSpace(c.Args().First())
	if arg == "" {
		return "", cli.Exit(name+" is required", 2)
	}
	return arg, nil
}

func out(c *cli.Context) io.Writer {
	return c.App.Writer
}

func readTerminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password is required")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pass), nil
}

// paint окрашивает s, только если вывод идет в терминал и цвет не отключен NO_COLOR.
func paint(c *cli.Context, attr color.Attribute, s string) string {
	f, ok := c.App.Writer.(*os.File)
	if color.NoColor || !ok || !term.IsTerminal(int(f.Fd())) {
		return s
	}
	return color.New(attr).Sprint(s)
}

// stateColor выбирает цвет состояния синхронизации.
func stateColor(state app.SyncState) color.Attribute {
	switch state {
	case app.StateSuccess:
		return color.FgGreen
	case app.StateError:
		return color.FgRed
	case app.StateSyncing:
		return color.FgCyan
	default:
		return color.FgYellow
	}
}

func syncStatusColor(s entities.SyncStatus) color.Attribute {
	if s == entities.SyncSynced {
		return color.FgGreen
	}
	return color.FgYellow
}
