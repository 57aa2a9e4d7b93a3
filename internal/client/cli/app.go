package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/lightbox/internal/client/api"
	"github.com/dmitrijs2005/lightbox/internal/client/config"
)

var ErrUnknownCommand = errors.New("unknown command")

// APIClient is the REST surface the commands use. *api.Client satisfies it.
type APIClient interface {
	Register(ctx context.Context, username string, password []byte) (*api.User, error)
	Login(ctx context.Context, username string, password []byte) (*api.LoginResponse, error)
	Me(ctx context.Context, token string) (*api.User, error)
}

type App struct {
	config *config.Config
	api    APIClient
	reader *bufio.Reader
	out    io.Writer

	// checkHealth defaults to api.CheckHealth.
	checkHealth func(ctx context.Context, addr, service string) (string, error)
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		checkHealth: func(ctx context.Context, addr, service string) (string, error) {
			return api.CheckHealth(ctx, addr, service)
		},
	}
}

// Command returns the first positional argument, skipping flags and their
// values. Every flag the admin tool knows takes a value.
func Command(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return ""
}

// Run executes a single command.
func (a *App) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "health":
		return a.Health(ctx)
	case "", "help":
		fmt.Fprintln(a.out, "Available commands: register, login, whoami, health")
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}
