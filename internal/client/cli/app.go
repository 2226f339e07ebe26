package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
)

type App struct {
	config *config.Config
	api    client.Client
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    client.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run blocks until the user exits or stdin is closed. A session still open
// at that point is logged out.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to notekeeper CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		a.println("Warning: server is not reachable:", err)
	}

	runREPL(ctx, a, a.status, a.reader)

	if a.isLoggedIn() {
		_ = a.Logout(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	return "(" + a.email + ") "
}
