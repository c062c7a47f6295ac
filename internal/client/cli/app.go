package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/config"
	"github.com/dmitrijs2005/authportal/internal/client/flow"
	"github.com/dmitrijs2005/authportal/internal/client/models"
	"github.com/dmitrijs2005/authportal/internal/client/session"
	"github.com/dmitrijs2005/authportal/internal/logging"
)

type App struct {
	config   *config.Config
	api      client.Client
	store    *session.Store
	login    *flow.LoginFlow
	register *flow.RegisterFlow
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu    sync.Mutex
	email string
}

func NewApp(cfg *config.Config, api client.Client, store *session.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:   cfg,
		api:      api,
		store:    store,
		login:    flow.NewLoginFlow(api, store, cfg.ClientURL, log),
		register: flow.NewRegisterFlow(api, cfg.ClientURL, log),
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}

	a.setUser(store.Current())
	store.Subscribe(a.setUser)
	return a
}

// Run refreshes the session if configured to, then serves the REPL until
// the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.say("Welcome to authportal CLI (type 'help' for commands)")

	if a.config.RefreshOnStart {
		if _, err := a.store.Refresh(ctx, a.api.CurrentUser); err != nil {
			a.log.Debug(ctx, "session refresh on start failed", "error", err)
		}
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if u == nil {
		a.email = ""
		return
	}
	a.email = u.Email
}

func (a *App) isLoggedIn() bool {
	return a.store.LoggedIn()
}

// status is shown in the prompt, e.g. "(ann@example.com) ".
func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.email)
}

func (a *App) say(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
