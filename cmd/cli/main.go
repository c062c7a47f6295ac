package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authportal/internal/buildinfo"
	"github.com/dmitrijs2005/authportal/internal/client/cli"
	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/config"
	"github.com/dmitrijs2005/authportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authportal/internal/client/session"
	"github.com/dmitrijs2005/authportal/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "authportal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	repo := metadata.NewSQLiteRepository(db)

	jar, err := client.NewPersistentJar(ctx, cfg.APIRoot(), repo)
	if err != nil {
		return fmt.Errorf("restore cookies: %w", err)
	}

	gw := client.NewGateway(cfg.APIRoot(),
		client.WithTimeout(cfg.RequestTimeout),
		client.WithDevMode(cfg.Dev),
		client.WithLogger(log),
		client.WithCookieJar(jar),
	)
	api := client.NewRESTClient(gw)

	store, err := session.New(ctx, repo, log, session.WithClearHook(jar.Reset))
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	log.Debug(ctx, "starting", "api", gw.BaseURL(), "database", cfg.DatabasePath)

	return cli.NewApp(cfg, api, store, log, in, out).Run(ctx)
}
