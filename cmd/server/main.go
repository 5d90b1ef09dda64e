package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/clan-service/app"
	"github.com/Black-And-White-Club/clan-service/app/modules/auth"
	"github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/presence"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/clan-service/config"
	"github.com/Black-And-White-Club/clan-service/db/bundb"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "clan-service",
		Usage: "clan membership HTTP service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server and the admin command stream",
				Action: serve,
			},
			{
				Name:  "token",
				Usage: "issue a bearer token for an existing user",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user-id", Required: true, Usage: "user id to encode in the token"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
				},
				Action: issueToken,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application := &app.App{}
	if err := application.Initialize(ctx, cfg); err != nil {
		_ = application.Close(context.Background())
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run(ctx)
}

func issueToken(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obs, err := observability.New(c.Context, observability.Config{
		ServiceName: "clan-service-cli",
		Environment: cfg.Observability.Environment,
		LogLevel:    "warn",
	})
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	db, err := bundb.Open(c.Context, cfg.Postgres, obs.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	authModule := auth.NewModule(c.Context, cfg, obs, userdb.NewRepository(db), presence.NoopStore{})
	token, err := authModule.GetService().IssueToken(c.Context, c.Int64("user-id"), c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(c.App.Writer, token)
	return nil
}
