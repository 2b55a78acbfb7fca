package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	internalcli "github.com/vegana/shop/internal/cli"
	"github.com/vegana/shop/internal/config"
	"github.com/vegana/shop/internal/database"
	"github.com/vegana/shop/internal/suite"
)

var version = "0.1.0"

// connect opens the configured database and brings its schema up to date.
func connect(ctx context.Context, log logrus.FieldLogger, seed bool) error {
	dbConfig, err := config.LoadDatabaseConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("missing required database configuration: %w", err)
	}
	if err := database.Connect(dbConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.WithField("driver", dbConfig.Driver).Info("Connected to database successfully")

	if err := database.RunMigrations(ctx, log); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	if seed {
		if err := database.Seed(ctx, database.DB); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		log.Info("Demo catalog and account seeded")
	}
	return nil
}

// ServeCommand returns the serve command
func ServeCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the storefront web server",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Value: true, Usage: "insert the demo catalog and account"},
		},
		Action: func(c *cli.Context) error {
			if err := connect(c.Context, log, c.Bool("seed")); err != nil {
				return err
			}
			defer database.Close()

			serverConfig, err := config.LoadServerConfig(os.Getenv)
			if err != nil {
				return err
			}
			deps, err := internalcli.BuildServerDependencies(database.DB, serverConfig, log)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

// MigrateCommand returns the migrate command
func MigrateCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the database schema",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "also insert the demo catalog and account"},
		},
		Action: func(c *cli.Context) error {
			if err := connect(c.Context, log, c.Bool("seed")); err != nil {
				return err
			}
			return database.Close()
		},
	}
}

// E2ECommand returns the e2e command. Flags override E2E_* variables.
func E2ECommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "e2e",
		Usage:     "Run the storefront browser scenarios",
		ArgsUsage: "[scenario...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "storefront URL"},
			&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.DurationFlag{Name: "slow-mo", Usage: "delay between browser operations"},
			&cli.StringFlag{Name: "screenshots", Usage: "directory for failure screenshots"},
			&cli.DurationFlag{Name: "wait-timeout", Usage: "ceiling for every wait"},
			&cli.StringFlag{Name: "username", Usage: "customer ID used by the login scenarios"},
			&cli.StringFlag{Name: "password", Usage: "password for --username"},
			&cli.StringFlag{Name: "product", Usage: "product ID used by the cart scenarios"},
			&cli.StringSliceFlag{Name: "scenario", Aliases: []string{"s"}, Usage: "run only the named scenario (repeatable)"},
			&cli.BoolFlag{Name: "list", Usage: "list the scenarios and exit"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("list") {
				for _, name := range suite.Names() {
					fmt.Fprintln(c.App.Writer, name)
				}
				return nil
			}

			cfg, err := config.LoadE2EConfig(os.LookupEnv)
			if err != nil {
				return err
			}
			if c.IsSet("base-url") {
				cfg.BaseURL = c.String("base-url")
			}
			if c.IsSet("browser") {
				cfg.Browser = c.String("browser")
			}
			if c.IsSet("headed") {
				cfg.Headless = !c.Bool("headed")
			}
			if c.IsSet("slow-mo") {
				cfg.SlowMo = c.Duration("slow-mo")
			}
			if c.IsSet("screenshots") {
				cfg.ScreenshotDir = c.String("screenshots")
			}
			if c.IsSet("wait-timeout") {
				cfg.WaitTimeout = c.Duration("wait-timeout")
			}
			if c.IsSet("username") {
				cfg.Username = c.String("username")
			}
			if c.IsSet("password") {
				cfg.Password = c.String("password")
			}
			if c.IsSet("product") {
				cfg.ProductID = c.String("product")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			names := append(c.StringSlice("scenario"), c.Args().Slice()...)
			_, err = internalcli.RunE2E(c.Context, cfg, names, c.App.Writer, log)
			return err
		},
	}
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	log, err := config.LoadLogConfig(os.Getenv).Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "vegana",
		Usage:   "Vegana storefront and its browser scenarios",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(log),
			MigrateCommand(log),
			E2ECommand(log),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.WithError(err).Error("Command failed")
		stop()
		os.Exit(1)
	}
}
