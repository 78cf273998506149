package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"

	"github.com/opst/orcaobra/pkg/buildtime"
	"github.com/opst/orcaobra/pkg/domain/orcaobra/db/postgres"
	"github.com/opst/orcaobra/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Host     string `flag:"host" help:"The host of the database."`
	Port     int    `flag:"port" help:"The port of the database."`
	User     string `flag:"user" help:"The user of the database."`
	Password string `flag:"pass" help:"The password of the database."`
	Database string `flag:"database" help:"The name of the database."`

	Schema string `flag:"schema" help:"The path to the schema repository directory."`
	DryRun bool   `flag:"dry-run" help:"Print the upgrade to be done, without applying it."`
}

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		p, err := strconv.Atoi(sp)
		if err == nil {
			port = p
		}
	}
	schema := os.Getenv("ORCAOBRA_SCHEMA")
	if schema == "" {
		schema = "./schema/postgres"
	}

	cmd := try.To(flarc.NewCommand(
		"database schema upgrader",
		Flag{
			Host:     os.Getenv("DB_HOST"),
			Port:     port,
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_NAME"),

			Schema: schema,
		},
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[Flag], a []any) error {
			flags := c.Flags()

			uri := url.URL{
				Scheme: "postgres",
				User:   url.UserPassword(flags.User, flags.Password),
				Host:   fmt.Sprintf("%s:%d", flags.Host, flags.Port),
				Path:   "/" + flags.Database,
			}
			db, err := postgres.New(ctx, uri.String(), postgres.WithSchemaRepository(flags.Schema))
			if err != nil {
				return err
			}
			defer db.Close()

			current, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}
			latest, err := db.Schema().Latest()
			if err != nil {
				return err
			}
			logger.Printf("schema_upgrader %s", buildtime.String())
			logger.Printf("schema version: %d (database), %d (repository)", current, latest)
			if latest <= current {
				logger.Println("nothing to do.")
				return nil
			}
			if flags.DryRun {
				fmt.Fprintf(c.Stdout(), "%d -> %d\n", current, latest)
				return nil
			}

			applied, err := db.Schema().Upgrade(ctx)
			for _, v := range applied {
				logger.Printf("applied version %d", v)
			}
			return err
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}
