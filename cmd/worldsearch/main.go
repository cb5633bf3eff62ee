package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/worldsearch/internal/config"
	"github.com/kailas-cloud/worldsearch/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "worldsearch",
		Usage:   "Fuzzy title search over PostgreSQL pg_trgm",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name used to locate config/<env>.yaml",
				Value:   "local",
				Sources: cli.EnvVars("ENV"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Explicit configuration file path (overrides --env lookup)",
				Sources: cli.EnvVars("WORLDSEARCH_CONFIG"),
			},
		},
		Action: serveAction(false),
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			statsCommand(),
			generateCommand(),
			clearCommand(),
			rebuildIndexesCommand(),
			searchCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from --config or, failing that, --env.
func loadConfig(c *cli.Command) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load(c.String("env"))
}
