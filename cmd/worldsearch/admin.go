package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/worldsearch/internal/config"
	"github.com/kailas-cloud/worldsearch/internal/db/postgres"
	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	worldsearch "github.com/kailas-cloud/worldsearch/pkg/sdk"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the pg_trgm extension, worlds table, indexes and functions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the schema DDL instead of applying it",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("print") {
				fmt.Print(postgres.Schema())
				return nil
			}
			return withClient(func(ctx context.Context, _ *cli.Command, client *worldsearch.Client) error {
				if err := client.Migrate(ctx); err != nil {
					return err
				}
				fmt.Println(successStyle.Render("schema applied"))
				return nil
			})(ctx, c)
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show row count and storage sizes",
		Action: withClient(func(ctx context.Context, _ *cli.Command, client *worldsearch.Client) error {
			s, err := client.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Print(formatStats(s))
			return nil
		}),
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Insert synthetic records",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   fmt.Sprintf("Number of records (%d..%d)", domadmin.MinGenerateCount, domadmin.MaxGenerateCount),
				Value:   domadmin.DefaultGenerateCount,
			},
		},
		Action: withClient(func(ctx context.Context, c *cli.Command, client *worldsearch.Client) error {
			res, err := client.Generate(ctx, c.Int("count"))
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("inserted %d records", res.InsertedCount)) +
				" " + metaStyle.Render(formatMs(res.ExecutionTimeMs)))
			return nil
		}),
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every record and vacuum the table",
		Action: withClient(func(ctx context.Context, _ *cli.Command, client *worldsearch.Client) error {
			res, err := client.Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("deleted %d records", res.DeletedCount)) +
				" " + metaStyle.Render(formatMs(res.ExecutionTimeMs)))
			if res.VacuumErr != nil {
				fmt.Println(warnStyle.Render("vacuum failed: " + res.VacuumErr.Error()))
			} else {
				fmt.Println(metaStyle.Render(fmt.Sprintf("vacuum took %d ms", res.VacuumTimeMs)))
			}
			return nil
		}),
	}
}

func rebuildIndexesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rebuild-indexes",
		Usage: "Rebuild the trigram indexes",
		Action: withClient(func(ctx context.Context, _ *cli.Command, client *worldsearch.Client) error {
			res, err := client.RebuildIndexes(ctx)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render("indexes "+res.Status) + " " + metaStyle.Render(formatMs(res.ExecutionTimeMs)))
			return nil
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a fuzzy title search",
		ArgsUsage: "<query>",
		Action: withClient(func(ctx context.Context, c *cli.Command, client *worldsearch.Client) error {
			q := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(q) == "" {
				return fmt.Errorf("query is required")
			}
			res, err := client.Search(ctx, q)
			if err != nil {
				return err
			}
			fmt.Print(formatSearch(res))
			return nil
		}),
	}
}

type clientAction func(ctx context.Context, c *cli.Command, client *worldsearch.Client) error

// withClient loads config, opens an SDK client for the duration of the action and closes it after.
func withClient(fn clientAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		client, err := worldsearch.New(ctx, clientOptions(cfg)...)
		if err != nil {
			return err
		}
		defer client.Close()

		return fn(ctx, c, client)
	}
}

func clientOptions(cfg config.Config) []worldsearch.Option {
	d := cfg.Database
	opts := []worldsearch.Option{
		worldsearch.WithDatabase(d.Host, d.Port, d.Name, d.User, d.Password),
		worldsearch.WithSSLMode(d.SSLMode),
		worldsearch.WithPool(
			int32(d.MaxConns), int32(d.MinConns), //nolint:gosec // validated against small bounds
			d.ConnectTimeout(), d.IdleTimeout(),
		),
		worldsearch.WithReadinessTimeout(time.Duration(d.ReadinessTimeout) * time.Second),
		worldsearch.WithThresholds(cfg.Search.SimilarityThreshold, cfg.Search.WordSimilarityThreshold),
		worldsearch.WithSearchLimit(cfg.Search.Limit, cfg.Search.MinScore),
	}
	if l := cfg.Admin.Lock; l.Driver == "redis" && len(l.Addrs) > 0 {
		opts = append(opts, worldsearch.WithRedisLock(l.Addrs[0], l.Password, time.Duration(l.TTLSec)*time.Second))
	}
	return opts
}
