package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jaywantadh/midasclient/config"
	"github.com/jaywantadh/midasclient/internal/journal"
	"github.com/jaywantadh/midasclient/pkg/envelope"
	"github.com/jaywantadh/midasclient/pkg/historical"
	"github.com/jaywantadh/midasclient/pkg/logging"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "midas",
		Usage: "Move market data to and from the historical service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: ".",
				Usage: "directory holding config.yaml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "verbose text logging",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "print progress for every frame",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logging.InitLogger(true)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "upload",
				Usage: "Stream a local encoded record file to the service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				},
				Action: runUpload,
			},
			{
				Name:  "bulk",
				Usage: "Ingest a file already staged on the server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "path on the server"},
				},
				Action: runBulk,
			},
			{
				Name:    "download",
				Aliases: []string{"get"},
				Usage:   "Download records to a file",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "symbols", Required: true},
					&cli.StringFlag{Name: "start", Required: true, Usage: "ISO-8601, UTC when no zone is given"},
					&cli.StringFlag{Name: "end", Required: true},
					&cli.StringFlag{Name: "schema", Value: "mbp-1"},
					&cli.StringFlag{Name: "dataset"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true},
					&cli.BoolFlag{Name: "lz4", Usage: "write the payload as an lz4 frame"},
				},
				Action: runDownload,
			},
			{
				Name:   "history",
				Usage:  "List journaled transfers",
				Action: runHistory,
			},
		},
	}
}

func loadClient(c *cli.Context) (*historical.Client, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		logging.InitLogger(true)
	}

	var opts []historical.Option
	if c.Bool("progress") {
		out := c.App.ErrWriter
		opts = append(opts, historical.WithProgress(func(p historical.Progress) {
			fmt.Fprintln(out, p.String())
		}))
	}
	return historical.NewFromConfig(cfg, opts...)
}

// report prints the terminal envelope and turns a rejection into a non-zero
// exit.
func report[T any](w io.Writer, env envelope.Envelope[T]) error {
	fmt.Fprintln(w, env.String())
	if env.Failed() {
		return cli.Exit("", 1)
	}
	return nil
}

func runUpload(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	client, err := loadClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	env, err := client.CreateMbp(c.Context, data)
	if err != nil {
		return err
	}
	return report(c.App.Writer, env)
}

func runBulk(c *cli.Context) error {
	client, err := loadClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	env, err := client.CreateMbpFromFile(c.Context, c.String("path"))
	if err != nil {
		return err
	}
	return report(c.App.Writer, env)
}

func runDownload(c *cli.Context) error {
	params, err := historical.NewRetrieveParams(
		c.StringSlice("symbols"),
		c.String("start"),
		c.String("end"),
		c.String("schema"),
		c.String("dataset"),
	)
	if err != nil {
		return err
	}

	client, err := loadClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	out := c.String("out")
	var env envelope.Envelope[int64]
	if c.Bool("lz4") {
		env, err = client.GetRecordsToCompressedFile(c.Context, params, out)
	} else {
		env, err = client.GetRecordsToFile(c.Context, params, out)
	}
	if err != nil {
		return fmt.Errorf("%w (partial output may remain in %s)", err, out)
	}
	if !env.Failed() {
		fmt.Fprintf(c.App.Writer, "wrote %s to %s\n", humanize.Bytes(uint64(env.Data)), out)
	}
	return report(c.App.Writer, env)
}

func runHistory(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.JournalPath == "" {
		return cli.Exit("journal_path is not configured", 1)
	}

	store, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintln(c.App.Writer, formatRecord(r))
	}
	return nil
}

func formatRecord(r journal.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-30s %-8s %3d  %8s  %s",
		r.StartedAt.Format(time.DateTime), r.Op, r.Status, r.Code,
		humanize.Bytes(uint64(r.Bytes)), r.Target)
	if r.Message != "" {
		fmt.Fprintf(&b, "  %q", r.Message)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "  error: %s", r.Error)
	}
	return b.String()
}
