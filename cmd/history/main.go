package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-history/external/espn"
	"github.com/riskibarqy/league-history/internal/app"
	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/infrastructure/historical"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/usecase"
)

type options struct {
	startYear   int
	endYear     int
	seasonYear  int
	finishes    bool
	snapshotDir string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.startYear, "start", 0, "first season year (default DEFAULT_START_YEAR)")
	fs.IntVar(&opts.endYear, "end", 0, "last season year (default current year)")
	fs.IntVar(&opts.seasonYear, "season", 0, "print one canonical season record instead of stats")
	fs.BoolVar(&opts.finishes, "finishes", false, "print the finish summary instead of full stats")
	fs.StringVar(&opts.snapshotDir, "snapshot", "", "download raw ESPN documents for the range into this directory")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewConsole(cfg.LogLevel, stderr)
	defer func() { _ = logger.Sync() }()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Warn("close app components failed", "error", err)
		}
	}()

	svc := components.History
	if opts.seasonYear != 0 {
		record, err := svc.Season(ctx, opts.seasonYear)
		if err != nil {
			return err
		}
		return printJSON(stdout, record)
	}

	yearRange, err := svc.ResolveRange(opts.startYear, opts.endYear)
	if err != nil {
		return err
	}

	switch {
	case opts.snapshotDir != "":
		if components.ESPN == nil {
			return fmt.Errorf("LEAGUE_ID is required for -snapshot")
		}
		return snapshot(ctx, components.ESPN, opts.snapshotDir, yearRange, logger)
	case opts.finishes:
		result, err := svc.Finishes(ctx, yearRange)
		if err != nil {
			return err
		}
		return printJSON(stdout, result)
	default:
		result, err := svc.Stats(ctx, yearRange)
		if err != nil {
			return err
		}
		return printJSON(stdout, result)
	}
}

// snapshot writes every season ESPN still serves as season-YYYY.json so the
// static source can serve it later. Unavailable years are skipped.
func snapshot(ctx context.Context, client *espn.Client, dir string, r usecase.YearRange, logger *logging.Logger) error {
	written := 0
	for _, year := range r.Years() {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := client.FetchRaw(ctx, year)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("season not downloaded", "year", year, "error", err)
			continue
		}
		if _, err := espn.Decode(raw, year); err != nil {
			logger.Warn("season document does not decode, skipping", "year", year, "error", err)
			continue
		}

		path, err := historical.WriteRaw(dir, year, raw)
		if err != nil {
			return err
		}
		written++
		logger.Info("season saved", "year", year, "path", path, "bytes", len(raw))
	}

	if written == 0 {
		return fmt.Errorf("%w: no season between %d and %d could be downloaded", season.ErrSourceUnavailable, r.StartYear, r.EndYear)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
