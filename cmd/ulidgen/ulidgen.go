package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"ulidgen.io/internal/selftest"
	"ulidgen.io/pkg/log"
	"ulidgen.io/pkg/ulid"
	"ulidgen.io/pkg/version"
)

const envPrefix = "ULIDGEN"

type cliFlags struct {
	debug  bool
	json   bool
	test   bool
	count  int
	format string
}

func ulidgen(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		logger      log.Logger
		ctx, cancel = context.WithCancel(context.Background())
		cli         = &cliFlags{}
		rootfs      = flag.NewFlagSet("ulidgen", flag.ContinueOnError)
		_           = rootfs.String("config", "", "Path to config file (optional)")
	)
	defer cancel()

	rootfs.BoolVar(&cli.debug, "debug", false, "Allow debug level")
	rootfs.BoolVar(&cli.json, "json", false, "Log in JSON instead of logfmt")
	rootfs.BoolVar(&cli.test, "test", false, "Validate a generated id instead of printing it")
	rootfs.IntVar(&cli.count, "n", 1, "Number of ids to generate")
	rootfs.StringVar(&cli.format, "format", "text", "Output format: text, uuid or hex")

	// default output is os.Stderr.
	// setting the output and flag.ContinueOnError overrides allows testing usage.
	rootfs.SetOutput(stderr)

	versionfs := flag.NewFlagSet("ulidgen version", flag.ContinueOnError)
	full := versionfs.Bool("full", false, "Include build and module information")
	versionfs.SetOutput(stderr)

	versionCmd := &ffcli.Command{
		Name:       "version",
		ShortUsage: "version [-full]",
		ShortHelp:  "Print version information.",
		FlagSet:    versionfs,
		Exec: func(_ context.Context, args []string) error {
			if *full {
				return version.PrintFull(stdout)
			}
			version.Print(stdout)
			return nil
		},
	}

	parsefs := flag.NewFlagSet("ulidgen parse", flag.ContinueOnError)
	parsefs.SetOutput(stderr)

	parseCmd := &ffcli.Command{
		Name:       "parse",
		ShortUsage: "parse <ulid> [<ulid> ...]",
		ShortHelp:  "Decode ids and print their timestamp and randomness.",
		FlagSet:    parsefs,
		Exec: func(_ context.Context, args []string) error {
			return parse(args, stdout)
		},
	}

	stressfs := flag.NewFlagSet("ulidgen stress", flag.ContinueOnError)
	workers := stressfs.Int("workers", runtime.NumCPU(), "Number of goroutines sharing one factory")
	perWorker := stressfs.Int("count", 10000, "Ids generated by each worker")
	stressfs.SetOutput(stderr)

	stressCmd := &ffcli.Command{
		Name:       "stress",
		ShortUsage: "stress [-workers N] [-count N]",
		ShortHelp:  "Generate ids concurrently from one factory and verify their order.",
		FlagSet:    stressfs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, args []string) error {
			return stress(ctx, *workers, *perWorker, stdout)
		},
	}

	// add a help subcommand to make usage more discoverable.
	helpCmd := &ffcli.Command{
		Name:      "help",
		ShortHelp: "Print this help text.",
		UsageFunc: func(c *ffcli.Command) string { return "" },
		Exec: func(_ context.Context, args []string) error {
			rootfs.Usage()
			return flag.ErrHelp
		},
	}

	root := &ffcli.Command{
		ShortUsage:  "ulidgen [flags] [<subcommand>]",
		FlagSet:     rootfs,
		Options:     []ff.Option{ff.WithEnvVarPrefix(envPrefix), ff.WithConfigFileParser(ff.PlainParser), ff.WithConfigFileFlag("config")},
		Subcommands: []*ffcli.Command{helpCmd, versionCmd, parseCmd, stressCmd},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown subcommand %q", args[0])
			}

			if cli.test {
				return validate(ctx, stdout)
			}
			return generate(ctx, cli, stdout)
		},
	}

	err := root.Parse(args[1:])

	logOpts := []log.Option{log.Output(stderr), log.Context(ctx)}
	if cli.debug {
		logOpts = append(logOpts, log.StartDebug())
	}
	if cli.json {
		logOpts = append(logOpts, log.JSON())
	}
	logger = log.New(logOpts...)

	if err == nil {
		ctx, err = setup(ctx, logger)
	}
	if err == nil {
		err = root.Run(ctx)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	default:
		log.Info(logger).Log("exit", err)
		return 1
	}
}

// setup gives the invocation its own factory, logger and run ID.
func setup(ctx context.Context, logger log.Logger) (context.Context, error) {
	ctx = ulid.NewContext(ctx, ulid.NewFactory())
	ctx, err := log.NewRunContext(ctx)
	if err != nil {
		return ctx, fmt.Errorf("create run id: %w", err)
	}
	return log.NewContext(ctx, logger), nil
}

// generate writes cli.count ids, one per line, without a trailing newline.
func generate(ctx context.Context, cli *cliFlags, w io.Writer) error {
	if cli.count < 1 {
		return fmt.Errorf("-n must be at least 1, got %d", cli.count)
	}

	var render func(ulid.ID) string
	switch cli.format {
	case "text":
		render = ulid.Encode
	case "uuid":
		render = func(id ulid.ID) string { return id.UUID().String() }
	case "hex":
		render = func(id ulid.ID) string { return hex.EncodeToString(id[:]) }
	default:
		return fmt.Errorf("unsupported -format %q", cli.format)
	}

	lines := make([]string, 0, cli.count)
	for i := 0; i < cli.count; i++ {
		id, err := ulid.NewFromContext(ctx)
		if err != nil {
			return err
		}
		lines = append(lines, render(id))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return err
	}

	log.Debug(log.FromContext(ctx)).Log("msg", "generated ids", "count", cli.count, "format", cli.format)
	return nil
}

// validate checks a generated id, and that the next id from the same factory
// sorts after it. Any failure prints "bad".
func validate(ctx context.Context, w io.Writer) error {
	err := func() error {
		id, err := ulid.NewFromContext(ctx)
		if err != nil {
			return err
		}
		if err := selftest.Check(id); err != nil {
			return err
		}

		next, err := ulid.NewFromContext(ctx)
		if err != nil {
			return err
		}
		if next.Compare(id) <= 0 {
			return fmt.Errorf("%w: %s then %s", selftest.ErrOrder, id, next)
		}

		log.Debug(log.FromContext(ctx)).Log("msg", "validation passed", "id", id, "timestamp_ms", id.TimestampMs())
		return nil
	}()

	if err != nil {
		fmt.Fprintln(w, "bad")
	}
	return err
}

func parse(args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("parse needs at least one id")
	}

	for _, arg := range args {
		id, err := ulid.Parse(arg)
		if err != nil {
			return fmt.Errorf("parse %q: %w", arg, err)
		}
		r := id.Randomness()
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", id, id.Time().Format(time.RFC3339Nano), id.TimestampMs(), hex.EncodeToString(r[:]))
	}
	return nil
}

func stress(ctx context.Context, workers, count int, w io.Writer) error {
	f, ok := ulid.FromContext(ctx)
	if !ok {
		f = ulid.NewFactory()
	}
	logger := log.FromContext(ctx)

	// run.Group stops the stress run on SIGINT or SIGTERM.
	var g run.Group
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			log.Debug(logger).Log("msg", "stress started", "workers", workers, "count", count)
			report, err := selftest.Stress(ctx, f, workers, count)
			if err != nil {
				log.Error(logger).Log("msg", "stress failed", "err", err)
				return err
			}
			fmt.Fprintf(w, "workers=%d ids=%d first=%s last=%s elapsed=%s\n",
				report.Workers, report.IDs, report.First, report.Last, report.Elapsed)
			return nil
		}, func(error) {
			cancel()
		})
	}
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			c := make(chan os.Signal, 1)
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(c)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sig := <-c:
				return fmt.Errorf("received signal %s", sig)
			}
		}, func(error) {
			cancel()
		})
	}

	return g.Run()
}

func main() { os.Exit(ulidgen(os.Args, os.Stdin, os.Stdout, os.Stderr)) }
