package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/dockercp/internal/config"
	"github.com/bamsammich/dockercp/internal/container"
	"github.com/bamsammich/dockercp/internal/endpoint"
	"github.com/bamsammich/dockercp/internal/engine"
	"github.com/bamsammich/dockercp/internal/event"
	"github.com/bamsammich/dockercp/internal/mounts"
	"github.com/bamsammich/dockercp/internal/storage"
	"github.com/bamsammich/dockercp/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds flag values shared by the root command and subcommands.
type options struct {
	bufferLength sizeFlag
	bwLimit      sizeFlag
	verify       bool
	dryRun       bool
	host         string
	apiVersion   string
	mountTable   string
	verbose      bool
	quiet        bool
	logFile      string
	showVersion  bool

	logOut *os.File // opened for --log, closed by run
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	rootCmd := newRootCmd(opts, stdout, stderr)
	rootCmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if opts.logOut != nil {
		_ = opts.logOut.Close()
	}
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCode(err)
}

func newRootCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dockercp [flags] <source> <destination>",
		Short: "Copy a file between the host and a container's root filesystem",
		Long: `Copy a single file between the host and a running container by reading
or writing the container's root filesystem directly on the host.

Exactly one of source and destination must name a container, as
CONTAINER:PATH. Supported storage drivers: devicemapper, overlay2.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, opts, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "dockercp %s\n", version)
				return nil
			}
			return runCopy(cmd.Context(), opts, args[0], args[1], stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flags.VarP(&opts.bufferLength, "buffer-length", "b", "copy buffer size (e.g. 4K, 1M; default: let the kernel copy)")
	flags.Var(&opts.bwLimit, "bwlimit", "bandwidth limit (e.g. 10M)")
	flags.BoolVar(&opts.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "resolve paths and print them without copying")

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&opts.host, "host", "", "Docker daemon address (default: $DOCKER_HOST)")
	pflags.StringVar(&opts.apiVersion, "api-version", "", "Docker API version (default: negotiate)")
	pflags.StringVar(&opts.mountTable, "mounts", "", "mountinfo-format table to search for devicemapper (default: "+mounts.DefaultPath+")")
	pflags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pflags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	pflags.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(newResolveCmd(opts, stdout))
	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

// setup loads the config file, applies its defaults to flags not set on the
// command line, and configures logging.
func setup(cmd *cobra.Command, opts *options, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return &usageError{err: fmt.Errorf("config: %w", err)}
	}
	if err := applyConfigDefaults(cmd, cfg, opts); err != nil {
		return &usageError{err: err}
	}
	if err := validateBufferLength(opts.bufferLength); err != nil {
		return &usageError{err: err}
	}

	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	} else if !opts.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})
	var logHandler slog.Handler = textHandler
	if opts.logFile != "" {
		lf, err := os.Create(opts.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		opts.logOut = lf
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))
	return nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, cfg config.Config, opts *options) error {
	flags := cmd.Flags()
	if !flags.Changed("buffer-length") && cfg.Defaults.BufferLength != nil {
		if err := opts.bufferLength.Set(*cfg.Defaults.BufferLength); err != nil {
			return fmt.Errorf("config defaults.buffer_length: %w", err)
		}
	}
	if !flags.Changed("bwlimit") && cfg.Defaults.BWLimit != nil {
		if err := opts.bwLimit.Set(*cfg.Defaults.BWLimit); err != nil {
			return fmt.Errorf("config defaults.bwlimit: %w", err)
		}
	}
	if !flags.Changed("verify") && cfg.Defaults.Verify != nil {
		opts.verify = *cfg.Defaults.Verify
	}
	if !flags.Changed("host") && cfg.Docker.Host != nil {
		opts.host = *cfg.Docker.Host
	}
	if !flags.Changed("api-version") && cfg.Docker.APIVersion != nil {
		opts.apiVersion = *cfg.Docker.APIVersion
	}
	if !flags.Changed("mounts") && cfg.Host.MountTable != nil {
		opts.mountTable = *cfg.Host.MountTable
	}
	return nil
}

// newResolver connects to the daemon named by opts. The returned close
// function releases the client.
func newResolver(opts *options) (*storage.Resolver, func(), error) {
	docker, err := container.NewDocker(container.DockerOpts{
		Host:       opts.host,
		APIVersion: opts.apiVersion,
	})
	if err != nil {
		return nil, nil, err
	}
	return storage.NewResolver(docker, opts.mountTable), func() { _ = docker.Close() }, nil
}

func runCopy(ctx context.Context, opts *options, src, dst string, stderr io.Writer) error {
	// Ambiguous pairs fail before any connection to the daemon.
	if _, err := endpoint.ParsePair(src, dst); err != nil {
		return err
	}

	resolver, closeResolver, err := newResolver(opts)
	if err != nil {
		return err
	}
	defer closeResolver()

	presenter := ui.NewPresenter(ui.Config{
		Writer:  stderr,
		Width:   ui.Width(os.Stderr.Fd()),
		Quiet:   opts.quiet,
		Verbose: opts.verbose,
	})
	handler := event.Handler(presenter.Handle)
	if opts.logFile != "" {
		handler = func(ev event.Event) {
			logEvent(ev)
			presenter.Handle(ev)
		}
	}

	slog.Debug("starting copy",
		"src", src,
		"dst", dst,
		"buffer", opts.bufferLength.n,
		"bwlimit", opts.bwLimit.n,
		"verify", opts.verify,
	)

	result := engine.Run(ctx, engine.Config{
		Src:        src,
		Dst:        dst,
		BufferSize: int(opts.bufferLength.n),
		BWLimit:    opts.bwLimit.n,
		Verify:     opts.verify,
		DryRun:     opts.dryRun,
		Resolver:   resolver,
		Events:     handler,
	})

	if opts.dryRun && result.Err == nil {
		fmt.Fprintf(stderr, "would copy %s -> %s\n", result.Src, result.Dst)
		return nil
	}
	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}
	return result.Err
}

// logEvent writes ev as a structured record for the --log file.
func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("container", ev.Container),
		slog.String("src", ev.Src),
		slog.String("dst", ev.Dst),
		slog.Int64("size", ev.Size),
	}
	if ev.Root != "" {
		attrs = append(attrs, slog.String("root", ev.Root))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	slog.LogAttrs(context.Background(), slog.LevelDebug, "dockercp.event", attrs...)
}

// usageError marks a failure in the command line or configuration.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitCode maps err to the process exit status: 2 for invalid input, 1 for
// everything else.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue),
		errors.Is(err, endpoint.ErrAmbiguousEndpoint),
		errors.Is(err, storage.ErrUnsupportedBackend):
		return 2
	default:
		return 1
	}
}
