package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/spotgrab/spotgrab/internal/config"
	"github.com/spotgrab/spotgrab/internal/console"
	"github.com/spotgrab/spotgrab/internal/download"
	"github.com/spotgrab/spotgrab/internal/librespot"
	"github.com/spotgrab/spotgrab/internal/vorbis"
)

// options is the parsed command line. Settings from the config file are
// layered underneath these afterwards; only flags given explicitly
// override.
type options struct {
	user       string
	pass       string
	format     string
	configPath string
	verbose    bool
	help       bool
	input      []string
}

func main() {
	opts, flags, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Help and empty input short-circuit before the config file is
	// touched, so a bad --config path cannot mask -h.
	if opts.help || len(opts.input) == 0 {
		printUsage(flags)
		os.Exit(0)
	}

	out := console.New(os.Stdout, opts.verbose)

	// Load config, then apply flags on top
	settings, err := config.Load(opts.configPath)
	if err != nil {
		out.Error("%v", err)
		os.Exit(1)
	}
	if opts.user != "" {
		settings.User = opts.user
	}
	if opts.pass != "" {
		settings.Pass = opts.pass
	}
	if opts.format != "" {
		settings.Format = opts.format
	}

	if settings.User == "" || settings.Pass == "" {
		printUsage(flags)
		os.Exit(0)
	}

	log := newLogger(settings.LogLevel)

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	session, err := librespot.Connect(settings.User, settings.Pass, settings.DeviceName, log)
	if err != nil {
		out.Error("%v", err)
		os.Exit(1)
	}
	out.Section("Logged in as: %s", settings.User)

	audio := session.Audio()
	pipeline := download.NewPipeline(audio, audio, audio, vorbis.Rewriter{}, out.Handle)
	manager := download.NewManager(session.Catalog(), pipeline, settings.Format, out.Handle)

	manager.Initialize(ctx, opts.input)

	if manager.TrackCount() == 0 {
		out.Error("didn't get any tracks, aborting...")
		os.Exit(0)
	}

	summary, err := manager.DownloadAll(ctx)
	if err != nil {
		out.Error("%v, aborting...", err)
		os.Exit(1)
	}

	out.Section("Processed tracks:")
	out.Summary(summary)
}

// parseArgs parses the command line without touching the filesystem or
// the environment; positional arguments are the input resources.
func parseArgs(args []string) (options, *pflag.FlagSet, error) {
	var opts options

	flags := pflag.NewFlagSet("spotgrab", pflag.ContinueOnError)
	flags.StringVarP(&opts.user, "user", "u", "", "user login name, required")
	flags.StringVarP(&opts.pass, "pass", "p", "", "user password, required")
	flags.StringVarP(&opts.format, "format", "f", "", "output path template; placeholders: {author}, {album}, {name}, {ext}. When a track has more than one author, {author} evaluates to the main one (all authors are still written to the track metadata)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	flags.BoolVar(&opts.verbose, "verbose", false, "show per-step output")
	flags.BoolVarP(&opts.help, "help", "h", false, "print the help menu")

	if err := flags.Parse(args); err != nil {
		return options{}, flags, err
	}
	opts.input = flags.Args()

	return opts, flags, nil
}

func printUsage(flags *pflag.FlagSet) {
	fmt.Printf("Usage: %s [OPTIONS] URIs...\n\nOptions:\n", os.Args[0])
	fmt.Print(flags.FlagUsages())
}

// newLogger builds the diagnostic logger. It is separate from the run
// narration, which always goes through the console renderer.
func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(parsed).With().Timestamp().Logger()
}
