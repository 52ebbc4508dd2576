package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/handiism/suno-downloader/internal/config"
	"github.com/handiism/suno-downloader/internal/download"
	"github.com/handiism/suno-downloader/internal/model"
	"github.com/handiism/suno-downloader/internal/report"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitInterrupted = 130
)

type options struct {
	all        bool
	csvPath    string
	configPath string
	outputDir  string
	workers    int
	verbose    bool
	playlist   bool
	tag        bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return exitError
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nInterrupted, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	manager := download.NewManager(settings, printEvent(opts.verbose))

	color.New(color.FgMagenta, color.Bold).Println("Suno Downloader")
	fmt.Println()

	if err := manager.Initialize(ctx, manager.NewSource(opts.all, opts.csvPath)); err != nil {
		switch {
		case ctx.Err() != nil:
			fmt.Println("Download cancelled.")
			return exitInterrupted
		case errors.Is(err, download.ErrNoRecords):
			fmt.Fprintln(os.Stderr, "No songs found to process")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return exitError
	}

	outcomes, err := manager.StartDownloads(ctx)

	summary := report.Summarize(outcomes)
	summary.Render(os.Stdout)
	fmt.Printf("Downloaded %.2f MB\n", float64(summary.Bytes)/1024/1024)

	if err != nil {
		fmt.Println("\nDownload cancelled.")
		return exitInterrupted
	}
	return exitOK
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("suno-dl", flag.ContinueOnError)
	fs.BoolVar(&opts.all, "all", false, "Fetch all songs from the Suno feed instead of reading a CSV file")
	fs.StringVar(&opts.csvPath, "csv", "", "CSV file with filename,url,description rows (default \"songs.csv\")")
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON or YAML config file")
	fs.StringVarP(&opts.outputDir, "output", "o", "", "Output directory (overrides config)")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "Number of concurrent downloads (overrides config)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	fs.BoolVar(&opts.playlist, "playlist", false, "Create a playlist of downloaded songs")
	fs.BoolVar(&opts.tag, "tag", false, "Write ID3 tags to downloaded songs")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Suno Downloader - Download songs from Suno")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  suno-dl [--csv FILE] [options]")
		fmt.Fprintln(os.Stderr, "  suno-dl --all [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: suno-tui")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.workers < 0 {
		return opts, fmt.Errorf("--workers must be positive, got %d", opts.workers)
	}
	if opts.all && fs.Changed("csv") {
		return opts, errors.New("--all and --csv cannot be used together")
	}

	return opts, nil
}

// loadSettings layers defaults, the config file, SUNO_* environment
// variables and finally command line flags.
func loadSettings(opts options) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if err := settings.LoadFromEnv(); err != nil {
		return nil, err
	}

	if opts.outputDir != "" {
		settings.OutputDir = opts.outputDir
	}
	if opts.workers > 0 {
		settings.MaxConcurrentDownloads = opts.workers
	}
	if opts.playlist {
		settings.CreatePlaylist = true
	}
	if opts.tag {
		settings.TagAudio = true
	}

	return settings, settings.Validate()
}

func printEvent(verbose bool) func(model.ProgressEvent) {
	errorPrefix := color.New(color.FgRed).Sprint("✗ ")
	warningPrefix := color.New(color.FgYellow).Sprint("! ")
	successPrefix := color.New(color.FgGreen).Sprint("✓ ")
	infoPrefix := color.New(color.FgCyan).Sprint("› ")

	return func(event model.ProgressEvent) {
		if event.Level == model.LevelVerbose && !verbose {
			return
		}

		prefix := "  "
		switch event.Level {
		case model.LevelError:
			prefix = errorPrefix
		case model.LevelWarning:
			prefix = warningPrefix
		case model.LevelSuccess:
			prefix = successPrefix
		case model.LevelInfo:
			prefix = infoPrefix
		}

		fmt.Println(prefix + event.Message)
	}
}
