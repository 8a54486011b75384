package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vk/sweepview/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// assignments collects repeated -set name=value flags.
type assignments []app.Assignment

func (a *assignments) String() string {
	parts := make([]string, 0, len(*a))
	for _, s := range *a {
		parts = append(parts, fmt.Sprintf("%s=%g", s.Parameter, s.Value))
	}
	return strings.Join(parts, ",")
}

func (a *assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("value of %q is not a number: %q", name, value)
	}
	*a = append(*a, app.Assignment{Parameter: name, Value: v})
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sweepview", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sweepview - Browse image sweeps indexed by parameter values.

Usage:
  sweepview [options] [DEFINITION_PATH...]
  sweepview -mode remote -url URL [-animation NAME] [-load] [-set name=value]...

Arguments:
  DEFINITION_PATH
    Path to a .hcl, .yaml or .yml file or a directory containing them.

Modes:
  check   load every animation and report frame counts (default)
  serve   run the socket.io viewer
  tui     browse animations in the terminal
  remote  drive a running viewer

Options:
`)
		flagSet.PrintDefaults()
	}

	var sets assignments
	defFlag := flagSet.String("definitions", "", "Path to a definition file or directory.")
	dFlag := flagSet.String("d", "", "Path to a definition file or directory (shorthand).")
	modeFlag := flagSet.String("mode", string(app.ModeCheck), "What to do: 'check', 'serve', 'tui' or 'remote'.")
	listenFlag := flagSet.String("listen", ":8080", "Address the viewer listens on in serve mode.")
	publicURLFlag := flagSet.String("public-url", "", "URL printed for the viewer. Defaults to one derived from -listen.")
	qrFlag := flagSet.Bool("qr", false, "Print a QR code of the viewer URL in serve mode.")
	urlFlag := flagSet.String("url", "", "Viewer URL in remote mode.")
	animationFlag := flagSet.String("animation", "", "Animation driven in remote mode.")
	flagSet.Var(&sets, "set", "Parameter assignment name=value in remote mode. Repeatable.")
	loadFlag := flagSet.Bool("load", false, "Load the animation before applying -set in remote mode.")
	outputFlag := flagSet.String("o", "", "File the resulting frame is written to in remote mode.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Write logs to this file instead of the output.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent archive decoding workers.")
	thumbFlag := flagSet.Int("thumbnail-width", 320, "Maximum width of lazy animation thumbnails.")
	timeoutFlag := flagSet.Duration("http-timeout", 2*time.Minute, "Timeout for downloads and remote requests.")
	retriesFlag := flagSet.Int("http-retries", 2, "Retries for failed archive downloads.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *defFlag != "":
		paths = append(paths, *defFlag)
	case *dFlag != "":
		paths = append(paths, *dFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Definition paths determined.", "paths", paths)

	mode := app.Mode(strings.ToLower(*modeFlag))
	if len(paths) == 0 && mode != app.ModeRemote {
		slog.Debug("No definition path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DefinitionPaths: paths,
		Mode:            mode,
		Listen:          *listenFlag,
		PublicURL:       *publicURLFlag,
		QR:              *qrFlag,
		URL:             *urlFlag,
		Animation:       *animationFlag,
		Sets:            sets,
		Load:            *loadFlag,
		Output:          *outputFlag,
		WorkerCount:     *workersFlag,
		ThumbnailWidth:  *thumbFlag,
		HTTPTimeout:     *timeoutFlag,
		HTTPRetries:     *retriesFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		LogFile:         *logFileFlag,
		HealthcheckPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
