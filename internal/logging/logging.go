package logging

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Setup initializes the global slog logger using charmbracelet/log as the backend.
// Hooks share stderr with violation output, so the default level is Warn and
// fail-open fallthroughs (logged at Debug) only surface with --verbose.
func Setup(verbose bool) {
	SetupWriter(os.Stderr, verbose, isTerminal())
}

// SetupWriter is Setup with an explicit destination. Non-TTY output uses the
// JSON formatter so host processes can parse it.
func SetupWriter(w io.Writer, verbose, tty bool) {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "spwguard",
	})

	if verbose {
		handler.SetLevel(charmlog.DebugLevel)
	} else {
		handler.SetLevel(charmlog.WarnLevel)
	}

	if !tty {
		handler.SetFormatter(charmlog.JSONFormatter)
	}

	slog.SetDefault(slog.New(handler))
}

// For returns the default logger tagged with a component name.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
