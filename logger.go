package match

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger replaces the package-level logger. Call it once at startup;
// the engine and every OrderBook use it for internal-error diagnostics.
func SetLogger(l *slog.Logger) {
	logger = l
}
