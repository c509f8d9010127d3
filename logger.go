package inkwell

import (
	"log/slog"

	"github.com/inkwell-anim/inkwell/internal/logging"
)

// SetLogger configures logging for inkwell and its sub-packages. By default
// nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelInfo]: render lifecycle (encoder sessions, part rollover)
//   - [slog.LevelDebug]: encoder process diagnostics (captured stderr)
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}
