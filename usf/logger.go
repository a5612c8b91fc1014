package usf

import (
	"log/slog"

	"github.com/gogpu/usf/internal/logx"
)

// SetLogger installs the logger used for parse failures, runtime
// failures, and soft warnings. The default is silent. Passing nil
// restores the silent default.
func SetLogger(l *slog.Logger) {
	logx.Set(l)
}

// Logger returns the currently installed logger.
func Logger() *slog.Logger {
	return logx.Get()
}
