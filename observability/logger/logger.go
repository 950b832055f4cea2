// package logger builds the zap logger shared by the site's command-line tools.
package logger

import (
	"io"
	"os"

	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger writing to stderr at the level named by the LOG_LEVEL envvar (default info),
// naming every entry with app. It replaces zap's globals and redirects the stdlib log package.
func New(app string) *zap.Logger {
	logger := NewTo(os.Stderr, enve.FromTextOr("LOG_LEVEL", zapcore.InfoLevel)).Named(app)
	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)
	return logger
}

// NewTo builds a console logger writing to w at the given level. It does not touch the globals.
func NewTo(w io.Writer, level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	))
}
