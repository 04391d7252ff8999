// Package logging configures the default slog logger of both binaries.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tartampluch/go-assistant/internal/config"
)

// Options selects where and how much to log.
type Options struct {
	// Binary names the log file: <Dir>/<Binary>.log.
	Binary string

	// Debug lowers the level to Debug and adds source locations.
	Debug bool

	// Console receives warnings and errors, every record with Debug.
	// Defaults to os.Stderr so stdout stays reserved for the tool output.
	Console io.Writer

	// Dir overrides the log directory (defaults to <user cache>/go-assistant).
	Dir string
}

// Setup installs JSON slog handlers: one on the console and, when possible,
// one on a log file truncated on every start. The console only shows
// warnings and errors unless Debug is set; the file also keeps Info records.
// The returned closer is nil when no file could be opened.
func Setup(opts Options) io.Closer {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel, fileLevel := slog.LevelWarn, slog.LevelInfo
	if opts.Debug {
		consoleLevel, fileLevel = slog.LevelDebug, slog.LevelDebug
	}

	handlers := fanout{slog.NewJSONHandler(console, &slog.HandlerOptions{
		Level:     consoleLevel,
		AddSource: opts.Debug,
	})}
	var logFile *os.File

	if logPath, err := filePath(opts); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
				Level:     fileLevel,
				AddSource: opts.Debug,
			}))
			logFile = f
		} else {
			_, _ = fmt.Fprintf(console, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	slog.SetDefault(slog.New(handlers))

	if logFile == nil {
		return nil
	}
	return logFile
}

// fanout hands every record to each handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// StartupInfo logs environment details useful for debugging.
func StartupInfo(binary string) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, binary),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

func filePath(opts Options) (string, error) {
	dir := opts.Dir
	if dir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
		}
		dir = filepath.Join(cacheDir, config.AppID)
	}

	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(dir, opts.Binary+config.LogFileExt), nil
}
