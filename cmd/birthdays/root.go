package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-assistant/internal/apperr"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/engine"
	"github.com/tartampluch/go-assistant/internal/locale"
	"github.com/tartampluch/go-assistant/internal/logging"
	"github.com/tartampluch/go-assistant/internal/report"
	"github.com/tartampluch/go-assistant/internal/roster"
	"github.com/tartampluch/go-assistant/internal/server"
	"golang.org/x/sync/errgroup"
)

// app carries the dependencies and flag values shared by the commands.
type app struct {
	clock   engine.Clock
	fetcher engine.RosterFetcher
	stderr  io.Writer
	logDir  string // empty means the user cache directory

	file       string
	lang       string
	icsPath    string
	configPath string
	port       string
	refresh    string
	debug      bool
	version    bool

	tr        *locale.Translator
	logCloser io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.BinBirthdays,
		Short:         config.CmdBirthdaysShort,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return a.runReport(cmd.Context(), cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.file, config.FlagFile, config.FlagFileShort, config.DefaultUsersFile, config.FlagDescFileBd)
	pf.StringVar(&a.lang, config.FlagLang, config.DefaultLanguage, langUsage())
	pf.StringVar(&a.configPath, config.FlagConfig, "", config.FlagDescConfig)
	pf.BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)

	root.Flags().StringVar(&a.icsPath, config.FlagICS, "", config.FlagDescICS)
	root.Flags().BoolVar(&a.version, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(newServeCmd(a))
	return root
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdServeUse,
		Short: config.CmdServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&a.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	cmd.Flags().StringVar(&a.refresh, config.FlagRefresh, config.DefaultRefresh, config.FlagDescRefresh)
	return cmd
}

// setup configures logging, then merges the settings file under the flags
// the user set explicitly.
func (a *app) setup(cmd *cobra.Command) error {
	if a.version {
		return nil
	}

	a.logCloser = logging.Setup(logging.Options{
		Binary:  config.BinBirthdays,
		Debug:   a.debug,
		Console: a.stderr,
		Dir:     a.logDir,
	})
	logging.StartupInfo(config.BinBirthdays)

	path := a.configPath
	if path == "" {
		if p, err := config.DefaultSettingsPath(); err == nil {
			path = p
		}
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed(config.FlagFile) {
		a.file = settings.Birthdays.File
	}
	if !flags.Changed(config.FlagLang) {
		a.lang = settings.Language
	}
	if flags.Lookup(config.FlagPort) != nil && !flags.Changed(config.FlagPort) {
		a.port = settings.Birthdays.Port
	}
	if flags.Lookup(config.FlagRefresh) != nil && !flags.Changed(config.FlagRefresh) {
		a.refresh = settings.Birthdays.Refresh
	}

	a.tr = locale.New(a.lang)
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *app) loader(out io.Writer) *roster.Loader {
	return &roster.Loader{Fetcher: a.fetcher, Out: out}
}

// computeWeek loads the roster and computes the week around the clock's today.
func (a *app) computeWeek(ctx context.Context, out io.Writer) (engine.Week, time.Time, error) {
	entries, err := a.loader(out).Load(ctx, a.file)
	if err != nil {
		return nil, time.Time{}, err
	}

	now := a.clock.Now()
	week := engine.ComputeWeek(entries, now)
	slog.Info(config.MsgWeekComputed,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyToday, now.Format(config.DateFormatFullDash),
		config.LogKeyDays, week.Labels(),
		config.LogKeyCount, week.Len(),
	)
	return week, now, nil
}

func (a *app) renderer() *engine.CalendarRenderer {
	return &engine.CalendarRenderer{
		FormatSummary: func(name string) string {
			return a.tr.Msg(config.TKeyEvtSummary, map[string]any{"Name": name})
		},
	}
}

// runReport prints this week's congratulations. Roster problems are printed
// as localized messages and are not returned.
func (a *app) runReport(ctx context.Context, out io.Writer) error {
	week, now, err := a.computeWeek(ctx, out)
	if err != nil {
		return a.reportLoadError(out, err)
	}

	w := report.NewTerminalWriter(out)
	w.DayName = func(d engine.Day) string { return a.tr.Weekday(d.Weekday) }
	if err := w.Write(week); err != nil {
		return err
	}

	if a.icsPath == "" {
		return nil
	}
	data, err := a.renderer().Render(week, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.icsPath, data, config.FilePermUserRWGroupR); err != nil {
		return fmt.Errorf("%s: %w", config.ErrICalWrite, err)
	}
	slog.Info(config.MsgICalWritten,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyFile, a.icsPath,
		config.LogKeySizeBytes, len(data),
	)
	return nil
}

func (a *app) reportLoadError(out io.Writer, err error) error {
	var fe *apperr.FormatError
	var nf *apperr.NotFoundError
	switch {
	case errors.As(err, &fe):
		_, _ = fmt.Fprintln(out, a.tr.Msg(config.TKeyFormatError, map[string]any{"Err": fe}))
	case errors.As(err, &nf):
		_, _ = fmt.Fprintln(out, a.tr.Msg(config.TKeyFileNotFound, map[string]any{"Path": nf.Path}))
	default:
		return err
	}
	slog.Warn(config.MsgRosterUnavailable,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyError, err,
	)
	return nil
}

// runServe publishes the week as an iCalendar feed and recomputes it on the
// refresh schedule until ctx is cancelled.
func (a *app) runServe(ctx context.Context, out io.Writer) error {
	srv := server.New(a.port)
	refresher := &server.Refresher{
		Schedule: a.refresh,
		Job: func(ctx context.Context) error {
			week, now, err := a.computeWeek(ctx, out)
			if err != nil {
				return err
			}
			data, err := a.renderer().Render(week, now)
			if err != nil {
				return err
			}
			srv.Feed.Publish(data)
			return nil
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return refresher.Run(gctx) })
	return g.Wait()
}

func langUsage() string {
	return fmt.Sprintf(config.FlagDescLang, strings.Join(config.SupportedLanguages, ", "))
}

func printVersion(out io.Writer) {
	_, _ = fmt.Fprintf(out, config.MsgVersionOutput,
		config.BinBirthdays,
		config.Version,
		config.Commit,
		runtime.GOOS,
		runtime.GOARCH,
	)
}
