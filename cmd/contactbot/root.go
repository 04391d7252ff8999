package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-assistant/internal/apperr"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/contacts"
	"github.com/tartampluch/go-assistant/internal/locale"
	"github.com/tartampluch/go-assistant/internal/logging"
	"github.com/tartampluch/go-assistant/internal/shell"
)

type app struct {
	stderr io.Writer
	logDir string

	file       string
	lang       string
	configPath string
	debug      bool
	version    bool

	logCloser io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.BinContacts,
		Short:         config.CmdContactsShort,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return a.run(cmd)
		},
	}

	f := root.Flags()
	f.StringVarP(&a.file, config.FlagFile, config.FlagFileShort, config.DefaultContactsFile, config.FlagDescFileCt)
	f.StringVar(&a.lang, config.FlagLang, config.DefaultLanguage, langUsage())
	f.StringVar(&a.configPath, config.FlagConfig, "", config.FlagDescConfig)
	f.BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)
	f.BoolVar(&a.version, config.FlagVersion, false, config.FlagDescVersion)
	return root
}

func (a *app) run(cmd *cobra.Command) error {
	a.logCloser = logging.Setup(logging.Options{
		Binary:  config.BinContacts,
		Debug:   a.debug,
		Console: a.stderr,
		Dir:     a.logDir,
	})
	logging.StartupInfo(config.BinContacts)

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
	if !cmd.Flags().Changed(config.FlagFile) {
		a.file = settings.Contacts.File
	}
	if !cmd.Flags().Changed(config.FlagLang) {
		a.lang = settings.Language
	}

	tr := locale.New(a.lang)
	out := cmd.OutOrStdout()

	store, err := contacts.Open(a.file, tr)
	if err != nil {
		_, _ = fmt.Fprintln(out, loadErrorMessage(tr, err))
		return err
	}

	return shell.New(store, tr).Run(cmd.Context(), cmd.InOrStdin(), out)
}

func loadErrorMessage(tr *locale.Translator, err error) string {
	var fe *apperr.FormatError
	var pe *apperr.ParseError
	var nf *apperr.NotFoundError
	switch {
	case errors.As(err, &fe):
		return tr.Msg(config.TKeyFormatError, map[string]any{"Err": fe})
	case errors.As(err, &pe):
		return tr.Msg(config.TKeyParseError, map[string]any{"Err": pe})
	case errors.As(err, &nf):
		return tr.Msg(config.TKeyFileNotFound, map[string]any{"Path": nf.Path})
	default:
		return err.Error()
	}
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func langUsage() string {
	return fmt.Sprintf(config.FlagDescLang, strings.Join(config.SupportedLanguages, ", "))
}

func printVersion(out io.Writer) {
	_, _ = fmt.Fprintf(out, config.MsgVersionOutput,
		config.BinContacts,
		config.Version,
		config.Commit,
		runtime.GOOS,
		runtime.GOARCH,
	)
}
