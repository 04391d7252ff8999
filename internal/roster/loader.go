// Package roster loads birthday rosters from CSV or vCard files.
//
// Loading is partial-success: a row whose birthday cannot be parsed is
// reported and skipped, the remaining rows are still returned.
package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-assistant/internal/apperr"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/engine"
)

type format int

const (
	formatCSV format = iota + 1
	formatVCard
)

// Loader reads rosters. The zero value reads local files and prints skip
// diagnostics to os.Stdout.
type Loader struct {
	// Fetcher is used for http(s) sources. Remote sources fail without it.
	Fetcher engine.RosterFetcher

	// Out receives one diagnostic line per skipped row.
	Out io.Writer
}

// Load returns the entries found at source, a local path or an http(s) URL.
//
// It fails with *apperr.FormatError when the source has no supported marker
// (.csv, .vcf, .vcard) or lacks the name/birthday columns, and with
// *apperr.NotFoundError when the source cannot be opened.
func (l *Loader) Load(ctx context.Context, source string) ([]engine.Entry, error) {
	f, err := detectFormat(source)
	if err != nil {
		return nil, err
	}

	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var entries []engine.Entry
	switch f {
	case formatVCard:
		entries, err = l.readVCard(source, rc)
	default:
		entries, err = l.readCSV(source, rc)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgRosterLoaded,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyFile, displaySource(source),
		config.LogKeyCount, len(entries),
	)
	return entries, nil
}

func (l *Loader) out() io.Writer {
	if l.Out == nil {
		return os.Stdout
	}
	return l.Out
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isRemote(source) {
		if l.Fetcher == nil {
			return nil, &apperr.NotFoundError{Path: displaySource(source), Err: errors.New(config.ErrRemoteUnreadable)}
		}
		rc, err := l.Fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, &apperr.NotFoundError{Path: displaySource(source), Err: err}
		}
		return rc, nil
	}

	fh, err := os.Open(source)
	if err != nil {
		return nil, &apperr.NotFoundError{Path: source, Err: err}
	}
	if info, err := fh.Stat(); err == nil && info.IsDir() {
		_ = fh.Close()
		return nil, &apperr.NotFoundError{Path: source, Err: fs.ErrInvalid}
	}
	return fh, nil
}

// readCSV parses a header-first table. Column order is irrelevant.
func (l *Loader) readCSV(source string, r io.Reader) ([]engine.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &apperr.FormatError{Path: displaySource(source), Reason: config.ErrMissingColumns}
	}
	if err != nil {
		return nil, &apperr.FormatError{Path: displaySource(source), Reason: err.Error()}
	}

	nameCol, bdayCol := -1, -1
	for i, h := range header {
		switch strings.TrimPrefix(h, "\ufeff") {
		case config.ColumnName:
			nameCol = i
		case config.ColumnBirthday:
			bdayCol = i
		}
	}
	if nameCol < 0 || bdayCol < 0 {
		return nil, &apperr.FormatError{Path: displaySource(source), Reason: config.ErrMissingColumns}
	}

	var entries []engine.Entry
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.skip(row, record, err)
				continue
			}
			return nil, fmt.Errorf("%s: %w", config.ErrRosterRead, err)
		}

		if len(record) <= nameCol || len(record) <= bdayCol {
			l.skip(row, record, errors.New(config.ErrShortRow))
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		if name == "" {
			l.skip(row, record, errors.New(config.ErrEmptyName))
			continue
		}

		birthday, err := time.Parse(config.DateFormatFullDash, strings.TrimSpace(record[bdayCol]))
		if err != nil {
			l.skip(row, record, err)
			continue
		}

		entries = append(entries, engine.Entry{Name: name, DateOfBirth: birthday, YearKnown: true})
	}
	return entries, nil
}

// readVCard extracts FN (or N) and BDAY from every card in the stream.
// Cards without a birthday are ignored silently.
func (l *Loader) readVCard(source string, r io.Reader) ([]engine.Entry, error) {
	decoder := vcard.NewDecoder(r)
	var entries []engine.Entry

	for card := 1; ; card++ {
		c, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The decoder cannot resynchronize after a syntax error.
			if card == 1 {
				return nil, &apperr.FormatError{Path: displaySource(source), Reason: err.Error()}
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyRow, card,
				config.LogKeyError, err)
			break
		}

		bday := c.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		name := ""
		if fn := c.Get(config.VCardFN); fn != nil {
			name = strings.TrimSpace(fn.Value)
		} else if n := c.Get(config.VCardN); n != nil {
			name = strings.TrimSpace(strings.ReplaceAll(n.Value, ";", " "))
		}
		if name == "" {
			l.skip(card, []string{bday.Value}, errors.New(config.ErrEmptyName))
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			l.skip(card, []string{name, bday.Value}, err)
			continue
		}

		entries = append(entries, engine.Entry{Name: name, DateOfBirth: birthDate, YearKnown: yearKnown})
	}
	return entries, nil
}

// skip prints the user-facing diagnostic and records it in the log.
func (l *Loader) skip(row int, record []string, err error) {
	_, _ = fmt.Fprintf(l.out(), config.MsgSkipRowOutput, row, record, err)
	slog.Warn(config.MsgSkippedRow,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyRow, row,
		config.LogKeyError, err,
	)
}

// parseDate handles the date forms found in vCard BDAY fields.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (year unknown) are anchored to a leap year so Feb 29 survives.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}

func detectFormat(source string) (format, error) {
	p := source
	if isRemote(source) {
		u, err := url.Parse(source)
		if err != nil {
			return 0, &apperr.FormatError{Path: displaySource(source), Reason: config.ErrInvalidURL}
		}
		p = path.Base(u.Path)
	}

	switch strings.ToLower(filepath.Ext(p)) {
	case config.ExtCSV:
		return formatCSV, nil
	case config.ExtVCF, config.ExtVCard:
		return formatVCard, nil
	default:
		return 0, &apperr.FormatError{Path: displaySource(source), Reason: config.ErrNotCSV}
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, config.SchemeHTTP+"://") || strings.HasPrefix(source, config.SchemeHTTPS+"://")
}

// displaySource hides credentials of remote sources.
func displaySource(source string) string {
	if !isRemote(source) {
		return source
	}
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	return u.Scheme + "://" + u.Host + u.Path
}
