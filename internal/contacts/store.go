// Package contacts holds the address book of the contact shell: a name to
// phone mapping loaded once from a JSON file and written back on exit.
package contacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-assistant/internal/apperr"
	"github.com/tartampluch/go-assistant/internal/config"
)

// Outcome classifies the result of a store operation.
type Outcome int

const (
	OK Outcome = iota
	Exists
	NotFound
	Empty
)

// Result is what a store operation hands back to the user. Conflicts and
// missing names are ordinary outcomes, not errors.
type Result struct {
	Outcome Outcome
	Text    string
}

// Messages renders user-facing texts. *locale.Translator satisfies it.
type Messages interface {
	Msg(key string, data map[string]any) string
}

// Store is the in-memory address book. It is not safe for concurrent use.
type Store struct {
	path   string
	msgs   Messages
	order  []string
	phones map[string]string
}

// New returns an empty store bound to path.
func New(path string, msgs Messages) *Store {
	return &Store{
		path:   path,
		msgs:   msgs,
		phones: make(map[string]string),
	}
}

// Open creates a store bound to path and loads it.
func Open(path string, msgs Messages) (*Store, error) {
	s := New(path, msgs)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file the store reads from and flushes to.
func (s *Store) Path() string { return s.path }

// Len returns the number of contacts.
func (s *Store) Len() int { return len(s.order) }

// Load replaces the content of the store with the file content.
//
// A missing or blank file yields an empty store. A path without the .json
// marker fails with *apperr.FormatError, malformed content with
// *apperr.ParseError.
func (s *Store) Load() error {
	if filepath.Ext(s.path) != config.ExtJSON {
		return &apperr.FormatError{Path: s.path, Reason: config.ErrNotJSON}
	}

	s.order = nil
	s.phones = make(map[string]string)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug(config.MsgContactsLoad,
			config.LogKeyComponent, config.CompContacts,
			config.LogKeyFile, s.path,
			config.LogKeyCount, 0,
		)
		return nil
	}
	if err != nil {
		return &apperr.NotFoundError{Path: s.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) > 0 {
		if err := s.decode(data); err != nil {
			s.order = nil
			s.phones = make(map[string]string)
			return &apperr.ParseError{Path: s.path, Err: err}
		}
	}

	slog.Debug(config.MsgContactsLoad,
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyFile, s.path,
		config.LogKeyCount, s.Len(),
	)
	return nil
}

// decode streams the top-level object so the file order becomes the
// insertion order.
func (s *Store) decode(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New(config.ErrMalformedJSON)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New(config.ErrMalformedJSON)
		}

		var phone string
		if err := dec.Decode(&phone); err != nil {
			return fmt.Errorf("%s: %q: %w", config.ErrMalformedJSON, name, err)
		}
		s.set(name, phone)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New(config.ErrMalformedJSON)
	}
	return nil
}

func (s *Store) set(name, phone string) {
	if _, ok := s.phones[name]; !ok {
		s.order = append(s.order, name)
	}
	s.phones[name] = phone
}

// Add inserts a new contact. An existing name is left untouched.
func (s *Store) Add(name, phone string) Result {
	if _, ok := s.phones[name]; ok {
		return s.result(Exists, config.TKeyExists, name)
	}
	s.set(name, phone)
	return s.result(OK, config.TKeyAdded, name)
}

// Update overwrites the phone of an existing contact.
func (s *Store) Update(name, phone string) Result {
	if _, ok := s.phones[name]; !ok {
		return s.result(NotFound, config.TKeyMissing, name)
	}
	s.phones[name] = phone
	return s.result(OK, config.TKeyUpdated, name)
}

// Lookup returns the phone of name as the result text.
func (s *Store) Lookup(name string) Result {
	phone, ok := s.phones[name]
	if !ok {
		return s.result(NotFound, config.TKeyMissing, name)
	}
	return Result{Outcome: OK, Text: phone}
}

// ListAll returns one "name phone" line per contact in insertion order.
func (s *Store) ListAll() Result {
	if len(s.order) == 0 {
		return Result{Outcome: Empty, Text: s.msg(config.TKeyEmptyBook, nil)}
	}
	lines := make([]string, 0, len(s.order))
	for _, name := range s.order {
		lines = append(lines, name+" "+s.phones[name])
	}
	return Result{Outcome: OK, Text: strings.Join(lines, "\n")}
}

// Flush writes the whole mapping to the store path. An empty store leaves
// the file untouched. The previous file survives any failure.
func (s *Store) Flush() error {
	if s.Len() == 0 {
		slog.Info(config.MsgFlushSkipped,
			config.LogKeyComponent, config.CompContacts,
			config.LogKeyFile, s.path,
		)
		return nil
	}

	data, err := s.encode()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFlush, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrFlush, err)
	}

	slog.Info(config.MsgContactsSaved,
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyFile, s.path,
		config.LogKeyCount, s.Len(),
		config.LogKeySizeBytes, len(data),
	)
	return nil
}

func (s *Store) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, name := range s.order {
		k, err := marshalString(name)
		if err != nil {
			return nil, err
		}
		v, err := marshalString(s.phones[name])
		if err != nil {
			return nil, err
		}
		buf.WriteString(config.JSONIndent)
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		if i < len(s.order)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func marshalString(v string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeFileAtomic writes to a temporary sibling then renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), config.FilePermUserRWGroupR); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) result(o Outcome, key, name string) Result {
	return Result{Outcome: o, Text: s.msg(key, map[string]any{"Name": name})}
}

func (s *Store) msg(key string, data map[string]any) string {
	if s.msgs == nil {
		return key
	}
	return s.msgs.Msg(key, data)
}
