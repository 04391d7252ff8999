// Package shell runs the interactive contact book: one command per line until
// an exit keyword, end of input or cancellation, then a single flush.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/contacts"
)

// Shell dispatches parsed commands to a contact store.
type Shell struct {
	Store *contacts.Store
	Msgs  contacts.Messages

	once sync.Once
}

// New returns a shell bound to store.
func New(store *contacts.Store, msgs contacts.Messages) *Shell {
	return &Shell{Store: store, Msgs: msgs}
}

// Run reads commands from in and writes replies to out.
//
// Cancelling ctx (the binaries cancel it on SIGINT/SIGTERM) takes the same
// shutdown path as the exit keywords. The store is flushed exactly once; a
// flush failure is reported on out and is not returned. Only a failure to
// read in is returned, after the flush.
func (sh *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := slog.With(config.LogKeyComponent, config.CompShell)

	lines := make(chan string)
	readErr := make(chan error, config.ChannelBufferSize)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		// Lines have no length limit.
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-done:
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				readErr <- err
				return
			}
		}
	}()

	for {
		sh.print(out, config.Prompt)

		select {
		case <-ctx.Done():
			log.Info(config.MsgSignal)
			sh.println(out, "")
			sh.println(out, sh.msg(config.TKeySignal, nil))
			sh.Shutdown(out)
			return nil

		case line, ok := <-lines:
			if !ok {
				sh.println(out, "")
				sh.Shutdown(out)
				if err := <-readErr; err != nil {
					return fmt.Errorf("%s: %w", config.ErrInputRead, err)
				}
				return nil
			}
			if sh.dispatch(log, line, out) {
				sh.Shutdown(out)
				return nil
			}
		}
	}
}

// dispatch executes one line and reports whether the session must end.
func (sh *Shell) dispatch(log *slog.Logger, line string, out io.Writer) bool {
	cmd := Parse(line)
	log.Debug(config.MsgCommand, config.LogKeyCommand, fmt.Sprintf("%T", cmd))

	switch c := cmd.(type) {
	case Blank:
		sh.println(out, sh.msg(config.TKeyNoCommand, nil))
	case Hello:
		sh.println(out, sh.msg(config.TKeyGreeting, nil))
	case Add:
		if c.Name == "" || c.Phone == "" {
			sh.println(out, sh.msg(config.TKeyUsage, nil))
			break
		}
		sh.println(out, sh.Store.Add(c.Name, c.Phone).Text)
	case Change:
		if c.Name == "" || c.Phone == "" {
			sh.println(out, sh.msg(config.TKeyUsage, nil))
			break
		}
		sh.println(out, sh.Store.Update(c.Name, c.Phone).Text)
	case Phone:
		sh.println(out, sh.Store.Lookup(c.Name).Text)
	case All:
		sh.println(out, sh.Store.ListAll().Text)
	case Exit:
		return true
	case Unknown:
		sh.println(out, sh.msg(config.TKeyInvalid, nil))
	}
	return false
}

// Shutdown flushes the store and says goodbye. Only the first call has an
// effect.
func (sh *Shell) Shutdown(out io.Writer) {
	sh.once.Do(func() {
		if err := sh.Store.Flush(); err != nil {
			slog.Error(config.ErrFlush,
				config.LogKeyComponent, config.CompShell,
				config.LogKeyFile, sh.Store.Path(),
				config.LogKeyError, err,
			)
			sh.println(out, sh.msg(config.TKeySaveFailed, map[string]any{"Err": err}))
		}
		sh.println(out, sh.msg(config.TKeyGoodbye, nil))
	})
}

func (sh *Shell) msg(key string, data map[string]any) string {
	if sh.Msgs == nil {
		return key
	}
	return sh.Msgs.Msg(key, data)
}

func (sh *Shell) print(out io.Writer, s string) {
	_, _ = fmt.Fprint(out, s)
}

func (sh *Shell) println(out io.Writer, s string) {
	_, _ = fmt.Fprintln(out, s)
}
