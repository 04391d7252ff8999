package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/apperr"
	"github.com/tartampluch/go-assistant/internal/config"
)

func execute(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	a := &app{stderr: io.Discard, logDir: t.TempDir()}
	defer a.close()

	var out bytes.Buffer
	root := newRootCmd(a)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestContactbot_SessionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")

	out, err := execute(t, context.Background(), "add Kim 555-1234\nphone Kim\nexit\n", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "console bot >>> Kim was added to your contacts\n")
	assert.Contains(t, out, "console bot >>> 555-1234\n")

	out, err = execute(t, context.Background(), "all\nclose\n", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Kim 555-1234\n", "contacts survive a restart")
}

func TestContactbot_French(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")

	out, err := execute(t, context.Background(), "hello\nq\n", "-f", path, "--lang", "fr")

	require.NoError(t, err)
	assert.Contains(t, out, "Comment puis-je vous aider ?")
	assert.Contains(t, out, "Au revoir !")
}

// A cancelled context stands for SIGINT: the pending add is still saved.
func TestContactbot_CancelledContextFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Kim": "555-1234"}`), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := execute(t, ctx, "", "-f", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Good bye!")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"Kim": "555-1234"`)
}

func TestContactbot_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	wrong := filepath.Join(dir, "contacts.txt")
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"Kim": `), 0600))

	out, err := execute(t, context.Background(), "", "-f", wrong)
	var fe *apperr.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Format error: "+wrong+" "+config.ErrNotJSON+"\n", out)

	out, err = execute(t, context.Background(), "", "-f", broken)
	var pe *apperr.ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, strings.HasPrefix(out, "Cannot read contacts: cannot parse "+broken))
}

func TestContactbot_Version(t *testing.T) {
	out, err := execute(t, context.Background(), "", "--version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, config.BinContacts+" version "))
}

func TestContactbot_HelpListsLanguages(t *testing.T) {
	out, err := execute(t, context.Background(), "", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "language of user-facing messages (en, fr)")
}

func TestRunMain_ExitCodes(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	var out bytes.Buffer

	code := runMain([]string{"-f", filepath.Join(dir, "contacts.json")}, strings.NewReader("add Kim 1\nexit\n"), &out, io.Discard)
	assert.Equal(t, config.ExitCodeSuccess, code)

	code = runMain([]string{"-f", filepath.Join(dir, "contacts.csv")}, strings.NewReader(""), &out, io.Discard)
	assert.Equal(t, config.ExitCodeError, code)
}
