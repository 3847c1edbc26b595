package shell

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
)

func newTestShell(t *testing.T, opts ...Option) (*Interpreter, *vfs.FileSystem) {
	t.Helper()
	fs, err := vfs.Default()
	require.NoError(t, err)
	return New(fs, opts...), fs
}

func TestMkdirLsCdScenario(t *testing.T) {
	sh, _ := newTestShell(t)
	require.Equal(t, "/home/user", sh.WorkingDirectory())

	res := sh.Execute("mkdir test")
	assert.False(t, res.IsError)
	assert.Empty(t, res.Output)

	res = sh.Execute("ls")
	assert.False(t, res.IsError)
	assert.Contains(t, strings.Split(res.Output, "  "), "test/")

	sh.Execute("cd test")
	assert.Equal(t, "/home/user/test", sh.Execute("pwd").Output)

	sh.Execute("cd ..")
	assert.Equal(t, "/home/user", sh.Execute("pwd").Output)
}

func TestCatMissingFile(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Execute("cat missing.txt")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Output, "No such file or directory")
	assert.Equal(t, "cat: missing.txt: No such file or directory", res.Output)

	assert.Equal(t, "/home/user", sh.WorkingDirectory())
	assert.Equal(t, []string{"cat missing.txt"}, sh.History())
}

func TestCat(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Execute("cat Documents/welcome.txt")
	require.False(t, res.IsError)
	assert.True(t, strings.HasPrefix(res.Output, "Welcome to WebOS!"))

	res = sh.Execute("cat")
	assert.True(t, res.IsError)
	assert.Equal(t, "cat: missing file operand", res.Output)

	res = sh.Execute("cat Documents")
	assert.True(t, res.IsError)
	assert.Equal(t, "cat: Documents: Is a directory", res.Output)
}

func TestLsOrdering(t *testing.T) {
	sh, fs := newTestShell(t)
	_, err := fs.CreateDirectory("/", "play")
	require.NoError(t, err)
	for _, name := range []string{"b.txt", "A.txt", "a.txt"} {
		_, err = fs.CreateFile("/play", name, "")
		require.NoError(t, err)
	}
	for _, name := range []string{"zdir", "Bdir"} {
		_, err = fs.CreateDirectory("/play", name)
		require.NoError(t, err)
	}

	res := sh.Execute("ls /play")
	require.False(t, res.IsError)
	assert.Equal(t, "Bdir/  zdir/  A.txt  a.txt  b.txt", res.Output)

	_, err = fs.CreateDirectory("/", "empty")
	require.NoError(t, err)
	res = sh.Execute("ls /empty")
	assert.False(t, res.IsError)
	assert.Empty(t, res.Output)
}

func TestLsErrors(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Execute("ls nowhere")
	assert.True(t, res.IsError)
	assert.Equal(t, "ls: cannot access 'nowhere': No such file or directory", res.Output)
}

func TestPathResolution(t *testing.T) {
	sh, _ := newTestShell(t)

	tests := []struct {
		arg  string
		want string
	}{
		{"~", "/home/user"},
		{"~/Documents", "/home/user/Documents"},
		{"..", "/home"},
		{".", "/home/user"},
		{"/home/user/Pictures", "/home/user/Pictures"},
		{"Downloads", "/home/user/Downloads"},
		{"../user/./Documents", "/home/user/Documents"},
		{"/../..", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, sh.resolve(tt.arg))
		})
	}
}

func TestCd(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Execute("cd /nope")
	assert.True(t, res.IsError)
	assert.Equal(t, "cd: /nope: No such file or directory", res.Output)

	res = sh.Execute("cd Documents/welcome.txt")
	assert.True(t, res.IsError)
	assert.Equal(t, "cd: Documents/welcome.txt: Not a directory", res.Output)
	assert.Equal(t, "/home/user", sh.WorkingDirectory())

	sh.Execute("cd /")
	assert.Equal(t, "/", sh.WorkingDirectory())
	sh.Execute("cd")
	assert.Equal(t, "/home/user", sh.WorkingDirectory())
}

func TestCreateAndRemove(t *testing.T) {
	sh, fs := newTestShell(t)

	assert.False(t, sh.Execute("touch notes.txt").IsError)
	node, ok := fs.Resolve("/home/user/notes.txt")
	require.True(t, ok)
	assert.Equal(t, int64(0), node.Size)

	res := sh.Execute("touch notes.txt")
	assert.Equal(t, Result{Output: "touch: cannot create file 'notes.txt': File exists", IsError: true, Command: "touch"}, res)

	res = sh.Execute("mkdir Documents")
	assert.Equal(t, "mkdir: cannot create directory 'Documents': File exists", res.Output)

	assert.False(t, sh.Execute("rm notes.txt").IsError)
	assert.False(t, fs.Exists("/home/user/notes.txt"))

	res = sh.Execute("rm notes.txt")
	assert.True(t, res.IsError)
	assert.Equal(t, "rm: cannot remove 'notes.txt': No such file or directory", res.Output)

	assert.Equal(t, "mkdir: missing operand", sh.Execute("mkdir").Output)
	assert.Equal(t, "touch: missing file operand", sh.Execute("touch").Output)
	assert.Equal(t, "rm: missing operand", sh.Execute("rm").Output)
}

func TestRmIsRecursive(t *testing.T) {
	sh, fs := newTestShell(t)

	assert.False(t, sh.Execute("rm Documents").IsError)
	assert.False(t, fs.Exists("/home/user/Documents/welcome.txt"))
}

func TestSimpleCommands(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC))
	sh, _ := newTestShell(t, WithClock(clock))

	assert.Equal(t, "hello world", sh.Execute("echo hello   world").Output)
	assert.Equal(t, "", sh.Execute("echo").Output)
	assert.Equal(t, "user", sh.Execute("whoami").Output)
	assert.Equal(t, "webos", sh.Execute("hostname").Output)
	assert.Equal(t, "Tue Mar  5 14:30:00 UTC 2024", sh.Execute("date").Output)
	assert.Equal(t, ClearSignal, sh.Execute("clear").Output)

	help := sh.Execute("help")
	assert.False(t, help.IsError)
	assert.True(t, strings.HasPrefix(help.Output, "Available commands:"))
	assert.Contains(t, help.Output, "  history         - show command history")
}

func TestUnknownCommand(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Execute("frobnicate --now")
	assert.True(t, res.IsError)
	assert.Equal(t, "Command not found: frobnicate. Type 'help' for available commands.", res.Output)
}

func TestHistory(t *testing.T) {
	sh, _ := newTestShell(t)

	assert.Equal(t, Result{}, sh.Execute("   \t "))
	assert.Empty(t, sh.History())

	sh.Execute("pwd")
	sh.Execute("  echo hi")
	res := sh.Execute("history")
	assert.Equal(t, "1  pwd\n2    echo hi\n3  history", res.Output)
	assert.Len(t, sh.History(), 3)

	history := sh.History()
	history[0] = "mutated"
	assert.Equal(t, "pwd", sh.History()[0])
}

func TestSetWorkingDirectory(t *testing.T) {
	sh, _ := newTestShell(t)

	require.NoError(t, sh.SetWorkingDirectory("/home/user/Pictures"))
	assert.Equal(t, "/home/user/Pictures", sh.WorkingDirectory())

	assert.ErrorIs(t, sh.SetWorkingDirectory("/missing"), vfs.ErrNotFound)
	assert.ErrorIs(t, sh.SetWorkingDirectory("/home/user/Documents/welcome.txt"), vfs.ErrNotDirectory)
	assert.Equal(t, "/home/user/Pictures", sh.WorkingDirectory())
}

func TestShellsDoNotShareCursors(t *testing.T) {
	fs, err := vfs.Default()
	require.NoError(t, err)
	first, second := New(fs), New(fs)

	first.Execute("cd Documents")
	second.Execute("mkdir shared")

	assert.Equal(t, "/home/user/Documents", first.WorkingDirectory())
	assert.Equal(t, "/home/user", second.WorkingDirectory())
	assert.True(t, fs.Exists("/home/user/shared"))
	assert.Empty(t, first.Execute("ls /home/user/shared").Output)
}

func TestCustomEnvironment(t *testing.T) {
	fs, err := vfs.Default()
	require.NoError(t, err)
	sh := New(fs, WithEnvironment(Environment{User: "ada", Home: "/", Hostname: "box"}))

	assert.Equal(t, "/", sh.WorkingDirectory())
	assert.Equal(t, "ada", sh.Execute("whoami").Output)
	assert.Equal(t, "box", sh.Execute("hostname").Output)
}

func TestIsBuiltin(t *testing.T) {
	sh, _ := newTestShell(t)

	for _, name := range []string{"ls", "cd", "pwd", "cat", "echo", "mkdir", "touch", "rm", "clear", "help", "whoami", "hostname", "date", "history"} {
		assert.True(t, IsBuiltin(name), name)
		assert.NotContains(t, sh.Execute(name).Output, "Command not found", name)
	}
	assert.False(t, IsBuiltin("frobnicate"))
}
