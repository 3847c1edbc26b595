package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShell(t *testing.T, dir, input string) string {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("STORAGE_PATH", dir)
	t.Setenv("CONFIG_FILE", "")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs([]string{"shell", "--session", "cli", "--env-file", dir + "/missing.env"})
	root.SetIn(strings.NewReader(input))
	root.SetOut(&out)
	root.SetErr(&out)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestShellRunsCommands(t *testing.T) {
	out := runShell(t, t.TempDir(), "pwd\necho hi there\ncat nope\nexit\nls\n")

	assert.True(t, strings.HasPrefix(out, "user@webos$ "))
	assert.Contains(t, out, "/home/user\n")
	assert.Contains(t, out, "hi there\n")
	assert.Contains(t, out, "cat: nope: No such file or directory\n")
	assert.NotContains(t, out, "Documents")
}

func TestShellPersistsTree(t *testing.T) {
	dir := t.TempDir()
	runShell(t, dir, "mkdir projects\n")

	out := runShell(t, dir, "ls\n")
	assert.Contains(t, out, "projects/")
}

func TestHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs([]string{"--help"})
	root.SetOut(&out)
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "serve")
	assert.Contains(t, out.String(), "shell")
}
