package shell

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
)

// ClearSignal is returned by the clear command. Hosts wipe the terminal instead of printing it.
const ClearSignal = "\x1bc"

// Default environment
const (
	DefaultUser     = "user"
	DefaultHome     = vfs.HomePath
	DefaultHostname = "webos"
)

// FileStore is the part of the file store the interpreter needs
type FileStore interface {
	Resolve(path string) (vfs.Node, bool)
	ListDirectory(path string) ([]vfs.Node, error)
	ReadFile(path string) (string, error)
	CreateFile(dirPath, name, content string) (vfs.Node, error)
	CreateDirectory(dirPath, name string) (vfs.Node, error)
	DeleteNode(dirPath, name string) error
}

// Result is the outcome of one command line
type Result struct {
	Output  string `json:"output"`
	IsError bool   `json:"is_error"`
	Command string `json:"command,omitempty"`
}

// Environment holds the read-only variables of a shell
type Environment struct {
	User     string `json:"USER"`
	Home     string `json:"HOME"`
	Hostname string `json:"HOSTNAME"`
}

// DefaultEnvironment returns the environment every new shell starts with
func DefaultEnvironment() Environment {
	return Environment{User: DefaultUser, Home: DefaultHome, Hostname: DefaultHostname}
}

// Interpreter executes command lines against a file store
type Interpreter struct {
	mu      sync.Mutex
	fs      FileStore
	cwd     string
	history []string
	env     Environment
	clock   clockwork.Clock
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithClock sets the clock read by the date command
func WithClock(clock clockwork.Clock) Option {
	return func(i *Interpreter) {
		i.clock = clock
	}
}

// WithEnvironment replaces the default environment
func WithEnvironment(env Environment) Option {
	return func(i *Interpreter) {
		i.env = env
	}
}

// WithWorkingDirectory sets the starting directory without validating it
func WithWorkingDirectory(dir string) Option {
	return func(i *Interpreter) {
		i.cwd = dir
	}
}

// New creates an interpreter positioned at the home directory
func New(fs FileStore, opts ...Option) *Interpreter {
	i := &Interpreter{
		fs:    fs,
		env:   DefaultEnvironment(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.cwd == "" {
		i.cwd = i.env.Home
	}
	return i
}

// Execute runs one command line
func (i *Interpreter) Execute(line string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.history = append(i.history, line)

	name, args := fields[0], fields[1:]
	res := i.dispatch(name, args)
	res.Command = name
	return res
}

func (i *Interpreter) dispatch(name string, args []string) Result {
	switch name {
	case "ls":
		return i.ls(args)
	case "cd":
		return i.cd(args)
	case "pwd":
		return ok(i.cwd)
	case "cat":
		return i.cat(args)
	case "echo":
		return ok(strings.Join(args, " "))
	case "mkdir":
		return i.mkdir(args)
	case "touch":
		return i.touch(args)
	case "rm":
		return i.rm(args)
	case "clear":
		return ok(ClearSignal)
	case "help":
		return ok(helpText)
	case "whoami":
		return ok(i.env.User)
	case "hostname":
		return ok(i.env.Hostname)
	case "date":
		return ok(i.clock.Now().Format(time.UnixDate))
	case "history":
		return ok(i.formatHistory())
	default:
		return fail("Command not found: %s. Type 'help' for available commands.", name)
	}
}

// builtins lists every command dispatch understands
var builtins = map[string]bool{
	"ls": true, "cd": true, "pwd": true, "cat": true, "echo": true,
	"mkdir": true, "touch": true, "rm": true, "clear": true, "help": true,
	"whoami": true, "hostname": true, "date": true, "history": true,
}

// IsBuiltin reports whether name is a command the interpreter knows
func IsBuiltin(name string) bool {
	return builtins[name]
}

// History returns a copy of every recorded command line, oldest first
func (i *Interpreter) History() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]string(nil), i.history...)
}

// WorkingDirectory returns the current directory
func (i *Interpreter) WorkingDirectory() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.cwd
}

// SetWorkingDirectory moves the cursor to an existing directory
func (i *Interpreter) SetWorkingDirectory(dir string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	target := i.resolve(dir)
	node, found := i.fs.Resolve(target)
	if !found {
		return fmt.Errorf("%w: %s", vfs.ErrNotFound, target)
	}
	if !node.IsDir() {
		return fmt.Errorf("%w: %s", vfs.ErrNotDirectory, target)
	}
	i.cwd = target
	return nil
}

// Environment returns the shell variables
func (i *Interpreter) Environment() Environment {
	return i.env
}

// resolve turns a command argument into an absolute, clean path
func (i *Interpreter) resolve(arg string) string {
	var p string
	switch {
	case strings.HasPrefix(arg, "/"):
		p = arg
	case arg == "~":
		p = i.env.Home
	case strings.HasPrefix(arg, "~/"):
		p = i.env.Home + arg[1:]
	case arg == "..":
		p = vfs.ParentPath(i.cwd)
	case arg == ".":
		p = i.cwd
	default:
		p = vfs.JoinPath(i.cwd, arg)
	}
	return path.Clean(p)
}

func (i *Interpreter) ls(args []string) Result {
	target, label := i.cwd, "."
	if len(args) > 0 {
		target, label = i.resolve(args[0]), args[0]
	}

	items, err := i.fs.ListDirectory(target)
	if err != nil {
		return fail("ls: cannot access '%s': No such file or directory", label)
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].IsDir() != items[b].IsDir() {
			return items[a].IsDir()
		}
		return items[a].Name < items[b].Name
	})

	names := make([]string, len(items))
	for idx, item := range items {
		names[idx] = item.Name
		if item.IsDir() {
			names[idx] += "/"
		}
	}
	return ok(strings.Join(names, "  "))
}

func (i *Interpreter) cd(args []string) Result {
	if len(args) == 0 {
		i.cwd = i.env.Home
		return ok("")
	}

	target := i.resolve(args[0])
	node, found := i.fs.Resolve(target)
	if !found {
		return fail("cd: %s: No such file or directory", args[0])
	}
	if !node.IsDir() {
		return fail("cd: %s: Not a directory", args[0])
	}
	i.cwd = target
	return ok("")
}

func (i *Interpreter) cat(args []string) Result {
	if len(args) == 0 {
		return fail("cat: missing file operand")
	}

	content, err := i.fs.ReadFile(i.resolve(args[0]))
	switch {
	case errors.Is(err, vfs.ErrNotFile):
		return fail("cat: %s: Is a directory", args[0])
	case err != nil:
		return fail("cat: %s: No such file or directory", args[0])
	}
	return ok(content)
}

func (i *Interpreter) mkdir(args []string) Result {
	if len(args) == 0 {
		return fail("mkdir: missing operand")
	}

	if _, err := i.fs.CreateDirectory(i.cwd, args[0]); err != nil {
		return fail("mkdir: cannot create directory '%s': %s", args[0], reason(err))
	}
	return ok("")
}

func (i *Interpreter) touch(args []string) Result {
	if len(args) == 0 {
		return fail("touch: missing file operand")
	}

	if _, err := i.fs.CreateFile(i.cwd, args[0], ""); err != nil {
		return fail("touch: cannot create file '%s': %s", args[0], reason(err))
	}
	return ok("")
}

func (i *Interpreter) rm(args []string) Result {
	if len(args) == 0 {
		return fail("rm: missing operand")
	}

	if err := i.fs.DeleteNode(i.cwd, args[0]); err != nil {
		return fail("rm: cannot remove '%s': %s", args[0], reason(err))
	}
	return ok("")
}

func (i *Interpreter) formatHistory() string {
	lines := make([]string, len(i.history))
	for idx, cmd := range i.history {
		lines[idx] = fmt.Sprintf("%d  %s", idx+1, cmd)
	}
	return strings.Join(lines, "\n")
}

// reason maps store errors to coreutils wording
func reason(err error) string {
	switch {
	case errors.Is(err, vfs.ErrAlreadyExists):
		return "File exists"
	case errors.Is(err, vfs.ErrInvalidName):
		return "Invalid argument"
	case errors.Is(err, vfs.ErrNotDirectory):
		return "Not a directory"
	default:
		return "No such file or directory"
	}
}

func ok(output string) Result {
	return Result{Output: output}
}

func fail(format string, args ...interface{}) Result {
	return Result{Output: fmt.Sprintf(format, args...), IsError: true}
}
