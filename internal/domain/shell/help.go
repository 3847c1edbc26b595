package shell

import "strings"

var helpText = strings.Join([]string{
	"Available commands:",
	"",
	"File System:",
	"  ls [path]       - list directory contents",
	"  cd [path]       - change directory",
	"  pwd             - print working directory",
	"  cat <file>      - display file contents",
	"  mkdir <name>    - create directory",
	"  touch <name>    - create empty file",
	"  rm <name>       - remove file or directory",
	"",
	"Utilities:",
	"  echo <text>     - display text",
	"  clear           - clear terminal",
	"  date            - show current date/time",
	"  whoami          - print current user",
	"  hostname        - print hostname",
	"  history         - show command history",
	"  help            - show this help",
}, "\n")
