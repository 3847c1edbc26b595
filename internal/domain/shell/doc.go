// Package shell implements the line-oriented command interpreter that runs
// inside terminal windows.
//
// An Interpreter is bound to one file store and owns its working directory,
// command history and a fixed environment (USER, HOME, HOSTNAME). Several
// interpreters may share a store; cursors are never shared.
//
// Every command returns a Result. Failures are error-flagged results, never
// Go errors, so hosts can render them verbatim:
//
//	sh := shell.New(fs)
//	res := sh.Execute("ls ~/Documents")
//	if res.Output == shell.ClearSignal {
//		// wipe the terminal
//	}
package shell
