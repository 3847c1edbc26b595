package session

import "time"

// Recorder receives session metrics. monitoring.Metrics satisfies it.
type Recorder interface {
	SessionOpened(source string)
	SetSessionsActive(count int)
	SetWindowsOpen(session string, count int)
	ForgetSession(session string)
	WindowEvent(event string)
	PowerTransition(from, to string)
	ShellCommand(command string, failed bool)
	Flush(duration time.Duration, err error)
	SetTreeUsage(session string, files, directories int, bytes int64)
}

type nopRecorder struct{}

func (nopRecorder) SessionOpened(string)                 {}
func (nopRecorder) SetSessionsActive(int)                {}
func (nopRecorder) SetWindowsOpen(string, int)           {}
func (nopRecorder) ForgetSession(string)                 {}
func (nopRecorder) WindowEvent(string)                   {}
func (nopRecorder) PowerTransition(string, string)       {}
func (nopRecorder) ShellCommand(string, bool)            {}
func (nopRecorder) Flush(time.Duration, error)           {}
func (nopRecorder) SetTreeUsage(string, int, int, int64) {}
