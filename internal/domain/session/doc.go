/*
Package session ties one desktop together: a file tree, its windows, the
power state machine, one shell per terminal window and the file manager
path cursor.

Window and shell operations are refused with ErrNotRunning unless the
desktop is running. Shutdown and Restart discard every window. The tree is
flushed to the store every PersistInterval while running, after a window
closes, on power off and on Close.

	sessions := session.NewManager(store,
		session.WithLogger(logger.Named("session")),
		session.WithRecorder(metrics))

	s, err := sessions.Open(ctx, "default") // restore or seed, then boot
	w, err := s.OpenWindow(window.Spec{AppType: window.KindTerminal})
	res, err := s.Execute(w.ID, "ls")

	defer sessions.CloseAll(ctx)

The snapshot of session "default" lives under "sessions/default/filesystem-root".
*/
package session
