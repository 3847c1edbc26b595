// Package power implements the desktop power-state machine.
//
//	shutdown --Boot--> booting --(BootDelay)--> running
//	running --Sleep--> sleeping --WakeUp--> running
//	running --Shutdown--> shutdown
//	running --Restart--> shutdown --(RestartDelay)--> booting --(BootDelay)--> running
//
// Automatic legs run on clockwork timers so tests can drive them with a fake
// clock. A transition that supersedes a pending timer cancels it, and Dispose
// cancels everything.
package power
