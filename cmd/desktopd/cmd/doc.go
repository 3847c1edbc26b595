// Package cmd implements the desktopd command line: serve runs the API, shell
// opens an interactive terminal on a stored session.
package cmd
