// Package server wires configuration, logging, metrics, storage and the
// session manager into the Gin router and runs it.
package server
