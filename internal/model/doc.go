// Package model defines the value types shared by the shelter components.
//
// Residents and services are transient representations of persisted rows:
// they stage a write or carry a read result back to a caller. The store owns
// the rows themselves.
//
// # Dates
//
// Dates are ISO strings (YYYY-MM-DD) exactly as stored. Month filters compare
// the first seven characters (YYYY-MM), so string ordering is date ordering.
//
// # Errors
//
// Every failure surfaced by the directory, ledger and reporting packages is an
// *Error carrying one of the codes in errors.go.
package model
