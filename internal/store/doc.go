// Package store provides SQLite-backed storage for shelter residents and
// the services logged for them.
//
// # Tables
//
//   - residents(id, first_name, last_name, entry_date)
//   - services(id, resident_id, service_type, service_date)
//
// Dates are ISO YYYY-MM-DD text. Month filters match substr(date, 1, 7).
//
// Name uniqueness is not a storage constraint: the directory enforces it with
// a check-then-insert, and services.resident_id carries no foreign key. Both
// rules live one layer up so the store stays compatible with databases created
// by earlier versions of the application.
//
// # Name folding
//
// The driver registered here exposes name_fold(text) to SQL. It is
// model.FoldName, so a name compared in a query folds exactly like a name
// compared in Go.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - one open connection: SQLite has a single writer
package store
