//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Migrations are embedded and applied at startup; the goose CLI
// (github.com/pressly/goose/v3/cmd/goose) is only needed for creating
// new migration files during development.
