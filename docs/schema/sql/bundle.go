// Package sqldocs exposes the storage DDL bundles directly from the docs tree.
package sqldocs

import (
	"bufio"
	_ "embed"
	"strings"
)

// SQLite contains the SQLite DDL for the state table.
//
//go:embed sqlite.sql
var SQLite string

// Postgres contains the Postgres DDL for the state table.
//
//go:embed postgres.sql
var Postgres string

// SplitStatements splits a semicolon-terminated DDL script into executable statements.
// It drops blank lines and single-line comments that start with "--".
func SplitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(scanner.Text())
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()
	return stmts
}
