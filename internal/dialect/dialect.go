// Copyright 2023 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package dialect declares the strategy interface that isolates SQL
// dialect differences (boolean literal form, identifier quoting,
// IN-clause expansion, and migration overrides) from the rest of the
// Query Executor. Keep SQL text in a declarative QueryConfig, never
// intermixed with Go control flow.
package dialect

// Product names the family of database the Dialect targets.
type Product string

// These are the dialect families this repository implements.
const (
	ProductSQLite Product = "sqlite"
	ProductMySQL  Product = "mysql"
)

// Dialect captures everything about a target database family that
// the rest of the Query Executor must not hard-code.
type Dialect interface {
	// Name identifies the dialect, matching a Product constant.
	Name() Product

	// QuoteIdent quotes an identifier (table or column name) using
	// this dialect's quote character, doubling any embedded
	// occurrence of it.
	QuoteIdent(s string) string

	// BoolLiteral renders a boolean as this dialect's canonical SQL
	// literal, for both DDL defaults/CHECK constraints and the
	// boolean-typed columns (is_index_step, is_custom_property) an
	// Executor template binds directly (MySQL accepts TRUE/FALSE as
	// TINYINT(1) synonyms; SQLite only accepts 0/1).
	BoolLiteral(v bool) string

	// ExpandInClause renders a pre-bound, comma-joined value list
	// inside the parens of an IN(...) predicate. Both dialects this
	// repository supports use identical syntax, but the seam exists
	// so a future dialect with array-binding semantics (e.g. an
	// ARRAY(...) construct) has somewhere to diverge.
	ExpandInClause(boundValues string) string

	// LastInsertIDClause returns a trailing SQL fragment a dialect
	// needs appended to an insert statement to make the server-assigned
	// id retrievable, or "" when the driver already surfaces it through
	// Result.LastInsertId (true of both sqlite3 and go-sql-driver/mysql,
	// so both implementations return "").
	LastInsertIDClause() string

	// MigrationOverride returns a dialect-specific migration script
	// for the (from, to) version pair, if one is needed instead of
	// (or in addition to) the dialect-neutral script recorded in the
	// QueryConfig. ok is false when no override applies.
	MigrationOverride(from, to int64) (sqlText string, ok bool)
}
