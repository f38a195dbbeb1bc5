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

// Package sqlitedialect implements the SQLite-compatible Dialect and
// QueryConfig for the metadata store.
package sqlitedialect

import (
	"strings"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
)

type sqliteDialect struct{}

// Dialect is the shared SQLite Dialect instance.
var Dialect dialect.Dialect = sqliteDialect{}

func (sqliteDialect) Name() dialect.Product { return dialect.ProductSQLite }

func (sqliteDialect) QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (sqliteDialect) BoolLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (sqliteDialect) ExpandInClause(boundValues string) string {
	return "(" + boundValues + ")"
}

func (sqliteDialect) LastInsertIDClause() string {
	// database/sql's Result.LastInsertId already surfaces
	// sqlite3_last_insert_rowid(); no textual hint is needed.
	return ""
}

func (sqliteDialect) MigrationOverride(from, to int64) (string, bool) {
	// SQLite has no dialect-specific migration needs beyond the
	// shared scripts in schema.go: ALTER TABLE ... ADD COLUMN is
	// supported directly, and there is no separate "schema" notion to
	// reconcile.
	return "", false
}
