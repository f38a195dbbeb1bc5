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

// Package mysqldialect implements the MySQL-compatible Dialect and
// QueryConfig for the metadata store.
package mysqldialect

import (
	"strings"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
)

type mysqlDialect struct{}

// Dialect is the shared MySQL Dialect instance.
var Dialect dialect.Dialect = mysqlDialect{}

func (mysqlDialect) Name() dialect.Product { return dialect.ProductMySQL }

func (mysqlDialect) QuoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

func (mysqlDialect) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (mysqlDialect) ExpandInClause(boundValues string) string {
	return "(" + boundValues + ")"
}

func (mysqlDialect) LastInsertIDClause() string {
	// database/sql's Result.LastInsertId already surfaces
	// LAST_INSERT_ID(); no textual hint is needed.
	return ""
}

func (mysqlDialect) MigrationOverride(from, to int64) (string, bool) {
	// No MySQL-specific divergence from the shared migration scripts
	// in schema.go as of SchemaVersion; the seam exists for a future
	// version pair that needs, e.g., an ALGORITHM=INPLACE hint.
	return "", false
}
