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

// Package metasource provides a reference MetadataSource backed by
// database/sql: a single, non-pooled connection per Source, used by
// this library's own tests and by callers who want a working
// collaborator without writing their own. Pooling, retry, and
// connection-lifecycle policy are the excluded RPC shell's
// responsibility in production; this package intentionally does none
// of that.
package metasource

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql" // register the mysql driver
	"github.com/pkg/errors"
	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver

	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// Source is a reference types.MetadataSource implementation over a
// single database/sql connection. It is not safe for concurrent use;
// the Query Executor's own single-threaded-per-instance contract
// already assumes this.
type Source struct {
	product dialect.Product
	db      *sql.DB
	tx      *sql.Tx
	lastID  int64
}

// Open dials a single connection for product using driverName/dsn.
// SQLite callers pass driverName "sqlite3"; MySQL callers pass
// "mysql". The caller is responsible for closing the returned Source.
func Open(ctx context.Context, product dialect.Product, driverName, dsn string) (*Source, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "could not open database connection")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "could not ping database")
	}
	return &Source{product: product, db: db}, nil
}

// NewFromDB wraps an already-open *sql.DB, e.g. one backed by a
// sqlmock.Sqlmock expectation set, as a Source.
func NewFromDB(product dialect.Product, db *sql.DB) *Source {
	return &Source{product: product, db: db}
}

// Close releases the underlying connection. It is not part of the
// types.MetadataSource contract; callers that constructed a Source via
// Open must call Close themselves.
func (s *Source) Close() error {
	return s.db.Close()
}

// Begin starts the single transaction this Source allows at a time.
func (s *Source) Begin(ctx context.Context) error {
	if s.tx != nil {
		return types.New(types.KindFailedPrecondition, "a transaction is already open on this MetadataSource")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Wrap(types.KindInternal, err, "could not begin transaction")
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction.
func (s *Source) Commit(ctx context.Context) error {
	if s.tx == nil {
		return types.New(types.KindFailedPrecondition, "no open transaction")
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return types.Wrap(types.KindInternal, err, "could not commit transaction")
	}
	return nil
}

// Rollback aborts the open transaction.
func (s *Source) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return types.New(types.KindFailedPrecondition, "no open transaction")
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		return types.Wrap(types.KindInternal, err, "could not roll back transaction")
	}
	return nil
}

// Execute runs sqlText and returns its tabular result. SELECT-shaped
// statements are run as a query and their rows collected into a
// RecordSet; every other statement is run as an exec, and its
// affected-row count is discarded, per the uniform RecordSet contract
// (an exec returns an empty RecordSet).
func (s *Source) Execute(ctx context.Context, sqlText string) (*types.RecordSet, error) {
	if s.tx == nil {
		return nil, types.New(types.KindFailedPrecondition, "no open transaction")
	}
	if isQuery(sqlText) {
		return s.query(ctx, sqlText)
	}
	res, err := s.tx.ExecContext(ctx, sqlText)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.lastID = id
	}
	return &types.RecordSet{}, nil
}

func (s *Source) query(ctx context.Context, sqlText string) (*types.RecordSet, error) {
	rows, err := s.tx.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rs := &types.RecordSet{ColumnNames: cols}

	raw := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.WithStack(err)
		}
		record := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				record[i] = v.String
			} else {
				record[i] = types.NullSentinel
			}
		}
		rs.Records = append(rs.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return rs, nil
}

// EscapeString escapes s for inclusion inside a single-quoted literal.
// SQLite and MySQL (under ANSI_QUOTES/sql_mode=ansi, as this package
// assumes) both accept doubled single quotes; MySQL additionally
// treats a bare backslash as an escape character unless NO_BACKSLASH_ESCAPES
// is set, so it is doubled too.
func (s *Source) EscapeString(str string) string {
	escaped := strings.ReplaceAll(str, "'", "''")
	if s.product == dialect.ProductMySQL {
		escaped = strings.ReplaceAll(escaped, `\`, `\\`)
	}
	return escaped
}

// LastInsertId returns the id of the most recent single-row insert
// executed on this connection.
func (s *Source) LastInsertId(ctx context.Context) (int64, error) {
	return s.lastID, nil
}

func isQuery(sqlText string) bool {
	trimmed := strings.TrimSpace(sqlText)
	upper := strings.ToUpper(trimmed)
	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "PRAGMA")
}
