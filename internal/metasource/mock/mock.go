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

// Package mock provides a types.MetadataSource backed by
// go-sqlmock, for tests that assert on the exact SQL text the Query
// Executor renders rather than exercising a real database.
package mock

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/metasource"
)

// New returns a Source wrapping a fresh sqlmock expectation set, along
// with the sqlmock.Sqlmock handle used to set expectations. product
// only affects EscapeString; sqlmock itself is driver-agnostic.
// t.Cleanup closes the underlying connection and verifies every
// expectation was met.
func New(t *testing.T, product dialect.Product) (*metasource.Source, sqlmock.Sqlmock) {
	t.Helper()
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	src := metasource.NewFromDB(product, db)
	t.Cleanup(func() {
		require.NoError(t, mockDB.ExpectationsWereMet())
		mockDB.ExpectClose()
		require.NoError(t, src.Close())
	})
	return src, mockDB
}
