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

// Package testfixture provides a complete, database-backed Executor
// for tests: an in-memory SQLite connection, already migrated to the
// current schema, with its transaction boundary managed per-test.
package testfixture

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/executor"
	"github.com/CandiedCode/ml-metadata/internal/executorcfg"
	"github.com/CandiedCode/ml-metadata/internal/metasource"
	"github.com/CandiedCode/ml-metadata/internal/schema"
	"github.com/CandiedCode/ml-metadata/internal/wireset"
)

// Fixture bundles an Executor over a live, migrated metadata store
// with the connection backing it, so a test can both call executor
// methods and, if needed, drop to raw Execute calls for setup.
type Fixture struct {
	Executor *executor.Executor
	Schema   *schema.Manager
	Source   *metasource.Source
}

// New opens a fresh, private, in-memory SQLite database, initializes
// it to the current schema, and begins the single transaction the
// returned Executor operates within. t.Cleanup rolls back and closes
// the connection.
func New(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()

	// A unique DSN per test, not the bare "file::memory:?cache=shared"
	// form: that literal names one single anonymous in-memory database
	// shared by every connection in the process that opens it, which
	// would leak state across tests the moment any of them run in
	// parallel.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	src, err := metasource.Open(ctx, dialect.ProductSQLite, "sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	cfg := executorcfg.Config{
		Dialect:           string(dialect.ProductSQLite),
		DSN:               dsn,
		MigrationsEnabled: true,
		AllowDowngrade:    false,
		TemplateCacheSize: 256,
	}
	exec, mgr, err := wireset.Build(cfg, src)
	require.NoError(t, err)

	require.NoError(t, src.Begin(ctx))
	require.NoError(t, mgr.InitMetadataSource(ctx))
	require.NoError(t, src.Commit(ctx))

	require.NoError(t, src.Begin(ctx))
	t.Cleanup(func() { _ = src.Rollback(ctx) })

	return &Fixture{Executor: exec, Schema: mgr, Source: src}
}
