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

package schema_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/dialect/sqlitedialect"
	"github.com/CandiedCode/ml-metadata/internal/executorcfg"
	"github.com/CandiedCode/ml-metadata/internal/metasource"
	"github.com/CandiedCode/ml-metadata/internal/types"
	"github.com/CandiedCode/ml-metadata/internal/wireset"
)

// openPrivate opens a private, named in-memory SQLite database distinct
// from every other test's, so InitMetadataSource observes a genuinely
// empty database rather than one another test already migrated.
func openPrivate(t *testing.T, name string) *metasource.Source {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	src, err := metasource.Open(ctx, dialect.ProductSQLite, "sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

// TestInitMetadataSourceOnEmptyDatabaseReachesLibraryVersion implements
// scenario S5 and Testable Property 8: initializing an empty database
// leaves schema_version at the library's current version, and a second
// InitMetadataSource call against that now-current database succeeds
// as a no-op.
func TestInitMetadataSourceOnEmptyDatabaseReachesLibraryVersion(t *testing.T) {
	ctx := context.Background()
	src := openPrivate(t, "schema_s5")

	cfg := executorcfg.Config{
		Dialect:           string(dialect.ProductSQLite),
		DSN:               "schema_s5",
		MigrationsEnabled: true,
		AllowDowngrade:    false,
		TemplateCacheSize: 256,
	}
	_, mgr, err := wireset.Build(cfg, src)
	require.NoError(t, err)

	require.NoError(t, src.Begin(ctx))
	require.NoError(t, mgr.InitMetadataSource(ctx))
	require.NoError(t, src.Commit(ctx))

	require.NoError(t, src.Begin(ctx))
	libV, err := mgr.GetSchemaVersion(ctx)
	require.NoError(t, err)
	require.NoError(t, src.Commit(ctx))
	require.Equal(t, sqlitedialect.SchemaVersion, libV)

	// Re-running InitMetadataSource on an already-current database is a
	// no-op: verifyCurrent only checks table presence and returns nil.
	require.NoError(t, src.Begin(ctx))
	require.NoError(t, mgr.InitMetadataSource(ctx))
	require.NoError(t, src.Commit(ctx))

	require.NoError(t, src.Begin(ctx))
	again, err := mgr.GetSchemaVersion(ctx)
	require.NoError(t, err)
	require.NoError(t, src.Commit(ctx))
	require.Equal(t, libV, again)
}

// legacy0132TablesSQL creates exactly the seven characteristic tables
// of the 0.13.2 schema, in their pre-v1 column shapes (no description,
// input_type, output_type, state, name, or EventPath.step columns, and
// no MLMDEnv table), so legacyTablesPresent sees all seven and
// InitMetadataSource assigns db_v == 0.
const legacy0132TablesSQL = `
CREATE TABLE Type (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(255) NOT NULL,
	version VARCHAR(255),
	type_kind TINYINT NOT NULL,
	UNIQUE(name, version, type_kind)
);
CREATE TABLE Artifact (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id INTEGER NOT NULL,
	uri TEXT,
	create_time_since_epoch INTEGER NOT NULL DEFAULT 0,
	last_update_time_since_epoch INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE Execution (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id INTEGER NOT NULL,
	create_time_since_epoch INTEGER NOT NULL DEFAULT 0,
	last_update_time_since_epoch INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE ArtifactProperty (
	artifact_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	is_custom_property TINYINT NOT NULL DEFAULT 0,
	int_value INTEGER,
	double_value REAL,
	string_value TEXT,
	PRIMARY KEY (artifact_id, name)
);
CREATE TABLE ExecutionProperty (
	execution_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	is_custom_property TINYINT NOT NULL DEFAULT 0,
	int_value INTEGER,
	double_value REAL,
	string_value TEXT,
	PRIMARY KEY (execution_id, name)
);
CREATE TABLE Event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artifact_id INTEGER NOT NULL,
	execution_id INTEGER NOT NULL,
	type INTEGER NOT NULL,
	milliseconds_since_epoch INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE EventPath (
	event_id INTEGER NOT NULL,
	is_index_step TINYINT NOT NULL,
	step_index INTEGER,
	step_key TEXT
);
`

// TestInitMetadataSourceMigratesLegacy0132SchemaToLibraryVersion
// implements scenario S5's legacy branch: a database holding exactly
// the seven 0.13.2 tables and no MLMDEnv row is assigned db_v == 0,
// then must walk the full forward migration chain 0 -> 1 -> ... ->
// lib_v rather than failing for lack of a {From: 0} step.
func TestInitMetadataSourceMigratesLegacy0132SchemaToLibraryVersion(t *testing.T) {
	ctx := context.Background()
	src := openPrivate(t, "schema_legacy0132")

	require.NoError(t, src.Begin(ctx))
	_, err := src.Execute(ctx, legacy0132TablesSQL)
	require.NoError(t, err)
	require.NoError(t, src.Commit(ctx))

	cfg := executorcfg.Config{
		Dialect:           string(dialect.ProductSQLite),
		DSN:               "schema_legacy0132",
		MigrationsEnabled: true,
		TemplateCacheSize: 256,
	}
	_, mgr, err := wireset.Build(cfg, src)
	require.NoError(t, err)

	require.NoError(t, src.Begin(ctx))
	require.NoError(t, mgr.InitMetadataSource(ctx))
	require.NoError(t, src.Commit(ctx))

	require.NoError(t, src.Begin(ctx))
	libV, err := mgr.GetSchemaVersion(ctx)
	require.NoError(t, err)
	require.NoError(t, src.Commit(ctx))
	require.Equal(t, sqlitedialect.SchemaVersion, libV)

	// A post-migration ALTER TABLE-added column must be queryable: the
	// chain actually ran end to end rather than stopping at db_v == 0.
	require.NoError(t, src.Begin(ctx))
	_, err = src.Execute(ctx, `SELECT description, input_type, output_type FROM Type LIMIT 1`)
	require.NoError(t, err)
	_, err = src.Execute(ctx, `SELECT state, name FROM Artifact LIMIT 1`)
	require.NoError(t, err)
	require.NoError(t, src.Commit(ctx))
}

func TestInitMetadataSourceWithMigrationsDisabledRefusesOutdatedSchema(t *testing.T) {
	ctx := context.Background()
	src := openPrivate(t, "schema_disabled")

	createCfg := executorcfg.Config{
		Dialect:           string(dialect.ProductSQLite),
		DSN:               "schema_disabled",
		MigrationsEnabled: true,
		TemplateCacheSize: 256,
	}
	_, mgr, err := wireset.Build(createCfg, src)
	require.NoError(t, err)
	require.NoError(t, src.Begin(ctx))
	require.NoError(t, mgr.InitMetadataSource(ctx))
	require.NoError(t, src.Commit(ctx))

	// Against an already-current schema, disabling migrations still
	// succeeds: verifyCurrent never consults MigrationsEnabled.
	disabledCfg := createCfg
	disabledCfg.MigrationsEnabled = false
	_, mgr2, err := wireset.Build(disabledCfg, src)
	require.NoError(t, err)
	require.NoError(t, src.Begin(ctx))
	require.NoError(t, mgr2.InitMetadataSource(ctx))
	require.NoError(t, src.Commit(ctx))

	// Once the stored version is behind the library's, the same
	// migrations-disabled Manager refuses with FailedPrecondition.
	require.NoError(t, src.Begin(ctx))
	_, err = src.Execute(ctx, `UPDATE MLMDEnv SET schema_version = 9`)
	require.NoError(t, err)
	err = mgr2.InitMetadataSource(ctx)
	require.True(t, types.IsFailedPrecondition(err))
	require.NoError(t, src.Rollback(ctx))
}
