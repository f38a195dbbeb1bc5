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

package sqlitedialect

import (
	"fmt"

	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
)

// SchemaVersion is lib_v for this dialect: the schema version this
// package's templates and migrations were authored against.
const SchemaVersion int64 = 10

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS Type (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(255) NOT NULL,
	version VARCHAR(255),
	type_kind TINYINT NOT NULL,
	description TEXT,
	input_type TEXT,
	output_type TEXT,
	UNIQUE(name, version, type_kind)
);
CREATE TABLE IF NOT EXISTS TypeProperty (
	type_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	data_type INTEGER,
	PRIMARY KEY (type_id, name)
);
CREATE TABLE IF NOT EXISTS ParentType (
	type_id INTEGER NOT NULL,
	parent_type_id INTEGER NOT NULL,
	PRIMARY KEY (type_id, parent_type_id)
);
CREATE TABLE IF NOT EXISTS Artifact (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id INTEGER NOT NULL,
	uri TEXT,
	state INTEGER,
	name VARCHAR(255),
	create_time_since_epoch INTEGER NOT NULL DEFAULT 0,
	last_update_time_since_epoch INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS Execution (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id INTEGER NOT NULL,
	last_known_state INTEGER,
	name VARCHAR(255),
	create_time_since_epoch INTEGER NOT NULL DEFAULT 0,
	last_update_time_since_epoch INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS Context (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	create_time_since_epoch INTEGER NOT NULL DEFAULT 0,
	last_update_time_since_epoch INTEGER NOT NULL DEFAULT 0,
	UNIQUE(type_id, name)
);
CREATE TABLE IF NOT EXISTS ArtifactProperty (
	artifact_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	is_custom_property TINYINT NOT NULL DEFAULT 0,
	int_value INTEGER,
	double_value REAL,
	string_value TEXT,
	PRIMARY KEY (artifact_id, name)
);
CREATE TABLE IF NOT EXISTS ExecutionProperty (
	execution_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	is_custom_property TINYINT NOT NULL DEFAULT 0,
	int_value INTEGER,
	double_value REAL,
	string_value TEXT,
	PRIMARY KEY (execution_id, name)
);
CREATE TABLE IF NOT EXISTS ContextProperty (
	context_id INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	is_custom_property TINYINT NOT NULL DEFAULT 0,
	int_value INTEGER,
	double_value REAL,
	string_value TEXT,
	PRIMARY KEY (context_id, name)
);
CREATE TABLE IF NOT EXISTS Event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artifact_id INTEGER NOT NULL,
	execution_id INTEGER NOT NULL,
	type INTEGER NOT NULL,
	milliseconds_since_epoch INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS EventPath (
	event_id INTEGER NOT NULL,
	step INTEGER NOT NULL,
	is_index_step TINYINT NOT NULL,
	step_index INTEGER,
	step_key TEXT,
	PRIMARY KEY (event_id, step)
);
CREATE TABLE IF NOT EXISTS Attribution (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	context_id INTEGER NOT NULL,
	artifact_id INTEGER NOT NULL,
	UNIQUE(context_id, artifact_id)
);
CREATE TABLE IF NOT EXISTS Association (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	context_id INTEGER NOT NULL,
	execution_id INTEGER NOT NULL,
	UNIQUE(context_id, execution_id)
);
CREATE TABLE IF NOT EXISTS ParentContext (
	parent_context_id INTEGER NOT NULL,
	context_id INTEGER NOT NULL,
	PRIMARY KEY (parent_context_id, context_id)
);
CREATE TABLE IF NOT EXISTS MLMDEnv (
	schema_version INTEGER NOT NULL
);
`

// New constructs the SQLite QueryConfig: all operation templates,
// the creation script, and the full upgrade/downgrade migration
// chain from version 0 through SchemaVersion.
func New(templateCacheSize int) (*queryconfig.Config, error) {
	templates := map[string]string{
		queryconfig.CreateTables: createTablesSQL,

		queryconfig.CheckType:      `SELECT id FROM Type LIMIT 1`,
		queryconfig.CheckArtifact:  `SELECT id FROM Artifact LIMIT 1`,
		queryconfig.CheckExecution: `SELECT id FROM Execution LIMIT 1`,
		queryconfig.CheckContext:   `SELECT id FROM Context LIMIT 1`,
		queryconfig.CheckEvent:     `SELECT id FROM Event LIMIT 1`,
		queryconfig.CheckEnv:       `SELECT schema_version FROM MLMDEnv LIMIT 1`,

		queryconfig.CheckLegacyTables: `
SELECT name FROM sqlite_master WHERE type='table' AND name IN
('Type','Artifact','Execution','ArtifactProperty','ExecutionProperty','Event','EventPath')`,

		queryconfig.SelectSchemaVersion: `SELECT schema_version FROM MLMDEnv LIMIT 1`,
		queryconfig.InsertSchemaVersion: `INSERT INTO MLMDEnv (schema_version) VALUES (%s)`,
		queryconfig.UpdateSchemaVersion: `UPDATE MLMDEnv SET schema_version = %s`,

		queryconfig.InsertType: `
INSERT INTO Type (name, version, type_kind, description, input_type, output_type)
VALUES (%s, %s, %s, %s, %s, %s)`,
		queryconfig.InsertTypeProperty: `
INSERT INTO TypeProperty (type_id, name, data_type) VALUES (%s, %s, %s)`,
		queryconfig.InsertParentType: `
INSERT INTO ParentType (type_id, parent_type_id) VALUES (%s, %s)`,
		queryconfig.SelectTypesByID: `
SELECT id, name, version, type_kind, description, input_type, output_type
FROM Type WHERE id IN %s AND type_kind = %s`,
		queryconfig.SelectTypeByNameAndVersion: `
SELECT id, name, version, type_kind, description, input_type, output_type
FROM Type WHERE name = %s AND type_kind = %s AND version = %s`,
		queryconfig.SelectTypeByNameNullVersion: `
SELECT id, name, version, type_kind, description, input_type, output_type
FROM Type WHERE name = %s AND type_kind = %s AND version IS NULL`,
		queryconfig.SelectParentTypesByTypeID: `
SELECT type_id, parent_type_id FROM ParentType WHERE type_id IN %s`,
		queryconfig.SelectTypePropertiesByTypeID: `
SELECT type_id, name, data_type FROM TypeProperty WHERE type_id IN %s`,

		queryconfig.InsertArtifact: `
INSERT INTO Artifact (type_id, uri, state, name, create_time_since_epoch, last_update_time_since_epoch)
VALUES (%s, %s, %s, %s, %s, %s)`,
		queryconfig.UpdateArtifact: `
UPDATE Artifact SET type_id = %s, uri = %s, state = %s, name = %s, last_update_time_since_epoch = %s
WHERE id = %s`,
		queryconfig.SelectArtifactsByID: `
SELECT id, type_id, uri, state, name, create_time_since_epoch, last_update_time_since_epoch
FROM Artifact WHERE id IN %s`,
		queryconfig.DeleteArtifactsByID: `DELETE FROM Artifact WHERE id IN %s`,

		queryconfig.InsertExecution: `
INSERT INTO Execution (type_id, last_known_state, name, create_time_since_epoch, last_update_time_since_epoch)
VALUES (%s, %s, %s, %s, %s)`,
		queryconfig.UpdateExecution: `
UPDATE Execution SET type_id = %s, last_known_state = %s, name = %s, last_update_time_since_epoch = %s
WHERE id = %s`,
		queryconfig.SelectExecutionsByID: `
SELECT id, type_id, last_known_state, name, create_time_since_epoch, last_update_time_since_epoch
FROM Execution WHERE id IN %s`,
		queryconfig.DeleteExecutionsByID: `DELETE FROM Execution WHERE id IN %s`,

		queryconfig.InsertContext: `
INSERT INTO Context (type_id, name, create_time_since_epoch, last_update_time_since_epoch)
VALUES (%s, %s, %s, %s)`,
		queryconfig.UpdateContext: `
UPDATE Context SET type_id = %s, name = %s, last_update_time_since_epoch = %s WHERE id = %s`,
		queryconfig.SelectContextsByID: `
SELECT id, type_id, name, create_time_since_epoch, last_update_time_since_epoch
FROM Context WHERE id IN %s`,
		queryconfig.DeleteContextsByID: `DELETE FROM Context WHERE id IN %s`,

		queryconfig.InsertArtifactProperty: `
INSERT INTO ArtifactProperty (artifact_id, name, is_custom_property, int_value, double_value, string_value)
VALUES (%s, %s, %s, %s, %s, %s)`,
		queryconfig.UpdateArtifactProperty: `
UPDATE ArtifactProperty SET int_value = %s, double_value = %s, string_value = %s
WHERE artifact_id = %s AND name = %s`,
		queryconfig.DeleteArtifactProperty: `
DELETE FROM ArtifactProperty WHERE artifact_id = %s AND name = %s`,
		queryconfig.SelectArtifactPropertyByArtifactID: `
SELECT artifact_id, name, is_custom_property, int_value, double_value, string_value
FROM ArtifactProperty WHERE artifact_id IN %s`,
		queryconfig.DeleteArtifactPropertyByArtifactID: `
DELETE FROM ArtifactProperty WHERE artifact_id IN %s`,

		queryconfig.InsertExecutionProperty: `
INSERT INTO ExecutionProperty (execution_id, name, is_custom_property, int_value, double_value, string_value)
VALUES (%s, %s, %s, %s, %s, %s)`,
		queryconfig.UpdateExecutionProperty: `
UPDATE ExecutionProperty SET int_value = %s, double_value = %s, string_value = %s
WHERE execution_id = %s AND name = %s`,
		queryconfig.DeleteExecutionProperty: `
DELETE FROM ExecutionProperty WHERE execution_id = %s AND name = %s`,
		queryconfig.SelectExecutionPropertyByExecutionID: `
SELECT execution_id, name, is_custom_property, int_value, double_value, string_value
FROM ExecutionProperty WHERE execution_id IN %s`,
		queryconfig.DeleteExecutionPropertyByExecutionID: `
DELETE FROM ExecutionProperty WHERE execution_id IN %s`,

		queryconfig.InsertContextProperty: `
INSERT INTO ContextProperty (context_id, name, is_custom_property, int_value, double_value, string_value)
VALUES (%s, %s, %s, %s, %s, %s)`,
		queryconfig.UpdateContextProperty: `
UPDATE ContextProperty SET int_value = %s, double_value = %s, string_value = %s
WHERE context_id = %s AND name = %s`,
		queryconfig.DeleteContextProperty: `
DELETE FROM ContextProperty WHERE context_id = %s AND name = %s`,
		queryconfig.SelectContextPropertyByContextID: `
SELECT context_id, name, is_custom_property, int_value, double_value, string_value
FROM ContextProperty WHERE context_id IN %s`,
		queryconfig.DeleteContextPropertyByContextID: `
DELETE FROM ContextProperty WHERE context_id IN %s`,

		queryconfig.InsertEvent: fmt.Sprintf(`
INSERT INTO Event (artifact_id, execution_id, %s, milliseconds_since_epoch)
VALUES (%%s, %%s, %%s, %%s)`, Dialect.QuoteIdent("type")),
		queryconfig.InsertEventPath: `
INSERT INTO EventPath (event_id, step, is_index_step, step_index, step_key)
VALUES (%s, %s, %s, %s, %s)`,
		queryconfig.SelectEventsByArtifactID: fmt.Sprintf(`
SELECT id, artifact_id, execution_id, %s, milliseconds_since_epoch FROM Event WHERE artifact_id IN %%s`, Dialect.QuoteIdent("type")),
		queryconfig.SelectEventsByExecutionID: fmt.Sprintf(`
SELECT id, artifact_id, execution_id, %s, milliseconds_since_epoch FROM Event WHERE execution_id IN %%s`, Dialect.QuoteIdent("type")),
		queryconfig.SelectEventPathByEventID: `
SELECT event_id, step, is_index_step, step_index, step_key FROM EventPath WHERE event_id IN %s ORDER BY step ASC`,
		queryconfig.DeleteEventsByArtifactID: `DELETE FROM Event WHERE artifact_id IN %s`,
		queryconfig.DeleteEventsByExecutionID: `DELETE FROM Event WHERE execution_id IN %s`,

		queryconfig.InsertAttribution: `
INSERT INTO Attribution (context_id, artifact_id) VALUES (%s, %s)`,
		queryconfig.SelectAttributionByContextID: `
SELECT id, context_id, artifact_id FROM Attribution WHERE context_id IN %s`,
		queryconfig.SelectAttributionByArtifactID: `
SELECT id, context_id, artifact_id FROM Attribution WHERE artifact_id IN %s`,
		queryconfig.DeleteAttributionsByContextID: `DELETE FROM Attribution WHERE context_id IN %s`,

		queryconfig.InsertAssociation: `
INSERT INTO Association (context_id, execution_id) VALUES (%s, %s)`,
		queryconfig.SelectAssociationByContextIDs: `
SELECT id, context_id, execution_id FROM Association WHERE context_id IN %s`,
		queryconfig.SelectAssociationByExecutionID: `
SELECT id, context_id, execution_id FROM Association WHERE execution_id IN %s`,
		queryconfig.DeleteAssociationsByContextID: `DELETE FROM Association WHERE context_id IN %s`,

		queryconfig.InsertParentContext: `
INSERT INTO ParentContext (parent_context_id, context_id) VALUES (%s, %s)`,
		queryconfig.SelectParentContextsByContextID: `
SELECT parent_context_id, context_id FROM ParentContext WHERE context_id IN %s`,
		queryconfig.SelectChildContextsByContextID: `
SELECT parent_context_id, context_id FROM ParentContext WHERE parent_context_id IN %s`,
		queryconfig.DeleteParentContextsByParentIDOrChildID: `
DELETE FROM ParentContext WHERE parent_context_id IN %s OR context_id IN %s`,
	}

	return queryconfig.New(Dialect, SchemaVersion, templates, upgrades(), downgrades(), templateCacheSize)
}

// upgrades lists the forward migration chain from version 0 through
// SchemaVersion. An empty database is handled separately by the
// Schema Lifecycle Manager's CreateTables script and never runs this
// chain at all. Version 0 here is the pre-MLMDEnv 0.13.2 schema: its
// seven characteristic tables already have the column shapes version
// 1 expects (every later step only adds columns/tables from 2
// onward), so the only gap is the schema_version tracking table
// itself.
func upgrades() []queryconfig.MigrationStep {
	return []queryconfig.MigrationStep{
		{From: 0, To: 1, Statements: []string{
			`CREATE TABLE IF NOT EXISTS MLMDEnv (schema_version INTEGER NOT NULL)`,
		}},
		{From: 1, To: 2, Statements: []string{
			`ALTER TABLE Type ADD COLUMN description TEXT`,
		}},
		{From: 2, To: 3, Statements: []string{
			`CREATE TABLE IF NOT EXISTS ParentType (type_id INTEGER NOT NULL, parent_type_id INTEGER NOT NULL, PRIMARY KEY (type_id, parent_type_id))`,
		}},
		{From: 3, To: 4, Statements: []string{
			`ALTER TABLE Artifact ADD COLUMN state INTEGER`,
			`ALTER TABLE Artifact ADD COLUMN name VARCHAR(255)`,
		}},
		{From: 4, To: 5, Statements: []string{
			`ALTER TABLE Execution ADD COLUMN last_known_state INTEGER`,
			`ALTER TABLE Execution ADD COLUMN name VARCHAR(255)`,
		}},
		{From: 5, To: 6, Statements: []string{
			`CREATE TABLE IF NOT EXISTS Context (id INTEGER PRIMARY KEY AUTOINCREMENT, type_id INTEGER NOT NULL, name VARCHAR(255) NOT NULL, create_time_since_epoch INTEGER NOT NULL DEFAULT 0, last_update_time_since_epoch INTEGER NOT NULL DEFAULT 0, UNIQUE(type_id, name))`,
			`CREATE TABLE IF NOT EXISTS ContextProperty (context_id INTEGER NOT NULL, name VARCHAR(255) NOT NULL, is_custom_property TINYINT NOT NULL DEFAULT 0, int_value INTEGER, double_value REAL, string_value TEXT, PRIMARY KEY (context_id, name))`,
		}},
		{From: 6, To: 7, Statements: []string{
			`CREATE TABLE IF NOT EXISTS Attribution (id INTEGER PRIMARY KEY AUTOINCREMENT, context_id INTEGER NOT NULL, artifact_id INTEGER NOT NULL, UNIQUE(context_id, artifact_id))`,
			`CREATE TABLE IF NOT EXISTS Association (id INTEGER PRIMARY KEY AUTOINCREMENT, context_id INTEGER NOT NULL, execution_id INTEGER NOT NULL, UNIQUE(context_id, execution_id))`,
		}},
		{From: 7, To: 8, Statements: []string{
			`CREATE TABLE IF NOT EXISTS ParentContext (parent_context_id INTEGER NOT NULL, context_id INTEGER NOT NULL, PRIMARY KEY (parent_context_id, context_id))`,
		}},
		{From: 8, To: 9, Statements: []string{
			`ALTER TABLE EventPath ADD COLUMN step INTEGER NOT NULL DEFAULT 0`,
		}},
		{From: 9, To: 10, Statements: []string{
			`ALTER TABLE Type ADD COLUMN input_type TEXT`,
			`ALTER TABLE Type ADD COLUMN output_type TEXT`,
		}},
	}
}

// downgrades lists the reverse migration chain, used only by
// DowngradeMetadataSource. These scripts may drop columns or tables
// and are documented to lose data.
func downgrades() []queryconfig.MigrationStep {
	return []queryconfig.MigrationStep{
		{From: 10, To: 9, Statements: []string{
			`ALTER TABLE Type DROP COLUMN input_type`,
			`ALTER TABLE Type DROP COLUMN output_type`,
		}},
		{From: 9, To: 8, Statements: []string{
			`ALTER TABLE EventPath DROP COLUMN step`,
		}},
		{From: 8, To: 7, Statements: []string{
			`DROP TABLE IF EXISTS ParentContext`,
		}},
		{From: 7, To: 6, Statements: []string{
			`DROP TABLE IF EXISTS Attribution`,
			`DROP TABLE IF EXISTS Association`,
		}},
		{From: 6, To: 5, Statements: []string{
			`DROP TABLE IF EXISTS ContextProperty`,
			`DROP TABLE IF EXISTS Context`,
		}},
		{From: 5, To: 4, Statements: []string{
			`ALTER TABLE Execution DROP COLUMN last_known_state`,
			`ALTER TABLE Execution DROP COLUMN name`,
		}},
		{From: 4, To: 3, Statements: []string{
			`ALTER TABLE Artifact DROP COLUMN state`,
			`ALTER TABLE Artifact DROP COLUMN name`,
		}},
		{From: 3, To: 2, Statements: []string{
			`DROP TABLE IF EXISTS ParentType`,
		}},
		{From: 2, To: 1, Statements: []string{
			`ALTER TABLE Type DROP COLUMN description`,
		}},
		{From: 1, To: 0, Statements: []string{
			`DROP TABLE IF EXISTS MLMDEnv`,
		}},
	}
}
