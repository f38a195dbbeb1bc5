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

// Package schema implements the Schema Lifecycle Manager: it creates,
// verifies, migrates, and optionally downgrades the metadata store's
// on-disk schema for one MetadataSource connection. It runs once per
// connection lifetime, on Init paths, and never during steady-state
// QueryExecutor operation.
package schema

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
	"github.com/CandiedCode/ml-metadata/internal/recordset"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// legacyTables are the characteristic tables of the 0.13.2 schema that
// predates the MLMDEnv version-tracking row. Their joint presence (all
// seven) identifies db_v == 0; a partial subset is an ambiguous,
// unrecoverable state.
var legacyTables = []string{
	"Type", "Artifact", "Execution", "ArtifactProperty",
	"ExecutionProperty", "Event", "EventPath",
}

// Options toggles the Manager's willingness to mutate the schema. A
// caller that wants read-only verification sets MigrationsEnabled
// false; InitMetadataSource then surfaces FailedPrecondition instead of
// running migration scripts.
type Options struct {
	MigrationsEnabled bool
	AllowDowngrade    bool
}

// Manager drives the schema lifecycle for a single MetadataSource. It
// is a value object: a non-owning reference to the source plus an
// immutable QueryConfig, mirroring the QueryExecutor's own shape.
type Manager struct {
	src types.MetadataSource
	cfg *queryconfig.Config
	opt Options
}

// New constructs a Manager. cfg supplies the schema-version and
// migration-script bundle; src is the connection the Manager probes
// and mutates.
func New(src types.MetadataSource, cfg *queryconfig.Config, opt Options) *Manager {
	return &Manager{src: src, cfg: cfg, opt: opt}
}

// InitMetadataSource runs the full state machine described at the
// package level: probe MLMDEnv, fall back to legacy-table detection,
// create an empty schema from scratch, or migrate an outdated one
// forward. It must be called within a transaction already open on
// src; the caller commits or rolls back that transaction, since the
// Manager never begins one of its own.
func (m *Manager) InitMetadataSource(ctx context.Context) error {
	libV := m.cfg.SchemaVersion

	dbV, envFound, err := m.probeSchemaVersion(ctx)
	if err != nil {
		return err
	}

	if !envFound {
		present, err := m.legacyTablesPresent(ctx)
		if err != nil {
			return err
		}
		switch {
		case present == len(legacyTables):
			dbV = 0
		case present == 0:
			return m.createEmpty(ctx, libV)
		default:
			return types.New(types.KindDataLoss,
				"ambiguous legacy schema: some but not all 0.13.2 tables are present")
		}
	}

	switch {
	case dbV == libV:
		return m.verifyCurrent(ctx)
	case dbV < libV:
		if !m.opt.MigrationsEnabled {
			return types.New(types.KindFailedPrecondition,
				"schema is outdated and migrations are disabled")
		}
		return m.upgrade(ctx, dbV, libV)
	default:
		return types.New(types.KindFailedPrecondition,
			"database schema_version is newer than this library; downgrading may lose data, upgrade the library instead")
	}
}

// DowngradeMetadataSource runs the reverse migration chain from lib_v
// down to target. It is intended for administrators: the reverse
// scripts may drop columns or tables, and the caller accepts data loss
// by invoking this operation at all.
func (m *Manager) DowngradeMetadataSource(ctx context.Context, target int64) error {
	if !m.opt.AllowDowngrade {
		return types.New(types.KindFailedPrecondition, "downgrade is disabled")
	}
	path, err := m.cfg.DowngradePath(target)
	if err != nil {
		return types.Wrap(types.KindFailedPrecondition, err, "no downgrade path available")
	}
	for _, step := range path {
		log.WithFields(log.Fields{"from": step.From, "to": step.To}).Info("downgrading metadata schema")
		if err := m.runStep(ctx, step); err != nil {
			return err
		}
		if err := m.writeSchemaVersion(ctx, step.To); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaVersion returns the schema_version currently stored in
// MLMDEnv.
func (m *Manager) GetSchemaVersion(ctx context.Context) (int64, error) {
	dbV, found, err := m.probeSchemaVersion(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, types.New(types.KindNotFound, "no schema_version row present")
	}
	return dbV, nil
}

func (m *Manager) probeSchemaVersion(ctx context.Context) (version int64, found bool, err error) {
	sqlText, err := m.cfg.Render(queryconfig.SelectSchemaVersion)
	if err != nil {
		return 0, false, types.Wrap(types.KindInternal, err, "could not render select_schema_version")
	}
	rs, err := m.src.Execute(ctx, sqlText)
	if types.IsFailedPrecondition(err) {
		// No open transaction on src: a caller error, not a probe result.
		return 0, false, err
	}
	if err != nil {
		// The MLMDEnv table itself does not exist yet; this is the
		// expected signal for an empty or legacy database, not a
		// failure.
		return 0, false, nil
	}
	if rs.NumRows() == 0 {
		return 0, false, nil
	}
	v, ok := recordset.Int64(rs, 0, "schema_version")
	if !ok {
		return 0, false, types.New(types.KindInternal, "schema_version row present but unparsable")
	}
	return v, true, nil
}

func (m *Manager) legacyTablesPresent(ctx context.Context) (int, error) {
	sqlText, err := m.cfg.Render(queryconfig.CheckLegacyTables)
	if err != nil {
		return 0, types.Wrap(types.KindInternal, err, "could not render check_legacy_tables")
	}
	rs, err := m.src.Execute(ctx, sqlText)
	if err != nil {
		return 0, types.Wrap(types.KindInternal, err, "could not probe legacy tables")
	}
	return rs.NumRows(), nil
}

func (m *Manager) createEmpty(ctx context.Context, libV int64) error {
	log.WithField("schema_version", libV).Info("creating metadata schema from empty database")
	sqlText, err := m.cfg.Render(queryconfig.CreateTables)
	if err != nil {
		return types.Wrap(types.KindInternal, err, "could not render create_tables")
	}
	if _, err := m.src.Execute(ctx, sqlText); err != nil {
		return types.Wrap(types.KindInternal, err, "could not create metadata schema")
	}
	return m.writeSchemaVersion(ctx, libV)
}

func (m *Manager) upgrade(ctx context.Context, dbV, libV int64) error {
	path, err := m.cfg.UpgradePath(dbV)
	if err != nil {
		return types.Wrap(types.KindFailedPrecondition, err, "no upgrade path available")
	}
	for _, step := range path {
		log.WithFields(log.Fields{"from": step.From, "to": step.To}).Info("migrating metadata schema")
		if err := m.runStep(ctx, step); err != nil {
			return err
		}
		if err := m.writeSchemaVersion(ctx, step.To); err != nil {
			return err
		}
	}
	_ = libV // path's final To equals libV by construction of UpgradePath
	return nil
}

func (m *Manager) runStep(ctx context.Context, step queryconfig.MigrationStep) error {
	if override, ok := m.cfg.Dialect.MigrationOverride(step.From, step.To); ok {
		if _, err := m.src.Execute(ctx, override); err != nil {
			return types.Wrap(types.KindInternal, err, "migration override failed")
		}
		return nil
	}
	for _, stmt := range step.Statements {
		if _, err := m.src.Execute(ctx, stmt); err != nil {
			return types.Wrap(types.KindInternal, err, "migration statement failed")
		}
	}
	return nil
}

func (m *Manager) writeSchemaVersion(ctx context.Context, v int64) error {
	_, found, err := m.probeSchemaVersion(ctx)
	if err != nil {
		return err
	}
	var tmplName string
	if found {
		tmplName = queryconfig.UpdateSchemaVersion
	} else {
		tmplName = queryconfig.InsertSchemaVersion
	}
	sqlText, err := m.cfg.Render(tmplName, binder.Enum(int32(v)))
	if err != nil {
		return types.Wrap(types.KindInternal, err, "could not render schema_version write")
	}
	if _, err := m.src.Execute(ctx, sqlText); err != nil {
		return types.Wrap(types.KindInternal, err, "could not persist schema_version")
	}
	return nil
}

// verifyCurrent confirms each entity's characteristic table responds
// to its check_*_table template. It is what makes a second
// InitMetadataSource call on an already-current database a cheap,
// successful no-op (Testable Property 8).
func (m *Manager) verifyCurrent(ctx context.Context) error {
	checks := []string{
		queryconfig.CheckType,
		queryconfig.CheckArtifact,
		queryconfig.CheckExecution,
		queryconfig.CheckContext,
		queryconfig.CheckEvent,
		queryconfig.CheckEnv,
	}
	for _, name := range checks {
		sqlText, err := m.cfg.Render(name)
		if err != nil {
			return types.Wrap(types.KindInternal, err, "could not render "+name)
		}
		if _, err := m.src.Execute(ctx, sqlText); err != nil {
			return types.Wrap(types.KindInternal, err, "schema verification failed for "+name)
		}
	}
	return nil
}
