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

// Package queryconfig holds the declarative bundle of SQL templates a
// Dialect provides: one text template per named operation, the
// integer schema version the templates were authored against, and the
// ordered forward/backward migration scripts between versions. A
// Config is immutable after construction and may be shared across
// Executor instances.
package queryconfig

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
)

// Well-known template names. Every Dialect implementation must supply
// an entry for each of these in its Templates map; the executor
// package looks operations up by these exact keys.
const (
	CreateTables  = "create_tables"
	CheckType     = "check_type_table"
	CheckArtifact = "check_artifact_table"
	CheckExecution = "check_execution_table"
	CheckContext  = "check_context_table"
	CheckEvent    = "check_event_table"
	CheckEnv      = "check_env_table"

	InsertType     = "insert_type"
	InsertTypeProperty = "insert_type_property"
	InsertParentType = "insert_parent_type"
	SelectTypesByID  = "select_types_by_id"
	SelectTypeByNameAndVersion = "select_type_by_name_and_version"
	SelectTypeByNameNullVersion = "select_type_by_name_null_version"
	SelectParentTypesByTypeID  = "select_parent_types_by_type_id"
	SelectTypePropertiesByTypeID = "select_type_properties_by_type_id"

	InsertArtifact = "insert_artifact"
	UpdateArtifact = "update_artifact"
	SelectArtifactsByID = "select_artifacts_by_id"
	DeleteArtifactsByID = "delete_artifacts_by_id"

	InsertExecution = "insert_execution"
	UpdateExecution = "update_execution"
	SelectExecutionsByID = "select_executions_by_id"
	DeleteExecutionsByID = "delete_executions_by_id"

	InsertContext = "insert_context"
	UpdateContext = "update_context"
	SelectContextsByID = "select_contexts_by_id"
	DeleteContextsByID = "delete_contexts_by_id"

	InsertArtifactProperty  = "insert_artifact_property"
	UpdateArtifactProperty  = "update_artifact_property"
	DeleteArtifactProperty  = "delete_artifact_property"
	SelectArtifactPropertyByArtifactID = "select_artifact_property_by_artifact_id"
	DeleteArtifactPropertyByArtifactID = "delete_artifact_property_by_artifact_id"

	InsertExecutionProperty = "insert_execution_property"
	UpdateExecutionProperty = "update_execution_property"
	DeleteExecutionProperty = "delete_execution_property"
	SelectExecutionPropertyByExecutionID = "select_execution_property_by_execution_id"
	DeleteExecutionPropertyByExecutionID = "delete_execution_property_by_execution_id"

	InsertContextProperty = "insert_context_property"
	UpdateContextProperty = "update_context_property"
	DeleteContextProperty = "delete_context_property"
	SelectContextPropertyByContextID = "select_context_property_by_context_id"
	DeleteContextPropertyByContextID = "delete_context_property_by_context_id"

	InsertEvent      = "insert_event"
	InsertEventPath  = "insert_event_path"
	SelectEventsByArtifactID  = "select_events_by_artifact_id"
	SelectEventsByExecutionID = "select_events_by_execution_id"
	SelectEventPathByEventID  = "select_event_path_by_event_id"
	DeleteEventsByArtifactID  = "delete_events_by_artifact_id"
	DeleteEventsByExecutionID = "delete_events_by_execution_id"

	InsertAttribution = "insert_attribution"
	SelectAttributionByContextID  = "select_attribution_by_context_id"
	SelectAttributionByArtifactID = "select_attribution_by_artifact_id"
	DeleteAttributionsByContextID = "delete_attributions_by_context_id"

	InsertAssociation = "insert_association"
	SelectAssociationByContextIDs  = "select_association_by_context_ids"
	SelectAssociationByExecutionID = "select_association_by_execution_id"
	DeleteAssociationsByContextID  = "delete_associations_by_context_id"

	InsertParentContext = "insert_parent_context"
	SelectParentContextsByContextID = "select_parent_contexts_by_context_id"
	SelectChildContextsByContextID  = "select_child_contexts_by_context_id"
	DeleteParentContextsByParentIDOrChildID = "delete_parent_contexts_by_parent_id_or_child_id"

	SelectSchemaVersion = "select_schema_version"
	InsertSchemaVersion = "insert_schema_version"
	UpdateSchemaVersion = "update_schema_version"
	CheckLegacyTables   = "check_legacy_tables"
)

// MigrationStep is one forward or backward migration between two
// adjacent schema versions. Statements run in order within the
// caller's open transaction; a step is not given a transaction of its
// own.
type MigrationStep struct {
	From, To   int64
	Statements []string
}

// Config is the declarative SQL bundle for one Dialect.
type Config struct {
	Dialect       dialect.Dialect
	SchemaVersion int64
	Templates     map[string]string
	// Upgrades holds one entry per (v, v+1), ordered ascending.
	Upgrades []MigrationStep
	// Downgrades holds one entry per (v+1, v), ordered descending from
	// SchemaVersion. May be nil if downgrade is unsupported.
	Downgrades []MigrationStep

	cache *lru.Cache[string, string]
}

// New constructs a Config. templateCacheSize bounds the number of
// resolved (name, args) -> SQL lookups retained; 0 disables caching.
func New(
	d dialect.Dialect, schemaVersion int64, templates map[string]string,
	upgrades, downgrades []MigrationStep, templateCacheSize int,
) (*Config, error) {
	if schemaVersion <= 0 {
		return nil, errors.New("schema_version must be positive")
	}
	cfg := &Config{
		Dialect:       d,
		SchemaVersion: schemaVersion,
		Templates:     templates,
		Upgrades:      upgrades,
		Downgrades:    downgrades,
	}
	if templateCacheSize > 0 {
		c, err := lru.New[string, string](templateCacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "could not allocate template cache")
		}
		cfg.cache = c
	}
	return cfg, nil
}

// Render substitutes args into the named template using fmt's %
// verbs. Every value in args is expected to already be a bound SQL
// literal produced by the Binder; Render performs no escaping of its
// own.
func (c *Config) Render(name string, args ...any) (string, error) {
	tmpl, ok := c.Templates[name]
	if !ok {
		return "", errors.Errorf("no template registered for operation %q", name)
	}
	if len(args) == 0 {
		return tmpl, nil
	}

	key := cacheKey(name, args)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
	}
	rendered := fmt.Sprintf(tmpl, args...)
	if c.cache != nil {
		c.cache.Add(key, rendered)
	}
	return rendered, nil
}

func cacheKey(name string, args []any) string {
	s := name
	for _, a := range args {
		s += "\x00" + fmt.Sprint(a)
	}
	return s
}

// UpgradePath returns the ordered slice of migration steps needed to
// go from db_v to lib_v (c.SchemaVersion), or an error if the chain is
// incomplete.
func (c *Config) UpgradePath(dbVersion int64) ([]MigrationStep, error) {
	if dbVersion >= c.SchemaVersion {
		return nil, nil
	}
	var path []MigrationStep
	cur := dbVersion
	for cur < c.SchemaVersion {
		step, ok := findStep(c.Upgrades, cur)
		if !ok {
			return nil, errors.Errorf("no upgrade script registered from version %d", cur)
		}
		path = append(path, step)
		cur = step.To
	}
	return path, nil
}

// DowngradePath returns the ordered slice of migration steps needed to
// go from the current lib_v down to target, or an error if the chain
// is incomplete or downgrade is unsupported.
func (c *Config) DowngradePath(target int64) ([]MigrationStep, error) {
	if target >= c.SchemaVersion {
		return nil, errors.New("downgrade target must be below the current schema version")
	}
	if target < 0 {
		return nil, errors.New("downgrade target must be non-negative")
	}
	var path []MigrationStep
	cur := c.SchemaVersion
	for cur > target {
		step, ok := findStep(c.Downgrades, cur)
		if !ok {
			return nil, errors.Errorf("no downgrade script registered from version %d", cur)
		}
		path = append(path, step)
		cur = step.To
	}
	return path, nil
}

func findStep(steps []MigrationStep, from int64) (MigrationStep, bool) {
	for _, s := range steps {
		if s.From == from {
			return s, true
		}
	}
	return MigrationStep{}, false
}
