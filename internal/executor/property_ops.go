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

package executor

import (
	"context"

	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
	"github.com/CandiedCode/ml-metadata/internal/recordset"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// propertyTemplates names the five templates one owner kind
// (Artifact, Execution, Context) needs for its property rows. The
// three owner-specific property_ops entry points below are thin
// wrappers around the same shared logic, parameterised by this set,
// because the Property table's shape and write discipline (exactly one
// of three value columns populated, is_custom_property as a flag bit)
// is identical across owners; only the table name differs.
type propertyTemplates struct {
	insert, update, delete, selectByOwner, deleteByOwner string
}

var (
	artifactPropertyTemplates = propertyTemplates{
		queryconfig.InsertArtifactProperty, queryconfig.UpdateArtifactProperty,
		queryconfig.DeleteArtifactProperty, queryconfig.SelectArtifactPropertyByArtifactID,
		queryconfig.DeleteArtifactPropertyByArtifactID,
	}
	executionPropertyTemplates = propertyTemplates{
		queryconfig.InsertExecutionProperty, queryconfig.UpdateExecutionProperty,
		queryconfig.DeleteExecutionProperty, queryconfig.SelectExecutionPropertyByExecutionID,
		queryconfig.DeleteExecutionPropertyByExecutionID,
	}
	contextPropertyTemplates = propertyTemplates{
		queryconfig.InsertContextProperty, queryconfig.UpdateContextProperty,
		queryconfig.DeleteContextProperty, queryconfig.SelectContextPropertyByContextID,
		queryconfig.DeleteContextPropertyByContextID,
	}
)

func (e *Executor) insertProperty(ctx context.Context, t propertyTemplates, ownerID int64, p types.PropertyRow) error {
	sqlText, err := e.render(t.insert, e.b.Int64(ownerID), e.b.String(p.Name),
		e.d.BoolLiteral(p.IsCustom), e.b.Value(int64ValueOrNull(p.Value)), e.b.Value(doubleValueOrNull(p.Value)), e.b.Value(stringValueOrNull(p.Value)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, t.insert, sqlText)
	return err
}

func (e *Executor) updateProperty(ctx context.Context, t propertyTemplates, ownerID int64, p types.PropertyRow) error {
	sqlText, err := e.render(t.update,
		e.b.Value(int64ValueOrNull(p.Value)), e.b.Value(doubleValueOrNull(p.Value)), e.b.Value(stringValueOrNull(p.Value)),
		e.b.Int64(ownerID), e.b.String(p.Name))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, t.update, sqlText)
	return err
}

func (e *Executor) deleteProperty(ctx context.Context, t propertyTemplates, ownerID int64, name string) error {
	sqlText, err := e.render(t.delete, e.b.Int64(ownerID), e.b.String(name))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, t.delete, sqlText)
	return err
}

func (e *Executor) selectPropertiesByOwnerID(ctx context.Context, t propertyTemplates, ownerIDColumn string, ownerIDs []int64) (*types.RecordSet, error) {
	if len(ownerIDs) == 0 {
		return recordset.Empty(ownerIDColumn, "name", "is_custom_property", "int_value", "double_value", "string_value"), nil
	}
	sqlText, err := e.render(t.selectByOwner, e.d.ExpandInClause(e.b.Int64List(ownerIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, t.selectByOwner, sqlText)
}

func (e *Executor) deletePropertiesByOwnerID(ctx context.Context, t propertyTemplates, ownerIDs []int64) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	sqlText, err := e.render(t.deleteByOwner, e.d.ExpandInClause(e.b.Int64List(ownerIDs)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, t.deleteByOwner, sqlText)
	return err
}

// int64ValueOrNull, doubleValueOrNull, and stringValueOrNull each
// render the Value as its own column's literal if populated, or NULL
// otherwise: the three-column, exactly-one-populated discipline a
// property row's storage requires.
func int64ValueOrNull(v types.Value) types.Value {
	if v.Type == types.Int {
		return v
	}
	return types.Value{}
}

func doubleValueOrNull(v types.Value) types.Value {
	if v.Type == types.Double {
		return v
	}
	return types.Value{}
}

func stringValueOrNull(v types.Value) types.Value {
	if v.Type == types.String {
		return v
	}
	return types.Value{}
}

// InsertArtifactProperty writes exactly one typed value column for the
// named property on artifactID; the other two value columns are NULL.
func (e *Executor) InsertArtifactProperty(ctx context.Context, artifactID int64, p types.PropertyRow) error {
	return e.insertProperty(ctx, artifactPropertyTemplates, artifactID, p)
}

// UpdateArtifactProperty overwrites the value columns of an existing
// artifact property row.
func (e *Executor) UpdateArtifactProperty(ctx context.Context, artifactID int64, p types.PropertyRow) error {
	return e.updateProperty(ctx, artifactPropertyTemplates, artifactID, p)
}

// DeleteArtifactProperty removes one named property row from an
// artifact.
func (e *Executor) DeleteArtifactProperty(ctx context.Context, artifactID int64, name string) error {
	return e.deleteProperty(ctx, artifactPropertyTemplates, artifactID, name)
}

// SelectArtifactPropertyByArtifactID returns every property row
// belonging to the given artifact ids.
func (e *Executor) SelectArtifactPropertyByArtifactID(ctx context.Context, artifactIDs []int64) (*types.RecordSet, error) {
	return e.selectPropertiesByOwnerID(ctx, artifactPropertyTemplates, "artifact_id", artifactIDs)
}

// InsertExecutionProperty is the Execution analogue of
// InsertArtifactProperty.
func (e *Executor) InsertExecutionProperty(ctx context.Context, executionID int64, p types.PropertyRow) error {
	return e.insertProperty(ctx, executionPropertyTemplates, executionID, p)
}

// UpdateExecutionProperty is the Execution analogue of
// UpdateArtifactProperty.
func (e *Executor) UpdateExecutionProperty(ctx context.Context, executionID int64, p types.PropertyRow) error {
	return e.updateProperty(ctx, executionPropertyTemplates, executionID, p)
}

// DeleteExecutionProperty is the Execution analogue of
// DeleteArtifactProperty.
func (e *Executor) DeleteExecutionProperty(ctx context.Context, executionID int64, name string) error {
	return e.deleteProperty(ctx, executionPropertyTemplates, executionID, name)
}

// SelectExecutionPropertyByExecutionID is the Execution analogue of
// SelectArtifactPropertyByArtifactID.
func (e *Executor) SelectExecutionPropertyByExecutionID(ctx context.Context, executionIDs []int64) (*types.RecordSet, error) {
	return e.selectPropertiesByOwnerID(ctx, executionPropertyTemplates, "execution_id", executionIDs)
}

// InsertContextProperty is the Context analogue of
// InsertArtifactProperty.
func (e *Executor) InsertContextProperty(ctx context.Context, contextID int64, p types.PropertyRow) error {
	return e.insertProperty(ctx, contextPropertyTemplates, contextID, p)
}

// UpdateContextProperty is the Context analogue of
// UpdateArtifactProperty.
func (e *Executor) UpdateContextProperty(ctx context.Context, contextID int64, p types.PropertyRow) error {
	return e.updateProperty(ctx, contextPropertyTemplates, contextID, p)
}

// DeleteContextProperty is the Context analogue of
// DeleteArtifactProperty.
func (e *Executor) DeleteContextProperty(ctx context.Context, contextID int64, name string) error {
	return e.deleteProperty(ctx, contextPropertyTemplates, contextID, name)
}

// SelectContextPropertyByContextID is the Context analogue of
// SelectArtifactPropertyByArtifactID.
func (e *Executor) SelectContextPropertyByContextID(ctx context.Context, contextIDs []int64) (*types.RecordSet, error) {
	return e.selectPropertiesByOwnerID(ctx, contextPropertyTemplates, "context_id", contextIDs)
}

// deleteArtifactPropertiesByOwnerID and its Execution/Context
// analogues back the partial-cascade delete operations: deleting an
// entity also deletes its property rows, nothing else.
func (e *Executor) deleteArtifactPropertiesByOwnerID(ctx context.Context, ids []int64) error {
	return e.deletePropertiesByOwnerID(ctx, artifactPropertyTemplates, ids)
}

func (e *Executor) deleteExecutionPropertiesByOwnerID(ctx context.Context, ids []int64) error {
	return e.deletePropertiesByOwnerID(ctx, executionPropertyTemplates, ids)
}

func (e *Executor) deleteContextPropertiesByOwnerID(ctx context.Context, ids []int64) error {
	return e.deletePropertiesByOwnerID(ctx, contextPropertyTemplates, ids)
}
