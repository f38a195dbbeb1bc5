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

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
	"github.com/CandiedCode/ml-metadata/internal/recordset"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// InsertType creates a new Type row and returns its server-assigned
// id. A duplicate (name, version, kind) surfaces as AlreadyExists.
func (e *Executor) InsertType(ctx context.Context, t types.Type) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertType,
		e.b.String(t.Name), e.b.OptString(t.Version), binder.Enum(t.Kind),
		e.b.OptString(t.Description), e.b.OptString(t.InputType), e.b.OptString(t.OutputType))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertType, sqlText)
}

// InsertTypeProperty declares one typed property slot on a Type.
func (e *Executor) InsertTypeProperty(ctx context.Context, p types.TypeProperty) error {
	sqlText, err := e.render(queryconfig.InsertTypeProperty,
		e.b.Int64(p.TypeID), e.b.String(p.Name), binder.Enum(p.PropertyType))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.InsertTypeProperty, sqlText)
	return err
}

// InsertParentType records a soft, unenforced edge from typeID to
// parentTypeID. Neither id is validated against Type's existence.
func (e *Executor) InsertParentType(ctx context.Context, typeID, parentTypeID int64) error {
	sqlText, err := e.render(queryconfig.InsertParentType, e.b.Int64(typeID), e.b.Int64(parentTypeID))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.InsertParentType, sqlText)
	return err
}

// SelectTypesByID returns the Type rows among ids whose stored kind
// equals kind; ids of a different kind are silently filtered, not
// reported as an error (Testable Property 1).
func (e *Executor) SelectTypesByID(ctx context.Context, ids []int64, kind types.TypeKind) (*types.RecordSet, error) {
	if len(ids) == 0 {
		return recordset.Empty("id", "name", "version", "type_kind", "description", "input_type", "output_type"), nil
	}
	sqlText, err := e.render(queryconfig.SelectTypesByID,
		e.d.ExpandInClause(e.b.Int64List(ids)), binder.Enum(kind))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectTypesByID, sqlText)
}

// SelectTypeByNameAndVersion looks up a single Type by its natural
// key. A nil version selects the NULL-version template so that NULL
// and any non-NULL version are treated as distinct keys, per the
// IS-NULL semantics §9 mandates.
func (e *Executor) SelectTypeByNameAndVersion(ctx context.Context, name string, kind types.TypeKind, version *string) (*types.RecordSet, error) {
	if version == nil {
		sqlText, err := e.render(queryconfig.SelectTypeByNameNullVersion, e.b.String(name), binder.Enum(kind))
		if err != nil {
			return nil, err
		}
		return e.exec(ctx, queryconfig.SelectTypeByNameNullVersion, sqlText)
	}
	sqlText, err := e.render(queryconfig.SelectTypeByNameAndVersion, e.b.String(name), binder.Enum(kind), e.b.String(*version))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectTypeByNameAndVersion, sqlText)
}

// SelectParentTypesByTypeID returns (type_id, parent_type_id) rows for
// any link whose child is in ids, regardless of whether parent_type_id
// names an existing Type (Testable Property 2). An empty ids list
// returns an empty RecordSet without invoking the MetadataSource
// (Testable Property 5).
func (e *Executor) SelectParentTypesByTypeID(ctx context.Context, ids []int64) (*types.RecordSet, error) {
	if len(ids) == 0 {
		return recordset.Empty("type_id", "parent_type_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectParentTypesByTypeID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectParentTypesByTypeID, sqlText)
}

// SelectTypePropertiesByTypeID returns the declared property slots for
// the given type ids.
func (e *Executor) SelectTypePropertiesByTypeID(ctx context.Context, ids []int64) (*types.RecordSet, error) {
	if len(ids) == 0 {
		return recordset.Empty("type_id", "name", "data_type"), nil
	}
	sqlText, err := e.render(queryconfig.SelectTypePropertiesByTypeID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectTypePropertiesByTypeID, sqlText)
}
