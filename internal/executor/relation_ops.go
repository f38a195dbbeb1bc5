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

// InsertAttribution records a context-to-artifact link and returns its
// server-assigned id. A duplicate (context_id, artifact_id) surfaces
// as AlreadyExists.
func (e *Executor) InsertAttribution(ctx context.Context, contextID, artifactID int64) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertAttribution, e.b.Int64(contextID), e.b.Int64(artifactID))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertAttribution, sqlText)
}

// SelectAttributionByContextID returns every Attribution row for the
// given context ids.
func (e *Executor) SelectAttributionByContextID(ctx context.Context, contextIDs []int64) (*types.RecordSet, error) {
	if len(contextIDs) == 0 {
		return recordset.Empty("id", "context_id", "artifact_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectAttributionByContextID, e.d.ExpandInClause(e.b.Int64List(contextIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectAttributionByContextID, sqlText)
}

// SelectAttributionByArtifactID returns every Attribution row for the
// given artifact ids.
func (e *Executor) SelectAttributionByArtifactID(ctx context.Context, artifactIDs []int64) (*types.RecordSet, error) {
	if len(artifactIDs) == 0 {
		return recordset.Empty("id", "context_id", "artifact_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectAttributionByArtifactID, e.d.ExpandInClause(e.b.Int64List(artifactIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectAttributionByArtifactID, sqlText)
}

// DeleteAttributionsByContextID deletes Attribution rows for the given
// context ids. This is one of the eight explicit delete operations the
// enclosing service composes to express its intended cascade; it is
// never invoked implicitly by DeleteContextsByID.
func (e *Executor) DeleteAttributionsByContextID(ctx context.Context, contextIDs []int64) error {
	if len(contextIDs) == 0 {
		return nil
	}
	sqlText, err := e.render(queryconfig.DeleteAttributionsByContextID, e.d.ExpandInClause(e.b.Int64List(contextIDs)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteAttributionsByContextID, sqlText)
	return err
}

// InsertAssociation records a context-to-execution link and returns
// its server-assigned id. A duplicate (context_id, execution_id)
// surfaces as AlreadyExists.
func (e *Executor) InsertAssociation(ctx context.Context, contextID, executionID int64) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertAssociation, e.b.Int64(contextID), e.b.Int64(executionID))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertAssociation, sqlText)
}

// SelectAssociationByContextIDs returns every Association row for the
// given context ids.
func (e *Executor) SelectAssociationByContextIDs(ctx context.Context, contextIDs []int64) (*types.RecordSet, error) {
	if len(contextIDs) == 0 {
		return recordset.Empty("id", "context_id", "execution_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectAssociationByContextIDs, e.d.ExpandInClause(e.b.Int64List(contextIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectAssociationByContextIDs, sqlText)
}

// SelectAssociationByExecutionID returns every Association row for
// the given execution ids.
func (e *Executor) SelectAssociationByExecutionID(ctx context.Context, executionIDs []int64) (*types.RecordSet, error) {
	if len(executionIDs) == 0 {
		return recordset.Empty("id", "context_id", "execution_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectAssociationByExecutionID, e.d.ExpandInClause(e.b.Int64List(executionIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectAssociationByExecutionID, sqlText)
}

// DeleteAssociationsByContextID deletes Association rows for the
// given context ids; see DeleteAttributionsByContextID for the
// composability contract this mirrors.
func (e *Executor) DeleteAssociationsByContextID(ctx context.Context, contextIDs []int64) error {
	if len(contextIDs) == 0 {
		return nil
	}
	sqlText, err := e.render(queryconfig.DeleteAssociationsByContextID, e.d.ExpandInClause(e.b.Int64List(contextIDs)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteAssociationsByContextID, sqlText)
	return err
}

// InsertParentContext records a soft, unenforced edge from a child
// context to its parent context.
func (e *Executor) InsertParentContext(ctx context.Context, parentID, childID int64) error {
	sqlText, err := e.render(queryconfig.InsertParentContext, e.b.Int64(parentID), e.b.Int64(childID))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.InsertParentContext, sqlText)
	return err
}

// SelectParentContextsByContextID returns the parent links for the
// given child context ids.
func (e *Executor) SelectParentContextsByContextID(ctx context.Context, childIDs []int64) (*types.RecordSet, error) {
	if len(childIDs) == 0 {
		return recordset.Empty("parent_context_id", "context_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectParentContextsByContextID, e.d.ExpandInClause(e.b.Int64List(childIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectParentContextsByContextID, sqlText)
}

// SelectChildContextsByContextID returns the child links for the given
// parent context ids.
func (e *Executor) SelectChildContextsByContextID(ctx context.Context, parentIDs []int64) (*types.RecordSet, error) {
	if len(parentIDs) == 0 {
		return recordset.Empty("parent_context_id", "context_id"), nil
	}
	sqlText, err := e.render(queryconfig.SelectChildContextsByContextID, e.d.ExpandInClause(e.b.Int64List(parentIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectChildContextsByContextID, sqlText)
}

// DeleteParentContextsByParentIDOrChildID removes ParentContext rows
// where either end of the link matches the given ids.
func (e *Executor) DeleteParentContextsByParentIDOrChildID(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	clause := e.d.ExpandInClause(e.b.Int64List(ids))
	sqlText, err := e.render(queryconfig.DeleteParentContextsByParentIDOrChildID, clause, clause)
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteParentContextsByParentIDOrChildID, sqlText)
	return err
}
