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

// InsertContext creates a new Context row and returns its
// server-assigned id. A duplicate name within type_id surfaces as
// AlreadyExists.
func (e *Executor) InsertContext(ctx context.Context, c types.Context) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertContext,
		e.b.Int64(c.TypeID), e.b.String(c.Name), e.b.Int64(c.CreateTimeMs), e.b.Int64(c.UpdateTimeMs))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertContext, sqlText)
}

// UpdateContext overwrites the mutable fields of an existing Context
// row.
func (e *Executor) UpdateContext(ctx context.Context, c types.Context) error {
	sqlText, err := e.render(queryconfig.UpdateContext,
		e.b.Int64(c.TypeID), e.b.String(c.Name), e.b.Int64(c.UpdateTimeMs), e.b.Int64(c.ID))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.UpdateContext, sqlText)
	return err
}

// SelectContextsByID returns the Context rows for the given ids.
func (e *Executor) SelectContextsByID(ctx context.Context, ids []int64) (*types.RecordSet, error) {
	if len(ids) == 0 {
		return recordset.Empty("id", "type_id", "name",
			"create_time_since_epoch", "last_update_time_since_epoch"), nil
	}
	sqlText, err := e.render(queryconfig.SelectContextsByID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectContextsByID, sqlText)
}

// DeleteContextsByID deletes the Context rows and their Property rows
// only. Attributions and Associations referencing those contexts are
// deliberately left in place (Testable Property 3); the enclosing
// service composes DeleteAttributionsByContextID and
// DeleteAssociationsByContextID itself if it wants that cascade. An
// empty ids list and a non-existent id are both no-ops (Testable
// Property 4).
func (e *Executor) DeleteContextsByID(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := e.deleteContextPropertiesByOwnerID(ctx, ids); err != nil {
		return err
	}
	sqlText, err := e.render(queryconfig.DeleteContextsByID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteContextsByID, sqlText)
	return err
}
