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

// InsertExecution creates a new Execution row and returns its
// server-assigned id.
func (e *Executor) InsertExecution(ctx context.Context, x types.Execution) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertExecution,
		e.b.Int64(x.TypeID), optEnum32(x.LastKnownState), e.b.OptString(x.Name),
		e.b.Int64(x.CreateTimeMs), e.b.Int64(x.UpdateTimeMs))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertExecution, sqlText)
}

// UpdateExecution overwrites the mutable fields of an existing
// Execution row.
func (e *Executor) UpdateExecution(ctx context.Context, x types.Execution) error {
	sqlText, err := e.render(queryconfig.UpdateExecution,
		e.b.Int64(x.TypeID), optEnum32(x.LastKnownState), e.b.OptString(x.Name),
		e.b.Int64(x.UpdateTimeMs), e.b.Int64(x.ID))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.UpdateExecution, sqlText)
	return err
}

// SelectExecutionsByID returns the Execution rows for the given ids.
func (e *Executor) SelectExecutionsByID(ctx context.Context, ids []int64) (*types.RecordSet, error) {
	if len(ids) == 0 {
		return recordset.Empty("id", "type_id", "last_known_state", "name",
			"create_time_since_epoch", "last_update_time_since_epoch"), nil
	}
	sqlText, err := e.render(queryconfig.SelectExecutionsByID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectExecutionsByID, sqlText)
}

// DeleteExecutionsByID deletes the Execution rows and their Property
// rows only, mirroring DeleteArtifactsByID's partial-cascade
// discipline; Events referencing those executions are a separate,
// explicit operation.
func (e *Executor) DeleteExecutionsByID(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := e.deleteExecutionPropertiesByOwnerID(ctx, ids); err != nil {
		return err
	}
	sqlText, err := e.render(queryconfig.DeleteExecutionsByID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteExecutionsByID, sqlText)
	return err
}
