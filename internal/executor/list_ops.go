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

	"github.com/CandiedCode/ml-metadata/internal/listops"
	"github.com/CandiedCode/ml-metadata/internal/recordset"
)

// ListResult is one page of ids from a list operation, plus the token
// for the next page (empty when this was the last page).
type ListResult struct {
	IDs           []int64
	NextPageToken string
}

func (e *Executor) listIDs(ctx context.Context, op, table, idColumn string, opts listops.Options) (ListResult, error) {
	plan, err := listops.Build(e.b, table, idColumn, opts)
	if err != nil {
		return ListResult{}, err
	}
	if plan.Empty {
		return ListResult{}, nil
	}
	rs, err := e.exec(ctx, op, plan.SQL)
	if err != nil {
		return ListResult{}, err
	}

	sortIdx := recordset.ColumnIndex(rs, idColumn)
	if col, ok := opts.OrderBy.Column(); ok {
		sortIdx = recordset.ColumnIndex(rs, col)
	}
	ids := make([]int64, 0, rs.NumRows())
	sortValues := make([]string, 0, rs.NumRows())
	for i := range rs.Records {
		id, _ := recordset.Int64(rs, i, idColumn)
		ids = append(ids, id)
		sv, _ := recordset.String(rs, i, idColumn)
		if sortIdx >= 0 {
			sv, _ = recordset.Scalar(rs, i, rs.ColumnNames[sortIdx])
		}
		sortValues = append(sortValues, sv)
	}

	token, err := listops.NextPageToken(plan, sortValues, ids)
	if err != nil {
		return ListResult{}, err
	}
	result := ids
	if len(ids) == plan.FetchLimit {
		result = ids[:len(ids)-1]
	}
	return ListResult{IDs: result, NextPageToken: token}, nil
}

// ListArtifactIDs plans and runs a paginated, filterable listing of
// Artifact ids.
func (e *Executor) ListArtifactIDs(ctx context.Context, opts listops.Options) (ListResult, error) {
	return e.listIDs(ctx, "list_artifact_ids", "Artifact", "id", opts)
}

// ListExecutionIDs plans and runs a paginated listing of Execution
// ids. filter_query is Artifact-only per §4.4; a non-empty
// opts.FilterQuery here is the caller's error to avoid, not one this
// method rejects itself.
func (e *Executor) ListExecutionIDs(ctx context.Context, opts listops.Options) (ListResult, error) {
	return e.listIDs(ctx, "list_execution_ids", "Execution", "id", opts)
}

// ListContextIDs plans and runs a paginated listing of Context ids.
func (e *Executor) ListContextIDs(ctx context.Context, opts listops.Options) (ListResult, error) {
	return e.listIDs(ctx, "list_context_ids", "Context", "id", opts)
}
