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

package executor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/recordset"
	"github.com/CandiedCode/ml-metadata/internal/testfixture"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

func TestUpdateExecutionOverwritesMutableFields(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	executionType, err := e.InsertType(ctx, types.Type{Name: "run", Kind: types.ExecutionType})
	require.NoError(t, err)
	state := types.ExecutionNew
	id, err := e.InsertExecution(ctx, types.Execution{TypeID: executionType, LastKnownState: &state, UpdateTimeMs: 1})
	require.NoError(t, err)

	running := types.ExecutionRunning
	require.NoError(t, e.UpdateExecution(ctx, types.Execution{
		ID: id, TypeID: executionType, LastKnownState: &running, UpdateTimeMs: 2,
	}))

	rs, err := e.SelectExecutionsByID(ctx, []int64{id})
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
	got, ok := recordset.Int64(rs, 0, "last_known_state")
	require.True(t, ok)
	require.Equal(t, int64(types.ExecutionRunning), got)
	updateTime, ok := recordset.Int64(rs, 0, "last_update_time_since_epoch")
	require.True(t, ok)
	require.Equal(t, int64(2), updateTime)
}

func TestDeleteExecutionsByIDRemovesPropertiesOnly(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	executionType, err := e.InsertType(ctx, types.Type{Name: "run", Kind: types.ExecutionType})
	require.NoError(t, err)
	artifactType, err := e.InsertType(ctx, types.Type{Name: "blob", Kind: types.ArtifactType})
	require.NoError(t, err)

	x, err := e.InsertExecution(ctx, types.Execution{TypeID: executionType})
	require.NoError(t, err)
	require.NoError(t, e.InsertExecutionProperty(ctx, x, types.PropertyRow{Name: "p", Value: types.IntVal(1)}))
	artifact, err := e.InsertArtifact(ctx, types.Artifact{TypeID: artifactType, URI: "file:///a"})
	require.NoError(t, err)
	_, err = e.InsertEvent(ctx, types.Event{ArtifactID: artifact, ExecutionID: x, Type: 1, TimeMs: 1})
	require.NoError(t, err)

	require.NoError(t, e.DeleteExecutionsByID(ctx, []int64{x}))

	rs, err := e.SelectExecutionsByID(ctx, []int64{x})
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())

	rs, err = e.SelectExecutionPropertyByExecutionID(ctx, []int64{x})
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())

	rs, err = e.SelectEventsByExecutionID(ctx, []int64{x})
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
}

func TestDeleteExecutionsByIDEmptyIsNoOp(t *testing.T) {
	fx := testfixture.New(t)
	require.NoError(t, fx.Executor.DeleteExecutionsByID(context.Background(), nil))
}
