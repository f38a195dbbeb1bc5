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

func TestEventPathStepsRoundTripInOrder(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	artifactType, err := e.InsertType(ctx, types.Type{Name: "blob", Kind: types.ArtifactType})
	require.NoError(t, err)
	executionType, err := e.InsertType(ctx, types.Type{Name: "run", Kind: types.ExecutionType})
	require.NoError(t, err)
	artifact, err := e.InsertArtifact(ctx, types.Artifact{TypeID: artifactType, URI: "file:///a"})
	require.NoError(t, err)
	execution, err := e.InsertExecution(ctx, types.Execution{TypeID: executionType})
	require.NoError(t, err)

	eventID, err := e.InsertEvent(ctx, types.Event{
		ArtifactID: artifact, ExecutionID: execution, Type: 1, TimeMs: 1000,
	})
	require.NoError(t, err)

	require.NoError(t, e.InsertEventPath(ctx, types.EventPathStep{EventID: eventID, Step: 0, IsIndex: true, Index: 0}))
	require.NoError(t, e.InsertEventPath(ctx, types.EventPathStep{EventID: eventID, Step: 1, IsIndex: false, Key: "outputs"}))

	rs, err := e.SelectEventPathByEventID(ctx, []int64{eventID})
	require.NoError(t, err)
	require.Equal(t, 2, rs.NumRows())

	step0, ok := recordset.Bool(rs, 0, "is_index_step")
	require.True(t, ok)
	require.True(t, step0)
	require.True(t, recordset.IsNull(rs, 0, "step_key"))

	step1, ok := recordset.Bool(rs, 1, "is_index_step")
	require.True(t, ok)
	require.False(t, step1)
	key, ok := recordset.String(rs, 1, "step_key")
	require.True(t, ok)
	require.Equal(t, "outputs", key)
}

func TestSelectEventsByArtifactAndExecutionIDEmptyShortCircuit(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	rs, err := e.SelectEventsByArtifactID(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())

	rs, err = e.SelectEventsByExecutionID(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())
}

func TestDeleteEventsByArtifactIDRemovesOnlyMatchingEvents(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	artifactType, err := e.InsertType(ctx, types.Type{Name: "blob", Kind: types.ArtifactType})
	require.NoError(t, err)
	executionType, err := e.InsertType(ctx, types.Type{Name: "run", Kind: types.ExecutionType})
	require.NoError(t, err)
	a1, err := e.InsertArtifact(ctx, types.Artifact{TypeID: artifactType, URI: "file:///a1"})
	require.NoError(t, err)
	a2, err := e.InsertArtifact(ctx, types.Artifact{TypeID: artifactType, URI: "file:///a2"})
	require.NoError(t, err)
	x, err := e.InsertExecution(ctx, types.Execution{TypeID: executionType})
	require.NoError(t, err)

	_, err = e.InsertEvent(ctx, types.Event{ArtifactID: a1, ExecutionID: x, Type: 1, TimeMs: 1})
	require.NoError(t, err)
	_, err = e.InsertEvent(ctx, types.Event{ArtifactID: a2, ExecutionID: x, Type: 1, TimeMs: 2})
	require.NoError(t, err)

	require.NoError(t, e.DeleteEventsByArtifactID(ctx, []int64{a1}))

	rs, err := e.SelectEventsByArtifactID(ctx, []int64{a1})
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())

	rs, err = e.SelectEventsByArtifactID(ctx, []int64{a2})
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
}
