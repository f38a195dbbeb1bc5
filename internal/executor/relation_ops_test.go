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

	"github.com/CandiedCode/ml-metadata/internal/testfixture"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

func TestInsertAssociationDuplicateIsAlreadyExists(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	contextType, err := e.InsertType(ctx, types.Type{Name: "experiment", Kind: types.ContextType})
	require.NoError(t, err)
	executionType, err := e.InsertType(ctx, types.Type{Name: "run", Kind: types.ExecutionType})
	require.NoError(t, err)
	c, err := e.InsertContext(ctx, types.Context{TypeID: contextType, Name: "c1"})
	require.NoError(t, err)
	x, err := e.InsertExecution(ctx, types.Execution{TypeID: executionType})
	require.NoError(t, err)

	_, err = e.InsertAssociation(ctx, c, x)
	require.NoError(t, err)
	_, err = e.InsertAssociation(ctx, c, x)
	require.True(t, types.IsAlreadyExists(err))
}

func TestParentContextLinksBothDirections(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	contextType, err := e.InsertType(ctx, types.Type{Name: "experiment", Kind: types.ContextType})
	require.NoError(t, err)
	parent, err := e.InsertContext(ctx, types.Context{TypeID: contextType, Name: "parent"})
	require.NoError(t, err)
	child, err := e.InsertContext(ctx, types.Context{TypeID: contextType, Name: "child"})
	require.NoError(t, err)

	require.NoError(t, e.InsertParentContext(ctx, parent, child))

	rs, err := e.SelectParentContextsByContextID(ctx, []int64{child})
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())

	rs, err = e.SelectChildContextsByContextID(ctx, []int64{parent})
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())

	require.NoError(t, e.DeleteParentContextsByParentIDOrChildID(ctx, []int64{parent}))

	rs, err = e.SelectParentContextsByContextID(ctx, []int64{child})
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())
}

func TestSelectAttributionByArtifactIDEmptyShortCircuits(t *testing.T) {
	fx := testfixture.New(t)
	rs, err := fx.Executor.SelectAttributionByArtifactID(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())
}
