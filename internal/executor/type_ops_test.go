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

// TestSelectTypesByIDAcrossKinds implements scenario S1.
func TestSelectTypesByIDAcrossKinds(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	a1, err := e.InsertType(ctx, types.Type{Name: "artifact_type_1", Kind: types.ArtifactType})
	require.NoError(t, err)
	a2, err := e.InsertType(ctx, types.Type{Name: "artifact_type_2", Kind: types.ArtifactType})
	require.NoError(t, err)
	x1, err := e.InsertType(ctx, types.Type{Name: "execution_type_1", Kind: types.ExecutionType})
	require.NoError(t, err)
	x2, err := e.InsertType(ctx, types.Type{Name: "execution_type_2", Kind: types.ExecutionType})
	require.NoError(t, err)
	c1, err := e.InsertType(ctx, types.Type{Name: "context_type_1", Kind: types.ContextType})
	require.NoError(t, err)

	rs, err := e.SelectTypesByID(ctx, []int64{a1, a2}, types.ArtifactType)
	require.NoError(t, err)
	require.Equal(t, 2, rs.NumRows())
	for i := 0; i < rs.NumRows(); i++ {
		name, ok := recordset.String(rs, i, "name")
		require.True(t, ok)
		require.Contains(t, []string{"artifact_type_1", "artifact_type_2"}, name)
		require.True(t, recordset.IsNull(rs, i, "version"))
		require.True(t, recordset.IsNull(rs, i, "description"))
	}

	rs, err = e.SelectTypesByID(ctx, []int64{x1, x2}, types.ExecutionType)
	require.NoError(t, err)
	require.Equal(t, 2, rs.NumRows())

	rs, err = e.SelectTypesByID(ctx, []int64{c1}, types.ContextType)
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
}

// TestSelectTypesByIDMixedKindFilter implements scenario S2 and
// Testable Property 1.
func TestSelectTypesByIDMixedKindFilter(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	a1, err := e.InsertType(ctx, types.Type{Name: "artifact_type_1", Kind: types.ArtifactType})
	require.NoError(t, err)
	_, err = e.InsertType(ctx, types.Type{Name: "artifact_type_2", Kind: types.ArtifactType})
	require.NoError(t, err)
	c3, err := e.InsertType(ctx, types.Type{Name: "context_type_3", Kind: types.ContextType})
	require.NoError(t, err)

	rs, err := e.SelectTypesByID(ctx, []int64{a1, c3}, types.ArtifactType)
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
	name, ok := recordset.String(rs, 0, "name")
	require.True(t, ok)
	require.Equal(t, "artifact_type_1", name)
}

// TestSelectParentTypesByTypeIDMixesExistingAndDanglingParents
// implements scenario S4 and Testable Property 2.
func TestSelectParentTypesByTypeIDMixesExistingAndDanglingParents(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	artifactType, err := e.InsertType(ctx, types.Type{Name: "A", Kind: types.ArtifactType})
	require.NoError(t, err)
	parentArtifactType, err := e.InsertType(ctx, types.Type{Name: "PA", Kind: types.ArtifactType})
	require.NoError(t, err)
	executionType, err := e.InsertType(ctx, types.Type{Name: "E", Kind: types.ExecutionType})
	require.NoError(t, err)
	parentExecutionType, err := e.InsertType(ctx, types.Type{Name: "PE", Kind: types.ExecutionType})
	require.NoError(t, err)
	contextType, err := e.InsertType(ctx, types.Type{Name: "C", Kind: types.ContextType})
	require.NoError(t, err)

	nonExistent := parentExecutionType + executionType

	require.NoError(t, e.InsertParentType(ctx, artifactType, parentArtifactType))
	require.NoError(t, e.InsertParentType(ctx, executionType, parentExecutionType))
	require.NoError(t, e.InsertParentType(ctx, executionType, nonExistent))

	rs, err := e.SelectParentTypesByTypeID(ctx, []int64{executionType})
	require.NoError(t, err)
	require.Equal(t, 2, rs.NumRows())
	seen := map[int64]bool{}
	for i := 0; i < rs.NumRows(); i++ {
		parentID, ok := recordset.Int64(rs, i, "parent_type_id")
		require.True(t, ok)
		seen[parentID] = true
	}
	require.True(t, seen[parentExecutionType])
	require.True(t, seen[nonExistent])

	rs, err = e.SelectParentTypesByTypeID(ctx, []int64{contextType})
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())
}

// TestSelectParentTypesByTypeIDEmptyInputShortCircuits implements
// Testable Property 5.
func TestSelectParentTypesByTypeIDEmptyInputShortCircuits(t *testing.T) {
	fx := testfixture.New(t)
	rs, err := fx.Executor.SelectParentTypesByTypeID(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 0, rs.NumRows())
}

func TestSelectTypeByNameAndVersionBranchesOnNilVersion(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	_, err := e.InsertType(ctx, types.Type{Name: "versioned", Kind: types.ArtifactType})
	require.NoError(t, err)
	version := "v1"
	_, err = e.InsertType(ctx, types.Type{Name: "versioned", Kind: types.ArtifactType, Version: &version})
	require.NoError(t, err)

	rs, err := e.SelectTypeByNameAndVersion(ctx, "versioned", types.ArtifactType, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
	require.True(t, recordset.IsNull(rs, 0, "version"))

	rs, err = e.SelectTypeByNameAndVersion(ctx, "versioned", types.ArtifactType, &version)
	require.NoError(t, err)
	require.Equal(t, 1, rs.NumRows())
	got, ok := recordset.String(rs, 0, "version")
	require.True(t, ok)
	require.Equal(t, "v1", got)
}

func TestInsertTypeDuplicateNameVersionKindIsAlreadyExists(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	version := "v1"
	_, err := e.InsertType(ctx, types.Type{Name: "dup", Kind: types.ArtifactType, Version: &version})
	require.NoError(t, err)
	_, err = e.InsertType(ctx, types.Type{Name: "dup", Kind: types.ArtifactType, Version: &version})
	require.True(t, types.IsAlreadyExists(err))
}

// TestInsertTypeNullVersionIsNotUniqueAgainstItself documents that a
// NULL version does not collide with another NULL version under
// standard SQL unique-index semantics (NULL is never equal to NULL),
// consistent with treating a nil version and "IS NULL" as their own
// distinct key space (§9 open question (a)).
func TestInsertTypeNullVersionIsNotUniqueAgainstItself(t *testing.T) {
	ctx := context.Background()
	fx := testfixture.New(t)
	e := fx.Executor

	_, err := e.InsertType(ctx, types.Type{Name: "unversioned", Kind: types.ArtifactType})
	require.NoError(t, err)
	_, err = e.InsertType(ctx, types.Type{Name: "unversioned", Kind: types.ArtifactType})
	require.NoError(t, err)
}
