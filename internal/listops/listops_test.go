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

package listops_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/listops"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

type passthroughEscaper struct{}

func (passthroughEscaper) EscapeString(s string) string { return s }

func newBinder() *binder.Binder { return binder.New(passthroughEscaper{}) }

func TestValidateRejectsNonPositiveMaxResultSize(t *testing.T) {
	opts := listops.Options{MaxResultSize: 0, OrderBy: listops.ID}
	err := opts.Validate()
	require.True(t, types.IsInvalidArgument(err))
}

func TestBuildEmptyCandidateIDsShortCircuits(t *testing.T) {
	plan, err := listops.Build(newBinder(), "Artifact", "id", listops.Options{
		MaxResultSize: 10, OrderBy: listops.ID, IsAsc: true, CandidateIDs: []int64{},
	})
	require.NoError(t, err)
	require.True(t, plan.Empty)
	require.Empty(t, plan.SQL)
}

func TestBuildNilCandidateIDsDoesNotShortCircuit(t *testing.T) {
	plan, err := listops.Build(newBinder(), "Artifact", "id", listops.Options{
		MaxResultSize: 10, OrderBy: listops.ID, IsAsc: true,
	})
	require.NoError(t, err)
	require.False(t, plan.Empty)
	require.Contains(t, plan.SQL, "SELECT id FROM Artifact")
	require.Contains(t, plan.SQL, "ORDER BY id ASC, id ASC LIMIT 11")
}

func TestBuildOrdersDescendingAndLimitsByMaxPlusOne(t *testing.T) {
	plan, err := listops.Build(newBinder(), "Execution", "id", listops.Options{
		MaxResultSize: 5, OrderBy: listops.CreateTime, IsAsc: false,
	})
	require.NoError(t, err)
	require.Equal(t, 6, plan.FetchLimit)
	require.Contains(t, plan.SQL, "ORDER BY create_time_since_epoch DESC, id DESC LIMIT 6")
}

func TestBuildCandidateIDsAppendsInClause(t *testing.T) {
	plan, err := listops.Build(newBinder(), "Context", "id", listops.Options{
		MaxResultSize: 10, OrderBy: listops.ID, IsAsc: true, CandidateIDs: []int64{1, 2, 3},
	})
	require.NoError(t, err)
	require.Contains(t, plan.SQL, "id IN (1, 2, 3)")
}

func TestNextPageTokenEmptyWhenFewerRowsThanFetchLimit(t *testing.T) {
	plan := listops.Plan{FetchLimit: 6}
	token, err := listops.NextPageToken(plan, []string{"a", "b"}, []int64{1, 2})
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestNextPageTokenRoundTripsLastIDAndSortValue(t *testing.T) {
	plan := listops.Plan{FetchLimit: 3}
	token, err := listops.NextPageToken(plan, []string{"10", "20", "30"}, []int64{1, 2, 3})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cursor, err := listops.DecodeCursor(token)
	require.NoError(t, err)
	require.Equal(t, "20", cursor.SortValue)
	require.Equal(t, int64(2), cursor.LastID)
}

func TestDecodeCursorRejectsMalformedToken(t *testing.T) {
	_, err := listops.DecodeCursor("not-valid-base64url!!!")
	require.True(t, types.IsInvalidArgument(err))
}

func TestBuildRendersCursorComparisonWhenPageTokenProvided(t *testing.T) {
	token, err := listops.EncodeCursor(listops.Cursor{SortValue: "100", LastID: 7})
	require.NoError(t, err)

	plan, err := listops.Build(newBinder(), "Artifact", "id", listops.Options{
		MaxResultSize: 10, OrderBy: listops.CreateTime, IsAsc: true, NextPageToken: token,
	})
	require.NoError(t, err)
	require.Contains(t, plan.SQL, "create_time_since_epoch > '100'")
	require.Contains(t, plan.SQL, "id > 7")
}
