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

package recordset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/recordset"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// reorderedColumns deliberately puts "id" second, not first, so a test
// that assumed positional column 0 would fail here — the reordering
// Testable Property 7 guards against.
func reorderedColumns() *types.RecordSet {
	return &types.RecordSet{
		ColumnNames: []string{"name", "id"},
		Records: [][]string{
			{"artifact_type_1", "1"},
			{types.NullSentinel, "2"},
		},
	}
}

func TestColumnLookupIsByNameNotPosition(t *testing.T) {
	rs := reorderedColumns()
	idIdx := recordset.GetIdColumnIndex(rs)
	require.Equal(t, 1, idIdx)

	v, ok := recordset.Int64(rs, 0, "id")
	require.True(t, ok)
	require.Equal(t, int64(1), v)
}

func TestStringReturnsFalseForNullSentinel(t *testing.T) {
	rs := reorderedColumns()
	_, ok := recordset.String(rs, 1, "name")
	require.False(t, ok)
	require.True(t, recordset.IsNull(rs, 1, "name"))
}

func TestOptStringNilOnNull(t *testing.T) {
	rs := reorderedColumns()
	require.Nil(t, recordset.OptString(rs, 1, "name"))
	got := recordset.OptString(rs, 0, "name")
	require.NotNil(t, got)
	require.Equal(t, "artifact_type_1", *got)
}

func TestColumnIndexMissingColumnIsNegativeOne(t *testing.T) {
	rs := reorderedColumns()
	require.Equal(t, -1, recordset.ColumnIndex(rs, "does_not_exist"))
}

func TestBoolAcceptsZeroOneAndTrueFalse(t *testing.T) {
	rs := &types.RecordSet{
		ColumnNames: []string{"flag"},
		Records:     [][]string{{"1"}, {"0"}, {"true"}, {"false"}, {"garbage"}},
	}
	for i, want := range []bool{true, false, true, false} {
		v, ok := recordset.Bool(rs, i, "flag")
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	_, ok := recordset.Bool(rs, 4, "flag")
	require.False(t, ok)
}

func TestEmptyReturnsZeroRowsWithGivenColumns(t *testing.T) {
	rs := recordset.Empty("id", "name")
	require.Equal(t, []string{"id", "name"}, rs.ColumnNames)
	require.Equal(t, 0, rs.NumRows())
}

func TestNumRowsOnNilRecordSetIsZero(t *testing.T) {
	var rs *types.RecordSet
	require.Equal(t, 0, rs.NumRows())
}
