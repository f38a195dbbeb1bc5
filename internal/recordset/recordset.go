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

// Package recordset contains helpers for reading values out of a
// types.RecordSet by column name. Tests and executor operations must
// never assume a positional column layout: a backend is free to
// reorder its SELECT list between dialects.
package recordset

import (
	"strconv"

	"github.com/CandiedCode/ml-metadata/internal/types"
)

// ColumnIndex returns the position of name within rs, or -1 if absent.
func ColumnIndex(rs *types.RecordSet, name string) int {
	if rs == nil {
		return -1
	}
	for i, c := range rs.ColumnNames {
		if c == name {
			return i
		}
	}
	return -1
}

// GetIdColumnIndex is the canonical helper referenced by the testable
// properties: locate the "id" column by name rather than hard-coding
// an offset.
func GetIdColumnIndex(rs *types.RecordSet) int {
	return ColumnIndex(rs, "id")
}

// Scalar returns the raw string cell at (row, name), and whether the
// column exists at all. It does not interpret NullSentinel.
func Scalar(rs *types.RecordSet, row int, name string) (string, bool) {
	idx := ColumnIndex(rs, name)
	if idx < 0 || row < 0 || row >= len(rs.Records) {
		return "", false
	}
	return rs.Records[row][idx], true
}

// IsNull reports whether the named cell in row is the NULL sentinel.
func IsNull(rs *types.RecordSet, row int, name string) bool {
	v, ok := Scalar(rs, row, name)
	return ok && v == types.NullSentinel
}

// String returns the named cell as a string, or "" with ok=false if
// the column is absent or the cell is NULL.
func String(rs *types.RecordSet, row int, name string) (string, bool) {
	v, ok := Scalar(rs, row, name)
	if !ok || v == types.NullSentinel {
		return "", false
	}
	return v, true
}

// OptString is like String, but returns a *string, nil when the cell
// is NULL or absent.
func OptString(rs *types.RecordSet, row int, name string) *string {
	v, ok := String(rs, row, name)
	if !ok {
		return nil
	}
	return &v
}

// Int64 parses the named cell as an int64. ok is false if the column
// is absent, the cell is NULL, or the cell does not parse.
func Int64(rs *types.RecordSet, row int, name string) (int64, bool) {
	v, ok := String(rs, row, name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OptInt64 is like Int64, but returns a *int64, nil when the cell is
// NULL or absent.
func OptInt64(rs *types.RecordSet, row int, name string) *int64 {
	n, ok := Int64(rs, row, name)
	if !ok {
		return nil
	}
	return &n
}

// Float64 parses the named cell as a float64.
func Float64(rs *types.RecordSet, row int, name string) (float64, bool) {
	v, ok := String(rs, row, name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool interprets the named cell as a dialect-rendered boolean
// literal ("0"/"1", or "false"/"true").
func Bool(rs *types.RecordSet, row int, name string) (bool, bool) {
	v, ok := String(rs, row, name)
	if !ok {
		return false, false
	}
	switch v {
	case "1", "true", "TRUE":
		return true, true
	case "0", "false", "FALSE":
		return false, true
	default:
		return false, false
	}
}

// Empty returns a zero-row RecordSet with the given columns, used by
// operations that short-circuit without invoking the MetadataSource
// (e.g. an empty id-list query).
func Empty(columnNames ...string) *types.RecordSet {
	return &types.RecordSet{ColumnNames: columnNames, Records: nil}
}
