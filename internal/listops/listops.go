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

// Package listops implements the shared, generic planner for
// paginated, filterable listing of Artifact/Execution/Context ids. It
// is deliberately entity-agnostic: callers supply a table name and id
// column, and get back a rendered SELECT plus the information needed
// to build the next page's cursor.
package listops

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// OrderField is a sortable column of the listed entity.
type OrderField int

// These are the only legal OrderField values.
const (
	CreateTime OrderField = iota
	UpdateTime
	ID
)

func (f OrderField) Column() (string, bool) {
	switch f {
	case CreateTime:
		return "create_time_since_epoch", true
	case UpdateTime:
		return "last_update_time_since_epoch", true
	case ID:
		return "id", true
	default:
		return "", false
	}
}

// Cursor is the decoded form of a next_page_token: the sort-key value
// and id of the last row returned by the previous page, used to make
// pagination stable under concurrent inserts.
type Cursor struct {
	SortValue string `json:"sort_value"`
	LastID    int64  `json:"last_id"`
}

// EncodeCursor renders c as an opaque page token.
func EncodeCursor(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor parses a page token produced by EncodeCursor.
// InvalidArgument is returned for a malformed token.
func DecodeCursor(token string) (Cursor, error) {
	var c Cursor
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, types.Wrap(types.KindInvalidArgument, err, "malformed next_page_token")
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, types.Wrap(types.KindInvalidArgument, err, "malformed next_page_token")
	}
	return c, nil
}

// Options is the caller-supplied listing configuration, mirroring
// ListOperationOptions.
type Options struct {
	MaxResultSize int
	OrderBy       OrderField
	IsAsc         bool
	NextPageToken string
	// FilterQuery is a pre-validated predicate fragment (Artifact only)
	// combined into the WHERE clause with AND. The caller is
	// responsible for constraining its grammar; the planner only
	// splices it in verbatim once non-empty.
	FilterQuery string
	// CandidateIDs restricts the result to this set when non-nil. A
	// non-nil, empty slice means "no candidates" and short-circuits to
	// an empty result without building SQL.
	CandidateIDs []int64
}

// Validate applies the InvalidArgument checks the planner is
// responsible for before any SQL is built.
func (o Options) Validate() error {
	if o.MaxResultSize <= 0 {
		return types.New(types.KindInvalidArgument, "max_result_size must be > 0")
	}
	if _, ok := o.OrderBy.Column(); !ok {
		return types.New(types.KindInvalidArgument, "unknown order_by_field")
	}
	return nil
}

// Plan is the rendered SQL and metadata needed to interpret its
// result: whether CandidateIDs forced an empty result without running
// any query, and the effective LIMIT (max_result_size+1, used to
// detect whether a further page exists).
type Plan struct {
	SQL        string
	Empty      bool
	FetchLimit int
}

// Build renders the SELECT for table/idColumn under opts. b is used to
// bind the cursor's sort value and the candidate-id list; both are
// ordinary query parameters, not template text.
func Build(b *binder.Binder, table, idColumn string, opts Options) (Plan, error) {
	if err := opts.Validate(); err != nil {
		return Plan{}, err
	}
	if opts.CandidateIDs != nil && len(opts.CandidateIDs) == 0 {
		return Plan{Empty: true}, nil
	}

	dir := "ASC"
	if !opts.IsAsc {
		dir = "DESC"
	}
	cmp := ">"
	if !opts.IsAsc {
		cmp = "<"
	}
	col, _ := opts.OrderBy.Column()

	var where []string
	if opts.CandidateIDs != nil {
		where = append(where, fmt.Sprintf("%s IN (%s)", idColumn, b.Int64List(opts.CandidateIDs)))
	}
	if opts.NextPageToken != "" {
		cursor, err := DecodeCursor(opts.NextPageToken)
		if err != nil {
			return Plan{}, err
		}
		// Tie-break on id is what makes this stable under concurrent
		// inserts sharing the same sort-key value.
		where = append(where, fmt.Sprintf(
			"(%s %s %s OR (%s = %s AND %s %s %s))",
			col, cmp, b.String(cursor.SortValue),
			col, b.String(cursor.SortValue), idColumn, cmp, b.Int64(cursor.LastID),
		))
	}
	if opts.FilterQuery != "" {
		where = append(where, "("+opts.FilterQuery+")")
	}

	limit := opts.MaxResultSize + 1
	var sb strings.Builder
	// The sort column is selected too, so the caller can put the last
	// row's sort-key value into the next cursor.
	selectList := idColumn
	if col != idColumn {
		selectList = idColumn + ", " + col
	}
	fmt.Fprintf(&sb, "SELECT %s FROM %s", selectList, table)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, %s %s LIMIT %d", col, dir, idColumn, dir, limit)

	return Plan{SQL: sb.String(), FetchLimit: limit}, nil
}

// NextPageToken computes the token for the page following rows, given
// that len(rows) == plan.FetchLimit (one more row was fetched than
// requested). It returns "" when rows is shorter than FetchLimit,
// meaning there is no further page. sortValues and ids must be
// parallel slices of the same length as rows, in the order returned by
// the query.
func NextPageToken(plan Plan, sortValues []string, ids []int64) (string, error) {
	if len(ids) < plan.FetchLimit {
		return "", nil
	}
	last := len(ids) - 2 // the row at FetchLimit-1 is the lookahead row, dropped from the page
	if last < 0 {
		return "", nil
	}
	return EncodeCursor(Cursor{SortValue: sortValues[last], LastID: ids[last]})
}
