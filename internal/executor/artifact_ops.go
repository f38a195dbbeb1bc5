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

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
	"github.com/CandiedCode/ml-metadata/internal/recordset"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

func optEnum32[T ~int32](v *T) string {
	if v == nil {
		return "NULL"
	}
	return binder.Enum(*v)
}

// InsertArtifact creates a new Artifact row and returns its
// server-assigned id. A NULL name round-trips as the NULL sentinel on
// read (Testable Property 6).
func (e *Executor) InsertArtifact(ctx context.Context, a types.Artifact) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertArtifact,
		e.b.Int64(a.TypeID), e.b.String(a.URI), optEnum32(a.State), e.b.OptString(a.Name),
		e.b.Int64(a.CreateTimeMs), e.b.Int64(a.UpdateTimeMs))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertArtifact, sqlText)
}

// UpdateArtifact overwrites the mutable fields of an existing Artifact
// row; create_time_since_epoch is immutable after insert.
func (e *Executor) UpdateArtifact(ctx context.Context, a types.Artifact) error {
	sqlText, err := e.render(queryconfig.UpdateArtifact,
		e.b.Int64(a.TypeID), e.b.String(a.URI), optEnum32(a.State), e.b.OptString(a.Name),
		e.b.Int64(a.UpdateTimeMs), e.b.Int64(a.ID))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.UpdateArtifact, sqlText)
	return err
}

// SelectArtifactsByID returns the Artifact rows for the given ids.
func (e *Executor) SelectArtifactsByID(ctx context.Context, ids []int64) (*types.RecordSet, error) {
	if len(ids) == 0 {
		return recordset.Empty("id", "type_id", "uri", "state", "name",
			"create_time_since_epoch", "last_update_time_since_epoch"), nil
	}
	sqlText, err := e.render(queryconfig.SelectArtifactsByID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectArtifactsByID, sqlText)
}

// DeleteArtifactsByID deletes the Artifact rows and their Property
// rows, but deliberately leaves Events referencing those artifacts
// untouched: the enclosing service composes DeleteEventsByArtifactID
// separately if it wants that cascade too. Deleting a non-existent id
// is a no-op; an empty ids list is a no-op without invoking the
// MetadataSource.
func (e *Executor) DeleteArtifactsByID(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := e.deleteArtifactPropertiesByOwnerID(ctx, ids); err != nil {
		return err
	}
	sqlText, err := e.render(queryconfig.DeleteArtifactsByID, e.d.ExpandInClause(e.b.Int64List(ids)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteArtifactsByID, sqlText)
	return err
}
