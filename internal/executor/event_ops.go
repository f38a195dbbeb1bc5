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

// InsertEvent creates a new Event row linking an Artifact to an
// Execution and returns its server-assigned id. The caller inserts the
// EventPath steps separately via InsertEventPath.
func (e *Executor) InsertEvent(ctx context.Context, ev types.Event) (int64, error) {
	sqlText, err := e.render(queryconfig.InsertEvent,
		e.b.Int64(ev.ArtifactID), e.b.Int64(ev.ExecutionID), binder.Enum(ev.Type), e.b.Int64(ev.TimeMs))
	if err != nil {
		return 0, err
	}
	return e.insertReturningID(ctx, queryconfig.InsertEvent, sqlText)
}

// InsertEventPath writes one ordered step of an Event's path. Exactly
// one of step_index/step_key is populated, per IsIndex.
func (e *Executor) InsertEventPath(ctx context.Context, s types.EventPathStep) error {
	var index, key string
	if s.IsIndex {
		index, key = e.b.Int64(s.Index), "NULL"
	} else {
		index, key = "NULL", e.b.String(s.Key)
	}
	sqlText, err := e.render(queryconfig.InsertEventPath,
		e.b.Int64(s.EventID), e.b.Int64(int64(s.Step)), e.d.BoolLiteral(s.IsIndex), index, key)
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.InsertEventPath, sqlText)
	return err
}

// SelectEventsByArtifactID returns every Event row referencing the
// given artifact ids.
func (e *Executor) SelectEventsByArtifactID(ctx context.Context, artifactIDs []int64) (*types.RecordSet, error) {
	if len(artifactIDs) == 0 {
		return recordset.Empty("id", "artifact_id", "execution_id", "type", "milliseconds_since_epoch"), nil
	}
	sqlText, err := e.render(queryconfig.SelectEventsByArtifactID, e.d.ExpandInClause(e.b.Int64List(artifactIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectEventsByArtifactID, sqlText)
}

// SelectEventsByExecutionID returns every Event row referencing the
// given execution ids.
func (e *Executor) SelectEventsByExecutionID(ctx context.Context, executionIDs []int64) (*types.RecordSet, error) {
	if len(executionIDs) == 0 {
		return recordset.Empty("id", "artifact_id", "execution_id", "type", "milliseconds_since_epoch"), nil
	}
	sqlText, err := e.render(queryconfig.SelectEventsByExecutionID, e.d.ExpandInClause(e.b.Int64List(executionIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectEventsByExecutionID, sqlText)
}

// SelectEventPathByEventID returns the ordered path steps for the
// given event ids, sorted by step ascending within each event.
func (e *Executor) SelectEventPathByEventID(ctx context.Context, eventIDs []int64) (*types.RecordSet, error) {
	if len(eventIDs) == 0 {
		return recordset.Empty("event_id", "step", "is_index_step", "step_index", "step_key"), nil
	}
	sqlText, err := e.render(queryconfig.SelectEventPathByEventID, e.d.ExpandInClause(e.b.Int64List(eventIDs)))
	if err != nil {
		return nil, err
	}
	return e.exec(ctx, queryconfig.SelectEventPathByEventID, sqlText)
}

// DeleteEventsByArtifactID deletes Event rows referencing the given
// artifact ids. The corresponding EventPath rows are not deleted, and
// neither dialect's schema declares a foreign-key cascade that would
// remove them.
func (e *Executor) DeleteEventsByArtifactID(ctx context.Context, artifactIDs []int64) error {
	if len(artifactIDs) == 0 {
		return nil
	}
	sqlText, err := e.render(queryconfig.DeleteEventsByArtifactID, e.d.ExpandInClause(e.b.Int64List(artifactIDs)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteEventsByArtifactID, sqlText)
	return err
}

// DeleteEventsByExecutionID deletes Event rows referencing the given
// execution ids.
func (e *Executor) DeleteEventsByExecutionID(ctx context.Context, executionIDs []int64) error {
	if len(executionIDs) == 0 {
		return nil
	}
	sqlText, err := e.render(queryconfig.DeleteEventsByExecutionID, e.d.ExpandInClause(e.b.Int64List(executionIDs)))
	if err != nil {
		return err
	}
	_, err = e.exec(ctx, queryconfig.DeleteEventsByExecutionID, sqlText)
	return err
}
