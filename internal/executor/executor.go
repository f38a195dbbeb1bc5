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

// Package executor implements the QueryExecutor API: the full set of
// typed insert/select/update/delete operations over Types, Artifacts,
// Executions, Contexts, Properties, Events, and the relation tables
// that link them. Every operation substitutes a named QueryConfig
// template with Binder-rendered parameters and either parses the
// resulting RecordSet for the caller or fetches the MetadataSource's
// last-insert-id.
//
// An Executor is a value object: a non-owning reference to a
// MetadataSource and an immutable QueryConfig. It is not internally
// concurrent, and every operation must run inside a transaction the
// caller already opened on the same MetadataSource.
package executor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/metrics"
	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

var (
	opDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mlmd_executor_operation_duration_seconds",
		Help:    "the length of time a QueryExecutor operation took to run",
		Buckets: metrics.LatencyBuckets,
	}, []string{metrics.OperationLabel})
	opErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlmd_executor_operation_errors_total",
		Help: "the number of times a QueryExecutor operation returned an error",
	}, []string{metrics.OperationLabel})
)

// Executor is the typed metadata-access API described by the package
// doc. Construct one with New per outer transaction scope.
type Executor struct {
	src types.MetadataSource
	cfg *queryconfig.Config
	d   dialect.Dialect
	b   *binder.Binder
}

// New constructs an Executor bound to src for the lifetime of cfg's
// dialect. src must already have an open transaction by the time any
// operation is called.
func New(src types.MetadataSource, cfg *queryconfig.Config) *Executor {
	return &Executor{
		src: src,
		cfg: cfg,
		d:   cfg.Dialect,
		b:   binder.New(src),
	}
}

// render resolves a template, wrapping failures as Internal: a missing
// template is a programming error in this library, not a caller
// mistake.
func (e *Executor) render(name string, args ...any) (string, error) {
	sqlText, err := e.cfg.Render(name, args...)
	if err != nil {
		return "", types.Wrap(types.KindInternal, err, "could not render "+name)
	}
	return sqlText, nil
}

// exec runs one already-rendered operation: execute, record metrics
// and logs, and normalize the returned error to the *types.Error
// taxonomy when the underlying driver did not already produce one.
func (e *Executor) exec(ctx context.Context, op string, sqlText string) (*types.RecordSet, error) {
	start := time.Now()
	opID := uuid.NewString()
	log.WithFields(log.Fields{"op": op, "op_id": opID}).Trace("executing metadata operation")

	rs, err := e.src.Execute(ctx, sqlText)
	opDurations.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		opErrors.WithLabelValues(op).Inc()
		if _, ok := types.AsError(err); ok {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, types.Wrap(types.KindAlreadyExists, err, op+": uniqueness violation")
		}
		return nil, types.Wrap(types.KindInternal, err, op+" failed")
	}
	return rs, nil
}

// insertReturningID runs an insert template and fetches the new row's
// server-assigned id via the MetadataSource's last-insert-id channel.
// The dialect's LastInsertIDClause is appended first, for a future
// dialect whose driver needs the insert statement itself to request
// the id; sqlite3 and go-sql-driver/mysql both return "" here since
// Result.LastInsertId already surfaces it.
func (e *Executor) insertReturningID(ctx context.Context, op, sqlText string) (int64, error) {
	if _, err := e.exec(ctx, op, sqlText+e.d.LastInsertIDClause()); err != nil {
		return 0, err
	}
	id, err := e.src.LastInsertId(ctx)
	if err != nil {
		opErrors.WithLabelValues(op).Inc()
		return 0, types.Wrap(types.KindInternal, err, op+": could not read last-insert-id")
	}
	return id, nil
}

// isUniqueViolation is a best-effort, driver-text heuristic: the
// MetadataSource contract in §1 deliberately withholds a structured
// error code, so the executor's only signal is the substring every
// mainstream driver includes in a constraint-violation message.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	for _, needle := range []string{"UNIQUE constraint", "Duplicate entry", "duplicate key"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
