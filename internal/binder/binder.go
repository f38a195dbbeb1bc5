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

// Package binder renders typed parameters as SQL literals suitable
// for direct textual substitution into a QueryConfig template. Binding
// never fails: malformed input is the caller's contract violation, not
// a runtime error condition.
package binder

import (
	"strconv"
	"strings"

	"github.com/CandiedCode/ml-metadata/internal/types"
)

// Escaper is the subset of types.MetadataSource the Binder depends on
// for string-literal escaping. Every string-valued bind goes through
// it so that dialect-specific escaping rules (backslash handling on
// MySQL vs doubled quotes on SQLite) stay in the MetadataSource, not
// duplicated here.
type Escaper interface {
	EscapeString(s string) string
}

// Binder converts Go values into SQL literal text.
type Binder struct {
	esc Escaper
}

// New constructs a Binder bound to esc for string escaping.
func New(esc Escaper) *Binder {
	return &Binder{esc: esc}
}

// String renders a quoted, escaped string literal.
func (b *Binder) String(s string) string {
	return "'" + b.esc.EscapeString(s) + "'"
}

// OptString renders NULL for a nil pointer, otherwise String(*s).
func (b *Binder) OptString(s *string) string {
	if s == nil {
		return "NULL"
	}
	return b.String(*s)
}

// Int64 renders an integer literal.
func (b *Binder) Int64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// OptInt64 renders NULL for a nil pointer, otherwise Int64(*v).
func (b *Binder) OptInt64(v *int64) string {
	if v == nil {
		return "NULL"
	}
	return b.Int64(*v)
}

// Double renders a floating-point literal in round-trippable decimal
// form.
func (b *Binder) Double(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Enum renders the underlying integer literal for any of the
// dialect-independent wire enums (TypeKind, PropertyType,
// ArtifactState, ExecutionState, EventType). No escaping is
// performed; enums are never attacker-controlled free text.
func Enum[T ~int32](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

// Int64List renders a comma-joined literal list suitable for
// inclusion inside IN(...). Callers must not pass an empty slice; the
// List Operation Planner and QueryExecutor short-circuit empty
// id-lists before reaching the Binder.
func (b *Binder) Int64List(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = b.Int64(id)
	}
	return strings.Join(parts, ", ")
}

// ArtifactStructType renders the textual serialisation of a
// structural artifact-schema document (an Execution's input_type or
// output_type) as an escaped string literal. The document itself is
// already serialised by the caller; the Binder only applies the
// string-literal escaping and NULL handling.
func (b *Binder) ArtifactStructType(doc *string) string {
	return b.OptString(doc)
}

// Value renders the concrete populated literal for v: the typed
// column value a property row stores. Exactly one of the three
// possible literal forms is produced, matching v.Type.
func (b *Binder) Value(v types.Value) string {
	switch v.Type {
	case types.Int:
		return b.Int64(v.IntValue)
	case types.Double:
		return b.Double(v.DoubleValue)
	case types.String:
		return b.String(v.StringValue)
	default:
		return "NULL"
	}
}

// DataType renders the integer discriminator identifying which of
// {int, double, string} Value populates. The property templates do
// not bind it: they store a value in whichever of int_value,
// double_value or string_value matches its type.
func (b *Binder) DataType(v types.Value) string {
	return Enum(v.Type)
}

// Ident quotes s as a dialect-specific identifier. The quote
// character itself is supplied by the caller (`"` for SQLite, `` ` ``
// for MySQL) because identifier quoting is a Dialect concern, not a
// value-binding one; this helper only handles doubling an embedded
// quote character, which is the one piece of escaping logic common to
// both dialects' identifier-quoting rules.
func Ident(quote byte, s string) string {
	q := string(quote)
	escaped := strings.ReplaceAll(s, q, q+q)
	return q + escaped + q
}
