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

package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandiedCode/ml-metadata/internal/binder"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

type upperEscaper struct{}

func (upperEscaper) EscapeString(s string) string {
	return s + s // distinguishable from a no-op escaper in assertions
}

func TestStringEscapesThroughEscaper(t *testing.T) {
	b := binder.New(upperEscaper{})
	require.Equal(t, "'aa'", b.String("a"))
}

func TestOptStringNilIsNull(t *testing.T) {
	b := binder.New(upperEscaper{})
	require.Equal(t, "NULL", b.OptString(nil))
	s := "x"
	require.Equal(t, "'xx'", b.OptString(&s))
}

func TestOptInt64NilIsNull(t *testing.T) {
	b := binder.New(upperEscaper{})
	require.Equal(t, "NULL", b.OptInt64(nil))
	v := int64(7)
	require.Equal(t, "7", b.OptInt64(&v))
}

func TestEnumIsPackageLevelGeneric(t *testing.T) {
	require.Equal(t, "2", binder.Enum(types.ContextType))
	require.Equal(t, "1", binder.Enum(types.ArtifactState(1)))
}

func TestInt64ListJoinsWithCommaSpace(t *testing.T) {
	b := binder.New(upperEscaper{})
	require.Equal(t, "1, 2, 3", b.Int64List([]int64{1, 2, 3}))
}

func TestValueRendersExactlyOnePopulatedColumn(t *testing.T) {
	b := binder.New(upperEscaper{})
	require.Equal(t, "5", b.Value(types.IntVal(5)))
	require.Equal(t, "NULL", b.Value(types.Value{}))
}

func TestDataTypeMatchesValueType(t *testing.T) {
	b := binder.New(upperEscaper{})
	require.Equal(t, binder.Enum(types.String), b.DataType(types.StringVal("x")))
}

func TestIdentDoublesEmbeddedQuoteChar(t *testing.T) {
	require.Equal(t, `"a""b"`, binder.Ident('"', `a"b`))
	require.Equal(t, "`a``b`", binder.Ident('`', "a`b"))
}
