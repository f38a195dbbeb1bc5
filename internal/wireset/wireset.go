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

// Package wireset declares the google/wire provider set that builds
// an Executor and its Schema Lifecycle Manager from an
// executorcfg.Config and a caller-supplied types.MetadataSource. The
// providers here are the source of truth for `wire gen`; wire_gen.go
// is the checked-in, hand-verified result of running it.
package wireset

import (
	"fmt"

	"github.com/google/wire"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/dialect/mysqldialect"
	"github.com/CandiedCode/ml-metadata/internal/dialect/sqlitedialect"
	"github.com/CandiedCode/ml-metadata/internal/executor"
	"github.com/CandiedCode/ml-metadata/internal/executorcfg"
	"github.com/CandiedCode/ml-metadata/internal/queryconfig"
	"github.com/CandiedCode/ml-metadata/internal/schema"
	"github.com/CandiedCode/ml-metadata/internal/types"
)

// Set is the full provider set for constructing an Executor and a
// schema.Manager from configuration plus a MetadataSource the caller
// already owns.
var Set = wire.NewSet(
	ProvideDialect,
	ProvideQueryConfig,
	ProvideSchemaManager,
	ProvideExecutor,
)

// ProvideDialect selects the Dialect named by cfg.Dialect.
func ProvideDialect(cfg executorcfg.Config) (dialect.Dialect, error) {
	switch dialect.Product(cfg.Dialect) {
	case dialect.ProductSQLite:
		return sqlitedialect.Dialect, nil
	case dialect.ProductMySQL:
		return mysqldialect.Dialect, nil
	default:
		return nil, types.New(types.KindInvalidArgument, fmt.Sprintf("unknown dialect %q", cfg.Dialect))
	}
}

// ProvideQueryConfig builds the declarative QueryConfig for d, sized
// by cfg.TemplateCacheSize.
func ProvideQueryConfig(cfg executorcfg.Config, d dialect.Dialect) (*queryconfig.Config, error) {
	switch d.Name() {
	case dialect.ProductSQLite:
		return sqlitedialect.New(cfg.TemplateCacheSize)
	case dialect.ProductMySQL:
		return mysqldialect.New(cfg.TemplateCacheSize)
	default:
		return nil, types.New(types.KindInvalidArgument, fmt.Sprintf("unknown dialect %q", d.Name()))
	}
}

// ProvideSchemaManager builds the Schema Lifecycle Manager for src.
func ProvideSchemaManager(cfg executorcfg.Config, src types.MetadataSource, qc *queryconfig.Config) *schema.Manager {
	return schema.New(src, qc, cfg.SchemaOptions())
}

// ProvideExecutor builds the Query Executor for src.
func ProvideExecutor(src types.MetadataSource, qc *queryconfig.Config) *executor.Executor {
	return executor.New(src, qc)
}
