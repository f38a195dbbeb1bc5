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

// Package executorcfg holds the user-visible configuration toggles for
// wiring an Executor and its Schema Lifecycle Manager: which dialect
// to target, the connection string, and the schema-mutation policy
// that governs Init.
package executorcfg

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/CandiedCode/ml-metadata/internal/dialect"
	"github.com/CandiedCode/ml-metadata/internal/schema"
)

// Config contains the user-visible configuration for opening and
// initializing a metadata store connection.
type Config struct {
	Dialect           string
	DSN               string
	MigrationsEnabled bool
	AllowDowngrade    bool
	TemplateCacheSize int
}

// Bind registers flags onto flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(
		&c.Dialect,
		"metadataDialect",
		string(dialect.ProductSQLite),
		"the SQL dialect to target: sqlite or mysql")
	flags.StringVar(
		&c.DSN,
		"metadataDSN",
		"",
		"the data source name the MetadataSource connects with")
	flags.BoolVar(
		&c.MigrationsEnabled,
		"migrationsEnabled",
		true,
		"allow InitMetadataSource to run forward migration scripts on an outdated schema")
	flags.BoolVar(
		&c.AllowDowngrade,
		"allowDowngrade",
		false,
		"allow DowngradeMetadataSource to run; disabled by default since reverse scripts may lose data")
	flags.IntVar(
		&c.TemplateCacheSize,
		"templateCacheSize",
		256,
		"the number of resolved (operation, args) -> SQL lookups the QueryConfig retains; 0 disables caching")
}

// Preflight validates the configuration after flag parsing.
func (c *Config) Preflight() error {
	switch dialect.Product(c.Dialect) {
	case dialect.ProductSQLite, dialect.ProductMySQL:
	default:
		return errors.Errorf("unknown metadataDialect %q", c.Dialect)
	}
	if c.DSN == "" {
		return errors.New("metadataDSN unset")
	}
	if c.TemplateCacheSize < 0 {
		return errors.New("templateCacheSize must be >= 0")
	}
	return nil
}

// SchemaOptions projects the migration-policy fields of Config into
// the Schema Lifecycle Manager's own Options type.
func (c *Config) SchemaOptions() schema.Options {
	return schema.Options{
		MigrationsEnabled: c.MigrationsEnabled,
		AllowDowngrade:    c.AllowDowngrade,
	}
}
