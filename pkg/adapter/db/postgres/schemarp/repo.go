// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create the entity tables and manage database
// user roles when bootstrapping a fresh database.
package schemarp

import (
	"context"

	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/core/repo"
	"github.com/hjalali/garageweb/pkg/core/scram"
)

// Repo represents a schema management repository. The hasher is used
// for the local hashing of role passwords and the roleSuffix, if not
// empty, is appended to all managed role names (useful when multiple
// deployments share one DBMS cluster).
type Repo struct {
	hasher     scram.Hasher
	roleSuffix repo.Role
}

// New instantiates a schema management Repo struct, hashing the role
// passwords with the hasher mechanism and suffixing the managed role
// names with roleSuffix (which may be empty).
func New(hasher scram.Hasher, roleSuffix repo.Role) *Repo {
	return &Repo{hasher: hasher, roleSuffix: roleSuffix}
}

type connQueryer struct {
	*postgres.Conn

	hasher     scram.Hasher
	roleSuffix repo.Role
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic. Unwrapped connection will be wrapped and
// returned as an instance of repo.SchemaConnQueryer interface, so
// it can be used in the use cases layer without requiring to type
// assert again and again.
//
// All schema operations run on a connection (not a transaction), since
// the bootstrap is idempotent and some role management statements are
// not usefully confined to a transaction.
func (schema *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{
		Conn:       cc,
		hasher:     schema.hasher,
		roleSuffix: schema.roleSuffix,
	}
}

// CreateTables creates the cars, garages, and reservations tables if
// they are missing, leaving existing tables untouched.
func (cq connQueryer) CreateTables(ctx context.Context) error {
	return CreateTables(ctx, cq.Conn)
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, no specific password will be set for it.
// The SetPassword method may be used for setting a password if
// desired. Otherwise, that user may not login effectively (but
// using the trust or local identity methods).
func (cq connQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, cq.Conn, cq.roleSuffix, role)
}

// SetPassword updates the `role` role password, hashing it locally
// first so no plaintext password appears in the executed statement.
func (cq connQueryer) SetPassword(
	ctx context.Context, role repo.Role, password string,
) error {
	return SetPassword(
		ctx, cq.Conn, cq.roleSuffix, cq.hasher, role, password,
	)
}

// GrantPrivileges grants the privileges which the `role` role needs
// for the normal use cases on the three entity tables. Rows are never
// hard-deleted by those use cases, hence no DELETE privilege.
func (cq connQueryer) GrantPrivileges(
	ctx context.Context, role repo.Role,
) error {
	return GrantPrivileges(ctx, cq.Conn, cq.roleSuffix, role)
}
