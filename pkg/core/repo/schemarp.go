// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaConnQueryer specifies the database bootstrapping operations
// which are required by the `gwweb db init` command. They run on a
// connection (not a transaction) because role management statements
// may not be confined to a transaction uniformly and the bootstrap is
// an administrative, idempotent operation anyway.
type SchemaConnQueryer interface {
	// CreateTables creates the cars, garages, and reservations tables
	// if they are missing, leaving existing tables untouched.
	CreateTables(ctx context.Context) error

	// CreateRoleIfNotExists creates the role login role. No password
	// is set; use SetPassword afterwards, as a role without a password
	// may not login (but using trust or local identity methods).
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// SetPassword updates the role password. The password is hashed
	// locally (following the configured scram mechanism) before being
	// embedded in the ALTER ROLE statement, so no plaintext password
	// is sent to or logged by the DBMS.
	SetPassword(ctx context.Context, role Role, password string) error

	// GrantPrivileges grants the privileges which the role role needs
	// for the normal (non-administrative) use cases on all three
	// entity tables.
	GrantPrivileges(ctx context.Context, role Role) error
}

type Schema interface {
	Conn(Conn) SchemaConnQueryer
}
