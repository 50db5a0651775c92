// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"

	"github.com/hjalali/garageweb/pkg/adapter/db/postgres"
	"github.com/hjalali/garageweb/pkg/core/repo"
	"github.com/hjalali/garageweb/pkg/core/scram"
)

// PostgreSQL uses 4096 iterations by default when hashing a password
// itself; RFC 7677 recommends more, which costs the same at the server
// side since hashing happens locally here.
const passwordIters = 15000

// CreateTables creates the three entity tables and the partial index
// which backs the reservation overlap scan, if they are missing. The
// date range check mirrors the validation of the use cases layer, as a
// last line of defense for rows written by other clients.
func CreateTables(ctx context.Context, c *postgres.Conn) error {
	_, err := c.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cars (
    cid uuid PRIMARY KEY,
    brand varchar NOT NULL,
    model varchar NOT NULL,
    price float8 NOT NULL,
    fuel_type varchar NOT NULL,
    deleted boolean NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS garages (
    gid uuid PRIMARY KEY,
    address varchar NOT NULL,
    number_of_places integer NOT NULL,
    accepts_lpg boolean NOT NULL,
    deleted boolean NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS reservations (
    rid uuid PRIMARY KEY,
    from_day date NOT NULL,
    to_day date NOT NULL,
    cid uuid NOT NULL REFERENCES cars (cid),
    gid uuid NOT NULL REFERENCES garages (gid),
    deleted boolean NOT NULL DEFAULT FALSE,
    CONSTRAINT ordered_days CHECK (from_day <= to_day)
);
CREATE INDEX IF NOT EXISTS reservations_active_range
    ON reservations (gid, from_day, to_day) WHERE NOT deleted;
`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// CreateRoleIfNotExists creates the `role` role (suffixed by
// `roleSuffix` if it is not empty) with the login option, setting no
// password. Use SetPassword for that purpose.
func CreateRoleIfNotExists(
	ctx context.Context, c *postgres.Conn,
	roleSuffix repo.Role, role repo.Role,
) error {
	_, err := c.Exec(ctx, fmt.Sprintf(`DO $$
BEGIN
    CREATE ROLE %s LOGIN;
EXCEPTION WHEN duplicate_object THEN
    NULL;
END
$$`, suffixed(role, roleSuffix)))
	if err != nil {
		return fmt.Errorf("creating role: %w", err)
	}
	return nil
}

// SetPassword updates the password of the `role` role (suffixed by
// `roleSuffix` if it is not empty). The `hasher` will be used for
// hashing of the `password` before sending it to the DBMS (so it may
// not leak in plaintext). This SCRAM hasher format must conform with
// the DBMS expected format.
func SetPassword(
	ctx context.Context, c *postgres.Conn,
	roleSuffix repo.Role, hasher scram.Hasher,
	role repo.Role, password string,
) error {
	h, err := hasher.Hash(password, "", passwordIters)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	// h consists of ASCII printable letters excluding the quote
	_, err = c.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s PASSWORD '%s'", suffixed(role, roleSuffix), h,
	))
	if err != nil {
		return fmt.Errorf("altering role: %w", err)
	}
	return nil
}

// GrantPrivileges grants the SELECT, INSERT, and UPDATE privileges on
// the entity tables to the `role` role (suffixed by `roleSuffix` if it
// is not empty).
func GrantPrivileges(
	ctx context.Context, c *postgres.Conn,
	roleSuffix repo.Role, role repo.Role,
) error {
	_, err := c.Exec(ctx, fmt.Sprintf(
		`GRANT SELECT, INSERT, UPDATE
    ON TABLE cars, garages, reservations TO %s`,
		suffixed(role, roleSuffix),
	))
	if err != nil {
		return fmt.Errorf("granting privileges: %w", err)
	}
	return nil
}

func suffixed(role, roleSuffix repo.Role) repo.Role {
	return role + roleSuffix
}
