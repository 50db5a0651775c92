// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/hjalali/garageweb/pkg/adapter/config"
	"github.com/hjalali/garageweb/pkg/core/repo"
	"github.com/spf13/cobra"
)

const credsRenewalMessage = `
The password of the normal role will be renewed as a random secure
password and stored in the .pgpass file in the pass-dir directory (as
configured in the config file), so the web server command can use it
for its connections thereafter. The new password is written to the
.pgpass.new file first and that file is renamed over the .pgpass file
only after the database accepts the password change, hence, at least
one of the two files always holds a working password.`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize database tables and the normal role",
	Long: `Initialize the database with the cars, garages, and
reservations tables, create the normal (unprivileged) role if it does
not exist, and grant it the privileges which the entity CRUD and the
reservation admission use cases require. The database connection
information are read from the config file and the admin role is used
for the connection, so that role must exist beforehand with super user
privileges. Tables which already exist are left untouched, making it
safe to run this command repeatedly.
` + credsRenewalMessage,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating admin DB pool: %w", err)
	}
	defer p.Close()
	schema := c.NewSchemaRepo()
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		sq := schema.Conn(conn)
		if err := sq.CreateTables(ctx); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
		err := sq.CreateRoleIfNotExists(ctx, repo.NormalRole)
		if err != nil {
			return fmt.Errorf(
				"creating %q role: %w", repo.NormalRole, err,
			)
		}
		finalizer, err := c.RenewPasswords(
			ctx,
			func(
				ctx context.Context,
				roles []repo.Role,
				passwords []string,
			) error {
				for i, r := range roles {
					err := sq.SetPassword(ctx, r, passwords[i])
					if err != nil {
						return fmt.Errorf(
							"setting %q password: %w", r, err,
						)
					}
				}
				return nil
			},
			repo.NormalRole,
		)
		if err != nil {
			return fmt.Errorf("renewing passwords: %w", err)
		}
		err = sq.GrantPrivileges(ctx, repo.NormalRole)
		if err != nil {
			return fmt.Errorf(
				"granting %q privileges: %w", repo.NormalRole, err,
			)
		}
		if err = finalizer(); err != nil {
			return fmt.Errorf("finalizing pass files: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd)
}
