// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interface for Salted Challenge
// Response Authentication Mechanism (SCRAM) hashing. For the
// corresponding implementation, check the adapter layer.
//
// The full client/server conversation of RFC 5802 and RFC 7677 is not
// needed here; it is handled by the PostgreSQL server and its driver.
// The database bootstrapping use case only needs to generate a hash
// string with the standard format (having a password, salt, and
// iteration count), so it can be embedded in CREATE/ALTER ROLE
// statements without sending a plaintext password to the DBMS.
package scram

// Hasher represents the expectations from a SCRAM hasher implementation
// which for a specific underlying hash function (e.g., SHA1 or SHA256)
// computes the storedKey and serverKey values whenever its Hash method
// is called with the relevant pass, salt, and iters arguments. Note
// that although a username and authorization identifier are required in
// a SCRAM protocol, they do not affect the storedKey and serverKey and
// so are not asked by the Hasher interface.
type Hasher interface {
	// Hash computes a hash string following the standard scram hash
	// format, so it can be stored and used later for authentication.
	//
	// The pass argument must be non-empty. The salt must contain a
	// base64 encoding of the desired salt bytes; if an empty value is
	// passed, a random salt will be generated and used instead. The
	// iters must be at least equal to 4096.
	//
	// In absence of errors, a hashed string will be returned which
	// conforms to the following format.
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// This string (consisting only of ASCII printable letters) can
	// be safely passed to an ALTER or CREATE ROLE query as accepted by
	// the PostgreSQL DBMS.
	Hash(pass, salt string, iters int) (string, error)
}
