// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// The gwweb binary serves the garage reservations REST API and
// provides the database bootstrapping sub-commands. See the command
// package for the supported commands and flags.
package main

import "github.com/hjalali/garageweb/cmd/gwweb/command"

func main() {
	command.Execute()
}
