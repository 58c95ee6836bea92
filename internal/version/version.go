/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build information.
package version

import "fmt"

// Version is the current version of beacon.
// This is set at build time via ldflags:
//
//	-X github.com/friendsincode/beacon/internal/version.Version=X.Y.Z
var Version = "0.4.0"

// Commit and BuildTime are set at build time alongside Version.
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("beacon %s (commit %s, built %s)", Version, Commit, BuildTime)
}
