// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Serve builds the app if needed and serves it for local development.

# Usage:

	$ go tool serve [flags] [dir]

Serve serves the build output from dir (default "build"), appending
permissive CORS headers to every response, and opens the default
browser at the served root. If dir doesn't exist yet, the project's
build command (default "npm run build") is run first.

With -watch, the listed source directories are watched for file
changes and the app is automatically rebuilt.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
