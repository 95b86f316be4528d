// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Build runs the project's external build command.

# Usage

	$ go tool build [flags]

Build invokes the build command (default "npm run build", configurable
via devserver.toml) and waits for it to finish. A non-zero exit status
of the build tool is fatal and its standard error output is reported.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
