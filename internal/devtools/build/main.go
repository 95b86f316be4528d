// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/devserver/internal/devserver"
	"go.astrophena.name/devserver/internal/devtools"
)

func main() { cli.Main(new(app)) }

type app struct {
	config string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.config, "config", "devserver.toml", "Read configuration from `file`.")
}

func (a *app) Run(ctx context.Context) error {
	devtools.EnsureRoot()

	cfg, err := devserver.LoadConfig(a.config)
	if err != nil {
		return err
	}
	return devserver.Build(ctx, cfg)
}
