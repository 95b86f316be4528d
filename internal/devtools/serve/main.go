// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"strings"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/devserver/internal/devserver"
	"go.astrophena.name/devserver/internal/devtools"
)

func main() { cli.Main(new(app)) }

type app struct {
	listen    string
	dir       string
	config    string
	watch     string
	noBrowser bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.listen, "listen", "", "Listen on `host:port` (default localhost:3001).")
	fs.StringVar(&a.dir, "dir", "", "Serve files from `dir` (default build).")
	fs.StringVar(&a.config, "config", "devserver.toml", "Read configuration from `file`.")
	fs.StringVar(&a.watch, "watch", "", "Watch comma-separated `dirs` for changes and rebuild.")
	fs.BoolVar(&a.noBrowser, "no-browser", false, "Don't open the browser.")
}

func (a *app) Run(ctx context.Context) error {
	devtools.EnsureRoot()

	cfg, err := devserver.LoadConfig(a.config)
	if err != nil {
		return err
	}
	if a.listen != "" {
		cfg.Addr = a.listen
	}
	if a.watch != "" {
		cfg.Watch = strings.Split(a.watch, ",")
	}
	if a.dir != "" {
		cfg.Dir = a.dir
	}
	if args := cli.GetEnv(ctx).Args; len(args) > 0 {
		cfg.Dir = args[0]
	}
	cfg.OpenBrowser = !a.noBrowser

	return devserver.Serve(ctx, cfg)
}
