// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package devserver implements a development server for frontend apps.

It invokes the project's external build toolchain ("npm run build" by
default), then serves the build output directory over HTTP, appending
permissive CORS headers to every response so that the app can be
requested from other origins during development. On startup the
default browser is opened at the served root.

# Configuration

Configuration is read from an optional devserver.toml file at the
project root:

	addr = "localhost:3001"
	dir = "build"
	build_command = ["npm", "run", "build"]
	watch = ["src", "public"]

See Config for all available fields. Values left unset fall back to
defaults matching a typical React project.
*/
package devserver

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"

	"go.astrophena.name/base/logger"

	"github.com/BurntSushi/toml"
)

// Config represents a devserver configuration.
type Config struct {
	// Addr is the host:port to listen on. If empty, uses
	// localhost:3001.
	Addr string `toml:"addr"`
	// Dir is the directory the external build tool writes static
	// assets into. If empty, uses the build directory.
	Dir string `toml:"dir"`
	// BuildCommand is the external build invocation, as a program name
	// followed by its arguments. If empty, uses "npm run build".
	BuildCommand []string `toml:"build_command"`
	// OpenBrowser determines if the default browser should be opened
	// at the served root once the server is listening.
	OpenBrowser bool `toml:"open_browser"`
	// Watch is a list of source directories to watch for changes. Each
	// change triggers a rebuild. If empty, no watching is performed.
	Watch []string `toml:"watch"`
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:3001"
	}
	if c.Dir == "" {
		c.Dir = "build"
	}
	if len(c.BuildCommand) == 0 {
		c.BuildCommand = []string{"npm", "run", "build"}
	}
}

// LoadConfig reads a devserver configuration from the TOML file at
// path. A missing file is not an error and yields a zero Config.
func LoadConfig(path string) (*Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &c, nil
		}
		return nil, err
	}
	return &c, nil
}

// BuildError is returned by Build when the external build tool exits
// with a non-zero status.
type BuildError struct {
	// Stderr is the captured standard error output of the build tool.
	Stderr string
}

func (e *BuildError) Error() string {
	if e.Stderr == "" {
		return "build failed"
	}
	return "build failed:\n" + strings.TrimSuffix(e.Stderr, "\n")
}

// Build runs the external build tool defined by the provided [Config]
// and waits for it to complete. The build tool owns the output
// directory; Build only reports whether the invocation succeeded.
func Build(ctx context.Context, c *Config) error {
	c.setDefaults()

	logger.Info(ctx, "building app", slog.String("command", strings.Join(c.BuildCommand, " ")))

	cmd := exec.CommandContext(ctx, c.BuildCommand[0], c.BuildCommand[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &BuildError{Stderr: stderr.String()}
		}
		return err
	}

	logger.Info(ctx, "build completed")
	return nil
}
