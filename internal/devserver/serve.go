// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.astrophena.name/base/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/browser"
)

var (
	// serveReadyHook is used in tests, called when Serve started serving the app.
	serveReadyHook func()
	// openBrowser launches the default browser, overridden in tests.
	openBrowser = browser.OpenURL
)

// Serve serves the build output directory on the configured address
// until ctx is canceled.
//
// If the directory doesn't exist yet, the external build tool is run
// first; its failure is fatal. Once the listener is bound, the
// default browser is opened at the served root (best-effort, a
// failure here is not fatal). With Watch set, source directories are
// watched and the app is rebuilt on change.
func Serve(ctx context.Context, c *Config) error {
	c.setDefaults()

	if _, err := os.Stat(c.Dir); errors.Is(err, fs.ErrNotExist) {
		logger.Info(ctx, "build directory not found, building app first", slog.String("dir", c.Dir))
		if err := Build(ctx, c); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	l, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return err
	}
	defer l.Close()
	logger.Info(ctx, "listening for HTTP requests", slog.String("addr", "http://"+l.Addr().String()))

	if len(c.Watch) > 0 {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		for _, dir := range c.Watch {
			if err := watchRecursive(watcher, dir); err != nil {
				return err
			}
		}

		rebuild := func() {
			if err := Build(ctx, c); err != nil {
				logger.Error(ctx, "failed to rebuild the app", slog.Any("err", err))
			}
		}
		// It's better to have a bit of delay, so that we don't start
		// building the app on each keystroke.
		debouncer := newDebouncer(250*time.Millisecond, rebuild)

		go func() {
			logger.Info(ctx, "started watching for new changes", slog.Any("dirs", c.Watch))

			for {
				select {
				case event := <-watcher.Events:
					if !shouldRebuild(event.Name, event.Op) {
						continue
					}
					logger.Info(ctx, "detected change, scheduling build",
						slog.String("name", event.Name),
						slog.Any("op", event.Op),
					)
					debouncer.Do()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	httpSrv := &http.Server{Handler: corsHeaders(&staticHandler{fs: os.DirFS(c.Dir)})}
	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				errCh <- err
			}
		}
	}()

	if c.OpenBrowser {
		// Best-effort: not being able to open a browser shouldn't stop
		// the server.
		if err := openBrowser("http://" + l.Addr().String()); err != nil {
			logger.Info(ctx, "failed to open browser", slog.Any("err", err))
		}
	}

	if serveReadyHook != nil {
		serveReadyHook()
	}

	select {
	case <-ctx.Done():
		logger.Info(ctx, "gracefully shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return httpSrv.Shutdown(shutdownCtx)
}

// debouncer delays execution of a function until a specified duration
// has passed without any new events.
type debouncer struct {
	d  time.Duration
	mu sync.Mutex
	f  func()
	t  *time.Timer
}

// newDebouncer creates a new debouncer.
func newDebouncer(d time.Duration, f func()) *debouncer {
	return &debouncer{
		d: d,
		f: f,
	}
}

// Do schedules a function to be executed.
func (d *debouncer) Do() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.t != nil {
		d.t.Stop()
	}

	d.t = time.AfterFunc(d.d, d.f)
}

func watchRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Watching node_modules would drown us in events.
		if d.Name() == "node_modules" {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// Copied from
// https://github.com/brandur/modulir/blob/1ff912fdc45a79cb4d8d9f199d213ae9c3598cbd/watch.go#L201.
func shouldRebuild(path string, op fsnotify.Op) bool {
	base := filepath.Base(path)

	// Mac OS' worst mistake.
	if base == ".DS_Store" {
		return false
	}

	// Vim creates this temporary file to see whether it can write into a target
	// directory. It screws up our watching algorithm, so ignore it.
	if base == "4913" {
		return false
	}

	// A special case, but ignore creates on files that look like Vim backups.
	if strings.HasSuffix(base, "~") {
		return false
	}

	// Dependencies installed by the package manager are not sources.
	if strings.Contains(path, "node_modules") {
		return false
	}

	if op&fsnotify.Create != 0 {
		return true
	}

	if op&fsnotify.Remove != 0 {
		return true
	}

	if op&fsnotify.Write != 0 {
		return true
	}

	/*
		Ignore everything else. Rationale:

		* chmod: we don't really care about these as they won't affect build
		output (unless potentially we no longer can read the file, but we'll go
		down that path if it ever becomes a problem).

		* rename: will produce a following create event as well, so just listen
		for that instead.
	*/
	return false
}

// corsHeaders wraps h, appending permissive CORS headers to every
// response before it is written. Preflight OPTIONS requests are
// answered directly.
func corsHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type staticHandler struct {
	fs fs.FS
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if p == "/" {
		p += "/index.html"
	}
	p = strings.TrimPrefix(path.Clean(p), "/")

	d, err := fs.Stat(h.fs, p)
	if errors.Is(err, fs.ErrNotExist) {
		h.serveNotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if d.IsDir() {
		h.serveNotFound(w, r)
		return
	}

	b, err := fs.ReadFile(h.fs, p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, d.Name(), d.ModTime(), bytes.NewReader(b))
}

func (h *staticHandler) serveNotFound(w http.ResponseWriter, r *http.Request) {
	f, err := h.fs.Open("404.html")
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	w.WriteHeader(http.StatusNotFound)
	io.Copy(w, f)
}
