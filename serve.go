//usr/bin/env go run $0 $@; exit $?

//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"go.astrophena.name/devserver/internal/devserver"
)

func main() {
	log.SetFlags(0)

	var (
		listenFlag    = flag.String("listen", "localhost:3001", "Listen on `host:port`.")
		noBrowserFlag = flag.Bool("no-browser", false, "Don't open the browser.")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ./serve.go [flags] [dir]\n")
		fmt.Fprintf(os.Stderr, "Available flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Check if we are executed from the project directory.
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(wd, "package.json")); os.IsNotExist(err) {
		log.Fatal("Are you at project root?")
	} else if err != nil {
		log.Fatal(err)
	}

	dir := filepath.Join(".", "build")
	if len(flag.Args()) > 0 {
		dir = flag.Args()[0]
	}

	c := &devserver.Config{
		Addr:        *listenFlag,
		Dir:         dir,
		OpenBrowser: !*noBrowserFlag,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := devserver.Serve(ctx, c); err != nil {
		log.Fatal(err)
	}
}
