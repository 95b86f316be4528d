//usr/bin/env go run $0 $@; exit $?

//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.astrophena.name/devserver/internal/devserver"
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ./build.go [flags]\n")
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

	if err := devserver.Build(context.Background(), &devserver.Config{}); err != nil {
		log.Fatal(err)
	}
}
