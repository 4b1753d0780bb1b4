// Package main provides the entry point for the Gallery application.
package main

import (
	"context"
	"os"

	"gallery/internal/cli"
	"gallery/internal/version"

	"github.com/charmbracelet/fang"
)

func main() {
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
