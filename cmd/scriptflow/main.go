// Package main provides the scriptflow command line tool for validating,
// exporting and simulating call scripts without a running server.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/voxline/scriptflow/pkg/log"
)

func main() {
	command := &cli.Command{
		Name:                  "scriptflow",
		Usage:                 "Work with call script documents",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewExportCommand(),
			NewAnalyzeCommand(),
			NewSimulateCommand(),
		},
	}

	log.Setup(os.Getenv("LOG_LEVEL"))

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
