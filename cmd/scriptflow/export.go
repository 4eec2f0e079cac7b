package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/voxline/scriptflow/pkg/export"
	"github.com/voxline/scriptflow/pkg/script"
)

func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Aliases:   []string{"e"},
		Usage:     "Export a script as a flow diagram",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (mermaid, dot, html)",
				Value:   "mermaid",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return errors.New("no script file given")
			}

			loader, err := script.NewLoader()
			if err != nil {
				return err
			}

			parsed, _, err := loader.LoadFile(path)
			if err != nil {
				return err
			}

			var rendered string

			switch command.String("format") {
			case "mermaid":
				rendered = export.Mermaid(parsed)
			case "dot":
				rendered = export.DOT(parsed)
			case "html":
				rendered, err = export.HTML(parsed)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export format: %s", command.String("format"))
			}

			if output := command.String("output"); output != "" {
				return os.WriteFile(output, []byte(rendered), 0o644)
			}

			fmt.Println(rendered)

			return nil
		},
	}
}
