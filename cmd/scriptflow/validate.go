package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/voxline/scriptflow/pkg/script"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate script documents",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "advisory",
				Usage: "Report structural problems as warnings instead of rejecting",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			files := command.Args().Slice()
			if len(files) == 0 {
				return errors.New("no script files given")
			}

			loader, err := script.NewLoader()
			if err != nil {
				return err
			}

			failed := 0

			for _, path := range files {
				if err := validateFile(loader, path, command.Bool("advisory")); err != nil {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed validation", failed, len(files))
			}

			return nil
		},
	}
}

func validateFile(loader *script.Loader, path string, advisory bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("✗ %s: %v\n", path, err)

		return err
	}

	if advisory {
		result, err := loader.Lint(data)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", path, err)

			return err
		}

		printResult(path, result.Valid, result.Errors, result.Warnings)

		if !result.Valid {
			return errors.New("invalid script")
		}

		return nil
	}

	parsed, result, err := loader.Load(data)
	if err != nil {
		var loadErr *script.LoadError
		if errors.As(err, &loadErr) && len(loadErr.Diagnostics) > 0 {
			warnings := []string{}
			if result != nil {
				warnings = result.Warnings
			}

			printResult(path, false, loadErr.Diagnostics, warnings)
		} else {
			fmt.Printf("✗ %s: %v\n", path, err)
		}

		return err
	}

	printResult(path, true, nil, result.Warnings)
	fmt.Printf("  %s v%s: %d states, %d edges\n", parsed.Name, parsed.Version, len(parsed.States), len(parsed.Edges))

	return nil
}

func printResult(path string, valid bool, errs, warnings []string) {
	if valid {
		fmt.Printf("✓ %s\n", path)
	} else {
		fmt.Printf("✗ %s\n", path)
	}

	for _, msg := range errs {
		fmt.Printf("  error: %s\n", msg)
	}

	for _, msg := range warnings {
		fmt.Printf("  warning: %s\n", msg)
	}
}
