package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/voxline/scriptflow/pkg/graph"
	"github.com/voxline/scriptflow/pkg/script"
)

func NewAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Show graph metrics for a script",
		ArgsUsage: "<file>",
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

			start := parsed.ResolveStartingState()
			reachable := graph.ReachableStates(parsed, start)
			longest := graph.LongestPath(parsed, start)

			fmt.Printf("Script: %s v%s\n", parsed.Name, parsed.Version)
			fmt.Printf("States: %d (%d reachable)\n", len(parsed.States), len(reachable))
			fmt.Printf("Edges: %d\n", len(parsed.Edges))
			fmt.Printf("Starting state: %s\n", start)
			fmt.Printf("Terminal states: %s\n", joinOrNone(graph.TerminalStates(parsed)))
			fmt.Printf("Decision states: %s\n", joinOrNone(graph.DecisionStates(parsed)))
			fmt.Printf("Longest path: %s\n", strings.Join(longest, " -> "))

			return nil
		},
	}
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}

	return strings.Join(names, ", ")
}
