package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/voxline/scriptflow/pkg/conditions"
	"github.com/voxline/scriptflow/pkg/extraction"
	"github.com/voxline/scriptflow/pkg/flow"
	"github.com/voxline/scriptflow/pkg/genai"
	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/script"
)

func NewSimulateCommand() *cli.Command {
	return &cli.Command{
		Name:      "simulate",
		Aliases:   []string{"s"},
		Usage:     "Run a script interactively on stdin",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "OpenAI API key, omit for canned replies",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "OpenAI model used for response generation",
				Sources: cli.EnvVars("OPENAI_MODEL"),
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

			registry := script.NewRegistry()
			registry.Install(parsed)

			logger := log.WithModule("simulate")

			var generator genai.Generator
			if apiKey := command.String("openai-api-key"); apiKey != "" {
				generator = genai.NewOpenAIGenerator(apiKey, command.String("openai-model"))
			} else {
				generator = &genai.StaticGenerator{Reply: "(simulated reply)"}
			}

			manager := flow.NewManager(flow.ManagerConfig{
				Registry: registry,
				Executor: flow.NewExecutor(
					flow.NewResolver(conditions.NewEvaluator(logger), logger),
					extraction.NewKeywordExtractor(),
					generator,
					logger,
				),
				Logger: logger,
			})

			return runSimulation(ctx, manager, parsed.Name)
		},
	}
}

func runSimulation(ctx context.Context, manager *flow.Manager, scriptName string) error {
	started, err := manager.StartFlow(ctx, scriptName)
	if err != nil {
		return err
	}

	fmt.Printf("Simulating %q from state %q. Empty line or Ctrl-D ends the session.\n", started.ScriptName, started.CurrentState)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		input := scanner.Text()
		if input == "" {
			break
		}

		result, err := manager.ProcessTurn(ctx, started.SessionID, input)
		if err != nil {
			return err
		}

		fmt.Printf("agent: %s\n", result.AgentOutput)

		if result.Transitioned {
			fmt.Printf("  [%s -> %s]\n", result.PreviousState, result.CurrentState)
		}

		if result.Terminal {
			fmt.Println("Session reached a terminal state.")

			return nil
		}
	}

	transcript, err := manager.EndFlow(ctx, started.SessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Session ended after %d turns in state %q.\n", len(transcript.Turns), transcript.FinalState)

	return scanner.Err()
}
