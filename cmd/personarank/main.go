// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "personarank",
		Usage: "Rank document sections by relevance to a persona and task",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"PERSONARANK_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log output format (pretty, text)",
				Value: "pretty",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "rank",
				Usage:     "Extract, score and rank the sections of one or more documents",
				ArgsUsage: "DOCUMENT...",
				Action:    rankCommand,
				Flags: concat(
					[]cli.Flag{
						&cli.StringFlag{
							Name:     "persona",
							Aliases:  []string{"p"},
							Usage:    "Persona role, e.g. \"Travel Planner\"",
							Required: true,
						},
						&cli.StringFlag{
							Name:    "task",
							Aliases: []string{"t"},
							Usage:   "The job the persona needs to get done",
						},
					},
					formatFlag("yaml", "text"),
					outputFlag(),
					embeddingFlags(),
					pipelineFlags(),
					rankingFlags(),
				),
			},
			{
				Name:      "extract",
				Usage:     "Print the sections extracted from documents",
				ArgsUsage: "DOCUMENT...",
				Action:    extractCommand,
				Flags: concat(
					formatFlag("text", "yaml"),
					ocrFlags(),
					[]cli.Flag{poolSizeFlag()},
				),
			},
			{
				Name:   "personas",
				Usage:  "List the built-in personas",
				Action: personasCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "role",
						Usage: "Show the keywords of one persona",
					},
				},
			},
			{
				Name:      "warm",
				Usage:     "Pre-compute section embeddings into the on-disk cache",
				ArgsUsage: "DOCUMENT...",
				Action:    warmCommand,
				Flags: concat(
					embeddingFlags(),
					pipelineFlags(),
					[]cli.Flag{
						&cli.IntFlag{
							Name:        "report-interval",
							Usage:       "Report progress every N texts",
							DefaultText: "100",
						},
						&cli.IntFlag{
							Name:        "max-retries",
							Usage:       "Maximum attempts per batch",
							DefaultText: "3",
						},
						&cli.DurationFlag{
							Name:        "retry-delay",
							Usage:       "Base delay for exponential backoff",
							DefaultText: "1s",
						},
					},
				),
			},
			{
				Name:      "evaluate",
				Usage:     "Compare a ranking with hand-labelled ground truth",
				ArgsUsage: "DOCUMENT...",
				Action:    evaluateCommand,
				Flags: concat(
					[]cli.Flag{
						&cli.StringFlag{
							Name:    "ground-truth",
							Aliases: []string{"g"},
							Usage:   "Ground truth file (JSON or YAML)",
						},
						&cli.BoolFlag{
							Name:  "template",
							Usage: "Write a ground truth template from the current ranking instead",
						},
						&cli.StringFlag{
							Name:    "persona",
							Aliases: []string{"p"},
							Usage:   "Persona role (defaults to the ground truth metadata)",
						},
						&cli.StringFlag{
							Name:    "task",
							Aliases: []string{"t"},
							Usage:   "Task (defaults to the ground truth metadata)",
						},
						&cli.Float64Flag{
							Name:  "threshold",
							Usage: "Score at or above which a section counts as relevant",
							Value: 0.5,
						},
						&cli.IntFlag{
							Name:  "top",
							Usage: "Show only the N largest differences",
						},
					},
					formatFlag("text", "yaml"),
					outputFlag(),
					embeddingFlags(),
					pipelineFlags(),
					rankingFlags(),
				),
			},
		},
	}
}

// setup loads the env file and installs the logger.
func setup(c *cli.Context) error {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", c.String("env-file"), err)
	}

	if c.Bool("no-color") {
		color.NoColor = true
	}

	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	handler, err := newLogHandler(c.App.ErrWriter, c.String("log-format"), level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
