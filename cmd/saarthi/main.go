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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/ai/openai"
	"github.com/poiesic/saarthi/ingestion"
	"github.com/poiesic/saarthi/scraper"
	"github.com/urfave/cli/v2"
)

// providerFactory builds the AI provider for commands that open the engine.
var providerFactory = openai.NewProvider

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "saarthi",
		Usage: "Hybrid scripture retrieval: exact verse lookup and semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "data/saarthi.db",
				EnvVars: []string{"SAARTHI_DB"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   ai.DefaultConfig().EmbeddingHost,
				EnvVars: []string{"EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   ai.DefaultConfig().EmbeddingModel,
				EnvVars: []string{"EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "llm-host",
				Usage:   "Chat completion service host URL",
				Value:   ai.DefaultConfig().ChatHost,
				EnvVars: []string{"LLM_HOST"},
			},
			&cli.StringFlag{
				Name:    "llm-model",
				Usage:   "Chat model name",
				Value:   ai.DefaultConfig().ChatModel,
				EnvVars: []string{"LLM_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the chat service; answer generation is disabled without one",
				EnvVars: []string{"GROQ_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "sources",
				Usage:   "TOML file mapping source files to scripture names",
				EnvVars: []string{"SAARTHI_SOURCES"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "rebuild",
				Usage:  "Rebuild the verse index from the source directory",
				Action: rebuildCommand,
				Flags: []cli.Flag{
					dataDirFlag(),
					&cli.BoolFlag{
						Name:  "if-changed",
						Usage: "Skip embedding when sources and model are unchanged",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of verses to embed in each request",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a failing embedding request",
						Value: 3,
					},
					jsonFlag(),
				},
			},
			{
				Name:      "query",
				Usage:     "Retrieve the verses that answer a question",
				ArgsUsage: "TEXT",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "n",
						Aliases: []string{"k"},
						Usage:   "Number of semantic results",
						Value:   3,
					},
					jsonFlag(),
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask Saarthi a question",
				ArgsUsage: "TEXT",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Answer style (beginner, scholar)",
						Value: string(ai.ModeBeginner),
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Language of the answer",
					},
					&cli.IntFlag{
						Name:  "n",
						Usage: "Number of semantic results given to the model",
						Value: 3,
					},
					jsonFlag(),
				},
			},
			{
				Name:      "verse",
				Usage:     "Show one verse",
				ArgsUsage: "CHAPTER VERSE",
				Action:    verseCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Scripture name (default: first match in any scripture)",
					},
					jsonFlag(),
				},
			},
			{
				Name:   "random",
				Usage:  "Show a random verse",
				Action: randomCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "daily",
						Usage: "Show the verse of the day instead",
					},
					jsonFlag(),
				},
			},
			{
				Name:   "watch",
				Usage:  "Rebuild the index whenever source files change",
				Action: watchCommand,
				Flags: []cli.Flag{
					dataDirFlag(),
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before rebuilding",
						Value: ingestion.DefaultDebounce,
					},
				},
			},
			{
				Name:   "scrape",
				Usage:  "Download the Bhagavad Gita into a source file",
				Action: scrapeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output CSV file",
						Value: "data/gita_verses.csv",
					},
					&cli.IntSliceFlag{
						Name:  "chapters",
						Usage: "Chapters to fetch (default: all 18)",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "Verse API root",
						Value: scraper.DefaultBaseURL,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: scraper.DefaultRequestsPerSecond,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-request timeout",
						Value: scraper.DefaultTimeout,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Write the built-in Upanishad, Brahma Sutra and Yoga Sutra sources",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Usage:   "Directory to write the source files to",
						Value:   "data",
						EnvVars: []string{"DATA_DIR"},
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed the indexed verses with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of verses to embed in each request",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a failing embedding request",
						Value: 3,
					},
					jsonFlag(),
				},
			},
			{
				Name:   "status",
				Usage:  "Show the loaded corpus and index",
				Action: statusCommand,
				Flags: []cli.Flag{
					jsonFlag(),
				},
			},
		},
	}
}

func dataDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory of verse source files",
		Value:   "data",
		EnvVars: []string{"DATA_DIR"},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print JSON",
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
