// Copyright 2025 Divine Vision Authors
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	divinevision "github.com/sushilduseja/divine-vision"
	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/indexer"
	"github.com/sushilduseja/divine-vision/rag"
	"github.com/sushilduseja/divine-vision/search"
	"github.com/sushilduseja/divine-vision/server"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "divinevision",
		Usage: "Hybrid retrieval and grounded answering over scripture verses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "corpus",
				Aliases: []string{"c"},
				Usage:   "Path to the verse corpus JSON file",
				EnvVars: []string{"DV_CORPUS"},
				Value:   "data/verses.json",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the embedding database directory",
				EnvVars: []string{"DV_DB"},
				Value:   "data/embeddings",
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "OpenAI-compatible service host URL",
				EnvVars: []string{"DV_AI_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"DV_EMBEDDING_MODEL"},
				Value:   "embeddinggemma",
			},
			&cli.StringFlag{
				Name:    "generation-model",
				Usage:   "Generation model name for re-ranking and answers",
				EnvVars: []string{"DV_GENERATION_MODEL"},
				Value:   "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for hosted providers",
				EnvVars: []string{"DV_API_KEY"},
			},
			&cli.BoolFlag{
				Name:  "no-ai",
				Usage: "Disable AI services; search runs on lexical and concept signals only",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						EnvVars: []string{"DV_ADDR"},
						Value:   ":8080",
					},
					&cli.StringSliceFlag{
						Name:  "cors-origin",
						Usage: "Allowed CORS origin (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "Disable LLM re-ranking of search results",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Precompute verse embeddings into the database",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of verses to embed per provider call",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one hybrid search and print the results as JSON",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source collection filter",
						Value: core.SourceAll,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: core.DefaultLimit,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question and print the grounded answer",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Answer register (conversational, scholarly, beginner)",
						Value: string(rag.ModeConversational),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*divinevision.Engine, error) {
	opts := []divinevision.EngineOption{
		divinevision.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("ai-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithGenerationModel(c.String("generation-model")),
			ai.WithAPIKey(c.String("api-key")),
		)),
	}
	if c.Bool("no-ai") {
		opts = append(opts, divinevision.WithoutAI())
	}
	return divinevision.NewEngine(c.String("corpus"), c.String("db"), opts...)
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	var searchOpts []search.Option
	if c.Bool("no-rerank") {
		searchOpts = append(searchOpts, search.WithReranker(nil))
	}
	searcher, err := engine.NewSearcher(searchOpts...)
	if err != nil {
		return err
	}

	var answerer *rag.Answerer
	if engine.Provider() != nil {
		answerer, err = engine.NewAnswerer(searcher)
		if err != nil {
			return err
		}
	}

	srv := server.NewServer(server.Config{
		Addr:        c.String("addr"),
		CORSOrigins: c.StringSlice("cors-origin"),
	}, engine.Store(), searcher, answerer)

	go func() {
		if err := srv.Start(); err != nil {
			slog.Info("server stopped", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func indexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	var opts []indexer.Option
	if c.Int("pool-size") > 0 {
		opts = append(opts, indexer.WithPoolSize(c.Int("pool-size")))
	}
	opts = append(opts, indexer.WithBatchSize(c.Int("batch-size")))

	ix, err := engine.NewIndexer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer ix.Release()

	stats, err := ix.Index(c.Context, engine.Store().Verses(core.SourceAll))
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed: %d  Skipped: %d  Failed: %d\n",
		stats.Indexed, stats.Skipped, stats.Failed)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(c.Context, core.SearchConfig{
		Query:  query,
		Source: c.String("source"),
		Limit:  c.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question argument is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	answerer, err := engine.NewAnswerer(searcher)
	if err != nil {
		return fmt.Errorf("answering requires a generation backend: %w", err)
	}

	answer, err := answerer.Ask(c.Context, question, rag.Mode(c.String("mode")))
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	fmt.Println(answer.Response)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range answer.Sources {
			fmt.Printf("  - %s\n", rag.FormatVerseReference(src.Verse))
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
