package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/poiesic/saarthi"
	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/ingestion"
	"github.com/poiesic/saarthi/retrieval"
	"github.com/poiesic/saarthi/scraper"
	"github.com/poiesic/saarthi/seed"
	"github.com/poiesic/saarthi/versestore"
	"github.com/urfave/cli/v2"
)

// openEngine opens the engine database named by the global flags.
func openEngine(c *cli.Context, opts ...saarthi.EngineOption) (*saarthi.Engine, error) {
	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("llm-host")),
		ai.WithChatModel(c.String("llm-model")),
		ai.WithChatToken(c.String("api-key")),
	)
	provider, err := providerFactory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	opts = append([]saarthi.EngineOption{
		saarthi.WithAIConfig(config),
		saarthi.WithProvider(provider),
		saarthi.WithLogger(slog.Default()),
	}, opts...)

	if path := c.String("sources"); path != "" {
		sourceConfig, err := ingestion.LoadSourceConfig(path)
		if err != nil {
			provider.Close()
			return nil, fmt.Errorf("failed to load source config: %w", err)
		}
		opts = append(opts, saarthi.WithSourceConfig(sourceConfig))
	}

	engine, err := saarthi.Open(c.Context, c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func rebuildCommand(c *cli.Context) error {
	engine, err := openEngine(c,
		saarthi.WithBatchSize(c.Int("batch-size")),
		saarthi.WithMaxAttempts(c.Int("max-retries")),
		saarthi.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer engine.Close()

	dir := c.String("data-dir")
	var stats *core.IndexStats
	if c.Bool("if-changed") {
		stats, err = engine.RebuildIfChanged(c.Context, dir)
	} else {
		stats, err = engine.Rebuild(c.Context, dir)
	}
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, newStatsView(stats))
	}
	printStats(c.App.Writer, stats)
	return nil
}

func reembedCommand(c *cli.Context) error {
	engine, err := openEngine(c,
		saarthi.WithBatchSize(c.Int("batch-size")),
		saarthi.WithMaxAttempts(c.Int("max-retries")),
		saarthi.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Reembed(c.Context)
	if err != nil {
		return fmt.Errorf("reembed failed: %w", err)
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, newStatsView(stats))
	}
	printStats(c.App.Writer, stats)
	return nil
}

func queryCommand(c *cli.Context) error {
	text := c.Args().First()
	if text == "" {
		return errors.New("query text is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result := engine.Retrieve(c.Context, retrieval.Query{Text: text, N: c.Int("n")})
	if result.Err != nil {
		slog.Warn("retrieval returned no context", "err", result.Err)
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	printResult(c.App.Writer, result)
	return nil
}

func askCommand(c *cli.Context) error {
	text := c.Args().First()
	if text == "" {
		return errors.New("question is required")
	}
	mode, err := ai.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	answer, err := engine.Ask(c.Context, saarthi.AskRequest{
		Query:    text,
		N:        c.Int("n"),
		Mode:     mode,
		Language: c.String("language"),
	})
	if errors.Is(err, saarthi.ErrGenerationDisabled) {
		return fmt.Errorf("%w: set --api-key or GROQ_API_KEY", err)
	}
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, answer)
	}
	fmt.Fprintln(c.App.Writer, answer.Text+saarthi.FormatReferences(answer.Citations))
	return nil
}

func verseCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("chapter and verse are required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	record, ok := engine.Lookup(c.String("source"), c.Args().Get(0), c.Args().Get(1))
	if !ok {
		return fmt.Errorf("%w: %s.%s", saarthi.ErrVerseNotFound, c.Args().Get(0), c.Args().Get(1))
	}
	return printVerse(c, record)
}

func randomCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var (
		record core.VerseRecord
		ok     bool
	)
	if c.Bool("daily") {
		record, ok = engine.DailyVerse(time.Now())
	} else {
		record, ok = engine.RandomVerse()
	}
	if !ok {
		return errors.New("no verses loaded; run rebuild first")
	}
	return printVerse(c, record)
}

func watchCommand(c *cli.Context) error {
	engine, err := openEngine(c, saarthi.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer engine.Close()

	dir := c.String("data-dir")
	if _, err := engine.RebuildIfChanged(c.Context, dir); err != nil {
		slog.Error("initial rebuild failed", "err", err)
	}

	watcher, err := engine.NewWatcher(dir,
		ingestion.WithDebounce(c.Duration("debounce")),
		ingestion.WithWatcherLogger(slog.Default()),
		ingestion.WithRebuildFunc(func(stats *core.IndexStats, err error) {
			if err != nil {
				return
			}
			printStats(c.App.Writer, stats)
		}))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	slog.Info("watching for source changes", "dir", dir)
	return watcher.Run(ctx)
}

func scrapeCommand(c *cli.Context) error {
	client, err := scraper.NewClient(
		scraper.WithBaseURL(c.String("base-url")),
		scraper.WithHTTPClient(&http.Client{Timeout: c.Duration("timeout")}),
		scraper.WithRateLimit(c.Float64("rate"), 1),
		scraper.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	records, err := client.FetchAll(c.Context, c.IntSlice("chapters"))
	if err != nil && len(records) == 0 {
		return fmt.Errorf("scrape failed: %w", err)
	}
	if err != nil {
		slog.Warn("scrape stopped early; saving fetched verses", "err", err, "verses", len(records))
	}

	out := c.String("out")
	if err := versestore.WriteFile(out, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "Saved %d verses to %s\n", len(records), out)
	return nil
}

func seedCommand(c *cli.Context) error {
	paths, err := seed.Write(c.String("out"))
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	status := engine.Status()
	if c.Bool("json") {
		return writeJSON(c.App.Writer, status)
	}
	printStatus(c.App.Writer, status)
	return nil
}

func printVerse(c *cli.Context, record core.VerseRecord) error {
	if c.Bool("json") {
		return writeJSON(c.App.Writer, record)
	}
	fmt.Fprintf(c.App.Writer, "%s\n%s\n\n%s\n", record.Citation(), record.Sanskrit, record.Translation)
	return nil
}

func formatScore(score float32) string {
	return strconv.FormatFloat(float64(score), 'f', 3, 32)
}
