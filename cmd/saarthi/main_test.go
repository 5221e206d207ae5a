package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/poiesic/saarthi"
	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/ai/mock"
	"github.com/poiesic/saarthi/retrieval"
	"github.com/poiesic/saarthi/seed"
	"github.com/poiesic/saarthi/versestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runApp runs the CLI and returns what it printed to stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"saarthi"}, args...))
	return out.String(), err
}

// useMockProvider makes every command use the deterministic mock provider.
func useMockProvider(t *testing.T) {
	t.Helper()
	previous := providerFactory
	providerFactory = func(*ai.Config) (ai.AIProvider, error) {
		return mock.NewMockProvider(), nil
	}
	t.Cleanup(func() { providerFactory = previous })
}

func findStringFlag(flags []cli.Flag, name string) *cli.StringFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestGlobalFlags(t *testing.T) {
	app := newApp()
	defaults := ai.DefaultConfig()

	tests := []struct {
		name  string
		value string
		env   string
	}{
		{"log-level", "info", ""},
		{"db", "data/saarthi.db", "SAARTHI_DB"},
		{"embedding-host", defaults.EmbeddingHost, "EMBEDDING_HOST"},
		{"embedding-model", defaults.EmbeddingModel, "EMBEDDING_MODEL"},
		{"llm-host", defaults.ChatHost, "LLM_HOST"},
		{"llm-model", defaults.ChatModel, "LLM_MODEL"},
		{"api-key", "", "GROQ_API_KEY"},
		{"sources", "", "SAARTHI_SOURCES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := findStringFlag(app.Flags, tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.value, flag.Value)
			if tt.env != "" {
				assert.Contains(t, flag.EnvVars, tt.env)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	app := newApp()
	for _, name := range []string{"rebuild", "query", "ask", "verse", "random", "watch", "scrape", "seed", "reembed", "status"} {
		assert.NotNil(t, app.Command(name), name)
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "verbose", "seed", "--out", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "DEBUG", "seed", "--out", t.TempDir())
		require.NoError(t, err)
	})
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, "seed", "--out", dir)
	require.NoError(t, err)

	for _, corpus := range seed.Corpora() {
		assert.FileExists(t, filepath.Join(dir, corpus.Filename))
		assert.Contains(t, out, corpus.Filename)
	}
}

func TestScrapeCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var chapter, verse int
		if _, err := fmt.Sscanf(r.URL.Path, "/slok/%d/%d/", &chapter, &verse); err != nil || chapter != 1 || verse > 2 {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"slok":"श्लोक %d.%d","siva":{"et":"Translation %d.%d"}}`, chapter, verse, chapter, verse)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "gita.csv")
	stdout, err := runApp(t, "scrape", "--out", out, "--chapters", "1", "--base-url", srv.URL, "--rate", "1000")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved 2 verses")

	tagger, err := versestore.NewTagger(nil)
	require.NoError(t, err)
	result, err := versestore.ReadFile(out, tagger)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Bhagavad Gita", result.Records[0].Source)
	assert.Equal(t, "Translation 1.2", result.Records[1].Translation)
}

func TestEngineCommands(t *testing.T) {
	useMockProvider(t)
	dataDir := t.TempDir()
	db := filepath.Join(t.TempDir(), "saarthi.db")
	_, err := runApp(t, "seed", "--out", dataDir)
	require.NoError(t, err)

	t.Run("query before rebuild", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "query", "what is yoga")
		require.NoError(t, err)
		assert.Contains(t, out, "No matching verses")
	})

	t.Run("rebuild", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "rebuild", "--data-dir", dataDir)
		require.NoError(t, err)
		assert.Contains(t, out, "Indexed 21 verses from 3 files")
	})

	t.Run("rebuild if changed", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "rebuild", "--data-dir", dataDir, "--if-changed", "--json")
		require.NoError(t, err)
		var view statsView
		require.NoError(t, sonic.UnmarshalString(out, &view))
		assert.True(t, view.Unchanged)
		assert.Equal(t, 21, view.TotalRecords)
	})

	t.Run("query", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "query", "--json", "what is yoga")
		require.NoError(t, err)
		var result retrieval.Result
		require.NoError(t, sonic.UnmarshalString(out, &result))
		assert.False(t, result.Exact)
		assert.Len(t, result.Citations, 3)
	})

	t.Run("verse", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "verse", "--source", "Upanishads", "Chandogya", "6.8.7")
		require.NoError(t, err)
		assert.Contains(t, out, "You are That")
	})

	t.Run("verse not found", func(t *testing.T) {
		_, err := runApp(t, "--db", db, "verse", "99", "99")
		require.Error(t, err)
		assert.ErrorIs(t, err, saarthi.ErrVerseNotFound)
	})

	t.Run("random", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "random", "--daily")
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(out))
	})

	t.Run("ask", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "ask", "--mode", "scholar", "what is yoga")
		require.NoError(t, err)
		assert.Contains(t, out, "echo: ")
		assert.Contains(t, out, "Shastra Pramana (References)")
	})

	t.Run("ask with unknown mode", func(t *testing.T) {
		_, err := runApp(t, "--db", db, "ask", "--mode", "poet", "what is yoga")
		assert.ErrorIs(t, err, ai.ErrUnknownMode)
	})

	t.Run("status", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "status", "--json")
		require.NoError(t, err)
		var status saarthi.Status
		require.NoError(t, sonic.UnmarshalString(out, &status))
		assert.Equal(t, 21, status.Records)
		assert.True(t, status.IndexReady)
		assert.Equal(t, mock.DefaultModel, status.IndexModel)
		assert.False(t, status.ModelMismatch)
	})

	t.Run("reembed", func(t *testing.T) {
		out, err := runApp(t, "--db", db, "reembed")
		require.NoError(t, err)
		assert.Contains(t, out, "Indexed 21 verses")
	})
}

func TestQueryRequiresText(t *testing.T) {
	useMockProvider(t)
	_, err := runApp(t, "--db", filepath.Join(t.TempDir(), "db"), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query text is required")
}

func TestSourcesFlag(t *testing.T) {
	useMockProvider(t)
	dir := t.TempDir()
	config := filepath.Join(dir, "sources.toml")
	require.NoError(t, os.WriteFile(config, []byte("[sources]\n\"[\" = \"Broken\"\n"), 0644))

	_, err := runApp(t, "--db", filepath.Join(dir, "db"), "--sources", config, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source config")
}
