package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/bytedance/sonic"
	"github.com/poiesic/saarthi"
	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/retrieval"
)

// writeJSON prints v as indented JSON with sorted map keys.
func writeJSON(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type skippedView struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type statsView struct {
	TotalRecords     int            `json:"total_records"`
	RecordsPerSource map[string]int `json:"records_per_source"`
	FilesIndexed     int            `json:"files_indexed"`
	Skipped          []skippedView  `json:"skipped"`
	Duplicates       int            `json:"duplicates"`
	Model            string         `json:"model"`
	BuildID          string         `json:"build_id"`
	Unchanged        bool           `json:"unchanged"`
}

func newStatsView(stats *core.IndexStats) statsView {
	view := statsView{
		TotalRecords:     stats.TotalRecords,
		RecordsPerSource: stats.RecordsPerSource,
		FilesIndexed:     stats.FilesIndexed,
		Skipped:          []skippedView{},
		Duplicates:       stats.Duplicates,
		Model:            stats.Model,
		BuildID:          stats.BuildID,
		Unchanged:        stats.Unchanged,
	}
	for _, s := range stats.Skipped {
		view.Skipped = append(view.Skipped, skippedView{Path: s.Path, Reason: s.Reason})
	}
	return view
}

func printStats(w io.Writer, stats *core.IndexStats) {
	if stats.Unchanged {
		fmt.Fprintf(w, "Index up to date: %d verses (%s)\n", stats.TotalRecords, stats.Model)
		return
	}
	fmt.Fprintf(w, "Indexed %d verses from %d files with %s\n", stats.TotalRecords, stats.FilesIndexed, stats.Model)
	for _, source := range slices.Sorted(maps.Keys(stats.RecordsPerSource)) {
		fmt.Fprintf(w, "  %-16s %d\n", source, stats.RecordsPerSource[source])
	}
	if stats.Duplicates > 0 {
		fmt.Fprintf(w, "Ignored %d duplicate verses\n", stats.Duplicates)
	}
	for _, s := range stats.Skipped {
		fmt.Fprintf(w, "Skipped %s: %s\n", s.Path, s.Reason)
	}
	if stats.BuildID != "" {
		fmt.Fprintf(w, "Build %s\n", stats.BuildID)
	}
}

func printResult(w io.Writer, result *retrieval.Result) {
	if result.Empty() {
		fmt.Fprintln(w, "No matching verses")
		return
	}
	if result.Exact {
		fmt.Fprintln(w, result.ContextText)
		return
	}
	for i, hit := range result.Hits {
		fmt.Fprintf(w, "%d. %s (%s)\n   %s\n", i+1, hit.Record.Citation(), formatScore(hit.Score), hit.Record.Translation)
	}
}

func printStatus(w io.Writer, s saarthi.Status) {
	fmt.Fprintf(w, "Verses:     %d\n", s.Records)
	for _, source := range slices.Sorted(maps.Keys(s.RecordsPerSource)) {
		fmt.Fprintf(w, "  %-16s %d\n", source, s.RecordsPerSource[source])
	}
	fmt.Fprintf(w, "Embedder:   %s\n", s.EmbedderModel)
	if !s.IndexReady {
		fmt.Fprintln(w, "Index:      not built")
	} else {
		fmt.Fprintf(w, "Index:      %d verses, %d dimensions, model %s\n", s.IndexedRecords, s.Dimensions, s.IndexModel)
		fmt.Fprintf(w, "Build:      %s (generation %d, %s)\n", s.BuildID, s.Generation, s.BuiltAt.Format(time.RFC3339))
		if s.ModelMismatch {
			fmt.Fprintln(w, "Warning:    embedding model changed; run reembed")
		}
	}
	if s.GenerationEnabled {
		fmt.Fprintln(w, "Answers:    enabled")
	} else {
		fmt.Fprintln(w, "Answers:    disabled (no API key)")
	}
}
