package versestore

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/poiesic/saarthi/core"
)

// WriteCSV writes records with a header and an explicit source column, so
// the file does not depend on the filename heuristic when it is loaded back.
func WriteCSV(w io.Writer, records []core.VerseRecord) error {
	cw := csv.NewWriter(w)
	header := []string{ColumnChapter, ColumnVerse, ColumnSanskrit, ColumnTranslation, ColumnSource}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Chapter, r.Verse, r.Sanskrit, r.Translation, r.Source}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, creating parent directories as needed.
func WriteFile(path string, records []core.VerseRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
