package versestore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/saarthi/core"
)

// Column names recognized in source files. Headers are matched after
// trimming and lower-casing.
const (
	ColumnChapter     = "chapter"
	ColumnVerse       = "verse"
	ColumnSanskrit    = "sanskrit"
	ColumnTranslation = "translation"
	ColumnSource      = "source"
)

// RequiredColumns lists the columns every source file must carry.
var RequiredColumns = []string{ColumnChapter, ColumnVerse, ColumnSanskrit, ColumnTranslation}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileResult is the outcome of reading one source file.
type FileResult struct {
	Path        string
	Records     []core.VerseRecord
	Origin      Origin
	InvalidRows int
}

// ReadFile reads verse records from a CSV file. Any failure that makes the
// file unusable is returned as a *core.IngestError; rows that fail
// validation are skipped and counted in InvalidRows.
func ReadFile(path string, tagger *Tagger) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewIngestError(path, reasonUnreadable, err)
	}
	return readCSV(path, data, tagger)
}

func readCSV(path string, data []byte, tagger *Tagger) (*FileResult, error) {
	if tagger == nil {
		return nil, ErrTaggerRequired
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, core.NewIngestError(path, reasonEncoding, nil)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.NewIngestError(path, reasonEmpty, nil)
	}
	if err != nil {
		return nil, core.NewIngestError(path, reasonMalformed, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewIngestError(path, reasonMissingColumns+": "+strings.Join(missing, ", "), nil)
	}

	fileSource, origin := tagger.FileSource(path)
	sourceCol, hasSourceCol := columns[ColumnSource]
	if hasSourceCol {
		origin = OriginColumn
	}

	result := &FileResult{Path: path, Origin: origin}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.NewIngestError(path, reasonMalformed, err)
		}

		field := func(name string) string {
			i := columns[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		source := fileSource
		if hasSourceCol && sourceCol < len(row) {
			source = tagger.RowSource(row[sourceCol], fileSource)
		}

		record := core.VerseRecord{
			Source:      source,
			Chapter:     field(ColumnChapter),
			Verse:       field(ColumnVerse),
			Sanskrit:    field(ColumnSanskrit),
			Translation: field(ColumnTranslation),
		}
		if err := core.ValidateVerse(&record); err != nil {
			result.InvalidRows++
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}
